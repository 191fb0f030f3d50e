package download

import (
	"fmt"
	"os"
	"path/filepath"
)

// CreateUniqueFile opens a new file for filename under dir, appending
// " (n)" before the extension until an unused name is found. Existing files
// are never overwritten.
func CreateUniqueFile(dir, filename string) (*os.File, string, error) {
	ext := filepath.Ext(filename)
	base := filename[:len(filename)-len(ext)]

	for n := 0; n < 1000; n++ {
		name := filename
		if n > 0 {
			name = fmt.Sprintf("%s (%d)%s", base, n, ext)
		}
		path := filepath.Join(dir, name)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, path, nil
		}
		if !os.IsExist(err) {
			return nil, "", fmt.Errorf("failed to create %s: %w", path, err)
		}
	}
	return nil, "", fmt.Errorf("could not find a free name for %s", filename)
}
