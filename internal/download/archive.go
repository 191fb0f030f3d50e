package download

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// BundleZip packs the named files into a zip archive at zipPath. The archive
// is staged in a temporary file next to the target and renamed into place
// only on success, so a failed run never leaves a truncated archive behind.
// Entries are stored flat under their base names.
func BundleZip(zipPath string, files []string) error {
	if len(files) == 0 {
		return fmt.Errorf("no files to bundle")
	}

	tmp, err := os.CreateTemp(filepath.Dir(zipPath), ".bundle-*.zip")
	if err != nil {
		return fmt.Errorf("failed to create staging file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	zw := zip.NewWriter(tmp)
	for _, file := range files {
		if err := addZipEntry(zw, file); err != nil {
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close staging file: %w", err)
	}

	if err := os.Rename(tmpName, zipPath); err != nil {
		return fmt.Errorf("failed to move archive into place: %w", err)
	}
	return nil
}

func addZipEntry(zw *zip.Writer, file string) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("failed to open %s for bundling: %w", file, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", file, err)
	}

	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("failed to build archive header for %s: %w", file, err)
	}
	hdr.Name = filepath.Base(file)
	hdr.Method = zip.Deflate

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("failed to add %s to archive: %w", file, err)
	}
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to write %s to archive: %w", file, err)
	}
	return nil
}
