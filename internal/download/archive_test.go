package download

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundleZip(t *testing.T) {
	dir := t.TempDir()
	want := map[string]string{
		"report.pdf": "pdf bytes",
		"photo.jpg":  "jpg bytes",
	}

	var files []string
	for name, body := range want {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
		files = append(files, path)
	}

	zipPath := filepath.Join(dir, "attachments.zip")
	require.NoError(t, BundleZip(zipPath, files))

	zr, err := zip.OpenReader(zipPath)
	require.NoError(t, err)
	defer zr.Close()

	require.Len(t, zr.File, len(want))
	for _, f := range zr.File {
		body, ok := want[f.Name]
		require.True(t, ok, "unexpected archive entry %s", f.Name)

		rc, err := f.Open()
		require.NoError(t, err)
		got, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		assert.Equal(t, body, string(got))
	}
}

func TestBundleZipEmptyInput(t *testing.T) {
	err := BundleZip(filepath.Join(t.TempDir(), "out.zip"), nil)
	assert.Error(t, err)
}

func TestBundleZipMissingFileLeavesNoArchive(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "out.zip")

	err := BundleZip(zipPath, []string{filepath.Join(dir, "does-not-exist.txt")})
	require.Error(t, err)

	_, err = os.Stat(zipPath)
	assert.True(t, os.IsNotExist(err), "failed bundling must not leave a partial archive")
}
