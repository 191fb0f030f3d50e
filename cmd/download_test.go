package cmd

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/mlazzje/dlgmail/internal/batch"
)

func TestURLHandleTitle(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{
			name: "plain file path",
			url:  "https://example.com/files/report.pdf",
			want: "report.pdf",
		},
		{
			name: "query string ignored",
			url:  "https://example.com/files/photo.jpg?dl=1",
			want: "photo.jpg",
		},
		{
			name:    "no path",
			url:     "https://example.com/",
			wantErr: true,
		},
		{
			name:    "unparseable",
			url:     "https://example.com/%zz",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := urlHandle{raw: tt.url}.Title(t.Context())
			if (err != nil) != tt.wantErr {
				t.Fatalf("Title() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Title() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestURLHandleDownloadURL(t *testing.T) {
	h := urlHandle{raw: "https://example.com/a.bin"}

	u, err := h.DownloadURL(t.Context())
	if err != nil {
		t.Fatalf("DownloadURL() error: %v", err)
	}
	if u != h.raw {
		t.Errorf("DownloadURL() = %q, want %q", u, h.raw)
	}
	if sel := h.Element(); sel != nil {
		t.Error("Element() should be nil for URL handles")
	}
}

func TestFinishBatchBundlesArchive(t *testing.T) {
	dir := t.TempDir()
	saved := filepath.Join(dir, "report.pdf")
	if err := os.WriteFile(saved, []byte("pdf bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	br := &batch.BatchResult{
		Total:     1,
		Succeeded: 1,
		Results: []batch.Result{
			{Index: 0, Filename: "report.pdf", Status: batch.StatusSuccess, Detail: saved},
		},
	}

	if err := finishBatch(dir, "invoices", br); err != nil {
		t.Fatalf("finishBatch() error: %v", err)
	}

	zr, err := zip.OpenReader(filepath.Join(dir, "invoices.zip"))
	if err != nil {
		t.Fatalf("archive not created: %v", err)
	}
	defer zr.Close()

	if len(zr.File) != 1 || zr.File[0].Name != "report.pdf" {
		t.Errorf("unexpected archive contents: %+v", zr.File)
	}
}

func TestFinishBatchPartialFailure(t *testing.T) {
	br := &batch.BatchResult{
		Total:     2,
		Succeeded: 1,
		Failed:    1,
		Results: []batch.Result{
			{Index: 0, Filename: "a.pdf", Status: batch.StatusSuccess, Detail: "/tmp/a.pdf"},
			{Index: 1, Filename: "b.pdf", Status: batch.StatusError, Error: "no download URL found"},
		},
	}

	if err := finishBatch(t.TempDir(), "", br); err == nil {
		t.Error("expected an error for a batch with failures")
	}
}

func TestFinishBatchNothingToArchive(t *testing.T) {
	br := &batch.BatchResult{
		Total:  1,
		Failed: 1,
		Results: []batch.Result{
			{Index: 0, Status: batch.StatusError, Error: "boom"},
		},
	}

	if err := finishBatch(t.TempDir(), "out", br); err == nil {
		t.Error("expected an error when there is nothing to archive")
	}
}
