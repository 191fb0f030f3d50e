package attachment_tools

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/mlazzje/dlgmail/internal/batch"
)

func TestHandleListAttachments_ArgumentValidation(t *testing.T) {
	tests := []struct {
		name    string
		args    map[string]interface{}
		wantErr bool
	}{
		{
			name: "valid messageId",
			args: map[string]interface{}{
				"messageId": "msg123",
			},
			wantErr: false,
		},
		{
			name:    "missing messageId",
			args:    map[string]interface{}{},
			wantErr: true,
		},
		{
			name: "empty messageId",
			args: map[string]interface{}{
				"messageId": "",
			},
			wantErr: true,
		},
		{
			name: "wrong type messageId",
			args: map[string]interface{}{
				"messageId": 123,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			messageID, ok := tt.args["messageId"].(string)
			hasError := !ok || messageID == ""

			if hasError != tt.wantErr {
				t.Errorf("validation result = %v, wantErr %v", hasError, tt.wantErr)
			}
		})
	}
}

func TestHandleDownloadAttachments_MessageIDsValidation(t *testing.T) {
	tests := []struct {
		name    string
		param   interface{}
		wantErr bool
	}{
		{
			name:  "single string",
			param: "msg123",
		},
		{
			name:  "array of strings",
			param: []interface{}{"msg1", "msg2"},
		},
		{
			name:    "missing",
			param:   nil,
			wantErr: true,
		},
		{
			name:    "empty string",
			param:   "",
			wantErr: true,
		},
		{
			name:    "empty array",
			param:   []interface{}{},
			wantErr: true,
		},
		{
			name:    "array with non-string",
			param:   []interface{}{"msg1", 7},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := batch.ParseStringOrArray(tt.param, "messageIds")
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseStringOrArray() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBundleResults(t *testing.T) {
	dir := t.TempDir()

	saved := filepath.Join(dir, "report.pdf")
	if err := os.WriteFile(saved, []byte("pdf bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	br := &batch.BatchResult{
		Total:     2,
		Succeeded: 1,
		Failed:    1,
		Results: []batch.Result{
			{Index: 0, Filename: "report.pdf", Status: batch.StatusSuccess, Detail: saved},
			{Index: 1, Filename: "broken.pdf", Status: batch.StatusError, Error: "no download URL found"},
		},
	}

	if result := bundleResults(dir, "invoices", br); result != nil {
		t.Fatalf("bundleResults() returned error result: %+v", result)
	}

	// The archive name is sanitized and gets a .zip extension; only the
	// successful file is included.
	zr, err := zip.OpenReader(filepath.Join(dir, "invoices.zip"))
	if err != nil {
		t.Fatalf("archive not created: %v", err)
	}
	defer zr.Close()

	if len(zr.File) != 1 || zr.File[0].Name != "report.pdf" {
		t.Errorf("unexpected archive contents: %+v", zr.File)
	}
}

func TestBundleResultsNothingToArchive(t *testing.T) {
	br := &batch.BatchResult{
		Total:  1,
		Failed: 1,
		Results: []batch.Result{
			{Index: 0, Status: batch.StatusError, Error: "boom"},
		},
	}

	if result := bundleResults(t.TempDir(), "out", br); result == nil {
		t.Error("expected an error result when no files were downloaded")
	}
}
