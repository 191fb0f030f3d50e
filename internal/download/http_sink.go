package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/schollz/progressbar/v3"

	"github.com/mlazzje/dlgmail/internal/attachment"
	"github.com/mlazzje/dlgmail/internal/logging"
)

// Retry policy for attachment fetches. Attachment serving URLs are
// short-lived, so the budget is small and the waits short.
const (
	httpRetryMax     = 3
	httpRetryWaitMin = 1 * time.Second
	httpRetryWaitMax = 10 * time.Second
)

// HTTPSink saves resolved attachment URLs to a local directory over HTTP.
// Filename collisions are uniquified ("name (1).ext") rather than
// overwritten.
type HTTPSink struct {
	dir      string
	client   *http.Client
	logger   logging.Logger
	progress bool
}

// HTTPSinkOption configures an HTTPSink.
type HTTPSinkOption func(*HTTPSink)

// WithProgress enables a per-file progress bar on stderr.
func WithProgress() HTTPSinkOption {
	return func(s *HTTPSink) { s.progress = true }
}

// WithLogger sets the sink's logger.
func WithLogger(logger logging.Logger) HTTPSinkOption {
	return func(s *HTTPSink) { s.logger = logger }
}

// WithHTTPClient replaces the default retrying client, e.g. with an
// OAuth-authenticated one.
func WithHTTPClient(client *http.Client) HTTPSinkOption {
	return func(s *HTTPSink) { s.client = client }
}

// NewHTTPSink creates a sink that saves files under dir, creating it if
// needed.
func NewHTTPSink(dir string, opts ...HTTPSinkOption) (*HTTPSink, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create download directory %s: %w", dir, err)
	}

	s := &HTTPSink{dir: dir, logger: logging.DefaultLogger()}
	for _, opt := range opts {
		opt(s)
	}

	if s.client == nil {
		rc := retryablehttp.NewClient()
		rc.RetryMax = httpRetryMax
		rc.RetryWaitMin = httpRetryWaitMin
		rc.RetryWaitMax = httpRetryWaitMax
		rc.Logger = s.logger
		s.client = rc.StandardClient()
	}

	return s, nil
}

// Dir returns the sink's target directory.
func (s *HTTPSink) Dir() string {
	return s.dir
}

// Download fetches req.URL and saves it under the sink's directory as a
// sanitized version of req.Filename.
func (s *HTTPSink) Download(ctx context.Context, req *Request) (*Response, error) {
	if req == nil || req.URL == "" {
		return nil, fmt.Errorf("download request requires a URL")
	}

	filename := attachment.SanitizeFilename(req.Filename, "attachment")

	// Discard trailing garbage; an unmatchable URL is passed through as-is.
	target := req.URL
	if stripped, ok := attachment.StripURL(req.URL); ok {
		target = stripped
	}

	if req.Metadata != nil {
		s.logger.Debug("downloading attachment",
			logging.KeyFilename, filename,
			"declaredSize", orUnknown(req.Metadata.Size),
			"declaredType", orUnknown(req.Metadata.MimeType),
			logging.KeyURL, logging.TruncateURL(target))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid download URL: %w", err)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &Response{Status: StatusError, Message: fmt.Sprintf("server returned %s", resp.Status)}, nil
	}

	f, path, err := CreateUniqueFile(s.dir, filename)
	if err != nil {
		return nil, err
	}

	var src io.Reader = resp.Body
	if s.progress && resp.ContentLength > 0 {
		bar := progressbar.DefaultBytes(resp.ContentLength, filename)
		src = io.TeeReader(src, bar)
	}

	n, err := io.Copy(f, src)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("failed to save %s: %w", filename, err)
	}

	s.verifyContentType(path, req.Metadata)

	return &Response{
		Status:     StatusSuccess,
		DownloadID: uuid.NewString(),
		Message:    path,
		Bytes:      n,
	}, nil
}

// verifyContentType compares the saved file's detected type with the
// declared one. The check is advisory: thumbnails and proxy renditions
// often arrive with a different content type than the original file.
func (s *HTTPSink) verifyContentType(path string, md *attachment.Metadata) {
	if md == nil || md.MimeType == "" {
		return
	}
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		s.logger.Debug("could not detect saved file type", "path", path, logging.KeyError, err.Error())
		return
	}
	if !mt.Is(md.MimeType) {
		s.logger.Warn("saved file content differs from declared type",
			"path", path,
			"declared", md.MimeType,
			"detected", mt.String())
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
