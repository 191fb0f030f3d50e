package download

import (
	"context"

	"github.com/mlazzje/dlgmail/internal/attachment"
)

// Response status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Request asks a Sink to save one resolved attachment. The URL has already
// been resolved and is final; sinks must not attempt re-resolution.
type Request struct {
	URL      string               `json:"url"`
	Filename string               `json:"filename"`
	Metadata *attachment.Metadata `json:"metadata,omitempty"`
}

// Response reports the sink's outcome. Message carries the saved path on
// success and the failure reason otherwise.
type Response struct {
	Status     string `json:"status"`
	DownloadID string `json:"downloadId,omitempty"`
	Message    string `json:"message,omitempty"`
	Bytes      int64  `json:"bytes,omitempty"`
}

// Sink saves resolved attachment URLs. Callers treat a transport error and
// an explicit error response identically: both fail the item.
type Sink interface {
	Download(ctx context.Context, req *Request) (*Response, error)
}
