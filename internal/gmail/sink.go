package gmail

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/mlazzje/dlgmail/internal/attachment"
	"github.com/mlazzje/dlgmail/internal/download"
	"github.com/mlazzje/dlgmail/internal/logging"
)

// APISink saves attachments through the Gmail API instead of plain HTTP.
// It only understands the serving URLs synthesized by this package's
// handles; the message and attachment IDs are recovered from the URL query.
type APISink struct {
	client *Client
	dir    string
	logger logging.Logger
}

// NewAPISink creates a sink that saves attachment content fetched via the
// API under dir, creating it if needed.
func NewAPISink(client *Client, dir string, logger logging.Logger) (*APISink, error) {
	if client == nil {
		return nil, fmt.Errorf("gmail client is required")
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create download directory %s: %w", dir, err)
	}
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	return &APISink{client: client, dir: dir, logger: logger}, nil
}

// Dir returns the sink's target directory.
func (s *APISink) Dir() string {
	return s.dir
}

// Download fetches the attachment addressed by req.URL and saves it under
// the sink's directory as a sanitized version of req.Filename.
func (s *APISink) Download(ctx context.Context, req *download.Request) (*download.Response, error) {
	if req == nil || req.URL == "" {
		return nil, fmt.Errorf("download request requires a URL")
	}

	messageID, attachmentID, err := parseAttachmentURL(req.URL)
	if err != nil {
		return nil, err
	}

	data, err := s.client.GetAttachment(messageID, attachmentID)
	if err != nil {
		return &download.Response{Status: download.StatusError, Message: err.Error()}, nil
	}

	filename := attachment.SanitizeFilename(req.Filename, "attachment")
	f, path, err := download.CreateUniqueFile(s.dir, filename)
	if err != nil {
		return nil, err
	}

	_, err = f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("failed to save %s: %w", filename, err)
	}

	s.logger.Debug("saved attachment via API",
		logging.KeyFilename, filename,
		logging.KeyAccount, s.client.Account(),
		"bytes", len(data))

	return &download.Response{
		Status:     download.StatusSuccess,
		DownloadID: uuid.NewString(),
		Message:    path,
		Bytes:      int64(len(data)),
	}, nil
}

// parseAttachmentURL recovers the message and attachment IDs from a serving
// URL synthesized by an API-backed handle.
func parseAttachmentURL(raw string) (messageID, attachmentID string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("invalid attachment URL: %w", err)
	}
	if !strings.Contains(u.Host, "googleusercontent.com") {
		return "", "", fmt.Errorf("not an attachment serving URL: %s", u.Host)
	}

	q := u.Query()
	messageID = q.Get("th")
	attachmentID = q.Get("attid")
	if messageID == "" || attachmentID == "" {
		return "", "", fmt.Errorf("attachment URL is missing message or attachment ID")
	}
	return messageID, attachmentID, nil
}
