package gmail

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	gmail "google.golang.org/api/gmail/v1"

	"github.com/mlazzje/dlgmail/internal/attachment"
)

// attachmentHost is the host Gmail serves attachment content from.
const attachmentHost = "mail-attachment.googleusercontent.com"

// apiHandle adapts one API-reported attachment to the pipeline's handle
// interface. The markup element is the message's HTML body when the message
// has one, so the resolver's markup tiers and the size extractor keep
// working on API-sourced attachments.
type apiHandle struct {
	client *Client

	mu   sync.Mutex
	info *AttachmentInfo

	sel *goquery.Selection
}

// MessageHandles returns one pipeline handle per attachment of the message.
// The message's HTML body, when present, is parsed once and shared by every
// handle; messages without an HTML body yield handles with no markup.
func (c *Client) MessageHandles(ctx context.Context, messageID string) ([]attachment.Handle, error) {
	msg, err := c.GetMessage(messageID)
	if err != nil {
		return nil, err
	}

	infos := attachmentsFromMessage(msg)

	var sel *goquery.Selection
	if html := htmlBody(msg); html != "" {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
			sel = doc.Selection
		}
	}

	handles := make([]attachment.Handle, 0, len(infos))
	for _, info := range infos {
		handles = append(handles, &apiHandle{client: c, info: info, sel: sel})
	}
	return handles, nil
}

// htmlBody returns the message's decoded HTML body, or "" when it has none.
func htmlBody(msg *gmail.Message) string {
	if msg == nil || msg.Payload == nil {
		return ""
	}

	var data string
	if msg.Payload.MimeType == "text/html" && msg.Payload.Body != nil && msg.Payload.Body.Data != "" {
		data = msg.Payload.Body.Data
	} else {
		walkParts(msg.Payload, func(part *gmail.MessagePart) {
			if data == "" && part.MimeType == "text/html" && part.Body != nil && part.Body.Data != "" {
				data = part.Body.Data
			}
		})
	}
	if data == "" {
		return ""
	}

	decoded, err := decodeBase64(data)
	if err != nil {
		return ""
	}
	return decoded
}

func (h *apiHandle) Title(ctx context.Context) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.info.Filename == "" {
		return "", fmt.Errorf("attachment part carries no filename")
	}
	return h.info.Filename, nil
}

// AttachmentType maps the part's MIME type onto Gmail's card type tags.
func (h *apiHandle) AttachmentType() (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	switch {
	case strings.HasPrefix(h.info.MimeType, "image/"):
		return "IMAGE", nil
	case strings.HasPrefix(h.info.MimeType, "video/"):
		return "VIDEO", nil
	case strings.HasPrefix(h.info.MimeType, "audio/"):
		return "AUDIO", nil
	default:
		return "FILE", nil
	}
}

// DownloadURL synthesizes the attachment-serving URL for this part, in the
// same shape Gmail's own UI links carry. The message and attachment IDs are
// recoverable from the query, which is how APISink addresses the content.
func (h *apiHandle) DownloadURL(ctx context.Context) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.info.AttachmentID == "" {
		return "", fmt.Errorf("attachment part carries no attachment ID")
	}

	q := url.Values{}
	q.Set("view", "att")
	q.Set("th", h.info.MessageID)
	q.Set("attid", h.info.AttachmentID)
	q.Set("disp", "attd")

	u := url.URL{
		Scheme:   "https",
		Host:     attachmentHost,
		Path:     "/attachment/u/0/",
		RawQuery: q.Encode(),
	}
	return u.String(), nil
}

func (h *apiHandle) Element() *goquery.Selection {
	return h.sel
}

// refresh re-fetches the message and picks up the part's current attachment
// ID. Attachment IDs are not stable across fetches.
func (h *apiHandle) refresh(ctx context.Context) {
	h.mu.Lock()
	messageID := h.info.MessageID
	partID := h.info.PartID
	h.mu.Unlock()

	msg, err := h.client.GetMessage(messageID)
	if err != nil {
		return
	}
	for _, info := range attachmentsFromMessage(msg) {
		if info.PartID == partID {
			h.mu.Lock()
			h.info = info
			h.mu.Unlock()
			return
		}
	}
}

// RefreshProbe returns a readiness probe that re-fetches API-backed handles
// between resolution attempts. Handles from other sources are left alone.
func RefreshProbe() attachment.ReadinessProbe {
	return func(ctx context.Context, h attachment.Handle) {
		if ah, ok := h.(*apiHandle); ok {
			ah.refresh(ctx)
		}
	}
}
