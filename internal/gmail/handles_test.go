package gmail

import (
	"net/url"
	"strings"
	"testing"
)

func TestAPIHandleDownloadURL(t *testing.T) {
	h := &apiHandle{info: &AttachmentInfo{
		MessageID:    "msg-1",
		AttachmentID: "att-1",
		Filename:     "invoice.pdf",
		MimeType:     "application/pdf",
	}}

	raw, err := h.DownloadURL(t.Context())
	if err != nil {
		t.Fatalf("DownloadURL() error: %v", err)
	}

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("synthesized URL does not parse: %v", err)
	}
	if u.Host != attachmentHost {
		t.Errorf("host = %q, want %q", u.Host, attachmentHost)
	}

	q := u.Query()
	if q.Get("th") != "msg-1" {
		t.Errorf("th = %q, want msg-1", q.Get("th"))
	}
	if q.Get("attid") != "att-1" {
		t.Errorf("attid = %q, want att-1", q.Get("attid"))
	}
	if q.Get("disp") != "attd" {
		t.Errorf("disp = %q, want attd", q.Get("disp"))
	}
}

func TestAPIHandleDownloadURLRoundTrips(t *testing.T) {
	h := &apiHandle{info: &AttachmentInfo{MessageID: "m", AttachmentID: "a"}}

	raw, err := h.DownloadURL(t.Context())
	if err != nil {
		t.Fatalf("DownloadURL() error: %v", err)
	}

	messageID, attachmentID, err := parseAttachmentURL(raw)
	if err != nil {
		t.Fatalf("parseAttachmentURL() error: %v", err)
	}
	if messageID != "m" || attachmentID != "a" {
		t.Errorf("round trip = (%q, %q), want (m, a)", messageID, attachmentID)
	}
}

func TestAPIHandleDownloadURLWithoutAttachmentID(t *testing.T) {
	h := &apiHandle{info: &AttachmentInfo{MessageID: "msg-1"}}
	if _, err := h.DownloadURL(t.Context()); err == nil {
		t.Error("expected an error when the attachment ID is missing")
	}
}

func TestAPIHandleTitle(t *testing.T) {
	h := &apiHandle{info: &AttachmentInfo{Filename: "report.docx"}}
	title, err := h.Title(t.Context())
	if err != nil {
		t.Fatalf("Title() error: %v", err)
	}
	if title != "report.docx" {
		t.Errorf("Title() = %q", title)
	}

	h = &apiHandle{info: &AttachmentInfo{}}
	if _, err := h.Title(t.Context()); err == nil {
		t.Error("expected an error for a part without a filename")
	}
}

func TestAPIHandleAttachmentType(t *testing.T) {
	tests := []struct {
		mimeType string
		want     string
	}{
		{"image/png", "IMAGE"},
		{"video/mp4", "VIDEO"},
		{"audio/mpeg", "AUDIO"},
		{"application/pdf", "FILE"},
		{"", "FILE"},
	}

	for _, tt := range tests {
		h := &apiHandle{info: &AttachmentInfo{MimeType: tt.mimeType}}
		got, err := h.AttachmentType()
		if err != nil {
			t.Errorf("AttachmentType(%q) error: %v", tt.mimeType, err)
			continue
		}
		if got != tt.want {
			t.Errorf("AttachmentType(%q) = %q, want %q", tt.mimeType, got, tt.want)
		}
	}
}

func TestParseAttachmentURLErrors(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"wrong host", "https://example.com/?th=m&attid=a"},
		{"missing message ID", "https://mail-attachment.googleusercontent.com/?attid=a"},
		{"missing attachment ID", "https://mail-attachment.googleusercontent.com/?th=m"},
		{"unparseable", "https://mail-attachment.googleusercontent.com/%zz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := parseAttachmentURL(tt.url); err == nil {
				t.Errorf("expected error for %q", tt.url)
			}
		})
	}
}

func TestMessageHandlesMarkup(t *testing.T) {
	// Handles built from a message with an HTML body share its markup, so
	// the size extractor can find the human-readable size.
	msg := testMessage()
	infos := attachmentsFromMessage(msg)
	if len(infos) == 0 {
		t.Fatal("test message should carry attachments")
	}

	html := htmlBody(msg)
	if !strings.Contains(html, "1.5 MB") {
		t.Fatalf("HTML body should carry the size fragment, got %q", html)
	}
}
