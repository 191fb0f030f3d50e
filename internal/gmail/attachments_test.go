package gmail

import (
	"encoding/base64"
	"testing"

	gmail "google.golang.org/api/gmail/v1"
)

func testMessage() *gmail.Message {
	return &gmail.Message{
		Id: "msg-1",
		Payload: &gmail.MessagePart{
			PartId:   "",
			MimeType: "multipart/mixed",
			Headers: []*gmail.MessagePartHeader{
				{Name: "Subject", Value: "Invoices attached"},
				{Name: "From", Value: "billing@example.com"},
			},
			Parts: []*gmail.MessagePart{
				{
					PartId:   "0",
					MimeType: "multipart/alternative",
					Parts: []*gmail.MessagePart{
						{
							PartId:   "0.0",
							MimeType: "text/plain",
							Body:     &gmail.MessagePartBody{Data: base64.URLEncoding.EncodeToString([]byte("see attached"))},
						},
						{
							PartId:   "0.1",
							MimeType: "text/html",
							Body:     &gmail.MessagePartBody{Data: base64.URLEncoding.EncodeToString([]byte(`<div class="aZo"><span>(1.5 MB)</span></div>`))},
						},
					},
				},
				{
					PartId:   "1",
					MimeType: "application/pdf",
					Filename: "invoice.pdf",
					Body:     &gmail.MessagePartBody{AttachmentId: "att-1", Size: 1572864},
				},
				{
					PartId:   "2",
					MimeType: "image/png",
					Filename: "chart.png",
					Body:     &gmail.MessagePartBody{AttachmentId: "att-2", Size: 2048},
				},
			},
		},
	}
}

func TestAttachmentsFromMessage(t *testing.T) {
	attachments := attachmentsFromMessage(testMessage())

	if len(attachments) != 2 {
		t.Fatalf("got %d attachments, want 2", len(attachments))
	}

	first := attachments[0]
	if first.Filename != "invoice.pdf" {
		t.Errorf("Filename = %q, want invoice.pdf", first.Filename)
	}
	if first.AttachmentID != "att-1" {
		t.Errorf("AttachmentID = %q, want att-1", first.AttachmentID)
	}
	if first.MessageID != "msg-1" {
		t.Errorf("MessageID = %q, want msg-1", first.MessageID)
	}
	if first.MimeType != "application/pdf" {
		t.Errorf("MimeType = %q, want application/pdf", first.MimeType)
	}

	if attachments[1].Filename != "chart.png" {
		t.Errorf("second attachment = %q, want chart.png", attachments[1].Filename)
	}
}

func TestWalkPartsVisitsNestedParts(t *testing.T) {
	var visited []string
	walkParts(testMessage().Payload, func(part *gmail.MessagePart) {
		visited = append(visited, part.PartId)
	})

	want := []string{"", "0", "0.0", "0.1", "1", "2"}
	if len(visited) != len(want) {
		t.Fatalf("visited %d parts, want %d", len(visited), len(want))
	}
	for i, id := range want {
		if visited[i] != id {
			t.Errorf("visited[%d] = %q, want %q", i, visited[i], id)
		}
	}
}

func TestWalkPartsNilPayload(t *testing.T) {
	called := false
	walkParts(nil, func(part *gmail.MessagePart) { called = true })
	if called {
		t.Error("callback should not run for a nil part")
	}
}

func TestHTMLBody(t *testing.T) {
	body := htmlBody(testMessage())
	if body != `<div class="aZo"><span>(1.5 MB)</span></div>` {
		t.Errorf("unexpected HTML body: %q", body)
	}

	if got := htmlBody(&gmail.Message{}); got != "" {
		t.Errorf("message without payload should yield empty body, got %q", got)
	}
}

func TestHeaderValue(t *testing.T) {
	msg := testMessage()
	if got := HeaderValue(msg, "Subject"); got != "Invoices attached" {
		t.Errorf("Subject = %q", got)
	}
	if got := HeaderValue(msg, "X-Missing"); got != "" {
		t.Errorf("missing header should be empty, got %q", got)
	}
	if got := HeaderValue(nil, "Subject"); got != "" {
		t.Errorf("nil message should be empty, got %q", got)
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{1572864, "1.5 MB"},
		{3 * 1024 * 1024 * 1024, "3.0 GB"},
	}

	for _, tt := range tests {
		if got := FormatSize(tt.bytes); got != tt.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}
