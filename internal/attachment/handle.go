package attachment

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Handle is the capability surface of one attachment card. Implementations
// are borrowed read-only by the pipeline: every accessor is fallible and a
// failure in one capability never invalidates the others.
type Handle interface {
	// Title returns the attachment's display name, usually the filename.
	Title(ctx context.Context) (string, error)

	// AttachmentType returns the presentation's declared attachment type
	// tag (e.g. "FILE", "DRIVE").
	AttachmentType() (string, error)

	// DownloadURL returns a direct download URL for the attachment. The
	// result may be empty or a thumbnail URL; callers are expected to
	// validate it.
	DownloadURL(ctx context.Context) (string, error)

	// Element returns the attachment's underlying markup, or nil when no
	// markup is available. The selection is read-only.
	Element() *goquery.Selection
}

// CardHandle is a Handle backed by a parsed HTML attachment card. It is the
// scraping-path implementation: every capability is derived from the markup
// itself.
type CardHandle struct {
	sel *goquery.Selection
}

// NewCardHandle parses an HTML fragment into a CardHandle.
func NewCardHandle(html string) (*CardHandle, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse attachment card markup: %w", err)
	}
	return &CardHandle{sel: doc.Selection}, nil
}

// NewCardHandleFromSelection wraps an existing selection, e.g. one card out
// of a message body scan.
func NewCardHandleFromSelection(sel *goquery.Selection) *CardHandle {
	return &CardHandle{sel: sel}
}

// Title derives the attachment name from the card markup. It prefers an
// anchor's download attribute, then an aria-label, then an image alt text.
func (c *CardHandle) Title(ctx context.Context) (string, error) {
	if name, ok := c.sel.Find("a[download]").First().Attr("download"); ok && name != "" {
		return name, nil
	}
	if label, ok := c.sel.Find("[aria-label]").First().Attr("aria-label"); ok && label != "" {
		return label, nil
	}
	if alt, ok := c.sel.Find("img[alt]").First().Attr("alt"); ok && alt != "" {
		return alt, nil
	}
	return "", fmt.Errorf("attachment card carries no title")
}

// AttachmentType returns the card's type tag when the markup declares one.
func (c *CardHandle) AttachmentType() (string, error) {
	if t, ok := c.sel.Find("[data-attachment-type]").First().Attr("data-attachment-type"); ok && t != "" {
		return t, nil
	}
	return "", fmt.Errorf("attachment card carries no type tag")
}

// DownloadURL returns the card's explicit download anchor, when present.
// Cards without one fall back to the resolver's tiered element search.
func (c *CardHandle) DownloadURL(ctx context.Context) (string, error) {
	if href, ok := c.sel.Find("a[download]").First().Attr("href"); ok && href != "" {
		return href, nil
	}
	return "", fmt.Errorf("attachment card carries no direct download URL")
}

// Element returns the card's markup.
func (c *CardHandle) Element() *goquery.Selection {
	return c.sel
}
