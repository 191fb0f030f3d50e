package attachment

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/mlazzje/dlgmail/internal/logging"
)

// Metadata is the best-effort description of one attachment. Fields that
// could not be extracted are left empty; only Filename is always populated
// (synthesized when unreadable).
type Metadata struct {
	Filename       string `json:"filename"`
	MimeType       string `json:"mimeType,omitempty"`
	Size           string `json:"size,omitempty"`
	AttachmentType string `json:"attachmentType,omitempty"`
}

// sizeSelectors are the markup locations searched for a size-bearing text
// fragment, in priority order. The class names track Gmail's attachment
// card markup.
var sizeSelectors = []string{
	".aZo span",
	".aQw span",
	`[role="link"] span`,
	"span",
}

// sizeTextRegexp matches human-readable sizes, either parenthesized
// ("(1.5 MB)") or bare ("1.5MB").
var sizeTextRegexp = regexp.MustCompile(`(?i)\(([^)]+)\)|(\d[\d.]*\s*[KMGT]?B)\b`)

// Extractor derives attachment metadata from a Handle. The zero value is
// usable; Logger defaults to the process logger.
type Extractor struct {
	Logger logging.Logger
}

// Extract populates a Metadata from h. Every step is independently
// fault-tolerant: a failing accessor leaves its field empty (or synthesized,
// for the filename) and never aborts extraction of the remaining fields.
// The index is used only for diagnostics and synthesized names.
func (e *Extractor) Extract(ctx context.Context, h Handle, index int) *Metadata {
	log := e.logger()
	md := &Metadata{}

	title, err := h.Title(ctx)
	if err != nil || strings.TrimSpace(title) == "" {
		md.Filename = fmt.Sprintf("attachment_%d_%d.download", index, time.Now().UnixMilli())
		log.Warn("could not read attachment filename, synthesized one",
			logging.KeyIndex, index, logging.KeyFilename, md.Filename, logging.KeyError, errString(err))
	} else {
		md.Filename = title
	}

	if t, err := h.AttachmentType(); err == nil {
		md.AttachmentType = t
	} else {
		log.Debug("could not read attachment type", logging.KeyIndex, index, logging.KeyError, err.Error())
	}

	if sel := h.Element(); sel != nil {
		md.Size = extractSize(sel)
	}

	md.MimeType = MimeTypeForFilename(md.Filename)

	return md
}

// extractSize searches the card markup for the first text fragment that
// looks like a human-readable size. Absence is not an error.
func extractSize(sel *goquery.Selection) string {
	var size string
	for _, q := range sizeSelectors {
		sel.Find(q).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			m := sizeTextRegexp.FindStringSubmatch(s.Text())
			if m == nil {
				return true
			}
			if m[1] != "" {
				size = m[1]
			} else {
				size = m[2]
			}
			return false
		})
		if size != "" {
			break
		}
	}
	return size
}

func (e *Extractor) logger() logging.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return logging.DefaultLogger()
}

func errString(err error) string {
	if err == nil {
		return "empty title"
	}
	return err.Error()
}
