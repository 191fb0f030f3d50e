package attachment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/mlazzje/dlgmail/internal/logging"
)

// Resolution sources, recorded for diagnostics and metrics.
const (
	SourceDirect  = "direct"
	SourceElement = "element"
)

// Default retry policy for the primary resolution path.
const (
	DefaultRetries = 2
	DefaultBackoff = 300 * time.Millisecond
)

// ReadinessProbe prods a handle whose direct URL accessor keeps returning a
// thumbnail, giving a lazy URL generator a chance to produce the real one
// before the next attempt. Probes are best-effort: they have no way to
// signal readiness and the resolver retries on a fixed delay regardless.
type ReadinessProbe func(ctx context.Context, h Handle)

// Resolution is the outcome of a successful URL resolution. The URL is
// final: it is never re-resolved for the rest of the attachment's
// processing.
type Resolution struct {
	URL     string
	Source  string
	Quality Quality
}

// Resolver produces a best-effort direct-download URL for an attachment
// through an ordered chain of strategies: the handle's direct accessor
// (with a bounded fixed-delay retry when it yields thumbnail URLs), then a
// tiered search of the handle's markup. The zero value uses the default
// retry policy, no probe and the process logger.
type Resolver struct {
	// Retries is the primary path's retry budget. Negative disables
	// retrying; zero means DefaultRetries.
	Retries int

	// Backoff is the fixed delay between primary-path attempts. Zero means
	// DefaultBackoff.
	Backoff time.Duration

	// Probe, when set, runs before each primary-path retry.
	Probe ReadinessProbe

	Logger logging.Logger
}

// Resolve returns the first usable download URL for h, or an error when
// every strategy comes up empty. A thumbnail URL from the markup tiers is
// still returned (with a warning): the design accepts that the resolved
// file may occasionally be a reduced-fidelity rendition of the original.
func (r *Resolver) Resolve(ctx context.Context, h Handle, index int) (*Resolution, error) {
	log := r.logger()

	if u, ok := r.resolveDirect(ctx, h, index); ok {
		return r.finish(u, SourceDirect, index), nil
	}

	if sel := h.Element(); sel != nil {
		if u := resolveFromElement(sel); u != "" {
			log.Debug("using markup fallback URL", logging.KeyIndex, index)
			return r.finish(u, SourceElement, index), nil
		}
	}

	return nil, fmt.Errorf("no download URL found (index %d)", index)
}

// resolveDirect runs the primary path: the handle's own URL accessor, with
// up to Retries re-attempts when the result carries thumbnail markers.
func (r *Resolver) resolveDirect(ctx context.Context, h Handle, index int) (string, bool) {
	log := r.logger()
	attempts := 1 + r.retries()

	for attempt := 0; attempt < attempts; attempt++ {
		u, err := h.DownloadURL(ctx)
		if err != nil {
			log.Debug("direct URL accessor failed", logging.KeyIndex, index, logging.KeyError, err.Error())
			return "", false
		}
		if strings.TrimSpace(u) == "" {
			return "", false
		}
		if !hasThumbnailMarkers(u) {
			log.Debug("using direct URL", logging.KeyIndex, index)
			return u, true
		}

		// Non-authoritative result; give the handle a nudge and try again.
		if attempt+1 < attempts {
			if r.Probe != nil {
				r.Probe(ctx, h)
			}
			if err := sleep(ctx, r.backoff()); err != nil {
				return "", false
			}
			continue
		}
		log.Warn("direct URL kept returning a thumbnail, falling back to markup",
			logging.KeyIndex, index, logging.KeyURL, logging.TruncateURL(u))
	}

	return "", false
}

// Markup fallback tiers, strictly ordered. Each tier is consulted only when
// all higher tiers found nothing; the first hit wins.
func resolveFromElement(sel *goquery.Selection) string {
	// Tier 1: anchor with an explicit download attribute on the attachment host.
	if href, ok := sel.Find(`a[download][href*="googleusercontent.com"]`).First().Attr("href"); ok && href != "" {
		return href
	}

	// Tier 2: direct attachment-serving-host anchor.
	if href, ok := sel.Find(`a[href*="mail-attachment.googleusercontent.com"]`).First().Attr("href"); ok && href != "" {
		return href
	}

	// Tier 3: any anchor carrying host-specific attachment markers.
	if href := findAnchor(sel, func(href string) bool {
		return strings.Contains(href, "attid=") || strings.Contains(href, "disp=attd")
	}); href != "" {
		return href
	}

	// Tier 4: first attachment-host anchor without thumbnail-size markers.
	if href := findAnchor(sel, func(href string) bool {
		return !hasThumbnailMarkers(href)
	}); href != "" {
		return href
	}

	// Tier 5, last resort: an image source on the attachment host, with
	// sizing parameters stripped.
	if src, ok := sel.Find(`img[src*="googleusercontent.com"]`).First().Attr("src"); ok && src != "" {
		return RemoveImageParameters(src)
	}

	return ""
}

// findAnchor returns the href of the first attachment-host anchor accepted
// by match.
func findAnchor(sel *goquery.Selection, match func(href string) bool) string {
	var found string
	sel.Find(`a[href*="googleusercontent.com"]`).EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, ok := a.Attr("href")
		if !ok || href == "" || !match(href) {
			return true
		}
		found = href
		return false
	})
	return found
}

// finish classifies the chosen URL and logs an advisory warning for
// thumbnail or proxy results. Classification never blocks the download.
func (r *Resolver) finish(u, source string, index int) *Resolution {
	q := ClassifyURL(u)
	if q.IsThumbnail || q.IsProxy {
		r.logger().Warn("resolved URL may not serve the original file",
			logging.KeyIndex, index,
			"thumbnail", q.IsThumbnail,
			"proxy", q.IsProxy,
			logging.KeyURL, logging.TruncateURL(u))
	}
	return &Resolution{URL: u, Source: source, Quality: q}
}

func (r *Resolver) retries() int {
	if r.Retries < 0 {
		return 0
	}
	if r.Retries == 0 {
		return DefaultRetries
	}
	return r.Retries
}

func (r *Resolver) backoff() time.Duration {
	if r.Backoff <= 0 {
		return DefaultBackoff
	}
	return r.Backoff
}

func (r *Resolver) logger() logging.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return logging.DefaultLogger()
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
