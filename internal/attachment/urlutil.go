package attachment

import (
	"regexp"
	"strings"
)

// urlShapeRegexp matches a conservative HTTP(S) URL shape: scheme, optional
// userinfo, host with at least one dot, optional port, optional path/query.
// FindString returns the longest valid prefix, which discards trailing
// garbage appended to a URL string.
var urlShapeRegexp = regexp.MustCompile(`^(https?://)([\w.-]+(:[\w.-]+)*@)?([\w-]+(\.[\w-]+)+)(:[0-9]+)?(/[\w\-.~:/?#\[\]@!$&'()*+,;=%]*)?`)

// imageSizePatterns are Google image-serving sizing parameters, in the order
// they are stripped. The first three are path suffixes ("=s220",
// "=w400-h300"), the rest are query-string equivalents.
var imageSizePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)=s\d+(?:-[a-z0-9]+)*$`),
	regexp.MustCompile(`(?i)=w\d+(?:-h\d+)?(?:-[a-z0-9]+)*$`),
	regexp.MustCompile(`(?i)=h\d+(?:-w\d+)?(?:-[a-z0-9]+)*$`),
	regexp.MustCompile(`(?i)[?&]sz=\d+`),
	regexp.MustCompile(`(?i)[?&]s=\d+`),
	regexp.MustCompile(`(?i)[?&]w=\d+`),
	regexp.MustCompile(`(?i)[?&]h=\d+`),
}

var (
	trailingSeparator   = regexp.MustCompile(`[?&]$`)
	duplicateAmpersands = regexp.MustCompile(`&{2,}`)
)

// StripURL matches s against a conservative HTTP(S) URL grammar and returns
// the matched prefix. It reports false when s does not start with a valid
// URL shape at all.
func StripURL(s string) (string, bool) {
	m := urlShapeRegexp.FindString(s)
	if m == "" {
		return "", false
	}
	return m, true
}

// RemoveImageParameters strips known Google image-serving sizing suffixes
// and query parameters from u and collapses any separator debris left
// behind. This is best-effort string surgery, not a URL-semantics-aware
// rewrite: when nothing matches, u is returned unchanged, and the operation
// is idempotent.
func RemoveImageParameters(u string) string {
	if u == "" {
		return u
	}

	cleaned := u
	for _, p := range imageSizePatterns {
		cleaned = p.ReplaceAllString(cleaned, "")
	}

	cleaned = trailingSeparator.ReplaceAllString(cleaned, "")
	cleaned = duplicateAmpersands.ReplaceAllString(cleaned, "&")
	cleaned = strings.ReplaceAll(cleaned, "?&", "?")

	return cleaned
}

// Quality describes a resolved URL's likely fidelity, derived purely from
// lexical inspection. It is advisory only and never blocks a download.
type Quality struct {
	// IsProxy reports an inline-disposition URL intended for in-browser
	// preview rather than file download.
	IsProxy bool

	// IsThumbnail reports image sizing markers, which usually mean the URL
	// serves a reduced-fidelity rendition of the original file.
	IsThumbnail bool

	// HasParameters reports whether the URL carries any query parameters.
	HasParameters bool
}

// ClassifyURL inspects u for thumbnail and inline-disposition markers.
// The marker set matches an undocumented third-party URL scheme and is a
// best-effort heuristic, not a guaranteed classifier.
func ClassifyURL(u string) Quality {
	var q Quality
	if u == "" {
		return q
	}

	if strings.Contains(u, "=s") || strings.Contains(u, "=w") || strings.Contains(u, "=h") {
		q.IsThumbnail = true
	}
	if strings.Contains(u, "/sz=") || strings.Contains(u, "&sz=") || strings.Contains(u, "?sz=") {
		q.IsThumbnail = true
	}
	if strings.Contains(u, "&disp=inline") || strings.Contains(u, "?disp=inline") {
		q.IsProxy = true
	}
	if strings.Contains(u, "?") || strings.Contains(u, "&") {
		q.HasParameters = true
	}

	return q
}

// hasThumbnailMarkers reports whether u carries any of the sizing markers
// the resolver treats as non-authoritative.
func hasThumbnailMarkers(u string) bool {
	return strings.Contains(u, "=s") ||
		strings.Contains(u, "=w") ||
		strings.Contains(u, "=h") ||
		strings.Contains(u, "sz=")
}
