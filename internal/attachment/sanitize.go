package attachment

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	// MaxFilenameLength is the longest filename the sanitizer will produce.
	MaxFilenameLength = 180

	// maxExtensionLength bounds how much of a trailing extension survives
	// truncation of an overlong name.
	maxExtensionLength = 12
)

var (
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDotsOrSpace  = regexp.MustCompile(`[.\s]+$`)
	trailingExtension    = regexp.MustCompile(`\.[^.]*$`)
)

// SanitizeFilename makes name safe for use as a filesystem path component.
// Characters that are illegal on common filesystems are replaced with
// underscores and trailing dots/whitespace are removed. If nothing usable
// remains, a timestamped fallback of the form
// "{fallbackBase}_{unixMillis}.download" is returned instead. Names longer
// than MaxFilenameLength are truncated, preserving up to the last 12
// characters of a trailing extension.
func SanitizeFilename(name, fallbackBase string) string {
	cleaned := invalidFilenameChars.ReplaceAllString(strings.TrimSpace(name), "_")
	cleaned = trailingDotsOrSpace.ReplaceAllString(cleaned, "")

	if cleaned == "" {
		cleaned = fmt.Sprintf("%s_%d.download", fallbackBase, time.Now().UnixMilli())
	}

	if len(cleaned) > MaxFilenameLength {
		ext := trailingExtension.FindString(cleaned)
		if len(ext) > maxExtensionLength {
			ext = ext[:maxExtensionLength]
		}
		cleaned = cleaned[:MaxFilenameLength-len(ext)] + ext
	}

	return cleaned
}
