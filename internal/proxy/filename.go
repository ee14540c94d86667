package proxy

import (
	"net/url"
	"strings"
)

const fallbackFilename = "download"

// FilenameFromURL derives a download filename from the final path
// segment of the URL, percent-decoded. Unparsable URLs and empty path
// segments fall back to a fixed name.
func FilenameFromURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fallbackFilename
	}

	segments := strings.Split(parsed.Path, "/")
	base := segments[len(segments)-1]
	if decoded, err := url.PathUnescape(base); err == nil {
		base = decoded
	}

	if base == "" {
		return fallbackFilename
	}

	return base
}

// SanitizeFilename neutralizes embedded double quotes so the name can
// be placed inside a quoted content-disposition parameter without
// breaking the header syntax.
func SanitizeFilename(name string) string {
	return strings.ReplaceAll(name, `"`, "'")
}
