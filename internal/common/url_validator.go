package common

import (
	"net/url"
	"strings"
)

// IsWebURL reports whether raw is a syntactically valid absolute http(s) URL.
// Used before attaching image URLs to outbound payloads; platforms reject
// requests carrying malformed media URLs outright.
func IsWebURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != "" && strings.Contains(u.Host, ".")
}
