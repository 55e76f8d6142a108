package helpers

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	httpSchemeRe = regexp.MustCompile(`^https?://`)
	domainRe     = regexp.MustCompile(`^(?:https?://)?(?:www\.)?([^/:?#]+)`)
)

// IsHTTPURL reports whether raw carries an explicit http or https scheme.
// Anything else is rejected before any network I/O is attempted.
func IsHTTPURL(raw string) bool {
	return httpSchemeRe.MatchString(raw)
}

// Domain extracts the host portion of a URL for dedup comparison. The
// match is deliberately permissive; when nothing matches, the raw string
// itself acts as the dedup key so malformed entries still collapse on
// exact repetition.
func Domain(raw string) string {
	if m := domainRe.FindStringSubmatch(strings.TrimSpace(raw)); m != nil {
		return strings.ToLower(m[1])
	}
	return raw
}

// FaviconURL derives a deterministic favicon URL from the page's
// hostname. Malformed URLs yield an empty string rather than an error;
// a missing favicon must never fail the record it belongs to.
func FaviconURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return fmt.Sprintf("https://www.google.com/s2/favicons?domain=%s&sz=128", u.Hostname())
}
