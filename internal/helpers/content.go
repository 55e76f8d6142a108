package helpers

import (
	"regexp"
	"strings"
)

// NoSummary is returned by Summarize when a page yields no usable text.
const NoSummary = "No summary available."

// MaxSummaryChars caps the length of derived page descriptions.
const MaxSummaryChars = 240

var (
	scriptRe     = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	styleRe      = regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style>`)
	tagRe        = regexp.MustCompile(`(?s)<[^>]+>`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	bracketRe    = regexp.MustCompile(`\[[^\]]*\]|\([^)]*\)`)

	titleTagRe = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	metaDescRe = regexp.MustCompile(`(?is)<meta[^>]+name=["']description["'][^>]+content=["']([^"']*)["']`)
	ogImageRe  = regexp.MustCompile(`(?is)<meta[^>]+property=["']og:image["'][^>]+content=["']([^"']*)["']`)
)

// StripHTML reduces raw markup to whitespace-collapsed plain text.
// Script and style blocks are removed before tags so their bodies never
// leak into the output.
func StripHTML(raw string) string {
	s := scriptRe.ReplaceAllString(raw, " ")
	s = styleRe.ReplaceAllString(s, " ")
	s = tagRe.ReplaceAllString(s, " ")
	s = strings.NewReplacer("&nbsp;", " ", "&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`, "&#39;", "'").Replace(s)
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// CleanTitle removes bracketed and parenthetical segments and collapses
// whitespace.
func CleanTitle(title string) string {
	t := bracketRe.ReplaceAllString(title, "")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(t, " "))
}

// Summarize derives a short description from extracted text. Empty text
// maps to the NoSummary sentinel; anything longer than MaxSummaryChars
// is truncated with a trailing ellipsis.
func Summarize(text string) string {
	t := strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
	if t == "" {
		return NoSummary
	}
	if len(t) > MaxSummaryChars {
		return t[:MaxSummaryChars] + "..."
	}
	return t
}

// Truncate caps s at max bytes. Idempotent for already-short input.
func Truncate(s string, max int) string {
	if max > 0 && len(s) > max {
		return s[:max]
	}
	return s
}

// PageTitle extracts the contents of the first <title> element.
func PageTitle(html string) string {
	if m := titleTagRe.FindStringSubmatch(html); m != nil {
		return CleanTitle(StripHTML(m[1]))
	}
	return ""
}

// MetaDescription extracts the description meta tag, if present.
func MetaDescription(html string) string {
	if m := metaDescRe.FindStringSubmatch(html); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// OGImage extracts the og:image meta tag, if present.
func OGImage(html string) string {
	if m := ogImageRe.FindStringSubmatch(html); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}
