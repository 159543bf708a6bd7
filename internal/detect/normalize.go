package detect

import (
	"regexp"
	"strings"
)

// titleSuffixes are applied in order; each strips streaming-service branding
// from the end of a raw title.
var titleSuffixes = []*regexp.Regexp{
	regexp.MustCompile(`(?i) - Netflix$`),
	regexp.MustCompile(`(?i) - YouTube$`),
	regexp.MustCompile(`(?i) - Prime Video$`),
	regexp.MustCompile(`(?i) - Disney\+$`),
	regexp.MustCompile(`(?i) - Hulu$`),
	regexp.MustCompile(`(?i) - HBO Max$`),
	regexp.MustCompile(`(?i) - Apple TV\+$`),
	regexp.MustCompile(`(?i) \| Netflix$`),
	regexp.MustCompile(`(?i) \| YouTube$`),
	regexp.MustCompile(`(?i) \| Prime Video$`),
	regexp.MustCompile(`(?i) Watch on .+$`),
	regexp.MustCompile(`(?i) - Watch .+$`),
	regexp.MustCompile(` \(.+\)$`),
}

var watchPrefix = regexp.MustCompile(`(?i)^Watch\s+`)

// CleanTitle normalizes a raw extracted title for display.
//
// Suffixes go first, then the "Watch " prefix, then whitespace is collapsed,
// and only then is one layer of enclosing quotes removed.
func CleanTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return ""
	}

	for _, suffix := range titleSuffixes {
		title = suffix.ReplaceAllString(title, "")
	}

	title = watchPrefix.ReplaceAllString(title, "")
	title = collapseSpaces(title)

	// A lone quote is its own enclosing pair and cleans to "".
	if n := len(title); n > 0 {
		first, last := title[0], title[n-1]
		if first == last && (first == '"' || first == '\'') {
			title = title[min(1, n-1) : n-1]
		}
	}

	return title
}
