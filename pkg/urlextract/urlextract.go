// Package urlextract finds links in free-form chat text.
package urlextract

import (
	"regexp"
	"strings"
)

// urlRegex matches scheme-qualified URLs and bare www. hosts. The scheme
// branch is listed first so a "http://www.x" match is never split in two.
var urlRegex = regexp.MustCompile(`https?://\S+|www\.\S+`)

// Extract returns every URL-like substring of text in order of appearance.
// Matches without a scheme get "http://" prepended. Duplicates are kept.
func Extract(text string) []string {
	matches := urlRegex.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}
	urls := make([]string, 0, len(matches))
	for _, match := range matches {
		if !strings.HasPrefix(match, "http") {
			match = "http://" + match
		}
		urls = append(urls, match)
	}
	return urls
}
