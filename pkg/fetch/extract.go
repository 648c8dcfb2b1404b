package fetch

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const truncationMarker = "..."

// ExtractText reduces an HTML document to its visible text. Script and style
// elements are dropped, every text node becomes its own line and runs of
// whitespace are collapsed into line-based chunks.
func ExtractText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", err
	}
	doc.Find("script, style").Remove()

	var parts []string
	collectText(doc.Selection, &parts)
	return collapseWhitespace(strings.Join(parts, "\n")), nil
}

func collectText(sel *goquery.Selection, parts *[]string) {
	sel.Contents().Each(func(_ int, child *goquery.Selection) {
		switch goquery.NodeName(child) {
		case "#text":
			*parts = append(*parts, child.Text())
		case "#comment", "#doctype":
		default:
			collectText(child, parts)
		}
	})
}

// collapseWhitespace strips every line, splits lines on double spaces and
// joins the non-empty chunks with newlines.
func collapseWhitespace(text string) string {
	var chunks []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		for _, phrase := range strings.Split(line, "  ") {
			if phrase = strings.TrimSpace(phrase); phrase != "" {
				chunks = append(chunks, phrase)
			}
		}
	}
	return strings.Join(chunks, "\n")
}

// Truncate cuts text to maxChars runes and appends "..." when anything was cut.
func Truncate(text string, maxChars int) (string, bool) {
	if maxChars <= 0 {
		return text, false
	}
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text, false
	}
	return string(runes[:maxChars]) + truncationMarker, true
}
