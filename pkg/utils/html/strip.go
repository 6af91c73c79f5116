// ABOUTME: HTML utilities for reducing markup to plain text
// ABOUTME: Uses goquery so entities and nested tags are handled by a real parser

package html

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// StripHTML removes tags, scripts and styles and collapses whitespace
func StripHTML(markup string) string {
	if !strings.ContainsAny(markup, "<&") {
		return strings.Join(strings.Fields(markup), " ")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return strings.Join(strings.Fields(markup), " ")
	}
	doc.Find("script, style, noscript").Remove()

	return strings.Join(strings.Fields(doc.Text()), " ")
}

// Truncate shortens text to at most limit runes, ending in "..." when cut
func Truncate(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return strings.TrimRight(string(runes[:limit-3]), " ") + "..."
}
