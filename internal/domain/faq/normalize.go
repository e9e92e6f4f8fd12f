package faq

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

// PlainText strips markup from an HTML fragment, decodes entities and
// collapses every whitespace run to a single space.
func PlainText(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return collapseWhitespace(fragment)
	}
	// block-level boundaries would otherwise glue words together
	doc.Find("br, p, li, div, h1, h2, h3, h4, h5, h6, tr").Each(func(_ int, sel *goquery.Selection) {
		sel.AppendHtml(" ")
	})
	doc.Find("script, style").Remove()
	return collapseWhitespace(doc.Text())
}

func collapseWhitespace(s string) string {
	var builder strings.Builder
	builder.Grow(len(s))
	lastSpace := true
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastSpace {
				builder.WriteRune(' ')
				lastSpace = true
			}
			continue
		}
		builder.WriteRune(r)
		lastSpace = false
	}
	return strings.TrimSpace(builder.String())
}
