package classify

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var whitespace = regexp.MustCompile(`\s+`)

// VisibleText extracts the rendered body text from an HTML document and
// collapses runs of whitespace, matching what a visitor would read. When the
// content is not parseable HTML the raw content is collapsed instead, so
// marker matching still gets a chance.
func VisibleText(content string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return collapse(content)
	}
	doc.Find("script, style, noscript").Remove()
	text := doc.Find("body").Text()
	if strings.TrimSpace(text) == "" {
		text = content
	}
	return collapse(text)
}

func collapse(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}
