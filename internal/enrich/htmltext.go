package enrich

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// flattenText walks the selection and joins every text node with single
// spaces, so text from adjacent elements never runs together.
func flattenText(sel *goquery.Selection) string {
	var b strings.Builder
	var walk func(s *goquery.Selection)
	walk = func(s *goquery.Selection) {
		s.Contents().Each(func(_ int, c *goquery.Selection) {
			if goquery.NodeName(c) == "#text" {
				b.WriteString(c.Text())
				b.WriteByte(' ')
				return
			}
			walk(c)
		})
	}
	walk(sel)
	return normalizeSpace(b.String())
}

func normalizeSpace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// parseFragment parses an HTML fragment, tolerating empty or malformed
// input; on parse failure it returns nil and callers degrade to empty output.
func parseFragment(fragment string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil
	}
	return doc
}
