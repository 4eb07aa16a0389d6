package enrich

import (
	"github.com/PuerkitoBio/goquery"
)

const (
	maxFeatures      = 4
	minListItemLen   = 15
	maxListItemLen   = 150
	minBoldPhraseLen = 5
	maxBoldPhraseLen = 80
)

// Features pulls short capability phrases out of the entry body: list items
// first (changelogs enumerate capabilities as bullets), then bold phrases
// not already collected. Output keeps document order and is capped at four.
func Features(contentHTML string) []string {
	if contentHTML == "" {
		return nil
	}
	doc := parseFragment(contentHTML)
	if doc == nil {
		return nil
	}

	var features []string
	seen := map[string]bool{}

	doc.Find("li").Each(func(_ int, li *goquery.Selection) {
		text := normalizeSpace(li.Text())
		if len(text) > minListItemLen && len(text) < maxListItemLen {
			features = append(features, text)
			seen[text] = true
		}
	})

	doc.Find("strong, b").Each(func(_ int, bold *goquery.Selection) {
		text := normalizeSpace(bold.Text())
		if len(text) > minBoldPhraseLen && len(text) < maxBoldPhraseLen && !seen[text] {
			features = append(features, text)
			seen[text] = true
		}
	})

	if len(features) > maxFeatures {
		features = features[:maxFeatures]
	}
	return features
}
