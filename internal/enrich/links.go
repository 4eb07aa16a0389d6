package enrich

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"ChangelogDigest/internal/domain"
)

// Link texts that conventionally point at the main documentation page.
var learnMorePhrases = []string{
	"learn more",
	"documentation",
	"read more",
	"see the docs",
	"view docs",
}

// LinkBundle partitions the candidate links of one HTML body into priority
// buckets. Each bucket keeps document order; the first element is the
// representative pick for that bucket.
type LinkBundle struct {
	Docs      []string
	LearnMore []string
	Blog      []string
	Other     []string
}

// Best returns the representative of the highest-priority non-empty bucket,
// or "" when the bundle holds no candidates.
func (b LinkBundle) Best() string {
	for _, bucket := range [][]string{b.Docs, b.LearnMore, b.Blog, b.Other} {
		if len(bucket) > 0 {
			return bucket[0]
		}
	}
	return ""
}

// Empty reports whether no bucket holds any link.
func (b LinkBundle) Empty() bool {
	return b.Best() == ""
}

// LinkExtractor classifies anchors found in changelog bodies.
type LinkExtractor struct {
	docsDomain    string
	blogDomain    string
	siteDomain    string
	changelogPath string
}

// NewLinkExtractor builds an extractor for the configured site domains.
func NewLinkExtractor(cfg Config) *LinkExtractor {
	return &LinkExtractor{
		docsDomain:    cfg.DocsDomain,
		blogDomain:    cfg.BlogDomain,
		siteDomain:    cfg.SiteDomain,
		changelogPath: cfg.ChangelogPath,
	}
}

// Extract walks anchors in document order and sorts them into priority
// buckets. Anchors with empty or fragment-only targets are skipped; each
// anchor lands in the first bucket whose rule matches.
func (e *LinkExtractor) Extract(contentHTML string) LinkBundle {
	var bundle LinkBundle

	doc := parseFragment(contentHTML)
	if doc == nil {
		return bundle
	}

	doc.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		text := strings.ToLower(strings.TrimSpace(link.Text()))

		switch {
		case strings.Contains(href, e.docsDomain):
			bundle.Docs = append(bundle.Docs, href)
		case matchesLearnMore(text):
			bundle.LearnMore = append(bundle.LearnMore, href)
		case strings.Contains(href, e.blogDomain) && !strings.Contains(href, e.changelogPath):
			bundle.Blog = append(bundle.Blog, href)
		case strings.Contains(href, e.siteDomain) && !strings.Contains(href, e.changelogPath):
			bundle.Other = append(bundle.Other, href)
		}
	})

	return bundle
}

// Reference collects at most one link per reference category for the
// digest's link section, independent of the bundle's priority logic.
func (e *LinkExtractor) Reference(contentHTML string) domain.ReferenceLinks {
	var links domain.ReferenceLinks

	doc := parseFragment(contentHTML)
	if doc == nil {
		return links
	}

	featurePrefix := e.siteDomain + "/features"

	doc.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}

		switch {
		case strings.Contains(href, e.docsDomain) && links.Docs == "":
			links.Docs = href
		case strings.Contains(href, e.blogDomain) && !strings.Contains(href, e.changelogPath) && links.Blog == "":
			links.Blog = href
		case strings.Contains(href, featurePrefix) && links.FeaturePage == "":
			links.FeaturePage = href
		}
	})

	return links
}

// IsDocs reports whether the URL points at the official docs domain.
func (e *LinkExtractor) IsDocs(link string) bool {
	return strings.Contains(link, e.docsDomain)
}

func matchesLearnMore(text string) bool {
	for _, phrase := range learnMorePhrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}
