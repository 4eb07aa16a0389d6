package enrich

import (
	"context"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	// Imperative verb followed by a breadcrumb-like chain.
	breadcrumbExpr = regexp.MustCompile(`(?i)(?:navigate to|go to|click|select|open)\s+["']?([^"'\n]+(?:>|→|›)[^"'\n]+)["']?`)
	// Leading context word followed by an arrow-separated chain.
	contextChainExpr = regexp.MustCompile(`(?i)(?:Settings|Repository|Organization|Profile)\s*(?:>|→|›)\s*[^\n]+`)
	// Separator variants normalized to a single arrow glyph.
	separatorExpr = regexp.MustCompile(`\s*(?:>|›|→)\s*`)

	stepVerbs = []string{"click", "select", "navigate"}
)

// NavigationScraper pulls a "start here" breadcrumb path out of a docs page.
type NavigationScraper struct {
	fetcher *pageFetcher
	logger  *slog.Logger
}

// NewNavigationScraper wires the scraper; a nil client gets a bounded default.
func NewNavigationScraper(cfg Config, client *http.Client, logger *slog.Logger) *NavigationScraper {
	return &NavigationScraper{
		fetcher: newPageFetcher(client, cfg.FetchTimeout),
		logger:  logger,
	}
}

// Path fetches the docs page and applies three patterns in order, returning
// the first match: an imperative breadcrumb sentence, a context-word chain,
// or a short ordered list of action steps. Any fetch error yields "".
func (n *NavigationScraper) Path(ctx context.Context, docsURL string) string {
	doc, err := n.fetcher.document(ctx, docsURL)
	if err != nil {
		n.debug("navigation fetch failed", "url", docsURL, "error", err)
		return ""
	}

	text := doc.Text()

	if m := breadcrumbExpr.FindStringSubmatch(text); m != nil {
		return normalizeArrows(m[1])
	}

	if m := contextChainExpr.FindString(text); m != "" {
		return normalizeArrows(m)
	}

	return orderedListPath(doc)
}

// orderedListPath scans ordered lists for a plausible step sequence: between
// two and six items, at least one containing an action verb.
func orderedListPath(doc *goquery.Document) string {
	var path string
	doc.Find("ol").EachWithBreak(func(_ int, ol *goquery.Selection) bool {
		items := ol.Find("li")
		if items.Length() < 2 || items.Length() > 6 {
			return true
		}

		var steps []string
		items.Each(func(i int, li *goquery.Selection) {
			if i < 5 {
				steps = append(steps, normalizeSpace(li.Text()))
			}
		})

		if !containsStepVerb(steps) {
			return true
		}
		path = strings.Join(steps, " → ")
		return false
	})
	return path
}

func containsStepVerb(steps []string) bool {
	for _, step := range steps {
		lower := strings.ToLower(step)
		for _, verb := range stepVerbs {
			if strings.Contains(lower, verb) {
				return true
			}
		}
	}
	return false
}

func normalizeArrows(path string) string {
	return normalizeSpace(separatorExpr.ReplaceAllString(strings.TrimSpace(path), " → "))
}

func (n *NavigationScraper) debug(msg string, args ...any) {
	if n.logger != nil {
		n.logger.Debug(msg, args...)
	}
}
