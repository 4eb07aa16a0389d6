package enrich

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Path fragments that mark search, policy, and onboarding pages rather than
// documentation articles.
var excludedSearchPaths = []string{
	"/search",
	"/site-policy",
	"/get-started/learning-about-github",
}

// Searcher queries the external docs search endpoint and picks the first
// article link out of the result page.
type Searcher struct {
	searchURL    string
	docsBaseURL  string
	localePrefix string
	maxKeywords  int
	fetcher      *pageFetcher
	logger       *slog.Logger
}

// NewSearcher wires the search endpoint; a nil client gets a bounded default.
func NewSearcher(cfg Config, client *http.Client, logger *slog.Logger) *Searcher {
	return &Searcher{
		searchURL:    cfg.SearchURL,
		docsBaseURL:  cfg.DocsBaseURL,
		localePrefix: cfg.LocalePrefix,
		maxKeywords:  6,
		fetcher:      newPageFetcher(client, cfg.FetchTimeout),
		logger:       logger,
	}
}

// Search strips stopwords from the query, asks the docs search endpoint, and
// returns the first qualifying article URL. Every failure mode is soft: no
// usable keywords, transport errors, and empty result pages all yield "".
func (s *Searcher) Search(ctx context.Context, query string) string {
	tokens := keywords(query)
	if len(tokens) == 0 {
		s.debug("no keywords survive stopword filter", "query", query)
		return ""
	}
	if len(tokens) > s.maxKeywords {
		tokens = tokens[:s.maxKeywords]
	}

	searchQuery := strings.Join(tokens, " ")
	requestURL := s.searchURL + "?query=" + url.QueryEscape(searchQuery)

	doc, err := s.fetcher.document(ctx, requestURL)
	if err != nil {
		s.warn("docs search failed", "query", searchQuery, "error", err)
		return ""
	}

	var found string
	doc.Find("a[href]").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		href, _ := link.Attr("href")
		if !strings.HasPrefix(href, s.localePrefix) {
			return true
		}
		for _, excluded := range excludedSearchPaths {
			if strings.Contains(href, excluded) {
				return true
			}
		}
		found = s.docsBaseURL + href
		return false
	})

	return found
}

func (s *Searcher) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *Searcher) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
