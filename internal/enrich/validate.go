package enrich

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// Validator checks that a candidate page is actually about the changelog
// entry before the resolver accepts it. Acceptance is keyword overlap: the
// entry title is tokenized with an extended stopword list (generic changelog
// vocabulary matches everything and proves nothing), and the surviving
// keywords are counted against the page body and the page's own title.
type Validator struct {
	fetcher   *pageFetcher
	stopwords map[string]struct{}
	logger    *slog.Logger
}

// NewValidator wires the relevance check; a nil client gets a bounded default.
func NewValidator(cfg Config, client *http.Client, logger *slog.Logger) *Validator {
	return &Validator{
		fetcher:   newPageFetcher(client, cfg.FetchTimeout),
		stopwords: cfg.validatorStopwords(),
		logger:    logger,
	}
}

// Validate fetches the candidate page and accepts it iff the body or title
// keyword ratio reaches its threshold. Fetch failures and keyword-free
// titles reject (fail closed).
func (v *Validator) Validate(ctx context.Context, candidateURL, title string, th Thresholds) bool {
	doc, err := v.fetcher.document(ctx, candidateURL)
	if err != nil {
		v.debug("candidate fetch failed", "url", candidateURL, "error", err)
		return false
	}

	tokens := keywords(title, v.stopwords)
	if len(tokens) == 0 {
		v.debug("no usable title keywords", "title", title)
		return false
	}

	doc.Find("script, style").Remove()
	bodyText := strings.ToLower(flattenText(doc.Selection))
	pageTitle := strings.ToLower(normalizeSpace(doc.Find("title").First().Text()))

	bodyRatio := overlapRatio(tokens, bodyText)
	titleRatio := overlapRatio(tokens, pageTitle)

	accepted := bodyRatio >= th.Body || titleRatio >= th.Title
	v.debug("candidate scored",
		"url", candidateURL,
		"body_ratio", bodyRatio,
		"title_ratio", titleRatio,
		"accepted", accepted)
	return accepted
}

// overlapRatio is the fraction of keywords present anywhere in the haystack.
func overlapRatio(tokens []string, haystack string) float64 {
	if len(tokens) == 0 {
		return 0
	}
	hits := 0
	for _, token := range tokens {
		if strings.Contains(haystack, token) {
			hits++
		}
	}
	return float64(hits) / float64(len(tokens))
}

func (v *Validator) debug(msg string, args ...any) {
	if v.logger != nil {
		v.logger.Debug(msg, args...)
	}
}
