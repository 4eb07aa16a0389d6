package feed

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed/rss"

	"ChangelogDigest/internal/domain"
	"ChangelogDigest/internal/ports"
)

const (
	categorySchemeType  = "changelog-type"
	categorySchemeLabel = "changelog-label"
)

// RSSSource fetches the changelog feed and maps items to domain entries.
// The RSS-specific parser is used instead of the universal one because the
// feed encodes entry type and labels in category domain attributes, which
// the universal translation discards.
type RSSSource struct {
	feedURL string
	maxAge  time.Duration
	client  *http.Client
	parser  *rss.Parser
	logger  *slog.Logger
	now     func() time.Time
}

var _ ports.FeedSource = (*RSSSource)(nil)

// NewRSSSource wires an HTTP client; maxAgeDays bounds how far back entries
// are accepted.
func NewRSSSource(feedURL string, maxAgeDays int, client *http.Client, logger *slog.Logger) *RSSSource {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &RSSSource{
		feedURL: feedURL,
		maxAge:  time.Duration(maxAgeDays) * 24 * time.Hour,
		client:  client,
		parser:  &rss.Parser{},
		logger:  logger,
		now:     time.Now,
	}
}

// Fetch downloads and parses the feed, returning entries published within
// the age window. Items with unparseable dates are skipped.
func (s *RSSSource) Fetch(ctx context.Context) ([]domain.Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "ChangelogDigest/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned %s", resp.Status)
	}

	parsed, err := s.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	cutoff := s.now().UTC().Add(-s.maxAge)

	entries := make([]domain.Entry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item.PubDateParsed == nil {
			s.debug("skipping item with unparseable date", "title", item.Title)
			continue
		}
		published := item.PubDateParsed.UTC()
		if published.Before(cutoff) {
			continue
		}

		category, labels := classifyCategories(item)

		entries = append(entries, domain.Entry{
			Title:       item.Title,
			URL:         item.Link,
			Published:   published,
			ContentHTML: itemContent(item),
			Summary:     item.Description,
			Category:    category,
			Labels:      labels,
		})
	}

	s.debug("feed fetched", "total", len(parsed.Items), "within_window", len(entries))
	return entries, nil
}

// classifyCategories reads the feed's category tags: the changelog-type
// scheme overrides the default Improvement category, changelog-label tags
// accumulate as labels.
func classifyCategories(item *rss.Item) (domain.Category, []string) {
	category := domain.CategoryImprovement
	var labels []string

	for _, tag := range item.Categories {
		switch tag.Domain {
		case categorySchemeType:
			if tag.Value != "" {
				category = domain.Category(tag.Value)
			}
		case categorySchemeLabel:
			if tag.Value != "" {
				labels = append(labels, tag.Value)
			}
		}
	}

	return category, labels
}

// itemContent prefers the full content:encoded body over the description.
func itemContent(item *rss.Item) string {
	if ns, ok := item.Extensions["content"]; ok {
		if encoded, ok := ns["encoded"]; ok && len(encoded) > 0 && encoded[0].Value != "" {
			return encoded[0].Value
		}
	}
	return item.Description
}

func (s *RSSSource) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
