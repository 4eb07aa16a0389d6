package enrich

import (
	"context"
	"log/slog"
	"net/http"

	"ChangelogDigest/internal/domain"
	"ChangelogDigest/internal/ports"
)

// Enricher drives the full enrichment pass over a batch of entries:
// summaries and features from the body, a validated docs link through the
// resolver, a navigation path for releases, and a classified demo flow.
// Entries are processed one at a time; a failed network step degrades that
// entry's fields and never aborts the batch.
type Enricher struct {
	extractor *LinkExtractor
	resolver  *Resolver
	scraper   *NavigationScraper
	logger    *slog.Logger
}

var _ ports.Enricher = (*Enricher)(nil)

// New assembles the enrichment core. A nil client gets bounded defaults.
func New(cfg Config, client *http.Client, logger *slog.Logger) *Enricher {
	extractor := NewLinkExtractor(cfg)
	searcher := NewSearcher(cfg, client, child(logger, "search"))
	validator := NewValidator(cfg, client, child(logger, "validate"))

	return &Enricher{
		extractor: extractor,
		resolver:  NewResolver(cfg, extractor, searcher, validator, child(logger, "resolver")),
		scraper:   NewNavigationScraper(cfg, client, child(logger, "navigation")),
		logger:    logger,
	}
}

// EnrichAll derives an Enrichment for every entry, in order. The input
// slice is never mutated; derived fields live on the paired record.
func (e *Enricher) EnrichAll(ctx context.Context, entries []domain.Entry) []domain.EnrichedEntry {
	enriched := make([]domain.EnrichedEntry, 0, len(entries))
	for _, entry := range entries {
		e.debug("enriching entry", "title", entry.Title)
		enriched = append(enriched, domain.EnrichedEntry{
			Entry:      entry,
			Enrichment: e.enrich(ctx, entry),
		})
	}
	return enriched
}

func (e *Enricher) enrich(ctx context.Context, entry domain.Entry) domain.Enrichment {
	enrichment := domain.Enrichment{
		DetailedSummary: Summarize(entry.ContentHTML, entry.Summary),
		KeyFeatures:     Features(entry.ContentHTML),
		Links:           e.extractor.Reference(entry.ContentHTML),
	}

	enrichment.DocsURL = e.resolver.Resolve(ctx, entry.Title, entry.ContentHTML)
	enrichment.Demo = Classify(entry, enrichment.DetailedSummary, enrichment.KeyFeatures)
	enrichment.NavigationPath = enrichment.Demo.Navigation

	if entry.Category == domain.CategoryRelease {
		if enrichment.DocsURL != "" {
			if path := e.scraper.Path(ctx, enrichment.DocsURL); path != "" {
				enrichment.NavigationPath = path
			}
		}
		enrichment.DemoOutline = Outline(entry, enrichment)
	}

	return enrichment
}

func child(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With("component", component)
}

func (e *Enricher) debug(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}
