package enrich

import (
	"context"
	"log/slog"
)

// Resolver finds a validated documentation URL for a changelog entry. It
// works through an ordered chain of candidate tiers, each validated at a
// strictness matching the tier's prior trust, and stops at the first
// acceptance. Resolving to nothing is the common terminal case, not an
// error.
type Resolver struct {
	extractor *LinkExtractor
	searcher  *Searcher
	validator *Validator
	relaxed   Thresholds
	strict    Thresholds
	logger    *slog.Logger
}

// NewResolver assembles the tiered resolution chain.
func NewResolver(cfg Config, extractor *LinkExtractor, searcher *Searcher, validator *Validator, logger *slog.Logger) *Resolver {
	return &Resolver{
		extractor: extractor,
		searcher:  searcher,
		validator: validator,
		relaxed:   cfg.Relaxed,
		strict:    cfg.Strict,
		logger:    logger,
	}
}

// Resolve returns the first validated candidate URL, or "" when every tier
// falls through. Embedded links (official docs or otherwise) are tried at
// relaxed thresholds first; the docs search result is tried strictly. The
// search round-trip only happens when no embedded candidate was accepted.
func (r *Resolver) Resolve(ctx context.Context, title, contentHTML string) string {
	bundle := r.extractor.Extract(contentHTML)

	tiers := []struct {
		name string
		pick func() string
		th   Thresholds
	}{
		{name: "embedded", pick: bundle.Best, th: r.relaxed},
		{name: "search", pick: func() string { return r.searcher.Search(ctx, title) }, th: r.strict},
	}

	for _, tier := range tiers {
		candidate := tier.pick()
		if candidate == "" {
			continue
		}
		if r.validator.Validate(ctx, candidate, title, tier.th) {
			r.debug("docs url resolved", "tier", tier.name, "url", candidate)
			return candidate
		}
		r.debug("candidate rejected", "tier", tier.name, "url", candidate)
	}

	return ""
}

func (r *Resolver) debug(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}
