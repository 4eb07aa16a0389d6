package enrich

import "time"

// Thresholds are the minimum keyword-overlap ratios a candidate page must
// reach against either the page body or the page title.
type Thresholds struct {
	Body  float64
	Title float64
}

// Config carries the domains and tuned constants of the enrichment core.
// The threshold values are empirical; treat them as calibration knobs, not
// derived quantities.
type Config struct {
	DocsDomain    string
	DocsBaseURL   string
	BlogDomain    string
	SiteDomain    string
	ChangelogPath string
	SearchURL     string
	LocalePrefix  string
	FetchTimeout  time.Duration

	// Relaxed applies to links embedded in the changelog body (higher prior
	// trust); Strict applies to search-engine results.
	Relaxed Thresholds
	Strict  Thresholds

	// ExtraStopwords extends the generic-vocabulary exclusion list used when
	// validating candidate pages.
	ExtraStopwords []string
}

// DefaultConfig returns the production constants for the GitHub changelog.
func DefaultConfig() Config {
	return Config{
		DocsDomain:    "docs.github.com",
		DocsBaseURL:   "https://docs.github.com",
		BlogDomain:    "github.blog",
		SiteDomain:    "github.com",
		ChangelogPath: "/changelog/",
		SearchURL:     "https://docs.github.com/search",
		LocalePrefix:  "/en/",
		FetchTimeout:  10 * time.Second,
		Relaxed:       Thresholds{Body: 0.40, Title: 0.30},
		Strict:        Thresholds{Body: 0.60, Title: 0.50},
	}
}

func (c Config) validatorStopwords() map[string]struct{} {
	if len(c.ExtraStopwords) == 0 {
		return genericStopwords
	}
	merged := make(map[string]struct{}, len(genericStopwords)+len(c.ExtraStopwords))
	for w := range genericStopwords {
		merged[w] = struct{}{}
	}
	for _, w := range c.ExtraStopwords {
		merged[w] = struct{}{}
	}
	return merged
}
