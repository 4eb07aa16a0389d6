package ports

import (
	"context"
	"time"

	"ChangelogDigest/internal/domain"
)

// FeedSource pulls changelog entries from the upstream feed.
type FeedSource interface {
	Fetch(ctx context.Context) ([]domain.Entry, error)
}

// EntryRepository persists seen entry URLs for deduplication. Eviction of
// stale URLs is owned by the implementation; callers only see membership.
type EntryRepository interface {
	AlreadySeen(ctx context.Context, urls []string) (map[string]bool, error)
	MarkSeen(ctx context.Context, urls []string) error
}

// Enricher derives docs links, summaries, and demo flows for a batch.
type Enricher interface {
	EnrichAll(ctx context.Context, entries []domain.Entry) []domain.EnrichedEntry
}

// DigestRenderer produces the self-contained HTML email body.
type DigestRenderer interface {
	Render(digest domain.Digest, digestDate string) (string, error)
}

// Sender delivers a prepared email, reporting per-recipient outcomes.
type Sender interface {
	Name() string
	Send(ctx context.Context, msg domain.EmailMessage) ([]domain.Delivery, error)
}

// Scheduler controls when pipeline runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
