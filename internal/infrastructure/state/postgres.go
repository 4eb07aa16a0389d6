package state

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"ChangelogDigest/internal/ports"
)

// PostgresStore is the seen-URL repository backed by Postgres, for
// deployments where several scheduled runners share state. Schema:
//
//	CREATE TABLE seen_entries (
//	    url     TEXT PRIMARY KEY,
//	    seen_at TIMESTAMPTZ NOT NULL
//	);
type PostgresStore struct {
	db      *sql.DB
	ttl     time.Duration
	builder sq.StatementBuilderType
	now     func() time.Time
}

var _ ports.EntryRepository = (*PostgresStore)(nil)

// NewPostgresStore wires a sql.DB implementation.
func NewPostgresStore(db *sql.DB, ttlDays int) *PostgresStore {
	return &PostgresStore{
		db:      db,
		ttl:     time.Duration(ttlDays) * 24 * time.Hour,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		now:     time.Now,
	}
}

// AlreadySeen returns a membership map for the given URLs.
func (r *PostgresStore) AlreadySeen(ctx context.Context, urls []string) (map[string]bool, error) {
	if r.db == nil || len(urls) == 0 {
		return map[string]bool{}, nil
	}

	query, args, err := r.builder.
		Select("url").
		From("seen_entries").
		Where(sq.Eq{"url": urls}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build seen query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query seen: %w", err)
	}
	defer rows.Close()

	result := make(map[string]bool)
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("scan url: %w", err)
		}
		result[url] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return result, nil
}

// MarkSeen upserts the URLs with the current timestamp and evicts rows
// older than the TTL.
func (r *PostgresStore) MarkSeen(ctx context.Context, urls []string) error {
	if r.db == nil || len(urls) == 0 {
		return nil
	}

	now := r.now()
	insert := r.builder.
		Insert("seen_entries").
		Columns("url", "seen_at").
		Suffix("ON CONFLICT (url) DO NOTHING")
	for _, u := range urls {
		insert = insert.Values(u, now)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert seen: %w", err)
	}

	return r.evict(ctx, now)
}

func (r *PostgresStore) evict(ctx context.Context, now time.Time) error {
	query, args, err := r.builder.
		Delete("seen_entries").
		Where(sq.Lt{"seen_at": now.Add(-r.ttl)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build eviction: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("evict stale urls: %w", err)
	}
	return nil
}
