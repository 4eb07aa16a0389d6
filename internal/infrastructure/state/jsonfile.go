package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"ChangelogDigest/internal/ports"
)

// FileStore persists seen entry URLs in a JSON document keyed by URL with a
// first-seen timestamp per entry. Entries older than the TTL are pruned on
// every load and save so the file never grows unbounded.
type FileStore struct {
	path string
	ttl  time.Duration
	now  func() time.Time
}

var _ ports.EntryRepository = (*FileStore)(nil)

// NewFileStore builds a store writing to path, evicting URLs after ttlDays.
func NewFileStore(path string, ttlDays int) *FileStore {
	return &FileStore{
		path: path,
		ttl:  time.Duration(ttlDays) * 24 * time.Hour,
		now:  time.Now,
	}
}

// stateDocument is the on-disk shape. The URL field is raw because the
// legacy format stored a bare list of URLs instead of a timestamp map.
type stateDocument struct {
	ProcessedURLs json.RawMessage `json:"processed_urls"`
}

// AlreadySeen returns a membership map for the given URLs.
func (s *FileStore) AlreadySeen(_ context.Context, urls []string) (map[string]bool, error) {
	seen, err := s.load()
	if err != nil {
		return nil, err
	}

	result := make(map[string]bool, len(urls))
	for _, u := range urls {
		if _, ok := seen[u]; ok {
			result[u] = true
		}
	}
	return result, nil
}

// MarkSeen records the URLs with the current timestamp, keeping existing
// timestamps for URLs already present.
func (s *FileStore) MarkSeen(_ context.Context, urls []string) error {
	seen, err := s.load()
	if err != nil {
		return err
	}

	now := s.now()
	for _, u := range urls {
		if _, ok := seen[u]; !ok {
			seen[u] = now
		}
	}

	return s.save(s.prune(seen))
}

func (s *FileStore) load() (map[string]time.Time, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]time.Time{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}

	var doc stateDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		// A corrupt state file means re-sending at worst; start fresh.
		return map[string]time.Time{}, nil
	}

	return s.prune(decodeURLs(doc.ProcessedURLs, s.now())), nil
}

// decodeURLs handles both formats: the timestamp map, and the legacy bare
// list which is migrated with the current timestamp.
func decodeURLs(raw json.RawMessage, now time.Time) map[string]time.Time {
	if len(raw) == 0 {
		return map[string]time.Time{}
	}

	var timestamps map[string]time.Time
	if err := json.Unmarshal(raw, &timestamps); err == nil {
		return timestamps
	}

	var legacy []string
	if err := json.Unmarshal(raw, &legacy); err == nil {
		migrated := make(map[string]time.Time, len(legacy))
		for _, u := range legacy {
			migrated[u] = now
		}
		return migrated
	}

	return map[string]time.Time{}
}

func (s *FileStore) prune(seen map[string]time.Time) map[string]time.Time {
	cutoff := s.now().Add(-s.ttl)
	kept := make(map[string]time.Time, len(seen))
	for u, ts := range seen {
		if ts.After(cutoff) {
			kept[u] = ts
		}
	}
	return kept
}

func (s *FileStore) save(seen map[string]time.Time) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}

	doc := map[string]map[string]time.Time{"processed_urls": seen}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}
