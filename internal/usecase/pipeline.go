package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"ChangelogDigest/internal/domain"
	"ChangelogDigest/internal/ports"
)

// forceFallbackCount bounds how many recent entries a forced run previews
// when nothing new arrived.
const forceFallbackCount = 5

// PipelineDeps wires all driven adapters into the digest pipeline.
type PipelineDeps struct {
	Source     ports.FeedSource
	Repository ports.EntryRepository
	Enricher   ports.Enricher
	Renderer   ports.DigestRenderer
	Sender     ports.Sender
	From       string
	Recipients []string
	Location   *time.Location
	Logger     *slog.Logger
	Preview    io.Writer
}

// RunOptions tweak a single pipeline execution.
type RunOptions struct {
	// DryRun processes entries but skips the send and the state update.
	DryRun bool
	// Preview writes the rendered HTML to the preview writer instead of
	// sending.
	Preview bool
	// Force builds a digest even when no new entries exist, previewing the
	// most recent ones.
	Force bool
}

// Pipeline implements one digest run: load seen URLs, fetch the feed,
// filter new entries, enrich, render, deliver, record state.
type Pipeline struct {
	source     ports.FeedSource
	repository ports.EntryRepository
	enricher   ports.Enricher
	renderer   ports.DigestRenderer
	sender     ports.Sender
	from       string
	recipients []string
	location   *time.Location
	logger     *slog.Logger
	preview    io.Writer
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	preview := deps.Preview
	if preview == nil {
		preview = os.Stdout
	}
	location := deps.Location
	if location == nil {
		location = time.UTC
	}
	return &Pipeline{
		source:     deps.Source,
		repository: deps.Repository,
		enricher:   deps.Enricher,
		renderer:   deps.Renderer,
		sender:     deps.Sender,
		from:       deps.From,
		recipients: deps.Recipients,
		location:   location,
		logger:     deps.Logger,
		preview:    preview,
	}
}

// Run executes one digest cycle. Enrichment failures degrade individual
// entries; feed, render, and send failures abort the run before the state
// update so the next scheduled run retries naturally.
func (p *Pipeline) Run(ctx context.Context, now time.Time, opts RunOptions) error {
	logger := p.logger
	if logger != nil {
		logger = logger.With("run_id", uuid.NewString())
	}

	sending := !opts.DryRun && !opts.Preview
	if sending {
		if p.sender == nil {
			return fmt.Errorf("no email sender configured")
		}
		if len(p.recipients) == 0 {
			return fmt.Errorf("no digest recipients configured")
		}
	}

	entries, err := p.source.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetch feed: %w", err)
	}
	p.info(logger, "feed fetched", "entries", len(entries))

	fresh, err := p.filterNew(ctx, entries)
	if err != nil {
		return err
	}
	p.info(logger, "filtered new entries", "new", len(fresh), "total", len(entries))

	if len(fresh) == 0 {
		if !opts.Force {
			p.info(logger, "no new entries, nothing to send")
			return nil
		}
		if len(entries) > forceFallbackCount {
			entries = entries[:forceFallbackCount]
		}
		fresh = entries
		p.info(logger, "forced run with recent entries", "count", len(fresh))
	}

	releases, improvements, retirements := categorize(fresh)
	p.info(logger, "categorized entries",
		"releases", len(releases),
		"improvements", len(improvements),
		"retirements", len(retirements))

	digest := domain.Digest{
		Releases:     p.enricher.EnrichAll(ctx, releases),
		Improvements: p.enricher.EnrichAll(ctx, improvements),
		Retirements:  p.enricher.EnrichAll(ctx, retirements),
	}

	localNow := now.In(p.location)
	html, err := p.renderer.Render(digest, localNow.Format("January 2, 2006")+" PT")
	if err != nil {
		return fmt.Errorf("render digest: %w", err)
	}

	if opts.Preview {
		if _, err := io.WriteString(p.preview, html); err != nil {
			return fmt.Errorf("write preview: %w", err)
		}
		return nil
	}

	if opts.DryRun {
		p.info(logger, "dry run, skipping send and state update", "total", digest.Total())
		return nil
	}

	msg := domain.EmailMessage{
		From:    p.from,
		To:      p.recipients,
		Subject: fmt.Sprintf("GitHub Changelog Digest - %s (%d updates)", localNow.Format("Jan 2"), digest.Total()),
		HTML:    html,
	}

	deliveries, err := p.sender.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("send digest: %w", err)
	}
	for _, d := range deliveries {
		if d.Err != nil {
			p.warn(logger, "delivery failed", "recipient", d.Recipient, "error", d.Err)
		}
	}
	if !domain.AnyDelivered(deliveries) {
		return fmt.Errorf("digest not delivered to any recipient")
	}

	urls := make([]string, len(fresh))
	for i, entry := range fresh {
		urls[i] = entry.URL
	}
	if err := p.repository.MarkSeen(ctx, urls); err != nil {
		return fmt.Errorf("record seen urls: %w", err)
	}

	p.info(logger, "digest sent", "total", digest.Total(), "transport", p.sender.Name())
	return nil
}

func (p *Pipeline) filterNew(ctx context.Context, entries []domain.Entry) ([]domain.Entry, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	urls := make([]string, len(entries))
	for i, entry := range entries {
		urls[i] = entry.URL
	}

	seen, err := p.repository.AlreadySeen(ctx, urls)
	if err != nil {
		return nil, fmt.Errorf("load seen urls: %w", err)
	}

	var fresh []domain.Entry
	for _, entry := range entries {
		if !seen[entry.URL] {
			fresh = append(fresh, entry)
		}
	}
	return fresh, nil
}

func categorize(entries []domain.Entry) (releases, improvements, retirements []domain.Entry) {
	for _, entry := range entries {
		switch entry.Category {
		case domain.CategoryRelease:
			releases = append(releases, entry)
		case domain.CategoryRetired:
			retirements = append(retirements, entry)
		default:
			improvements = append(improvements, entry)
		}
	}
	return releases, improvements, retirements
}

func (p *Pipeline) info(logger *slog.Logger, msg string, args ...any) {
	if logger != nil {
		logger.Info(msg, args...)
	}
}

func (p *Pipeline) warn(logger *slog.Logger, msg string, args ...any) {
	if logger != nil {
		logger.Warn(msg, args...)
	}
}
