package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"ChangelogDigest/internal/config"
	"ChangelogDigest/internal/enrich"
	"ChangelogDigest/internal/infrastructure/email"
	"ChangelogDigest/internal/infrastructure/feed"
	"ChangelogDigest/internal/infrastructure/render"
	"ChangelogDigest/internal/infrastructure/scheduler"
	"ChangelogDigest/internal/infrastructure/state"
	"ChangelogDigest/internal/logging"
	"ChangelogDigest/internal/ports"
	"ChangelogDigest/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg    config.Config
	logger *slog.Logger
	deps   usecase.PipelineDeps
}

// New builds a runnable application instance. The email sender is attached
// per run, so preview and dry-run work without transport credentials.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	repository, err := buildRepository(cfg.State)
	if err != nil {
		return nil, err
	}

	renderer, err := render.NewHTMLRenderer(cfg.Scheduler.Location())
	if err != nil {
		return nil, err
	}

	deps := usecase.PipelineDeps{
		Source:     feed.NewRSSSource(cfg.Feed.URL, cfg.Feed.MaxAgeDays, nil, baseLogger.With("component", "feed")),
		Repository: repository,
		Enricher:   enrich.New(enrichConfig(cfg.Enrich), nil, baseLogger.With("component", "enrich")),
		Renderer:   renderer,
		From:       cfg.Email.From,
		Recipients: cfg.Email.To,
		Location:   cfg.Scheduler.Location(),
		Logger:     baseLogger.With("component", "pipeline"),
	}

	return &Application{cfg: cfg, logger: baseLogger, deps: deps}, nil
}

// Run performs a single pipeline execution.
func (a *Application) Run(ctx context.Context, opts usecase.RunOptions) error {
	deps := a.deps
	if !opts.DryRun && !opts.Preview {
		sender, err := a.buildSender()
		if err != nil {
			return err
		}
		deps.Sender = sender
	}

	return usecase.NewPipeline(deps).Run(ctx, time.Now(), opts)
}

// Schedule runs the pipeline on the configured cron cadence until the
// context is cancelled.
func (a *Application) Schedule(ctx context.Context) error {
	sender, err := a.buildSender()
	if err != nil {
		return err
	}

	deps := a.deps
	deps.Sender = sender

	driver := scheduler.NewCronScheduler(a.cfg.Scheduler.CronExpression, a.cfg.Scheduler.Location())
	sched := usecase.NewScheduler(driver, usecase.NewPipeline(deps), a.logger.With("component", "scheduler"))

	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	a.logger.Info("scheduler started", "cron", a.cfg.Scheduler.CronExpression)

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return sched.Stop(stopCtx)
}

// buildSender constructs the configured transport, surfacing credential
// problems before any send is attempted.
func (a *Application) buildSender() (ports.Sender, error) {
	if len(a.cfg.Email.To) == 0 {
		return nil, fmt.Errorf("no digest recipients configured (set DIGEST_TO_EMAIL or email.to)")
	}
	sender, err := email.NewSender(a.cfg.Email)
	if err != nil {
		return nil, fmt.Errorf("configure email transport: %w", err)
	}
	return sender, nil
}

func buildRepository(cfg config.StateConfig) (ports.EntryRepository, error) {
	switch cfg.Backend {
	case "file", "":
		return state.NewFileStore(cfg.Path, cfg.TTLDays), nil
	case "postgres":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("state backend postgres requires a DSN (set DATABASE_DSN or state.dsn)")
		}
		db, err := sql.Open("postgres", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return state.NewPostgresStore(db, cfg.TTLDays), nil
	default:
		return nil, fmt.Errorf("unknown state backend %q", cfg.Backend)
	}
}

func enrichConfig(cfg config.EnrichConfig) enrich.Config {
	out := enrich.DefaultConfig()
	if cfg.DocsDomain != "" {
		out.DocsDomain = cfg.DocsDomain
	}
	if cfg.DocsBaseURL != "" {
		out.DocsBaseURL = cfg.DocsBaseURL
	}
	if cfg.BlogDomain != "" {
		out.BlogDomain = cfg.BlogDomain
	}
	if cfg.SiteDomain != "" {
		out.SiteDomain = cfg.SiteDomain
	}
	if cfg.ChangelogPath != "" {
		out.ChangelogPath = cfg.ChangelogPath
	}
	if cfg.SearchURL != "" {
		out.SearchURL = cfg.SearchURL
	}
	if cfg.LocalePrefix != "" {
		out.LocalePrefix = cfg.LocalePrefix
	}
	if cfg.FetchTimeoutSec > 0 {
		out.FetchTimeout = time.Duration(cfg.FetchTimeoutSec) * time.Second
	}
	if cfg.RelaxedBodyThreshold > 0 {
		out.Relaxed.Body = cfg.RelaxedBodyThreshold
	}
	if cfg.RelaxedTitleThreshold > 0 {
		out.Relaxed.Title = cfg.RelaxedTitleThreshold
	}
	if cfg.StrictBodyThreshold > 0 {
		out.Strict.Body = cfg.StrictBodyThreshold
	}
	if cfg.StrictTitleThreshold > 0 {
		out.Strict.Title = cfg.StrictTitleThreshold
	}
	out.ExtraStopwords = cfg.ExtraStopwords
	return out
}
