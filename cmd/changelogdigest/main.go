package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"ChangelogDigest/internal/app"
	"ChangelogDigest/internal/config"
	"ChangelogDigest/internal/logging"
	"ChangelogDigest/internal/usecase"
)

func main() {
	// Optional .env; real env vars take precedence over the file.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts usecase.RunOptions

	root := &cobra.Command{
		Use:           "changelogdigest",
		Short:         "Send the GitHub changelog email digest",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			logger := logging.New(cfg.Logging.Level)

			application, err := app.New(cfg, logger)
			if err != nil {
				logger.Error("startup failed", "error", err)
				return err
			}

			if err := application.Run(cmd.Context(), opts); err != nil {
				logger.Error("digest run failed", "error", err)
				return err
			}
			return nil
		},
	}

	root.Flags().BoolVar(&opts.DryRun, "dry-run", false,
		"fetch and process entries but don't send email or update state")
	root.Flags().BoolVar(&opts.Force, "force", false,
		"send email even if there are no new entries (useful for testing)")
	root.Flags().BoolVar(&opts.Preview, "preview", false,
		"output HTML to stdout instead of sending email")

	root.AddCommand(newScheduleCmd())
	return root
}

func newScheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Run the digest on the configured cron cadence",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			logger := logging.New(cfg.Logging.Level)

			application, err := app.New(cfg, logger)
			if err != nil {
				logger.Error("startup failed", "error", err)
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := application.Schedule(ctx); err != nil {
				logger.Error("scheduler stopped", "error", err)
				return err
			}
			return nil
		},
	}
}
