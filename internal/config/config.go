package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone  = "America/Los_Angeles"
	configPathEnv    = "CHANGELOG_DIGEST_CONFIG"
	databaseDSNEnv   = "DATABASE_DSN"
	resendKeyEnv     = "RESEND_API_KEY"
	resendFromEnv    = "RESEND_FROM_EMAIL"
	sendgridKeyEnv   = "SENDGRID_API_KEY"
	smtpPasswordEnv  = "SMTP_PASSWORD"
	digestToEmailEnv = "DIGEST_TO_EMAIL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Feed      FeedConfig      `yaml:"feed"`
	Enrich    EnrichConfig    `yaml:"enrich"`
	State     StateConfig     `yaml:"state"`
	Email     EmailConfig     `yaml:"email"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// FeedConfig describes the upstream changelog feed.
type FeedConfig struct {
	URL        string `yaml:"url"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
}

// EnrichConfig carries the tuned constants of the enrichment core. The
// thresholds and stopword extension are empirical; keeping them here lets
// them be recalibrated without a rebuild.
type EnrichConfig struct {
	DocsDomain      string `yaml:"docsDomain"`
	DocsBaseURL     string `yaml:"docsBaseUrl"`
	BlogDomain      string `yaml:"blogDomain"`
	SiteDomain      string `yaml:"siteDomain"`
	ChangelogPath   string `yaml:"changelogPath"`
	SearchURL       string `yaml:"searchUrl"`
	LocalePrefix    string `yaml:"localePrefix"`
	FetchTimeoutSec int    `yaml:"fetchTimeoutSec"`

	RelaxedBodyThreshold  float64  `yaml:"relaxedBodyThreshold"`
	RelaxedTitleThreshold float64  `yaml:"relaxedTitleThreshold"`
	StrictBodyThreshold   float64  `yaml:"strictBodyThreshold"`
	StrictTitleThreshold  float64  `yaml:"strictTitleThreshold"`
	ExtraStopwords        []string `yaml:"extraStopwords"`
}

// StateConfig selects and parameterizes the seen-URL store.
type StateConfig struct {
	Backend string `yaml:"backend"` // "file" or "postgres"
	Path    string `yaml:"path"`
	DSN     string `yaml:"dsn"`
	TTLDays int    `yaml:"ttlDays"`
}

// EmailConfig selects the transport and its credentials.
type EmailConfig struct {
	Transport string         `yaml:"transport"` // resend, sendgrid, smtp, file
	From      string         `yaml:"from"`
	To        []string       `yaml:"to"`
	Resend    ResendConfig   `yaml:"resend"`
	SendGrid  SendGridConfig `yaml:"sendgrid"`
	SMTP      SMTPConfig     `yaml:"smtp"`
	File      FileConfig     `yaml:"file"`
}

// ResendConfig wires the Resend HTTP API.
type ResendConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"apiKey"`
}

// SendGridConfig wires the SendGrid HTTP API.
type SendGridConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"apiKey"`
}

// SMTPConfig wires a plain SMTP relay.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// FileConfig wires the file sender used for preview-style deployments.
type FileConfig struct {
	Path string `yaml:"path"`
}

// SchedulerConfig defines when the digest run should execute.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// LoggingConfig controls the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.State.DSN = v
	}

	if v := os.Getenv(resendKeyEnv); v != "" {
		c.Email.Resend.APIKey = v
	}

	if v := os.Getenv(resendFromEnv); v != "" {
		c.Email.From = v
	}

	if v := os.Getenv(sendgridKeyEnv); v != "" {
		c.Email.SendGrid.APIKey = v
	}

	if v := os.Getenv(smtpPasswordEnv); v != "" {
		c.Email.SMTP.Password = v
	}

	if v := os.Getenv(digestToEmailEnv); v != "" {
		c.Email.To = []string{v}
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Feed.URL != "" {
		base.Feed.URL = override.Feed.URL
	}
	if override.Feed.MaxAgeDays > 0 {
		base.Feed.MaxAgeDays = override.Feed.MaxAgeDays
	}

	base.Enrich = mergeEnrich(base.Enrich, override.Enrich)

	if override.State.Backend != "" {
		base.State.Backend = override.State.Backend
	}
	if override.State.Path != "" {
		base.State.Path = override.State.Path
	}
	if override.State.DSN != "" {
		base.State.DSN = override.State.DSN
	}
	if override.State.TTLDays > 0 {
		base.State.TTLDays = override.State.TTLDays
	}

	if override.Email.Transport != "" {
		base.Email.Transport = override.Email.Transport
	}
	if override.Email.From != "" {
		base.Email.From = override.Email.From
	}
	if len(override.Email.To) > 0 {
		base.Email.To = override.Email.To
	}
	if override.Email.Resend.Endpoint != "" {
		base.Email.Resend.Endpoint = override.Email.Resend.Endpoint
	}
	if override.Email.Resend.APIKey != "" {
		base.Email.Resend.APIKey = override.Email.Resend.APIKey
	}
	if override.Email.SendGrid.Endpoint != "" {
		base.Email.SendGrid.Endpoint = override.Email.SendGrid.Endpoint
	}
	if override.Email.SendGrid.APIKey != "" {
		base.Email.SendGrid.APIKey = override.Email.SendGrid.APIKey
	}
	if override.Email.SMTP.Host != "" {
		base.Email.SMTP = override.Email.SMTP
	}
	if override.Email.File.Path != "" {
		base.Email.File.Path = override.Email.File.Path
	}

	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}

func mergeEnrich(base, override EnrichConfig) EnrichConfig {
	if override.DocsDomain != "" {
		base.DocsDomain = override.DocsDomain
	}
	if override.DocsBaseURL != "" {
		base.DocsBaseURL = override.DocsBaseURL
	}
	if override.BlogDomain != "" {
		base.BlogDomain = override.BlogDomain
	}
	if override.SiteDomain != "" {
		base.SiteDomain = override.SiteDomain
	}
	if override.ChangelogPath != "" {
		base.ChangelogPath = override.ChangelogPath
	}
	if override.SearchURL != "" {
		base.SearchURL = override.SearchURL
	}
	if override.LocalePrefix != "" {
		base.LocalePrefix = override.LocalePrefix
	}
	if override.FetchTimeoutSec > 0 {
		base.FetchTimeoutSec = override.FetchTimeoutSec
	}
	if override.RelaxedBodyThreshold > 0 {
		base.RelaxedBodyThreshold = override.RelaxedBodyThreshold
	}
	if override.RelaxedTitleThreshold > 0 {
		base.RelaxedTitleThreshold = override.RelaxedTitleThreshold
	}
	if override.StrictBodyThreshold > 0 {
		base.StrictBodyThreshold = override.StrictBodyThreshold
	}
	if override.StrictTitleThreshold > 0 {
		base.StrictTitleThreshold = override.StrictTitleThreshold
	}
	if len(override.ExtraStopwords) > 0 {
		base.ExtraStopwords = override.ExtraStopwords
	}
	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Feed: FeedConfig{
			URL:        "https://github.blog/changelog/feed/",
			MaxAgeDays: 7,
		},
		Enrich: EnrichConfig{
			DocsDomain:            "docs.github.com",
			DocsBaseURL:           "https://docs.github.com",
			BlogDomain:            "github.blog",
			SiteDomain:            "github.com",
			ChangelogPath:         "/changelog/",
			SearchURL:             "https://docs.github.com/search",
			LocalePrefix:          "/en/",
			FetchTimeoutSec:       10,
			RelaxedBodyThreshold:  0.40,
			RelaxedTitleThreshold: 0.30,
			StrictBodyThreshold:   0.60,
			StrictTitleThreshold:  0.50,
		},
		State: StateConfig{
			Backend: "file",
			Path:    "data/state.json",
			TTLDays: 90,
		},
		Email: EmailConfig{
			Transport: "resend",
			From:      "onboarding@resend.dev",
			Resend:    ResendConfig{Endpoint: "https://api.resend.com/emails"},
			SendGrid:  SendGridConfig{Endpoint: "https://api.sendgrid.com/v3/mail/send"},
			SMTP:      SMTPConfig{Port: 587},
			File:      FileConfig{Path: "digest.html"},
		},
		Scheduler: SchedulerConfig{CronExpression: "0 8 * * 1", Timezone: defaultTimezone, location: tz},
		Logging:   LoggingConfig{Level: "info"},
	}
}
