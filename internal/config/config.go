// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the application configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Content sources
const (
	SourceFiles = "files"
	SourceStore = "store"
)

// Log formats
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	Env        string `env:"TAGDIR_ENV" envDefault:"development"`
	LogLevel   string `env:"TAGDIR_LOG_LEVEL" envDefault:"info"`
	LogFormat  string `env:"TAGDIR_LOG_FORMAT" envDefault:"text"`
	ServerHost string `env:"TAGDIR_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"TAGDIR_SERVER_PORT" envDefault:"8080"`

	// Content configuration
	ContentRoot string   `env:"TAGDIR_CONTENT_ROOT" envDefault:"."`
	ContentDirs []string `env:"TAGDIR_CONTENT_DIRS" envDefault:"src/content/blueprints,data/recipes" envSeparator:","`
	ScriptDirs  []string `env:"TAGDIR_SCRIPT_DIRS" envDefault:"data/scripts" envSeparator:","`
	AuthorsFile string   `env:"TAGDIR_AUTHORS_FILE" envDefault:"data/authors/authors.json"` // relative to ContentRoot
	JobsFile    string   `env:"TAGDIR_JOBS_FILE" envDefault:"data/jobs/jobs.json"`          // relative to ContentRoot
	Source      string   `env:"TAGDIR_SOURCE" envDefault:"files"` // files or store
	LoadWorkers int      `env:"TAGDIR_LOAD_WORKERS" envDefault:"8"`

	// Database configuration
	DBDriver string `env:"TAGDIR_DB_DRIVER" envDefault:"sqlite"`
	DBDSN    string `env:"TAGDIR_DB_DSN" envDefault:"./data/tagdir.db"`

	// Write API
	ModeratorTokenHash string `env:"TAGDIR_MODERATOR_TOKEN_HASH"` // argon2id encoded hash

	SiteURL string `env:"TAGDIR_SITE_URL" envDefault:"http://localhost:8080"`
	RepoURL string `env:"TAGDIR_REPO_URL" envDefault:"https://github.com/leopoldus11/tag-directory"`

	// Corpus cache, off unless a TTL is set: by default every request reads
	// the source. RedisURL selects the shared Redis backend, otherwise
	// snapshots are kept in process.
	CacheTTL time.Duration `env:"TAGDIR_CACHE_TTL" envDefault:"0s"`
	RedisURL string        `env:"TAGDIR_REDIS_URL"`

	// Background jobs; "off" disables a job.
	RefreshSchedule    string `env:"TAGDIR_REFRESH_SCHEDULE" envDefault:"@every 5m"`
	PruneSchedule      string `env:"TAGDIR_PRUNE_SCHEDULE" envDefault:"@daily"`
	EventRetentionDays int    `env:"TAGDIR_EVENT_RETENTION_DAYS" envDefault:"30"`

	// Public API rate limiting per client IP
	RateLimitRPS   float64 `env:"TAGDIR_RATE_LIMIT_RPS" envDefault:"10"`
	RateLimitBurst int     `env:"TAGDIR_RATE_LIMIT_BURST" envDefault:"20"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// ModeratorEnabled reports whether the write API is configured.
func (c Config) ModeratorEnabled() bool {
	return c.ModeratorTokenHash != ""
}

// CacheEnabled reports whether corpus snapshots are cached.
func (c Config) CacheEnabled() bool {
	return c.CacheTTL > 0
}

// EventRetention returns how long event log entries are kept.
func (c Config) EventRetention() time.Duration {
	return time.Duration(c.EventRetentionDays) * 24 * time.Hour
}

// ContentPath resolves rel against the content root. Absolute paths are
// returned unchanged.
func (c Config) ContentPath(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(c.ContentRoot, rel)
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated and numeric settings.
func (c *Config) Validate() error {
	var errs []error

	switch c.Source {
	case SourceFiles, SourceStore:
	default:
		errs = append(errs, fmt.Errorf("TAGDIR_SOURCE must be %q or %q, got %q", SourceFiles, SourceStore, c.Source))
	}
	switch c.DBDriver {
	case "sqlite", "mysql":
	default:
		errs = append(errs, fmt.Errorf("TAGDIR_DB_DRIVER must be \"sqlite\" or \"mysql\", got %q", c.DBDriver))
	}
	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		errs = append(errs, fmt.Errorf("TAGDIR_LOG_FORMAT must be %q or %q, got %q", LogFormatText, LogFormatJSON, c.LogFormat))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("TAGDIR_LOG_LEVEL %q is not a known level", c.LogLevel))
	}

	if c.ServerPort < 1 || c.ServerPort > 65535 {
		errs = append(errs, fmt.Errorf("TAGDIR_SERVER_PORT must be between 1 and 65535, got %d", c.ServerPort))
	}
	if c.LoadWorkers < 1 {
		errs = append(errs, fmt.Errorf("TAGDIR_LOAD_WORKERS must be positive, got %d", c.LoadWorkers))
	}
	if c.CacheTTL < 0 {
		errs = append(errs, fmt.Errorf("TAGDIR_CACHE_TTL must not be negative, got %s", c.CacheTTL))
	}
	if c.EventRetentionDays < 1 {
		errs = append(errs, fmt.Errorf("TAGDIR_EVENT_RETENTION_DAYS must be positive, got %d", c.EventRetentionDays))
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst < 1 {
		errs = append(errs, errors.New("TAGDIR_RATE_LIMIT_RPS and TAGDIR_RATE_LIMIT_BURST must be positive"))
	}
	if c.ModeratorTokenHash != "" && !strings.HasPrefix(c.ModeratorTokenHash, "$argon2id$") {
		errs = append(errs, errors.New("TAGDIR_MODERATOR_TOKEN_HASH must be an argon2id hash; generate one with: tagctl hash-token"))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
