// Copyright (c) 2026 The tag-directory Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package commands implements the tagctl command line.
package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/leopoldus11/tag-directory/internal/config"
	"github.com/leopoldus11/tag-directory/internal/content"
	"github.com/leopoldus11/tag-directory/internal/loader"
	"github.com/leopoldus11/tag-directory/internal/logging"
	"github.com/leopoldus11/tag-directory/internal/store"
)

var versionString = "dev"

// options holds the global flags.
type options struct {
	root    string
	json    bool
	verbose bool
}

// NewRootCmd builds the tagctl command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "tagctl",
		Short: "tagctl - Tracking blueprint checker and maintenance tool",
		Long: `tagctl validates the blueprint content tree the same way the directory
API does, reports duplicates and maintains the database: migrations,
imports and moderator tokens.`,
		Version: versionString,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceErrors:      true,
		SilenceUsage:       true,
		FParseErrWhitelist: cobra.FParseErrWhitelist{},
	}

	root.PersistentFlags().StringVar(&opts.root, "root", "", "content root (default: TAGDIR_CONTENT_ROOT or .)")
	root.PersistentFlags().BoolVar(&opts.json, "json", false, "print machine-readable JSON")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "V", false, "log debug output to stderr")

	root.AddCommand(
		newValidateCmd(opts),
		newDuplicatesCmd(opts),
		newMigrateCmd(opts),
		newImportCmd(opts),
		newRankCmd(opts),
		newHashTokenCmd(opts),
	)
	return root
}

// Execute runs tagctl with the process arguments. Errors not yet shown to
// the user are printed to stderr.
func Execute() error {
	err := NewRootCmd().Execute()
	if err != nil && !errors.Is(err, errReported) {
		failure(os.Stderr, "%v", err)
	}
	return err
}

// SetVersionInfo sets the version information for the CLI.
func SetVersionInfo(v, c, d string) {
	versionString = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

// loadConfig reads .env and the environment, applying the --root override.
func (o *options) loadConfig() (*config.Config, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if o.root != "" {
		cfg.ContentRoot = o.root
	}
	return cfg, nil
}

// logger returns a stderr logger; quiet unless --verbose.
func (o *options) logger() *slog.Logger {
	level := "warn"
	if o.verbose {
		level = "debug"
	}
	return slog.New(logging.NewHandler(os.Stderr, level, config.LogFormatText))
}

// loadCorpus reads and validates the file content tree.
func loadCorpus(ctx context.Context, cfg *config.Config) (content.Corpus, error) {
	src := loader.NewFileSource(cfg.ContentRoot, cfg.ContentDirs, cfg.LoadWorkers)
	items, loadErrs, err := src.Load(ctx)
	if err != nil {
		return content.Corpus{}, fmt.Errorf("loading content from %s: %w", cfg.ContentRoot, err)
	}
	return content.BuildCorpus(items, loadErrs), nil
}

// loadScripts reads and validates the script files.
func loadScripts(ctx context.Context, cfg *config.Config) (content.ScriptSet, error) {
	src := loader.NewFileSource(cfg.ContentRoot, cfg.ScriptDirs, cfg.LoadWorkers)
	items, loadErrs, err := src.Load(ctx)
	if err != nil {
		return content.ScriptSet{}, fmt.Errorf("loading scripts from %s: %w", cfg.ContentRoot, err)
	}
	return content.BuildScripts(items, loadErrs), nil
}

// openStore opens and migrates the configured database.
func openStore(cfg *config.Config) (*sql.DB, error) {
	if cfg.DBDriver == store.DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.DBDSN), 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}
	db, err := store.NewDB(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := store.Migrate(db, cfg.DBDriver); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// closeQuietly closes c, ignoring the error.
func closeQuietly(c io.Closer) {
	_ = c.Close()
}
