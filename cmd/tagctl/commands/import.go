// Copyright (c) 2026 The tag-directory Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package commands

import (
	"github.com/spf13/cobra"

	"github.com/leopoldus11/tag-directory/internal/service"
	"github.com/leopoldus11/tag-directory/internal/store"
)

func newImportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Import the valid file corpus into the database as approved",
		Long: `Validates the content tree and copies every accepted blueprint into the
tags table as approved. Slugs already present are skipped; rejected
records are reported and never imported.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			corpus, err := loadCorpus(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			db, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeQuietly(db)

			svc := service.NewBlueprintService(nil, store.NewForDriver(db, cfg.DBDriver), nil, opts.logger())
			result, err := svc.Import(cmd.Context(), corpus.Blueprints)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.json {
				return writeJSON(out, result)
			}
			for _, rej := range corpus.Rejections {
				printRejection(out, rej)
			}
			for _, slug := range result.Skipped {
				detail(out, "skipped %s (already stored)", slug)
			}
			success(out, "imported %d, skipped %d, rejected %d",
				len(result.Imported), len(result.Skipped), len(corpus.Rejections))
			return nil
		},
	}
}
