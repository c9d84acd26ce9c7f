package commands

import (
	"github.com/spf13/cobra"

	"github.com/leopoldus11/tag-directory/internal/store"
)

func newMigrateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			db, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeQuietly(db)

			v, err := store.MigrationVersion(db, cfg.DBDriver)
			if err != nil {
				return err
			}
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"driver": cfg.DBDriver, "version": v})
			}
			success(cmd.OutOrStdout(), "%s schema at version %d", cfg.DBDriver, v)
			return nil
		},
	}
}
