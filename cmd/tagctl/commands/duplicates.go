package commands

import (
	"github.com/spf13/cobra"

	"github.com/leopoldus11/tag-directory/internal/content"
)

func newDuplicatesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "duplicates",
		Short: "Report blueprints and scripts whose id or slug is already taken",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			corpus, err := loadCorpus(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			scripts, err := loadScripts(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			dups := append(corpus.Duplicates(), scripts.Duplicates()...)
			out := cmd.OutOrStdout()
			if opts.json {
				if dups == nil {
					dups = []content.Rejection{}
				}
				if err := writeJSON(out, dups); err != nil {
					return err
				}
			} else {
				for _, rej := range dups {
					printRejection(out, rej)
				}
				if len(dups) == 0 {
					success(out, "no duplicates")
				}
			}

			if len(dups) > 0 {
				return errReported
			}
			return nil
		},
	}
}
