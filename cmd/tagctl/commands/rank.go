package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/leopoldus11/tag-directory/internal/model"
)

func newRankCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "rank <credits>",
		Short: "Show the rank tier and progress for a credit total",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			credits, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || credits < 0 {
				return fmt.Errorf("credits must be a non-negative integer, got %q", args[0])
			}

			p := model.ProgressForCredits(credits)
			out := cmd.OutOrStdout()
			if opts.json {
				return writeJSON(out, p)
			}

			heading(out, "%s (%d credits)", p.Rank.Label(), p.Credits)
			if p.NextRank == "" {
				detail(out, "top tier reached")
				return nil
			}
			detail(out, "%d credits to %s (%.0f%%)", p.Remaining, p.NextRank, p.Percent)
			return nil
		},
	}
}
