package commands

import (
	"github.com/spf13/cobra"

	"github.com/leopoldus11/tag-directory/internal/auth"
)

func newHashTokenCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "hash-token [token]",
		Short: "Generate a moderator token and its hash",
		Long: `Prints a moderator token and the argon2id hash to configure as
TAGDIR_MODERATOR_TOKEN_HASH. Pass an existing token to hash it instead of
generating one. The token is not stored anywhere.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var token string
			if len(args) == 1 {
				token = args[0]
			} else {
				generated, err := auth.GenerateToken()
				if err != nil {
					return err
				}
				token = generated
			}

			hash, err := auth.HashToken(token)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.json {
				return writeJSON(out, map[string]string{"token": token, "hash": hash})
			}
			heading(out, "Token (shown once):")
			detail(out, "%s", token)
			heading(out, "TAGDIR_MODERATOR_TOKEN_HASH:")
			detail(out, "%s", hash)
			return nil
		},
	}
}
