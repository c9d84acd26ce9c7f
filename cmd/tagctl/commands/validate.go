// Copyright (c) 2026 The tag-directory Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package commands

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/leopoldus11/tag-directory/internal/content"
)

// validateReport is the --json output of validate.
type validateReport struct {
	Valid      int                  `json:"valid"`
	Rejections []content.Rejection  `json:"rejections"`
	Warnings   []content.LintReport `json:"warnings"`
	Scripts    scriptReport         `json:"scripts"`
}

type scriptReport struct {
	Valid      int                 `json:"valid"`
	Rejections []content.Rejection `json:"rejections"`
}

func newValidateCmd(opts *options) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate every blueprint and script under the content root",
		Long: `Loads the content tree, applies the same normalization, schema validation
and duplicate policy as the directory API and reports every rejected record.
Script files are checked for required fields, platform, difficulty, id format
and duplicate ids.

Exits non-zero when any record is rejected; with --strict also on warnings.`,
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
			scripts, err := loadScripts(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.json {
				if err := writeJSON(out, validateReport{
					Valid:      len(corpus.Blueprints),
					Rejections: corpus.Rejections,
					Warnings:   corpus.Warnings,
					Scripts:    scriptReport{Valid: len(scripts.Scripts), Rejections: scripts.Rejections},
				}); err != nil {
					return err
				}
			} else {
				printCorpus(out, corpus)
				printScripts(out, scripts)
			}

			if len(corpus.Rejections) > 0 || len(scripts.Rejections) > 0 || (strict && len(corpus.Warnings) > 0) {
				return errReported
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as failures")
	return cmd
}

func printCorpus(w io.Writer, corpus content.Corpus) {
	for _, rej := range corpus.Rejections {
		printRejection(w, rej)
	}
	for _, report := range corpus.Warnings {
		warning(w, "%s (%s)", report.Origin, report.Slug)
		for _, wn := range report.Warnings {
			detail(w, "%s: %s", wn.Field, wn.Message)
		}
	}

	switch {
	case len(corpus.Rejections) > 0:
		failure(w, "%d valid, %d rejected, %d with warnings",
			len(corpus.Blueprints), len(corpus.Rejections), len(corpus.Warnings))
	case len(corpus.Warnings) > 0:
		warning(w, "%d valid, %d with warnings", len(corpus.Blueprints), len(corpus.Warnings))
	default:
		success(w, "%d valid blueprints", len(corpus.Blueprints))
	}
}

func printScripts(w io.Writer, set content.ScriptSet) {
	if len(set.Scripts) == 0 && len(set.Rejections) == 0 {
		return
	}
	for _, rej := range set.Rejections {
		printRejection(w, rej)
	}
	if len(set.Rejections) > 0 {
		failure(w, "%d valid, %d rejected scripts", len(set.Scripts), len(set.Rejections))
		return
	}
	success(w, "%d valid scripts", len(set.Scripts))
}

func printRejection(w io.Writer, rej content.Rejection) {
	failure(w, "%s [%s]", rej.Origin, rej.Kind)
	switch {
	case rej.DuplicateOf != nil:
		detail(w, "%s (kept by %s)", rej.Message, rej.DuplicateOf)
	case len(rej.Fields) > 0:
		for _, fe := range rej.Fields {
			path := fe.Path
			if path == "" {
				path = "(record)"
			}
			detail(w, "%s: %s", path, fe.Message)
		}
	default:
		detail(w, "%s", rej.Message)
	}
}
