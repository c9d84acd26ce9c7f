// Copyright (c) 2026 The tag-directory Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"errors"
	"fmt"
	"sort"

	"github.com/leopoldus11/tag-directory/internal/model"
)

// Item is one raw record with its origin.
type Item struct {
	Record model.RawRecord
	Origin Origin
}

// LoadError is a source record that could not be read or parsed.
type LoadError struct {
	Origin Origin
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %v", e.Origin, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// RejectionKind classifies why a record was excluded.
type RejectionKind string

// Rejection kinds
const (
	RejectMalformed RejectionKind = "malformed"
	RejectSchema    RejectionKind = "schema"
	RejectDuplicate RejectionKind = "duplicate"
)

// Rejection is a record excluded from the corpus.
type Rejection struct {
	Kind    RejectionKind `json:"kind"`
	Origin  Origin        `json:"origin"`
	ID      string        `json:"id,omitempty"`
	Slug    string        `json:"slug,omitempty"`
	Message string        `json:"message"`
	Fields  []FieldError  `json:"fields,omitempty"`
	// DuplicateOf is the origin of the record that kept the identifier.
	DuplicateOf *Origin `json:"duplicate_of,omitempty"`
}

// LintReport holds the warnings of one accepted blueprint.
type LintReport struct {
	Origin   Origin    `json:"origin"`
	Slug     string    `json:"slug"`
	Warnings []Warning `json:"warnings"`
}

// Corpus is the result of normalizing and validating a set of raw records.
type Corpus struct {
	Blueprints []model.Blueprint `json:"blueprints"`
	Rejections []Rejection       `json:"rejections"`
	Warnings   []LintReport      `json:"warnings"`
}

// Duplicates returns the duplicate rejections only.
func (c *Corpus) Duplicates() []Rejection {
	var out []Rejection
	for _, r := range c.Rejections {
		if r.Kind == RejectDuplicate {
			out = append(out, r)
		}
	}
	return out
}

// BuildCorpus normalizes and validates every item and applies the duplicate
// policy: items are ranked by origin path, the first record holding a slug or
// id keeps it and every later one is rejected as a duplicate.
//
// Accepted blueprints keep the input order, so source-side ordering survives.
func BuildCorpus(items []Item, loadErrs []LoadError) Corpus {
	corpus := Corpus{
		Blueprints: []model.Blueprint{},
		Rejections: []Rejection{},
		Warnings:   []LintReport{},
	}

	for _, le := range loadErrs {
		corpus.Rejections = append(corpus.Rejections, Rejection{
			Kind:    RejectMalformed,
			Origin:  le.Origin,
			Message: le.Err.Error(),
		})
	}

	type candidate struct {
		index     int
		origin    Origin
		blueprint model.Blueprint
	}
	valid := make([]candidate, 0, len(items))

	for i, item := range items {
		rec := Normalize(item.Record, item.Origin)
		bp, err := Validate(rec)
		if err != nil {
			rej := Rejection{Kind: RejectSchema, Origin: item.Origin, Message: err.Error()}
			rej.ID, _ = rec.String("id")
			rej.Slug, _ = rec.String("slug")
			var verr *ValidationError
			if errors.As(err, &verr) {
				rej.Fields = verr.Errors
			}
			corpus.Rejections = append(corpus.Rejections, rej)
			continue
		}
		valid = append(valid, candidate{index: i, origin: item.Origin, blueprint: bp})
	}

	ranked := make([]candidate, len(valid))
	copy(ranked, valid)
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].origin.String() < ranked[b].origin.String()
	})

	slugOwner := make(map[string]Origin, len(ranked))
	idOwner := make(map[string]Origin, len(ranked))
	rejected := make(map[int]bool)

	for _, c := range ranked {
		bp := c.blueprint
		owner, taken := slugOwner[bp.Slug]
		field := "slug"
		if !taken {
			owner, taken = idOwner[bp.ID]
			field = "id"
		}
		if taken {
			winner := owner
			corpus.Rejections = append(corpus.Rejections, Rejection{
				Kind:        RejectDuplicate,
				Origin:      c.origin,
				ID:          bp.ID,
				Slug:        bp.Slug,
				Message:     fmt.Sprintf("duplicate %s %q, already defined by %s", field, fieldValue(bp, field), owner),
				DuplicateOf: &winner,
			})
			rejected[c.index] = true
			continue
		}
		slugOwner[bp.Slug] = c.origin
		idOwner[bp.ID] = c.origin
	}

	for _, c := range valid {
		if rejected[c.index] {
			continue
		}
		corpus.Blueprints = append(corpus.Blueprints, c.blueprint)
		if w := Lint(c.blueprint); len(w) > 0 {
			corpus.Warnings = append(corpus.Warnings, LintReport{Origin: c.origin, Slug: c.blueprint.Slug, Warnings: w})
		}
	}

	return corpus
}

func fieldValue(bp model.Blueprint, field string) string {
	if field == "id" {
		return bp.ID
	}
	return bp.Slug
}
