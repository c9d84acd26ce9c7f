// Copyright (c) 2026 The tag-directory Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/leopoldus11/tag-directory/internal/model"
)

// ScriptSet is the result of validating the script files.
type ScriptSet struct {
	Scripts    []model.Script `json:"scripts"`
	Rejections []Rejection    `json:"rejections"`
}

// Duplicates returns the duplicate rejections only.
func (s *ScriptSet) Duplicates() []Rejection {
	var out []Rejection
	for _, r := range s.Rejections {
		if r.Kind == RejectDuplicate {
			out = append(out, r)
		}
	}
	return out
}

// Get returns the script with id.
func (s *ScriptSet) Get(id string) (model.Script, bool) {
	for _, sc := range s.Scripts {
		if sc.ID == id {
			return sc, true
		}
	}
	return model.Script{}, false
}

// NormalizeScript returns a copy of raw with list fields written as comma
// separated text, as front matter has them, split into lists.
func NormalizeScript(raw model.RawRecord) model.RawRecord {
	rec := raw.Clone()
	for _, key := range []string{"tags", "usedInRecipes"} {
		if s, ok := rec[key].(string); ok {
			rec[key] = splitList(s)
		}
	}
	return rec
}

// ValidateScript checks a script record and decodes it. Every failing field
// is reported.
func ValidateScript(raw model.RawRecord) (model.Script, error) {
	v := &validator{}

	v.identifier(raw, "id")
	v.requiredString(raw, "name", "Name is required")
	v.requiredString(raw, "codeSnippet", "Code snippet cannot be empty")
	v.requiredString(raw, "author", "Author is required")
	v.enum(raw, "platform", true, func(s string) bool { _, ok := model.ParsePlatform(s); return ok }, platformNames())
	v.enum(raw, "difficulty", true, func(s string) bool { _, ok := model.ParseDifficulty(s); return ok }, "Beginner, Intermediate, Advanced")

	for _, key := range []string{"description", "vendor", "vendorIcon", "createdAt", "updatedAt"} {
		v.optionalString(raw, key)
	}
	for _, key := range []string{"tags", "usedInRecipes"} {
		if val, ok := raw[key]; ok && val != nil {
			v.stringList(key, val)
		}
	}

	id, _ := raw.String("id")
	if len(v.errs) > 0 {
		return model.Script{}, &ValidationError{ID: id, Errors: v.errs}
	}

	var sc model.Script
	data, err := json.Marshal(raw)
	if err == nil {
		err = json.Unmarshal(data, &sc)
	}
	if err != nil {
		return model.Script{}, &ValidationError{ID: id, Errors: []FieldError{{Path: "", Message: err.Error()}}}
	}
	return sc, nil
}

// BuildScripts validates every script item. Like blueprints, the first
// record by origin path keeps an id and later ones are rejected as
// duplicates. Accepted scripts are sorted by origin path.
func BuildScripts(items []Item, loadErrs []LoadError) ScriptSet {
	set := ScriptSet{Scripts: []model.Script{}, Rejections: []Rejection{}}

	for _, le := range loadErrs {
		set.Rejections = append(set.Rejections, Rejection{
			Kind:    RejectMalformed,
			Origin:  le.Origin,
			Message: le.Err.Error(),
		})
	}

	sorted := make([]Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].Origin.String() < sorted[b].Origin.String()
	})

	owner := make(map[string]Origin, len(sorted))
	for _, item := range sorted {
		rec := NormalizeScript(item.Record)
		sc, err := ValidateScript(rec)
		if err != nil {
			rej := Rejection{Kind: RejectSchema, Origin: item.Origin, Message: err.Error()}
			rej.ID, _ = rec.String("id")
			var verr *ValidationError
			if errors.As(err, &verr) {
				rej.Fields = verr.Errors
			}
			set.Rejections = append(set.Rejections, rej)
			continue
		}
		if first, taken := owner[sc.ID]; taken {
			winner := first
			set.Rejections = append(set.Rejections, Rejection{
				Kind:        RejectDuplicate,
				Origin:      item.Origin,
				ID:          sc.ID,
				Message:     fmt.Sprintf("duplicate id %q, already defined by %s", sc.ID, first),
				DuplicateOf: &winner,
			})
			continue
		}
		owner[sc.ID] = item.Origin
		set.Scripts = append(set.Scripts, sc)
	}
	return set
}
