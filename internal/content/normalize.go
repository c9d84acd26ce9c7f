// Copyright (c) 2026 The tag-directory Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package content normalizes raw content records into canonical blueprints,
// validates them and assembles the corpus served to readers.
package content

import (
	"path"

	"github.com/leopoldus11/tag-directory/internal/model"
)

// Shape is the detected layout of a raw record.
type Shape int

// Record shapes
const (
	ShapeBlueprint Shape = iota
	ShapeRecipe
)

func (s Shape) String() string {
	if s == ShapeRecipe {
		return "recipe"
	}
	return "blueprint"
}

// Origin identifies where a raw record was read from.
type Origin struct {
	// Source is "files" or "store".
	Source string `json:"source"`
	// Path is the file path or row key, used for ordering and diagnostics.
	Path string `json:"path"`
	// RepoDir is the repository directory of the file, e.g. "data/recipes".
	RepoDir string `json:"repo_dir,omitempty"`
	// File is the base file name.
	File string `json:"file,omitempty"`
}

func (o Origin) String() string {
	if o.Source == "" {
		return o.Path
	}
	return o.Source + ":" + o.Path
}

// DetectShape is the only place deciding between the legacy recipe layout
// and the canonical one: "name" present with no "title" means recipe.
func DetectShape(raw model.RawRecord) Shape {
	if raw.Has("name") && !raw.Has("title") {
		return ShapeRecipe
	}
	return ShapeBlueprint
}

// Normalize converts raw into the canonical blueprint layout and fills in the
// derived fields. The input is never modified; the result is not yet validated.
func Normalize(raw model.RawRecord, origin Origin) model.RawRecord {
	out := raw.Clone()

	if DetectShape(raw) == ShapeRecipe {
		convertRecipe(out)
	}

	if !present(out["slug"]) {
		if id, ok := out.String("id"); ok && id != "" {
			out["slug"] = id
		}
	}
	if out["community_verified"] == nil {
		out["community_verified"] = false
	}
	if !present(out["filePath"]) {
		if fp := sourceFilePath(out, origin); fp != "" {
			out["filePath"] = fp
		}
	}
	return out
}

// convertRecipe rewrites a legacy record in place.
func convertRecipe(rec model.RawRecord) {
	rec["title"] = rec["name"]
	delete(rec, "name")
	if rec.Has("codeSnippet") {
		rec["content"] = rec["codeSnippet"]
		delete(rec, "codeSnippet")
	}
	rec["type"] = string(inferType(rec))
}

// inferType classifies a legacy record. First match wins.
func inferType(rec model.RawRecord) model.BlueprintType {
	hasTrigger := present(rec["trigger"])
	switch {
	case hasTrigger && present(rec["condition"]):
		return model.TypeRule
	case hasTrigger:
		return model.TypeTag
	default:
		return model.TypeSnippet
	}
}

// sourceFilePath builds the repository link target for a record.
// Records without a known directory get none.
func sourceFilePath(rec model.RawRecord, origin Origin) string {
	file := origin.File
	if file == "" {
		id, _ := rec.String("id")
		if id == "" {
			return ""
		}
		file = id + ".json"
	}
	if origin.RepoDir == "" {
		if origin.File == "" {
			return ""
		}
		return file
	}
	return path.Join(origin.RepoDir, file)
}

// present reports whether v holds a meaningful value.
func present(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case []any:
		return len(t) > 0
	case []string:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}
