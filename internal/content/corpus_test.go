// Copyright (c) 2026 The tag-directory Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"errors"
	"testing"

	"github.com/leopoldus11/tag-directory/internal/model"
)

func fileItem(path string, rec model.RawRecord) Item {
	return Item{Record: rec, Origin: Origin{Source: "files", Path: path}}
}

func record(id string) model.RawRecord {
	rec := validRecord()
	rec["id"] = id
	rec["slug"] = id
	rec["description"] = "d"
	return rec
}

func slugs(c Corpus) []string {
	out := make([]string, len(c.Blueprints))
	for i, bp := range c.Blueprints {
		out[i] = bp.Slug
	}
	return out
}

func TestBuildCorpusExcludesInvalid(t *testing.T) {
	items := []Item{
		fileItem("a.json", record("a")),
		fileItem("b.json", with(record("b"), "content", nil)),
		fileItem("c.json", record("c")),
	}

	corpus := BuildCorpus(items, nil)

	if len(corpus.Blueprints) != len(items)-1 {
		t.Fatalf("got %d blueprints, want %d", len(corpus.Blueprints), len(items)-1)
	}
	if got := slugs(corpus); got[0] != "a" || got[1] != "c" {
		t.Errorf("slugs = %v, want [a c]", got)
	}
	if len(corpus.Rejections) != 1 {
		t.Fatalf("rejections = %+v", corpus.Rejections)
	}
	rej := corpus.Rejections[0]
	if rej.Kind != RejectSchema || rej.ID != "b" {
		t.Errorf("rejection = %+v", rej)
	}
	if len(rej.Fields) != 1 || rej.Fields[0].Path != "content" {
		t.Errorf("rejection fields = %+v", rej.Fields)
	}
}

func TestBuildCorpusDuplicateSlugFirstPathWins(t *testing.T) {
	second := record("second")
	second["slug"] = "shared"
	first := record("first")
	first["slug"] = "shared"

	// input order is the reverse of path order
	items := []Item{
		fileItem("src/content/blueprints/z.json", second),
		fileItem("data/recipes/a.json", first),
	}

	corpus := BuildCorpus(items, nil)

	if len(corpus.Blueprints) != 1 {
		t.Fatalf("got %d blueprints for a shared slug, want 1", len(corpus.Blueprints))
	}
	if corpus.Blueprints[0].ID != "first" {
		t.Errorf("winner id = %q, want %q", corpus.Blueprints[0].ID, "first")
	}

	dups := corpus.Duplicates()
	if len(dups) != 1 {
		t.Fatalf("duplicates = %+v", dups)
	}
	if dups[0].ID != "second" || dups[0].DuplicateOf == nil || dups[0].DuplicateOf.Path != "data/recipes/a.json" {
		t.Errorf("duplicate = %+v", dups[0])
	}
}

func TestBuildCorpusDuplicateID(t *testing.T) {
	a := record("same")
	b := record("same")
	b["slug"] = "same-2"

	corpus := BuildCorpus([]Item{fileItem("a.json", a), fileItem("b.json", b)}, nil)

	if got := slugs(corpus); len(got) != 1 || got[0] != "same" {
		t.Errorf("slugs = %v, want [same]", got)
	}
	if len(corpus.Duplicates()) != 1 {
		t.Errorf("duplicates = %+v", corpus.Duplicates())
	}
}

func TestBuildCorpusKeepsInputOrder(t *testing.T) {
	items := []Item{
		{Record: record("newest"), Origin: Origin{Source: "store", Path: "newest"}},
		{Record: record("middle"), Origin: Origin{Source: "store", Path: "middle"}},
		{Record: record("oldest"), Origin: Origin{Source: "store", Path: "oldest"}},
	}
	got := slugs(BuildCorpus(items, nil))
	want := []string{"newest", "middle", "oldest"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("slugs = %v, want %v", got, want)
		}
	}
}

func TestBuildCorpusMalformedAndLint(t *testing.T) {
	noDesc := record("plain")
	delete(noDesc, "description")

	corpus := BuildCorpus(
		[]Item{fileItem("plain.json", noDesc)},
		[]LoadError{{Origin: Origin{Source: "files", Path: "broken.json"}, Err: errors.New("unexpected end of JSON input")}},
	)

	if len(corpus.Blueprints) != 1 {
		t.Fatalf("blueprints = %d, want 1", len(corpus.Blueprints))
	}
	if len(corpus.Rejections) != 1 || corpus.Rejections[0].Kind != RejectMalformed {
		t.Errorf("rejections = %+v", corpus.Rejections)
	}
	if len(corpus.Warnings) != 1 || corpus.Warnings[0].Slug != "plain" {
		t.Errorf("warnings = %+v", corpus.Warnings)
	}
}

func TestBuildCorpusLegacyRecord(t *testing.T) {
	legacy := model.RawRecord{
		"id": "x", "name": "X", "trigger": "T", "condition": "C",
		"codeSnippet": "s", "author": "jane", "platform": "Adobe Launch",
	}
	corpus := BuildCorpus([]Item{{Record: legacy, Origin: recipeOrigin}}, nil)
	if len(corpus.Blueprints) != 1 {
		t.Fatalf("rejections = %+v", corpus.Rejections)
	}
	bp := corpus.Blueprints[0]
	if bp.Title != "X" || bp.Type != model.TypeRule || bp.Content != "s" || bp.Slug != "x" {
		t.Errorf("blueprint = %+v", bp)
	}
}
