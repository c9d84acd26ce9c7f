package content

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/leopoldus11/tag-directory/internal/model"
)

func TestParseFrontMatterRecipe(t *testing.T) {
	text := "---\nid: scroll-depth\nname: Scroll Depth\ntrigger: Scroll 50%\ntags: scroll, engagement , \nauthor: jane\n---\n\n<script>track()</script>\n"

	got, err := ParseFrontMatter(text)
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}
	want := model.RawRecord{
		"id":          "scroll-depth",
		"name":        "Scroll Depth",
		"trigger":     "Scroll 50%",
		"tags":        []any{"scroll", "engagement"},
		"author":      "jane",
		"codeSnippet": "<script>track()</script>",
		"platform":    "Other",
		"difficulty":  "Beginner",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseFrontMatter() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFrontMatterBlueprint(t *testing.T) {
	text := "---\r\nid: a\r\ntitle: A: the first\r\nplatform: GA4\r\ncommunity_verified: true\r\n---\r\nbody text\r\n"

	got, err := ParseFrontMatter(text)
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}
	if got["title"] != "A: the first" {
		t.Errorf("title = %v, want value split on first colon", got["title"])
	}
	if got["content"] != "body text" {
		t.Errorf("content = %q", got["content"])
	}
	if got.Has("codeSnippet") || got.Has("difficulty") {
		t.Errorf("unexpected legacy keys in %v", got)
	}
	if got["community_verified"] != true {
		t.Errorf("community_verified = %v, want true", got["community_verified"])
	}
}

func TestParseFrontMatterMissing(t *testing.T) {
	for _, text := range []string{"", "just text", "---\nid: a\n"} {
		if _, err := ParseFrontMatter(text); !errors.Is(err, ErrNoFrontMatter) {
			t.Errorf("ParseFrontMatter(%q) error = %v, want ErrNoFrontMatter", text, err)
		}
	}
}

func TestParseFrontMatterNormalizes(t *testing.T) {
	raw, err := ParseFrontMatter("---\nid: x\nname: X\ntrigger: T\ncondition: C\nauthor: a\n---\ns\n")
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}
	bp, err := Validate(Normalize(raw, Origin{RepoDir: "data/recipes", File: "x.mdc"}))
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if bp.Title != "X" || bp.Type != model.TypeRule || bp.Content != "s" || bp.Slug != "x" {
		t.Errorf("unexpected blueprint %+v", bp)
	}
	if bp.Platform != model.PlatformOther || bp.FilePath != "data/recipes/x.mdc" {
		t.Errorf("platform = %q, filePath = %q", bp.Platform, bp.FilePath)
	}
}
