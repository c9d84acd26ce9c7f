package service

import (
	"context"
	"errors"
	"testing"

	"github.com/leopoldus11/tag-directory/internal/loader"
	"github.com/leopoldus11/tag-directory/internal/model"
	"github.com/leopoldus11/tag-directory/internal/testutil"
)

func scriptService(t *testing.T) *ScriptService {
	t.Helper()
	root := t.TempDir()
	testutil.WriteFile(t, root, "data/scripts/datalayer.json", `{"id": "datalayer-init", "name": "DataLayer Init",
  "platform": "GTM", "codeSnippet": "window.dataLayer = window.dataLayer || [];", "author": "jane",
  "difficulty": "Beginner", "tags": ["datalayer"], "usedInRecipes": ["ga4-purchase"]}`)
	testutil.WriteFile(t, root, "data/scripts/launch.mdc", "---\nid: launch-track\nname: Launch Track\nauthor: ann\nplatform: Adobe Launch\ndifficulty: Advanced\ndescription: Fires a direct call\n---\n_satellite.track('x');\n")
	testutil.WriteFile(t, root, "data/scripts/broken.json", `{"id": "broken", "name": "No snippet", "platform": "GTM", "author": "jane", "difficulty": "Beginner"}`)
	return NewScriptService(loader.NewFileSource(root, loader.DefaultScriptDirs, 2), discardLogger())
}

func TestScriptServiceList(t *testing.T) {
	svc := scriptService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter ScriptFilter
		want   []string
	}{
		{"all", ScriptFilter{}, []string{"datalayer-init", "launch-track"}},
		{"platform", ScriptFilter{Platform: model.PlatformAdobeLaunch}, []string{"launch-track"}},
		{"difficulty", ScriptFilter{Difficulty: model.DifficultyBeginner}, []string{"datalayer-init"}},
		{"recipe", ScriptFilter{Recipe: "ga4-purchase"}, []string{"datalayer-init"}},
		{"query description", ScriptFilter{Query: "DIRECT call"}, []string{"launch-track"}},
		{"query tag", ScriptFilter{Query: "datalayer"}, []string{"datalayer-init"}},
		{"no match", ScriptFilter{Query: "nothing"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scripts, err := svc.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			got := make([]string, len(scripts))
			for i, sc := range scripts {
				got[i] = sc.ID
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ids = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ids = %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestScriptServiceSetAndGet(t *testing.T) {
	svc := scriptService(t)
	ctx := context.Background()

	set, err := svc.Set(ctx)
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
	if len(set.Scripts) != 2 || len(set.Rejections) != 1 || set.Rejections[0].ID != "broken" {
		t.Errorf("set = %d scripts, rejections %+v", len(set.Scripts), set.Rejections)
	}

	sc, err := svc.Get(ctx, "launch-track")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if sc.CodeSnippet != "_satellite.track('x');" || sc.Platform != model.PlatformAdobeLaunch {
		t.Errorf("script = %+v", sc)
	}
	if _, err := svc.Get(ctx, "broken"); !errors.Is(err, ErrScriptNotFound) {
		t.Errorf("Get(broken) error = %v, want ErrScriptNotFound", err)
	}
}

func TestScriptServiceMissingDir(t *testing.T) {
	svc := NewScriptService(loader.NewFileSource(t.TempDir(), loader.DefaultScriptDirs, 1), discardLogger())
	scripts, err := svc.List(context.Background(), ScriptFilter{})
	if err != nil || len(scripts) != 0 {
		t.Errorf("List = %v, %v; want empty", scripts, err)
	}
}

func TestScriptServiceSourceUnavailable(t *testing.T) {
	svc := NewScriptService(staticSource{err: errors.New("disk gone")}, discardLogger())
	scripts, err := svc.List(context.Background(), ScriptFilter{})
	if err == nil || scripts == nil || len(scripts) != 0 {
		t.Errorf("List = %v, %v; want empty list and error", scripts, err)
	}
}
