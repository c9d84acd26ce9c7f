package content

import (
	"testing"

	"github.com/leopoldus11/tag-directory/internal/model"
)

func TestLint(t *testing.T) {
	base := model.Blueprint{
		ID: "a", Slug: "a", Title: "A", Author: model.Authors{"jane"},
		Platform: model.PlatformGA4, Type: model.TypeSnippet, Content: "x",
		Description: "Tracks purchases & refunds",
	}

	tests := []struct {
		name   string
		mutate func(*model.Blueprint)
		fields []string
	}{
		{"clean", func(*model.Blueprint) {}, nil},
		{"missing description", func(b *model.Blueprint) { b.Description = " " }, []string{"description"}},
		{"html description", func(b *model.Blueprint) { b.Description = "Use <b>this</b>" }, []string{"description"}},
		{"placeholder author", func(b *model.Blueprint) { b.Author = model.Authors{"YOUR_USERNAME"} }, []string{"author"}},
		{"gtm tag bare", func(b *model.Blueprint) {
			b.Platform = model.PlatformGTM
			b.Type = model.TypeTag
		}, []string{"tagType", "triggers"}},
		{"gtm tag complete", func(b *model.Blueprint) {
			b.Platform = model.PlatformGTM
			b.Type = model.TypeTag
			b.TagType = "Custom HTML"
			b.Triggers = []model.Trigger{{Name: "All Pages", Type: "Page View"}}
		}, nil},
		{"adobe rule without events", func(b *model.Blueprint) {
			b.Platform = model.PlatformAdobeLaunch
			b.Type = model.TypeRule
		}, []string{"events"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bp := base
			tt.mutate(&bp)
			got := Lint(bp)
			if len(got) != len(tt.fields) {
				t.Fatalf("Lint() = %+v, want fields %v", got, tt.fields)
			}
			for i, w := range got {
				if w.Field != tt.fields[i] {
					t.Errorf("warning %d field = %q, want %q", i, w.Field, tt.fields[i])
				}
			}
		})
	}
}
