// Copyright (c) 2026 The tag-directory Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/leopoldus11/tag-directory/internal/model"
)

const authorsJSON = `[
  {"username": "ann", "name": "Ann Author", "avatar": "A", "contributions": 4, "credits": 120},
  {"username": "bob", "name": "Bob", "avatar": "B", "contributions": 1, "credits": 20}
]`

func writeAuthors(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "authors.json")
	if err := os.WriteFile(path, []byte(authorsJSON), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestMemberServiceAuthors(t *testing.T) {
	q, _ := testQueries(t)

	if got := NewMemberService(q, filepath.Join(t.TempDir(), "missing.json"), discardLogger()).Authors(); got != nil {
		t.Errorf("Authors(missing) = %v, want nil", got)
	}

	bad := filepath.Join(t.TempDir(), "authors.json")
	if err := os.WriteFile(bad, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := NewMemberService(q, bad, discardLogger()).Authors(); got != nil {
		t.Errorf("Authors(invalid) = %v, want nil", got)
	}

	authors := NewMemberService(q, writeAuthors(t), discardLogger()).Authors()
	if len(authors) != 2 || authors[0].Username != "ann" {
		t.Errorf("Authors = %+v", authors)
	}
}

func TestMemberServiceUpsert(t *testing.T) {
	q, _ := testQueries(t)
	svc := NewMemberService(q, "", discardLogger())
	ctx := context.Background()

	if _, err := svc.Upsert(ctx, UpsertParams{ID: "@@"}); !errors.Is(err, ErrInvalidMemberID) {
		t.Errorf("Upsert(@@) error = %v, want ErrInvalidMemberID", err)
	}

	open := true
	m, err := svc.Upsert(ctx, UpsertParams{
		ID:             "Jane.Doe@example.com",
		GoogleEmail:    "Jane.Doe@example.com",
		Name:           "jane",
		IsOpenForWork:  &open,
		Skills:         []string{"GTM", "GA4"},
		GitHubUsername: "janedoe",
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if m.ID != "jane-doe" || m.Avatar != "J" || !m.IsOpenForWork || len(m.Skills) != 2 || !m.Registered {
		t.Errorf("member = %+v", m)
	}
	if m.Rank != model.RankBronze || m.RankLabel != "Bronze Contributor" {
		t.Errorf("rank = %s / %s", m.Rank, m.RankLabel)
	}

	if _, err := svc.AwardCredits(ctx, "jane-doe", model.ActivityTagVerified); err != nil {
		t.Fatalf("AwardCredits: %v", err)
	}

	m, err = svc.Upsert(ctx, UpsertParams{ID: "jane-doe", Bio: "Analytics engineer"})
	if err != nil {
		t.Fatalf("second Upsert: %v", err)
	}
	if m.Bio != "Analytics engineer" || m.Name != "jane" || m.Credits != 25 || !m.IsOpenForWork {
		t.Errorf("updated member = %+v", m)
	}

	byGitHub, err := svc.Get(ctx, "janedoe")
	if err != nil || byGitHub.ID != "jane-doe" {
		t.Errorf("Get(janedoe) = %+v, %v", byGitHub, err)
	}
}

func TestMemberServiceAwardCredits(t *testing.T) {
	q, _ := testQueries(t)
	svc := NewMemberService(q, writeAuthors(t), discardLogger())
	ctx := context.Background()

	if _, err := svc.AwardCredits(ctx, "ann", model.CreditActivity("spam")); !errors.Is(err, ErrUnknownActivity) {
		t.Errorf("unknown activity error = %v", err)
	}

	// seeded from the authors file on first award
	total, err := svc.AwardCredits(ctx, "ann", model.ActivitySubmitTag)
	if err != nil {
		t.Fatalf("AwardCredits: %v", err)
	}
	if total != 130 {
		t.Errorf("total = %d, want 130", total)
	}

	total, err = svc.AwardCredits(ctx, "ann", model.ActivityMonthlyActive)
	if err != nil {
		t.Fatalf("AwardCredits: %v", err)
	}
	if total != 150 {
		t.Errorf("total = %d, want 150", total)
	}

	ann, err := svc.Get(ctx, "ann")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ann.Name != "Ann Author" || ann.Rank != model.RankSilver || ann.Progress.NextRank != model.RankGold {
		t.Errorf("ann = %+v", ann)
	}

	total, err = svc.AwardCredits(ctx, "newcomer", model.ActivitySubmitTag)
	if err != nil || total != 10 {
		t.Errorf("newcomer total = %d, %v; want 10", total, err)
	}
}

func TestMemberServiceList(t *testing.T) {
	q, _ := testQueries(t)
	svc := NewMemberService(q, writeAuthors(t), discardLogger())
	ctx := context.Background()

	if _, err := svc.AwardCredits(ctx, "bob", model.ActivityViews100); err != nil {
		t.Fatalf("AwardCredits: %v", err)
	}
	if _, err := svc.AwardCredits(ctx, "zed", model.ActivityAnswerIssue); err != nil {
		t.Fatalf("AwardCredits: %v", err)
	}

	members, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	var ids []string
	for _, m := range members {
		ids = append(ids, m.ID)
	}
	want := []string{"ann", "bob", "zed"}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids = %v, want %v", ids, want)
			break
		}
	}
	if members[0].Registered {
		t.Error("ann has no profile and should not be registered")
	}
	if !members[1].Registered || members[1].Credits != 50 {
		t.Errorf("bob = %+v", members[1])
	}

	if _, err := svc.Get(ctx, "nobody"); !errors.Is(err, ErrMemberNotFound) {
		t.Errorf("Get(nobody) error = %v", err)
	}
}
