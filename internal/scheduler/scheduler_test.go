// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/leopoldus11/tag-directory/internal/content"
	"github.com/leopoldus11/tag-directory/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew(t *testing.T) {
	s := New(nil)
	if s == nil {
		t.Fatal("New() returned nil")
	}
	if s.cron == nil || s.logger == nil {
		t.Error("New() left cron or logger unset")
	}
	if len(s.Jobs()) != 0 {
		t.Errorf("Jobs() = %v, want none", s.Jobs())
	}
}

func TestScheduler_Add(t *testing.T) {
	s := New(testLogger())
	noop := func(context.Context) error { return nil }

	if err := s.Add("a", "@every 1h", noop); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Add("b", "*/5 * * * *", noop); err != nil {
		t.Fatalf("Add(cron spec): %v", err)
	}
	if err := s.Add("a", "@hourly", noop); err == nil {
		t.Error("Add with a duplicate name should fail")
	}
	if err := s.Add("bad", "every now and then", noop); err == nil {
		t.Error("Add with an invalid schedule should fail")
	}
	if err := s.Add("disabled", ScheduleOff, noop); err != nil {
		t.Errorf("Add(off) = %v, want nil", err)
	}

	jobs := s.Jobs()
	if len(jobs) != 2 || jobs[0].Name != "a" || jobs[1].Name != "b" {
		t.Fatalf("Jobs() = %+v", jobs)
	}
	if jobs[1].Schedule != "*/5 * * * *" {
		t.Errorf("Schedule = %q", jobs[1].Schedule)
	}
}

func TestScheduler_StartStopRunsJobs(t *testing.T) {
	s := New(testLogger())

	var runs atomic.Int64
	if err := s.Add("tick", "@every 1s", func(context.Context) error {
		runs.Add(1)
		return nil
	}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	s.Start()
	deadline := time.Now().Add(3 * time.Second)
	for runs.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	s.Stop()

	if runs.Load() == 0 {
		t.Fatal("job never ran")
	}
	info := s.Jobs()[0]
	if info.LastRun.IsZero() || info.LastError != "" {
		t.Errorf("JobInfo = %+v", info)
	}
}

func TestScheduler_StopCancelsContext(t *testing.T) {
	s := New(testLogger())

	started := make(chan struct{})
	done := make(chan error, 1)
	_ = s.Add("long", "@hourly", func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})

	go func() { done <- s.Trigger("long") }()
	<-started
	s.Stop()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("job error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("job did not observe cancellation")
	}
}

func TestScheduler_Trigger(t *testing.T) {
	s := New(testLogger())
	boom := errors.New("boom")

	_ = s.Add("fails", "@hourly", func(context.Context) error { return boom })

	if err := s.Trigger("fails"); !errors.Is(err, boom) {
		t.Errorf("Trigger = %v, want boom", err)
	}
	if info := s.Jobs()[0]; info.LastError != "boom" {
		t.Errorf("LastError = %q", info.LastError)
	}
	if err := s.Trigger("missing"); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("Trigger(missing) = %v, want ErrJobNotFound", err)
	}
}

func TestScheduler_SkipsOverlappingRuns(t *testing.T) {
	s := New(testLogger())

	release := make(chan struct{})
	started := make(chan struct{})
	var runs atomic.Int64
	_ = s.Add("slow", "@hourly", func(context.Context) error {
		if runs.Add(1) == 1 {
			close(started)
		}
		<-release
		return nil
	})

	go func() { _ = s.Trigger("slow") }()
	<-started

	if err := s.Trigger("slow"); err != nil {
		t.Errorf("overlapping Trigger = %v, want nil", err)
	}
	close(release)

	if n := runs.Load(); n != 1 {
		t.Errorf("job ran %d times, want 1", n)
	}
}

type fakeRefresher struct {
	corpus content.Corpus
	err    error
	calls  int
}

func (f *fakeRefresher) Refresh(context.Context) (content.Corpus, error) {
	f.calls++
	return f.corpus, f.err
}

type fakePruner struct {
	retention time.Duration
	deleted   int64
}

func (f *fakePruner) Prune(_ context.Context, retention time.Duration) (int64, error) {
	f.retention = retention
	return f.deleted, nil
}

func TestJobs(t *testing.T) {
	ctx := context.Background()

	r := &fakeRefresher{corpus: content.Corpus{Blueprints: []model.Blueprint{{Slug: "a"}}}}
	if err := RefreshCorpus(r, testLogger())(ctx); err != nil {
		t.Errorf("RefreshCorpus: %v", err)
	}
	if r.calls != 1 {
		t.Errorf("Refresh called %d times", r.calls)
	}

	r.err = errors.New("source unavailable")
	if err := RefreshCorpus(r, testLogger())(ctx); err == nil {
		t.Error("RefreshCorpus should return the refresh error")
	}

	p := &fakePruner{deleted: 3}
	if err := PruneEvents(p, 48*time.Hour, testLogger())(ctx); err != nil {
		t.Errorf("PruneEvents: %v", err)
	}
	if p.retention != 48*time.Hour {
		t.Errorf("retention = %s", p.retention)
	}
}
