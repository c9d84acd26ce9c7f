// Copyright (c) 2026 The tag-directory Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/leopoldus11/tag-directory/internal/content"
)

// Job names
const (
	JobRefreshCorpus = "refresh-corpus"
	JobPruneEvents   = "prune-events"
)

// CorpusRefresher rebuilds the cached corpus.
type CorpusRefresher interface {
	Refresh(ctx context.Context) (content.Corpus, error)
}

// EventPruner deletes event log entries older than a retention window.
type EventPruner interface {
	Prune(ctx context.Context, retention time.Duration) (int64, error)
}

// RefreshCorpus returns a job that rebuilds the corpus so new files and
// approved rows show up without waiting for the cache to expire.
func RefreshCorpus(r CorpusRefresher, logger *slog.Logger) JobFunc {
	return func(ctx context.Context) error {
		corpus, err := r.Refresh(ctx)
		if err != nil {
			return err
		}
		logger.Info("corpus refreshed",
			"blueprints", len(corpus.Blueprints),
			"rejections", len(corpus.Rejections),
			"warnings", len(corpus.Warnings))
		return nil
	}
}

// PruneEvents returns a job that drops events older than retention.
func PruneEvents(p EventPruner, retention time.Duration, logger *slog.Logger) JobFunc {
	return func(ctx context.Context) error {
		n, err := p.Prune(ctx, retention)
		if err != nil {
			return err
		}
		if n > 0 {
			logger.Info("events pruned", "deleted", n, "retention", retention.String())
		}
		return nil
	}
}
