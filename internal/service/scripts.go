// Copyright (c) 2026 The tag-directory Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/leopoldus11/tag-directory/internal/content"
	"github.com/leopoldus11/tag-directory/internal/loader"
	"github.com/leopoldus11/tag-directory/internal/model"
)

// ScriptFilter narrows a script listing. Zero fields match everything.
type ScriptFilter struct {
	Platform   model.Platform
	Difficulty model.Difficulty

	// Recipe keeps scripts used by the blueprint with this id.
	Recipe string

	// Query is matched case-insensitively against name, description and tags.
	Query string
}

func (f ScriptFilter) match(sc *model.Script) bool {
	if f.Platform != "" && sc.Platform != f.Platform {
		return false
	}
	if f.Difficulty != "" && sc.Difficulty != f.Difficulty {
		return false
	}
	if f.Recipe != "" && !sc.UsedIn(f.Recipe) {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(sc.Name), q) || strings.Contains(strings.ToLower(sc.Description), q) {
		return true
	}
	return slices.ContainsFunc(sc.Tags, func(tag string) bool {
		return strings.Contains(strings.ToLower(tag), q)
	})
}

// ScriptService serves the reusable scripts, re-reading the source on
// every call.
type ScriptService struct {
	source loader.Source
	logger *slog.Logger
}

// NewScriptService creates a ScriptService over source.
func NewScriptService(source loader.Source, logger *slog.Logger) *ScriptService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScriptService{source: source, logger: logger}
}

// Set loads and validates every script.
func (s *ScriptService) Set(ctx context.Context) (content.ScriptSet, error) {
	items, loadErrs, err := s.source.Load(ctx)
	if err != nil {
		return content.ScriptSet{}, fmt.Errorf("loading scripts: %w", err)
	}
	set := content.BuildScripts(items, loadErrs)
	if n := len(set.Rejections); n > 0 {
		s.logger.Info("scripts excluded from listing", "count", n, "category", model.EventCategoryContent)
	}
	return set, nil
}

// List returns the valid scripts matching filter.
func (s *ScriptService) List(ctx context.Context, filter ScriptFilter) ([]model.Script, error) {
	set, err := s.Set(ctx)
	if err != nil {
		return []model.Script{}, err
	}
	out := make([]model.Script, 0, len(set.Scripts))
	for i := range set.Scripts {
		if filter.match(&set.Scripts[i]) {
			out = append(out, set.Scripts[i])
		}
	}
	return out, nil
}

// Get returns one valid script by id.
func (s *ScriptService) Get(ctx context.Context, id string) (model.Script, error) {
	set, err := s.Set(ctx)
	if err != nil {
		return model.Script{}, err
	}
	sc, ok := set.Get(id)
	if !ok {
		return model.Script{}, ErrScriptNotFound
	}
	return sc, nil
}
