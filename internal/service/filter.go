// Copyright (c) 2026 The tag-directory Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"slices"
	"strings"

	"github.com/leopoldus11/tag-directory/internal/model"
)

// Filter narrows a blueprint listing. Zero values match everything.
type Filter struct {
	Platform     model.Platform
	UseCase      model.UseCase
	Difficulties []model.Difficulty
	VerifiedOnly bool
	Tag          string
	Author       string
	// Query is matched case-insensitively against title, description,
	// platform, tags and authors.
	Query string
}

// IsZero reports whether f matches every blueprint.
func (f Filter) IsZero() bool {
	return f.Platform == "" && f.UseCase == "" && len(f.Difficulties) == 0 &&
		!f.VerifiedOnly && f.Tag == "" && f.Author == "" && strings.TrimSpace(f.Query) == ""
}

// Match reports whether bp passes the filter.
func (f Filter) Match(bp *model.Blueprint) bool {
	if f.Platform != "" && bp.Platform != f.Platform {
		return false
	}
	// records without a use case are never filtered out by one
	if f.UseCase != "" && bp.UseCase != "" && bp.UseCase != f.UseCase {
		return false
	}
	if len(f.Difficulties) > 0 && !slices.Contains(f.Difficulties, bp.Difficulty) {
		return false
	}
	if f.VerifiedOnly && !bp.CommunityVerified {
		return false
	}
	if f.Tag != "" && !bp.HasTag(f.Tag) {
		return false
	}
	if f.Author != "" && !bp.Author.Contains(f.Author) {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		return matchesQuery(bp, q)
	}
	return true
}

func matchesQuery(bp *model.Blueprint, q string) bool {
	if strings.Contains(strings.ToLower(bp.Title), q) ||
		strings.Contains(strings.ToLower(bp.Description), q) ||
		strings.Contains(strings.ToLower(string(bp.Platform)), q) {
		return true
	}
	for _, tag := range bp.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	for _, author := range bp.Author {
		if strings.Contains(strings.ToLower(author), q) {
			return true
		}
	}
	return false
}

// FilterBlueprints returns the blueprints matching f, keeping their order.
func FilterBlueprints(blueprints []model.Blueprint, f Filter) []model.Blueprint {
	if f.IsZero() {
		return blueprints
	}
	out := make([]model.Blueprint, 0, len(blueprints))
	for i := range blueprints {
		if f.Match(&blueprints[i]) {
			out = append(out, blueprints[i])
		}
	}
	return out
}
