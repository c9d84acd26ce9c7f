// Copyright (c) 2026 The tag-directory Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"errors"
	"regexp"
	"strings"

	"github.com/leopoldus11/tag-directory/internal/model"
)

// ErrNoFrontMatter is returned when a text record has no leading key/value block.
var ErrNoFrontMatter = errors.New("missing front matter")

var frontMatterRegex = regexp.MustCompile(`^---\s*\n([\s\S]*?)\n---\s*\n([\s\S]*)$`)

// Defaults applied to legacy text records lacking the field.
const (
	defaultPlatform   = model.PlatformOther
	defaultDifficulty = model.DifficultyBeginner
)

// ParseFrontMatter parses a text record made of a "---" delimited block of
// "key: value" lines followed by a body.
//
// When the block declares a title the body becomes "content"; otherwise the
// record is a legacy recipe and the body becomes "codeSnippet", with platform
// and difficulty defaulted. "tags" is always split on commas.
func ParseFrontMatter(text string) (model.RawRecord, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	match := frontMatterRegex.FindStringSubmatch(text)
	if match == nil {
		return nil, ErrNoFrontMatter
	}

	rec := model.RawRecord{}
	for _, line := range strings.Split(match[1], "\n") {
		idx := strings.Index(line, ":")
		if idx <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		if key == "" {
			continue
		}
		rec[key] = value
	}

	if tags, ok := rec.String("tags"); ok {
		rec["tags"] = splitList(tags)
	}
	if v, ok := rec.String("community_verified"); ok {
		rec["community_verified"] = v == "true"
	}

	body := strings.TrimSpace(match[2])
	if title, ok := rec.String("title"); ok && title != "" {
		rec["content"] = body
		return rec, nil
	}

	rec["codeSnippet"] = body
	if s, _ := rec.String("platform"); s == "" {
		rec["platform"] = string(defaultPlatform)
	}
	if s, _ := rec.String("difficulty"); s == "" {
		rec["difficulty"] = string(defaultDifficulty)
	}
	return rec, nil
}

// splitList splits a comma-separated value, dropping empty items.
func splitList(s string) []any {
	out := []any{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
