// Copyright (c) 2026 The tag-directory Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/leopoldus11/tag-directory/internal/content"
	"github.com/leopoldus11/tag-directory/internal/model"
	"github.com/leopoldus11/tag-directory/internal/store"
)

// TagLister is the part of store.Queries used by StoreSource.
type TagLister interface {
	ListTags(ctx context.Context, arg store.ListTagsParams) ([]store.Tag, error)
}

// StoreSource reads records from the tags table.
type StoreSource struct {
	tags     TagLister
	status   model.TagStatus
	platform string
}

// NewStoreSource creates a StoreSource that returns approved tags.
func NewStoreSource(tags TagLister) *StoreSource {
	return &StoreSource{tags: tags, status: model.TagStatusApproved}
}

// WithPlatform returns a copy filtered to one platform.
func (s *StoreSource) WithPlatform(platform string) *StoreSource {
	c := *s
	c.platform = platform
	return &c
}

// WithStatus returns a copy filtered to another moderation status.
func (s *StoreSource) WithStatus(status model.TagStatus) *StoreSource {
	c := *s
	c.status = status
	return &c
}

// Load implements Source. Rows come back newest first.
func (s *StoreSource) Load(ctx context.Context) ([]content.Item, []content.LoadError, error) {
	rows, err := s.tags.ListTags(ctx, store.ListTagsParams{
		Status:   string(s.status),
		Platform: s.platform,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("listing tags: %w", err)
	}

	items := make([]content.Item, 0, len(rows))
	var loadErrs []content.LoadError
	for _, row := range rows {
		origin := content.Origin{Source: SourceStore, Path: row.Slug}
		rec, err := RecordFromTag(row)
		if err != nil {
			loadErrs = append(loadErrs, content.LoadError{Origin: origin, Err: err})
			continue
		}
		items = append(items, content.Item{Record: rec, Origin: origin})
	}
	return items, loadErrs, nil
}

// RecordFromTag turns a tags row into a raw record: the JSON payload with the
// denormalized columns laid over it. The slug doubles as the id.
func RecordFromTag(row store.Tag) (model.RawRecord, error) {
	var payload map[string]any
	if err := json.Unmarshal([]byte(row.Content), &payload); err != nil {
		return nil, fmt.Errorf("decoding content payload: %w", err)
	}
	if payload == nil {
		payload = map[string]any{}
	}

	rec := model.RawRecord(payload).Clone()
	rec["id"] = row.Slug
	rec["slug"] = row.Slug
	rec["title"] = row.Title
	rec["platform"] = row.Platform
	rec["community_verified"] = row.CommunityVerified
	rec["status"] = row.Status
	rec["views"] = row.ViewsCount
	rec["createdAt"] = row.CreatedAt.UTC().Format(time.RFC3339)
	rec["updatedAt"] = row.UpdatedAt.UTC().Format(time.RFC3339)

	if row.Description.Valid {
		rec["description"] = row.Description.String
	}
	if row.TagType.Valid && row.TagType.String != "" {
		rec["tagType"] = row.TagType.String
	}
	if row.FilePath.Valid && row.FilePath.String != "" {
		rec["filePath"] = row.FilePath.String
	}
	if !rec.Has("author") && row.AuthorID.Valid {
		rec["author"] = row.AuthorID.String
	}

	if t, ok := payload["type"].(string); !ok || t == "" {
		switch {
		case row.TagType.Valid && row.TagType.String != "":
			rec["type"] = row.TagType.String
		default:
			rec["type"] = string(model.TypeTag)
		}
	}

	if _, ok := payload["content"].(string); !ok {
		serialized, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding content payload: %w", err)
		}
		rec["content"] = string(serialized)
	}
	return rec, nil
}
