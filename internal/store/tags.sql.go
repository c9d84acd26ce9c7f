// Copyright (c) 2026 The tag-directory Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"math"
	"time"
)

const tagColumns = `id, slug, title, description, author_id, platform, tag_type, content, status,
    community_verified, upvotes_count, views_count, file_path, created_at, updated_at`

func scanTag(row interface{ Scan(...any) error }) (Tag, error) {
	var i Tag
	err := row.Scan(
		&i.ID,
		&i.Slug,
		&i.Title,
		&i.Description,
		&i.AuthorID,
		&i.Platform,
		&i.TagType,
		&i.Content,
		&i.Status,
		&i.CommunityVerified,
		&i.UpvotesCount,
		&i.ViewsCount,
		&i.FilePath,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listTags = `SELECT ` + tagColumns + ` FROM tags
WHERE (? = '' OR status = ?) AND (? = '' OR platform = ?)
ORDER BY created_at DESC, slug ASC
LIMIT ? OFFSET ?`

// ListTagsParams filters ListTags. Empty strings match any value; a zero
// Limit returns every row.
type ListTagsParams struct {
	Status   string
	Platform string
	Limit    int64
	Offset   int64
}

// ListTags returns tags newest first.
func (q *Queries) ListTags(ctx context.Context, arg ListTagsParams) ([]Tag, error) {
	limit := arg.Limit
	if limit <= 0 {
		limit = math.MaxInt32
	}
	rows, err := q.db.QueryContext(ctx, listTags,
		arg.Status, arg.Status,
		arg.Platform, arg.Platform,
		limit, arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []Tag{}
	for rows.Next() {
		i, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getTagBySlug = `SELECT ` + tagColumns + ` FROM tags WHERE slug = ?`

// GetTagBySlug returns a tag in any status.
func (q *Queries) GetTagBySlug(ctx context.Context, slug string) (Tag, error) {
	return scanTag(q.db.QueryRowContext(ctx, getTagBySlug, slug))
}

const getApprovedTagBySlug = `SELECT ` + tagColumns + ` FROM tags WHERE slug = ? AND status = 'approved'`

// GetApprovedTagBySlug returns a publicly visible tag.
func (q *Queries) GetApprovedTagBySlug(ctx context.Context, slug string) (Tag, error) {
	return scanTag(q.db.QueryRowContext(ctx, getApprovedTagBySlug, slug))
}

const countTagsBySlug = `SELECT COUNT(*) FROM tags WHERE slug = ?`

// CountTagsBySlug returns 1 if slug is taken, otherwise 0.
func (q *Queries) CountTagsBySlug(ctx context.Context, slug string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countTagsBySlug, slug).Scan(&count)
	return count, err
}

const listTagSlugs = `SELECT slug FROM tags ORDER BY slug`

// ListTagSlugs returns every stored slug.
func (q *Queries) ListTagSlugs(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listTagSlugs)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []string
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, err
		}
		items = append(items, slug)
	}
	return items, rows.Err()
}

const createTag = `INSERT INTO tags (
    id, slug, title, description, author_id, platform, tag_type, content, status,
    community_verified, file_path, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// CreateTagParams holds the columns of a new tag.
type CreateTagParams struct {
	ID                string
	Slug              string
	Title             string
	Description       sql.NullString
	AuthorID          sql.NullString
	Platform          string
	TagType           sql.NullString
	Content           string
	Status            string
	CommunityVerified bool
	FilePath          sql.NullString
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// CreateTag inserts a tag and returns the stored row.
func (q *Queries) CreateTag(ctx context.Context, arg CreateTagParams) (Tag, error) {
	_, err := q.db.ExecContext(ctx, createTag,
		arg.ID,
		arg.Slug,
		arg.Title,
		arg.Description,
		arg.AuthorID,
		arg.Platform,
		arg.TagType,
		arg.Content,
		arg.Status,
		arg.CommunityVerified,
		arg.FilePath,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	if err != nil {
		return Tag{}, err
	}
	return q.GetTagBySlug(ctx, arg.Slug)
}

const updateTag = `UPDATE tags SET
    title = ?, description = ?, platform = ?, tag_type = ?, content = ?, updated_at = ?
WHERE slug = ?`

// UpdateTagParams holds the editable columns of a tag.
type UpdateTagParams struct {
	Title       string
	Description sql.NullString
	Platform    string
	TagType     sql.NullString
	Content     string
	UpdatedAt   time.Time
	Slug        string
}

// UpdateTag rewrites the editable columns and returns the affected row count.
func (q *Queries) UpdateTag(ctx context.Context, arg UpdateTagParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateTag,
		arg.Title,
		arg.Description,
		arg.Platform,
		arg.TagType,
		arg.Content,
		arg.UpdatedAt,
		arg.Slug,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const setTagStatus = `UPDATE tags SET status = ?, updated_at = ? WHERE slug = ?`

// SetTagStatusParams holds a moderation decision.
type SetTagStatusParams struct {
	Status    string
	UpdatedAt time.Time
	Slug      string
}

// SetTagStatus updates the moderation status.
func (q *Queries) SetTagStatus(ctx context.Context, arg SetTagStatusParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, setTagStatus, arg.Status, arg.UpdatedAt, arg.Slug)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const setTagVerified = `UPDATE tags SET community_verified = ?, updated_at = ? WHERE slug = ?`

// SetTagVerifiedParams holds a verification flag change.
type SetTagVerifiedParams struct {
	CommunityVerified bool
	UpdatedAt         time.Time
	Slug              string
}

// SetTagVerified updates the community verification flag.
func (q *Queries) SetTagVerified(ctx context.Context, arg SetTagVerifiedParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, setTagVerified, arg.CommunityVerified, arg.UpdatedAt, arg.Slug)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const incrementTagViews = `UPDATE tags SET views_count = views_count + 1 WHERE slug = ?`

const getTagViews = `SELECT views_count FROM tags WHERE slug = ?`

// IncrementTagViews adds one view and returns the new count.
// It returns sql.ErrNoRows when the slug does not exist.
func (q *Queries) IncrementTagViews(ctx context.Context, slug string) (int64, error) {
	result, err := q.db.ExecContext(ctx, incrementTagViews, slug)
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, sql.ErrNoRows
	}
	var views int64
	err = q.db.QueryRowContext(ctx, getTagViews, slug).Scan(&views)
	return views, err
}

const getTagAuthor = `SELECT author_id FROM tags WHERE slug = ?`

// GetTagAuthor returns the owner of a tag.
func (q *Queries) GetTagAuthor(ctx context.Context, slug string) (sql.NullString, error) {
	var authorID sql.NullString
	err := q.db.QueryRowContext(ctx, getTagAuthor, slug).Scan(&authorID)
	return authorID, err
}
