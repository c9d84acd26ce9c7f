// Copyright (c) 2026 The tag-directory Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

// Tag is a row of the tags table. Content holds the full blueprint as JSON.
type Tag struct {
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
	UpvotesCount      int64
	ViewsCount        int64
	FilePath          sql.NullString
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// User is a row of the users table. Skills is a JSON array.
type User struct {
	ID               string
	GithubUsername   sql.NullString
	GoogleEmail      sql.NullString
	Name             string
	Avatar           string
	Bio              sql.NullString
	Github           sql.NullString
	Credits          int64
	Followers        int64
	Following        int64
	Contributions    int64
	IsOpenForWork    bool
	AvailabilityType sql.NullString
	Skills           string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Event is a row of the events table.
type Event struct {
	ID        int64
	Level     string
	Category  string
	Message   string
	Metadata  string
	CreatedAt time.Time
}
