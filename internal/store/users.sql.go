// Copyright (c) 2026 The tag-directory Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"math"
	"time"
)

const userColumns = `id, github_username, google_email, name, avatar, bio, github, credits,
    followers, following, contributions, is_open_for_work, availability_type, skills,
    created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var i User
	err := row.Scan(
		&i.ID,
		&i.GithubUsername,
		&i.GoogleEmail,
		&i.Name,
		&i.Avatar,
		&i.Bio,
		&i.Github,
		&i.Credits,
		&i.Followers,
		&i.Following,
		&i.Contributions,
		&i.IsOpenForWork,
		&i.AvailabilityType,
		&i.Skills,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getUser = `SELECT ` + userColumns + ` FROM users WHERE id = ?`

// GetUser returns a user by id.
func (q *Queries) GetUser(ctx context.Context, id string) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUser, id))
}

const getUserByGitHubUsername = `SELECT ` + userColumns + ` FROM users WHERE github_username = ? ORDER BY created_at LIMIT 1`

// GetUserByGitHubUsername returns the oldest user linked to a GitHub account.
func (q *Queries) GetUserByGitHubUsername(ctx context.Context, username string) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByGitHubUsername, username))
}

const listUsersByCredits = `SELECT ` + userColumns + ` FROM users ORDER BY credits DESC, id ASC LIMIT ? OFFSET ?`

// ListUsersByCreditsParams pages ListUsersByCredits. A zero Limit returns every row.
type ListUsersByCreditsParams struct {
	Limit  int64
	Offset int64
}

// ListUsersByCredits returns users with the most credits first.
func (q *Queries) ListUsersByCredits(ctx context.Context, arg ListUsersByCreditsParams) ([]User, error) {
	limit := arg.Limit
	if limit <= 0 {
		limit = math.MaxInt32
	}
	rows, err := q.db.QueryContext(ctx, listUsersByCredits, limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []User{}
	for rows.Next() {
		i, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const countUsers = `SELECT COUNT(*) FROM users`

// CountUsers returns the number of users.
func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countUsers).Scan(&count)
	return count, err
}

const upsertUserSQLite = `INSERT INTO users (` + userColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    github_username = excluded.github_username,
    google_email = excluded.google_email,
    name = excluded.name,
    avatar = excluded.avatar,
    bio = excluded.bio,
    github = excluded.github,
    credits = excluded.credits,
    followers = excluded.followers,
    following = excluded.following,
    contributions = excluded.contributions,
    is_open_for_work = excluded.is_open_for_work,
    availability_type = excluded.availability_type,
    skills = excluded.skills,
    updated_at = excluded.updated_at`

const upsertUserMySQL = `INSERT INTO users (` + userColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
    github_username = VALUES(github_username),
    google_email = VALUES(google_email),
    name = VALUES(name),
    avatar = VALUES(avatar),
    bio = VALUES(bio),
    github = VALUES(github),
    credits = VALUES(credits),
    followers = VALUES(followers),
    following = VALUES(following),
    contributions = VALUES(contributions),
    is_open_for_work = VALUES(is_open_for_work),
    availability_type = VALUES(availability_type),
    skills = VALUES(skills),
    updated_at = VALUES(updated_at)`

// UpsertUserParams holds a full user row. CreatedAt is kept on update.
type UpsertUserParams struct {
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

// UpsertUser inserts a user or overwrites the existing row with the same id.
func (q *Queries) UpsertUser(ctx context.Context, arg UpsertUserParams) (User, error) {
	query := upsertUserSQLite
	if q.driver == DriverMySQL {
		query = upsertUserMySQL
	}
	_, err := q.db.ExecContext(ctx, query,
		arg.ID,
		arg.GithubUsername,
		arg.GoogleEmail,
		arg.Name,
		arg.Avatar,
		arg.Bio,
		arg.Github,
		arg.Credits,
		arg.Followers,
		arg.Following,
		arg.Contributions,
		arg.IsOpenForWork,
		arg.AvailabilityType,
		arg.Skills,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	if err != nil {
		return User{}, err
	}
	return q.GetUser(ctx, arg.ID)
}

const addUserCredits = `UPDATE users SET credits = credits + ?, updated_at = ? WHERE id = ?`

// AddUserCreditsParams holds a credit award.
type AddUserCreditsParams struct {
	Credits   int64
	UpdatedAt time.Time
	ID        string
}

// AddUserCredits adds credits to a user and returns the affected row count.
func (q *Queries) AddUserCredits(ctx context.Context, arg AddUserCreditsParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, addUserCredits, arg.Credits, arg.UpdatedAt, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
