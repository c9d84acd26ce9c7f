// Copyright (c) 2026 The tag-directory Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/leopoldus11/tag-directory/internal/model"
	"github.com/leopoldus11/tag-directory/internal/store"
	"github.com/leopoldus11/tag-directory/internal/util"
)

// DefaultAuthorsFile is the authors directory relative to the content root.
const DefaultAuthorsFile = "data/authors/authors.json"

// Member is a public profile built from a user row, an authors-file entry
// or both. Rank fields are derived from Credits.
type Member struct {
	ID               string             `json:"id"`
	GitHubUsername   string             `json:"githubUsername,omitempty"`
	Name             string             `json:"name"`
	Avatar           string             `json:"avatar"`
	Bio              string             `json:"bio,omitempty"`
	GitHub           string             `json:"github,omitempty"`
	Credits          int64              `json:"credits"`
	Rank             model.Rank         `json:"rank"`
	RankLabel        string             `json:"rankLabel"`
	Progress         model.RankProgress `json:"progress"`
	Followers        int64              `json:"followers"`
	Following        int64              `json:"following"`
	Contributions    int64              `json:"contributions"`
	IsOpenForWork    bool               `json:"isOpenForWork"`
	AvailabilityType string             `json:"availabilityType,omitempty"`
	Skills           []string           `json:"skills"`
	Registered       bool               `json:"registered"`
}

func memberFromUser(u model.User) Member {
	m := Member{
		ID:               u.ID,
		GitHubUsername:   u.GitHubUsername,
		Name:             u.Name,
		Avatar:           u.Avatar,
		Bio:              u.Bio,
		GitHub:           u.GitHub,
		Credits:          u.Credits,
		Followers:        u.Followers,
		Following:        u.Following,
		Contributions:    u.Contributions,
		IsOpenForWork:    u.IsOpenForWork,
		AvailabilityType: u.AvailabilityType,
		Skills:           u.Skills,
		Registered:       true,
	}
	return m.withRank()
}

func memberFromAuthor(a model.Author) Member {
	m := Member{
		ID:               a.Username,
		GitHubUsername:   a.Username,
		Name:             a.Name,
		Avatar:           a.Avatar,
		Bio:              a.Bio,
		GitHub:           a.GitHub,
		Credits:          a.Credits,
		Followers:        a.Followers,
		Following:        a.Following,
		Contributions:    a.Contributions,
		IsOpenForWork:    a.IsOpenForWork,
		AvailabilityType: a.AvailabilityType,
		Skills:           a.Skills,
	}
	return m.withRank()
}

func (m Member) withRank() Member {
	if m.Skills == nil {
		m.Skills = []string{}
	}
	m.Rank = model.RankForCredits(m.Credits)
	m.RankLabel = m.Rank.Label()
	m.Progress = model.ProgressForCredits(m.Credits)
	return m
}

// MemberService manages member profiles and credits.
type MemberService struct {
	queries     *store.Queries
	authorsFile string
	logger      *slog.Logger
	now         func() time.Time
}

// NewMemberService creates a MemberService. authorsFile is the absolute path
// of the authors directory; a missing file is treated as empty.
func NewMemberService(queries *store.Queries, authorsFile string, logger *slog.Logger) *MemberService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MemberService{
		queries:     queries,
		authorsFile: authorsFile,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Authors reads the authors directory file.
func (s *MemberService) Authors() []model.Author {
	if s.authorsFile == "" {
		return nil
	}
	data, err := os.ReadFile(s.authorsFile)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		s.logger.Error("failed to read authors file", "path", s.authorsFile, "error", err)
		return nil
	}
	var authors []model.Author
	if err := json.Unmarshal(data, &authors); err != nil {
		s.logger.Error("failed to parse authors file", "path", s.authorsFile, "error", err)
		return nil
	}
	return authors
}

// List returns registered users and authors-file entries, most credits first.
// A user shadows the author entry with the same id or GitHub username.
func (s *MemberService) List(ctx context.Context) ([]Member, error) {
	rows, err := s.queries.ListUsersByCredits(ctx, store.ListUsersByCreditsParams{})
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}

	members := make([]Member, 0, len(rows))
	seen := make(map[string]bool)
	for _, row := range rows {
		u := userFromRow(row)
		members = append(members, memberFromUser(u))
		seen[strings.ToLower(u.ID)] = true
		if u.GitHubUsername != "" {
			seen[strings.ToLower(u.GitHubUsername)] = true
		}
	}
	for _, a := range s.Authors() {
		if seen[strings.ToLower(a.Username)] {
			continue
		}
		members = append(members, memberFromAuthor(a))
	}

	sort.SliceStable(members, func(i, j int) bool {
		return members[i].Credits > members[j].Credits
	})
	return members, nil
}

// Get returns a member by id or GitHub username. User data takes precedence
// over the authors file.
func (s *MemberService) Get(ctx context.Context, username string) (Member, error) {
	user, err := s.findUser(ctx, username)
	if err != nil && !errors.Is(err, ErrMemberNotFound) {
		return Member{}, err
	}
	if err == nil {
		return memberFromUser(user), nil
	}

	for _, a := range s.Authors() {
		if a.Username == username {
			return memberFromAuthor(a), nil
		}
	}
	return Member{}, ErrMemberNotFound
}

func (s *MemberService) findUser(ctx context.Context, username string) (model.User, error) {
	row, err := s.queries.GetUser(ctx, username)
	if errors.Is(err, sql.ErrNoRows) {
		row, err = s.queries.GetUserByGitHubUsername(ctx, username)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrMemberNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("getting user: %w", err)
	}
	return userFromRow(row), nil
}

// UpsertParams holds profile fields. Empty values keep the stored ones.
type UpsertParams struct {
	ID               string
	GitHubUsername   string
	GoogleEmail      string
	Name             string
	Avatar           string
	Bio              string
	GitHub           string
	IsOpenForWork    *bool
	AvailabilityType string
	Skills           []string
}

// Upsert creates a profile or updates an existing one. Credits and social
// counters of an existing user are never overwritten from the input.
func (s *MemberService) Upsert(ctx context.Context, params UpsertParams) (Member, error) {
	id := model.UserIDFromIdentity(params.ID)
	if strings.Trim(id, "-") == "" {
		return Member{}, ErrInvalidMemberID
	}

	existing, err := s.queries.GetUser(ctx, id)
	exists := err == nil
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return Member{}, fmt.Errorf("getting user: %w", err)
	}

	now := s.now()
	cur := userFromRow(existing)
	u := model.User{
		ID:               id,
		GitHubUsername:   firstNonEmpty(params.GitHubUsername, cur.GitHubUsername),
		GoogleEmail:      firstNonEmpty(params.GoogleEmail, cur.GoogleEmail),
		Name:             firstNonEmpty(params.Name, cur.Name, id),
		Bio:              firstNonEmpty(params.Bio, cur.Bio),
		GitHub:           firstNonEmpty(params.GitHub, cur.GitHub),
		AvailabilityType: firstNonEmpty(params.AvailabilityType, cur.AvailabilityType),
		Credits:          cur.Credits,
		Followers:        cur.Followers,
		Following:        cur.Following,
		Contributions:    cur.Contributions,
		IsOpenForWork:    cur.IsOpenForWork,
		Skills:           cur.Skills,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	u.Avatar = firstNonEmpty(params.Avatar, cur.Avatar, initial(u.Name))
	if params.IsOpenForWork != nil {
		u.IsOpenForWork = *params.IsOpenForWork
	}
	if params.Skills != nil {
		u.Skills = params.Skills
	}
	if exists {
		u.CreatedAt = existing.CreatedAt
	}

	row, err := s.queries.UpsertUser(ctx, toUpsertParams(u))
	if err != nil {
		return Member{}, fmt.Errorf("saving user: %w", err)
	}
	s.logger.Info("member profile saved", "id", id, "created", !exists, "category", model.EventCategoryUser)
	return memberFromUser(userFromRow(row)), nil
}

// AwardCredits adds the credits of activity to a member and returns the new
// total. A member without a profile gets a minimal one first.
func (s *MemberService) AwardCredits(ctx context.Context, userID string, activity model.CreditActivity) (int64, error) {
	credits, ok := model.CreditsFor(activity)
	if !ok {
		return 0, ErrUnknownActivity
	}

	n, err := s.queries.AddUserCredits(ctx, store.AddUserCreditsParams{
		Credits:   credits,
		UpdatedAt: s.now(),
		ID:        userID,
	})
	if err != nil {
		return 0, fmt.Errorf("adding credits: %w", err)
	}
	if n == 0 {
		now := s.now()
		u := model.User{ID: userID, Name: userID, Avatar: initial(userID), Credits: credits, CreatedAt: now, UpdatedAt: now}
		if a, found := s.author(userID); found {
			u.Name = firstNonEmpty(a.Name, userID)
			u.Avatar = firstNonEmpty(a.Avatar, u.Avatar)
			u.GitHubUsername = a.Username
			u.Credits += a.Credits
		}
		if _, err := s.queries.UpsertUser(ctx, toUpsertParams(u)); err != nil {
			return 0, fmt.Errorf("creating user: %w", err)
		}
	}

	row, err := s.queries.GetUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("getting user: %w", err)
	}
	s.logger.Info("credits awarded",
		"user", userID, "activity", activity, "credits", credits, "total", row.Credits, "category", model.EventCategoryUser)
	return row.Credits, nil
}

func (s *MemberService) author(username string) (model.Author, bool) {
	for _, a := range s.Authors() {
		if a.Username == username {
			return a, true
		}
	}
	return model.Author{}, false
}

func userFromRow(row store.User) model.User {
	u := model.User{
		ID:               row.ID,
		GitHubUsername:   util.StringFromNull(row.GithubUsername),
		GoogleEmail:      util.StringFromNull(row.GoogleEmail),
		Name:             row.Name,
		Avatar:           row.Avatar,
		Bio:              util.StringFromNull(row.Bio),
		GitHub:           util.StringFromNull(row.Github),
		Credits:          row.Credits,
		Followers:        row.Followers,
		Following:        row.Following,
		Contributions:    row.Contributions,
		IsOpenForWork:    row.IsOpenForWork,
		AvailabilityType: util.StringFromNull(row.AvailabilityType),
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
	if row.Skills != "" {
		_ = json.Unmarshal([]byte(row.Skills), &u.Skills)
	}
	return u
}

func toUpsertParams(u model.User) store.UpsertUserParams {
	skills := u.Skills
	if skills == nil {
		skills = []string{}
	}
	skillsJSON, _ := json.Marshal(skills)
	return store.UpsertUserParams{
		ID:               u.ID,
		GithubUsername:   util.NullStringFromValue(u.GitHubUsername),
		GoogleEmail:      util.NullStringFromValue(u.GoogleEmail),
		Name:             u.Name,
		Avatar:           u.Avatar,
		Bio:              util.NullStringFromValue(u.Bio),
		Github:           util.NullStringFromValue(u.GitHub),
		Credits:          u.Credits,
		Followers:        u.Followers,
		Following:        u.Following,
		Contributions:    u.Contributions,
		IsOpenForWork:    u.IsOpenForWork,
		AvailabilityType: util.NullStringFromValue(u.AvailabilityType),
		Skills:           string(skillsJSON),
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// initial is the placeholder avatar: the upper-cased first letter of name.
func initial(name string) string {
	for _, r := range name {
		return strings.ToUpper(string(r))
	}
	return "U"
}
