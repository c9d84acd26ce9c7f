// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"regexp"
	"strings"
	"time"
)

// Availability types for members open to work
const (
	AvailabilityFreelance    = "freelance"
	AvailabilityFullTime     = "full-time"
	AvailabilityPartTime     = "part-time"
	AvailabilityNotAvailable = "not-available"
)

// User is a community member profile. Rank is never stored; it is derived
// from Credits on every read.
type User struct {
	ID               string    `json:"id"`
	GitHubUsername   string    `json:"githubUsername,omitempty"`
	GoogleEmail      string    `json:"googleEmail,omitempty"`
	Name             string    `json:"name"`
	Avatar           string    `json:"avatar"`
	Bio              string    `json:"bio,omitempty"`
	GitHub           string    `json:"github,omitempty"`
	Credits          int64     `json:"credits"`
	Followers        int64     `json:"followers"`
	Following        int64     `json:"following"`
	Contributions    int64     `json:"contributions"`
	IsOpenForWork    bool      `json:"isOpenForWork"`
	AvailabilityType string    `json:"availabilityType,omitempty"`
	Skills           []string  `json:"skills"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Rank returns the member's tier for their current credits.
func (u *User) Rank() Rank {
	return RankForCredits(u.Credits)
}

// Author is an entry of the legacy authors directory file.
type Author struct {
	Username         string   `json:"username"`
	Name             string   `json:"name"`
	Avatar           string   `json:"avatar"`
	Bio              string   `json:"bio,omitempty"`
	Contributions    int64    `json:"contributions"`
	GitHub           string   `json:"github,omitempty"`
	Credits          int64    `json:"credits,omitempty"`
	Followers        int64    `json:"followers,omitempty"`
	Following        int64    `json:"following,omitempty"`
	IsOpenForWork    bool     `json:"isOpenForWork,omitempty"`
	AvailabilityType string   `json:"availabilityType,omitempty"`
	Skills           []string `json:"skills,omitempty"`
}

// Rank returns the author's tier for their current credits.
func (a *Author) Rank() Rank {
	return RankForCredits(a.Credits)
}

var invalidUserIDChars = regexp.MustCompile(`[^a-z0-9-]`)

// UserIDFromIdentity derives a member id from an identity provider username
// or email, e.g. "Jane.Doe@example.com" -> "jane-doe".
func UserIDFromIdentity(identity string) string {
	if at := strings.Index(identity, "@"); at > 0 {
		identity = identity[:at]
	}
	return invalidUserIDChars.ReplaceAllString(strings.ToLower(identity), "-")
}
