// Copyright (c) 2026 The tag-directory Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Job statuses
const (
	JobStatusActive  = "active"
	JobStatusClosed  = "closed"
	JobStatusPending = "pending"
)

// Workplace types
const (
	WorkplaceOnSite = "On site"
	WorkplaceRemote = "Remote"
	WorkplaceHybrid = "Hybrid"
)

// Job is a job listing.
type Job struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Company       string `json:"company"`
	Location      string `json:"location"`
	WorkplaceType string `json:"workplaceType"`
	Experience    string `json:"experience"`
	Description   string `json:"description"`
	URL           string `json:"url"`
	Featured      bool   `json:"featured,omitempty"`
	Status        string `json:"status,omitempty"`
	CreatedAt     string `json:"createdAt,omitempty"`
	UpdatedAt     string `json:"updatedAt,omitempty"`
}

// IsActive reports whether the job is listed. A job without a status is active.
func (j *Job) IsActive() bool {
	return j.Status == "" || j.Status == JobStatusActive
}
