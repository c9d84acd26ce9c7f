// Copyright (c) 2026 The tag-directory Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"

	"github.com/leopoldus11/tag-directory/internal/model"
)

// DefaultJobsFile is the job listings file relative to the content root.
const DefaultJobsFile = "data/jobs/jobs.json"

// JobService reads job listings from a JSON file on every call.
type JobService struct {
	path   string
	logger *slog.Logger
}

// NewJobService creates a JobService for the listings file at path.
func NewJobService(path string, logger *slog.Logger) *JobService {
	if logger == nil {
		logger = slog.Default()
	}
	return &JobService{path: path, logger: logger}
}

// List returns the active jobs. A missing or unreadable file yields none.
func (s *JobService) List() []model.Job {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []model.Job{}
	}
	if err != nil {
		s.logger.Error("failed to read jobs file", "path", s.path, "error", err)
		return []model.Job{}
	}

	var jobs []model.Job
	if err := json.Unmarshal(data, &jobs); err != nil {
		s.logger.Error("failed to parse jobs file", "path", s.path, "error", err)
		return []model.Job{}
	}

	active := make([]model.Job, 0, len(jobs))
	for _, job := range jobs {
		if job.IsActive() {
			active = append(active, job)
		}
	}
	return active
}

// Get returns an active job by id.
func (s *JobService) Get(id string) (model.Job, error) {
	for _, job := range s.List() {
		if job.ID == id {
			return job, nil
		}
	}
	return model.Job{}, ErrJobNotFound
}

// Featured returns the active jobs promoted on the home page.
func (s *JobService) Featured() []model.Job {
	featured := []model.Job{}
	for _, job := range s.List() {
		if job.Featured {
			featured = append(featured, job)
		}
	}
	return featured
}
