// Copyright (c) 2026 The tag-directory Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/leopoldus11/tag-directory/internal/cache"
	"github.com/leopoldus11/tag-directory/internal/model"
	"github.com/leopoldus11/tag-directory/internal/scheduler"
	"github.com/leopoldus11/tag-directory/internal/version"
)

// RanksResponse describes the rank tiers and the credit schedule.
type RanksResponse struct {
	Tiers    []model.RankTier    `json:"tiers"`
	Schedule []model.CreditRule  `json:"schedule"`
	Progress *model.RankProgress `json:"progress,omitempty"`
}

// GetRanks handles GET /api/v1/ranks. With ?credits=N the response also
// carries the progress for that total.
func (h *Handler) GetRanks(w http.ResponseWriter, r *http.Request) {
	resp := RanksResponse{
		Tiers:    model.RankTiers(),
		Schedule: model.CreditSchedule(),
	}
	if v := r.URL.Query().Get("credits"); v != "" {
		credits, err := strconv.ParseInt(v, 10, 64)
		if err != nil || credits < 0 {
			WriteBadRequest(w, "Invalid credits", map[string]string{"credits": "Must be a non-negative integer"})
			return
		}
		p := model.ProgressForCredits(credits)
		resp.Progress = &p
	}
	WriteSuccess(w, resp, nil)
}

// StatusResponse reports runtime counters.
type StatusResponse struct {
	Version      version.Info        `json:"version"`
	ViewFailures int64               `json:"view_failures"`
	Cache        *cache.Stats        `json:"cache,omitempty"`
	Tasks        []scheduler.JobInfo `json:"tasks,omitempty"`
}

// GetStatus handles GET /api/v1/status.
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Version:      h.version,
		ViewFailures: h.blueprints.ViewFailures(),
		Cache:        h.blueprints.CacheStats(),
	}
	if h.scheduler != nil {
		resp.Tasks = h.scheduler.Jobs()
	}
	WriteSuccess(w, resp, nil)
}

// RunTask handles POST /api/v1/tasks/{name}/run. Moderators only.
func (h *Handler) RunTask(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if h.scheduler == nil {
		WriteNotFound(w, "Task not found")
		return
	}
	err := h.scheduler.Trigger(name)
	switch {
	case errors.Is(err, scheduler.ErrJobNotFound):
		WriteNotFound(w, "Task not found")
	case err != nil:
		h.logger.Error("task failed", "task", name, "error", err)
		WriteInternalError(w, "Task failed")
	default:
		WriteSuccess(w, map[string]string{"task": name, "status": "completed"}, nil)
	}
}

// ListEvents handles GET /api/v1/events. Moderators only.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	level := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("level")))
	switch level {
	case "", model.EventLevelInfo, model.EventLevelWarning, model.EventLevelError:
	default:
		WriteBadRequest(w, "Invalid level", map[string]string{"level": "Must be info, warning or error"})
		return
	}

	page, perPage := parsePagination(r)
	result, err := h.events.List(r.Context(), level, int64(perPage), int64((page-1)*perPage))
	if err != nil {
		h.logger.Error("failed to list events", "error", err)
		WriteInternalError(w, "Failed to list events")
		return
	}
	WriteSuccess(w, result.Events, pageMeta(result.Total, page, perPage))
}
