// Copyright (c) 2026 The tag-directory Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/leopoldus11/tag-directory/internal/model"
	"github.com/leopoldus11/tag-directory/internal/service"
)

// UpsertMemberRequest is the body of PUT /api/v1/members/{id}.
type UpsertMemberRequest struct {
	GitHubUsername   string   `json:"githubUsername"`
	GoogleEmail      string   `json:"googleEmail"`
	Name             string   `json:"name"`
	Avatar           string   `json:"avatar"`
	Bio              string   `json:"bio"`
	GitHub           string   `json:"github"`
	IsOpenForWork    *bool    `json:"isOpenForWork"`
	AvailabilityType string   `json:"availabilityType"`
	Skills           []string `json:"skills"`
}

// AwardCreditsRequest is the body of POST /api/v1/members/{id}/credits.
type AwardCreditsRequest struct {
	Activity model.CreditActivity `json:"activity"`
}

// AwardCreditsResponse reports the member's new balance.
type AwardCreditsResponse struct {
	ID       string             `json:"id"`
	Activity string             `json:"activity"`
	Credits  int64              `json:"credits"`
	Progress model.RankProgress `json:"progress"`
}

// ListMembers handles GET /api/v1/members.
func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.members.List(r.Context())
	if err != nil {
		h.logger.Warn("member listing degraded", "error", err, "category", model.EventCategoryUser)
		WriteSuccess(w, []service.Member{}, &Meta{Degraded: true})
		return
	}
	WriteSuccess(w, members, &Meta{Total: int64(len(members))})
}

// GetMember handles GET /api/v1/members/{username}.
func (h *Handler) GetMember(w http.ResponseWriter, r *http.Request) {
	member, err := h.members.Get(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		h.writeServiceError(w, r, err, "retrieve member")
		return
	}
	WriteSuccess(w, member, nil)
}

// UpsertMember handles PUT /api/v1/members/{username}.
func (h *Handler) UpsertMember(w http.ResponseWriter, r *http.Request) {
	var req UpsertMemberRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteBadRequest(w, capitalizeFirst(err.Error()), nil)
		return
	}

	if req.AvailabilityType != "" && !validAvailability(req.AvailabilityType) {
		WriteValidationError(w, map[string]string{"availabilityType": "Unknown availability type"})
		return
	}

	member, err := h.members.Upsert(r.Context(), service.UpsertParams{
		ID:               chi.URLParam(r, "username"),
		GitHubUsername:   req.GitHubUsername,
		GoogleEmail:      req.GoogleEmail,
		Name:             req.Name,
		Avatar:           req.Avatar,
		Bio:              req.Bio,
		GitHub:           req.GitHub,
		IsOpenForWork:    req.IsOpenForWork,
		AvailabilityType: req.AvailabilityType,
		Skills:           req.Skills,
	})
	if err != nil {
		h.writeServiceError(w, r, err, "save member")
		return
	}
	WriteSuccess(w, member, nil)
}

// AwardCredits handles POST /api/v1/members/{username}/credits.
func (h *Handler) AwardCredits(w http.ResponseWriter, r *http.Request) {
	var req AwardCreditsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteBadRequest(w, capitalizeFirst(err.Error()), nil)
		return
	}
	if req.Activity == "" {
		WriteValidationError(w, map[string]string{"activity": "Activity is required"})
		return
	}

	id := chi.URLParam(r, "username")
	total, err := h.members.AwardCredits(r.Context(), id, req.Activity)
	if err != nil {
		h.writeServiceError(w, r, err, "award credits")
		return
	}
	WriteSuccess(w, AwardCreditsResponse{
		ID:       id,
		Activity: string(req.Activity),
		Credits:  total,
		Progress: model.ProgressForCredits(total),
	}, nil)
}

func validAvailability(v string) bool {
	switch v {
	case model.AvailabilityFreelance, model.AvailabilityFullTime,
		model.AvailabilityPartTime, model.AvailabilityNotAvailable:
		return true
	}
	return false
}
