// Copyright (c) 2026 The tag-directory Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/leopoldus11/tag-directory/internal/model"
	"github.com/leopoldus11/tag-directory/internal/service"
)

// BlueprintDetail is a blueprint with its description rendered to HTML.
type BlueprintDetail struct {
	model.Blueprint
	DescriptionHTML string `json:"description_html,omitempty"`
}

// parseFilter reads the listing filter from the query string.
func parseFilter(r *http.Request) (service.Filter, map[string]string) {
	q := r.URL.Query()
	errs := make(map[string]string)
	f := service.Filter{
		VerifiedOnly: boolParam(r, "verified"),
		Tag:          strings.TrimSpace(q.Get("tag")),
		Author:       strings.TrimSpace(q.Get("author")),
		Query:        q.Get("q"),
	}

	if v := q.Get("platform"); v != "" {
		p, ok := model.ParsePlatform(v)
		if !ok {
			errs["platform"] = "Unknown platform"
		}
		f.Platform = p
	}
	if v := q.Get("use_case"); v != "" {
		u, ok := model.ParseUseCase(v)
		if !ok {
			errs["use_case"] = "Unknown use case"
		}
		f.UseCase = u
	}
	for _, v := range listParam(r, "difficulty") {
		d, ok := model.ParseDifficulty(v)
		if !ok {
			errs["difficulty"] = "Unknown difficulty: " + v
			continue
		}
		f.Difficulties = append(f.Difficulties, d)
	}
	return f, errs
}

// ListBlueprints handles GET /api/v1/blueprints.
// A failing source yields an empty, degraded listing instead of an error.
func (h *Handler) ListBlueprints(w http.ResponseWriter, r *http.Request) {
	filter, errs := parseFilter(r)
	if len(errs) > 0 {
		WriteBadRequest(w, "Invalid filter", errs)
		return
	}
	page, perPage := parsePagination(r)

	result, err := h.blueprints.List(r.Context(), service.ListParams{
		Filter:  filter,
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		h.logger.Warn("blueprint listing degraded", "error", err, "category", model.EventCategoryContent)
		meta := pageMeta(0, page, perPage)
		meta.Degraded = true
		WriteSuccess(w, []model.Blueprint{}, meta)
		return
	}

	WriteSuccess(w, result.Blueprints, pageMeta(int64(result.Total), page, perPage))
}

// GetBlueprint handles GET /api/v1/blueprints/{slug}. A successful lookup
// counts one view.
func (h *Handler) GetBlueprint(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	bp, err := h.blueprints.Get(r.Context(), slug)
	if err != nil {
		h.writeServiceError(w, r, err, "retrieve blueprint")
		return
	}

	detail := BlueprintDetail{Blueprint: bp}
	if bp.Description != "" {
		html, err := service.RenderMarkdown(bp.Description)
		if err != nil {
			h.logger.Warn("failed to render blueprint description", "slug", slug, "error", err)
		}
		detail.DescriptionHTML = html
	}

	h.blueprints.RecordView(context.WithoutCancel(r.Context()), slug)
	WriteSuccess(w, detail, nil)
}

// CreateBlueprint handles POST /api/v1/blueprints. The submission is stored
// as pending and owned by the X-Actor-ID member, if given.
func (h *Handler) CreateBlueprint(w http.ResponseWriter, r *http.Request) {
	var rec model.RawRecord
	if err := decodeJSON(w, r, &rec); err != nil {
		WriteBadRequest(w, capitalizeFirst(err.Error()), nil)
		return
	}
	if rec == nil {
		WriteBadRequest(w, "Request body must be a JSON object", nil)
		return
	}

	bp, err := h.blueprints.Create(r.Context(), service.CreateParams{
		Record:   rec,
		AuthorID: strings.TrimSpace(r.Header.Get(ActorHeader)),
	})
	if err != nil {
		h.writeServiceError(w, r, err, "create blueprint")
		return
	}
	WriteCreated(w, bp)
}

// UpdateBlueprint handles PUT /api/v1/blueprints/{slug}.
func (h *Handler) UpdateBlueprint(w http.ResponseWriter, r *http.Request) {
	actor := strings.TrimSpace(r.Header.Get(ActorHeader))
	if actor == "" {
		WriteBadRequest(w, ActorHeader+" header is required", nil)
		return
	}

	var patch model.RawRecord
	if err := decodeJSON(w, r, &patch); err != nil {
		WriteBadRequest(w, capitalizeFirst(err.Error()), nil)
		return
	}

	bp, err := h.blueprints.Update(r.Context(), chi.URLParam(r, "slug"), patch, actor)
	if err != nil {
		h.writeServiceError(w, r, err, "update blueprint")
		return
	}
	WriteSuccess(w, bp, nil)
}

// ListPending handles GET /api/v1/moderation/pending, the moderation queue.
func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	pending, err := h.blueprints.Pending(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "list pending blueprints")
		return
	}
	WriteSuccess(w, pending, &Meta{Total: int64(len(pending))})
}

// moderationResult is returned by the moderation endpoints.
type moderationResult struct {
	Slug              string          `json:"slug"`
	Status            model.TagStatus `json:"status,omitempty"`
	CommunityVerified bool            `json:"community_verified,omitempty"`
}

// moderate returns a handler setting the moderation status.
func (h *Handler) moderate(status model.TagStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		if err := h.blueprints.Moderate(r.Context(), slug, status); err != nil {
			h.writeServiceError(w, r, err, "moderate blueprint")
			return
		}
		WriteSuccess(w, moderationResult{Slug: slug, Status: status}, nil)
	}
}

// ApproveBlueprint handles POST /api/v1/blueprints/{slug}/approve.
func (h *Handler) ApproveBlueprint(w http.ResponseWriter, r *http.Request) {
	h.moderate(model.TagStatusApproved)(w, r)
}

// RejectBlueprint handles POST /api/v1/blueprints/{slug}/reject.
func (h *Handler) RejectBlueprint(w http.ResponseWriter, r *http.Request) {
	h.moderate(model.TagStatusRejected)(w, r)
}

// VerifyBlueprint handles POST /api/v1/blueprints/{slug}/verify.
func (h *Handler) VerifyBlueprint(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if err := h.blueprints.Verify(r.Context(), slug); err != nil {
		h.writeServiceError(w, r, err, "verify blueprint")
		return
	}
	WriteSuccess(w, moderationResult{Slug: slug, CommunityVerified: true}, nil)
}

// ListPlatforms handles GET /api/v1/platforms.
func (h *Handler) ListPlatforms(w http.ResponseWriter, r *http.Request) {
	counts, err := h.blueprints.Platforms(r.Context())
	if err != nil {
		h.logger.Warn("platform counts degraded", "error", err, "category", model.EventCategoryContent)
		counts = make([]service.PlatformCount, 0, len(model.AllPlatforms()))
		for _, p := range model.AllPlatforms() {
			counts = append(counts, service.PlatformCount{Platform: p})
		}
		WriteSuccess(w, counts, &Meta{Total: int64(len(counts)), Degraded: true})
		return
	}
	WriteSuccess(w, counts, &Meta{Total: int64(len(counts))})
}

// LegacyRecipe handles GET /api/recipes/{id}, the original recipe detail
// route. It answers with the bare record and no envelope.
func (h *Handler) LegacyRecipe(w http.ResponseWriter, r *http.Request) {
	bp, err := h.blueprints.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, service.ErrBlueprintNotFound) {
			WriteJSON(w, http.StatusNotFound, map[string]string{"error": "Recipe not found"})
			return
		}
		h.logger.Error("failed to retrieve recipe", "error", err)
		WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve recipe"})
		return
	}
	WriteJSON(w, http.StatusOK, bp)
}
