// Copyright (c) 2026 The tag-directory Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/leopoldus11/tag-directory/internal/middleware"
)

// Route path constants
const (
	RouteBlueprints      = "/blueprints"
	RouteBlueprintsSlug  = "/blueprints/{slug}"
	RouteMembers         = "/members"
	RouteMembersUsername = "/members/{username}"
	RouteJobs            = "/jobs"
	RouteJobsID          = "/jobs/{id}"
	RouteScripts         = "/scripts"
	RouteScriptsID       = "/scripts/{id}"
	RouteTasksRun        = "/tasks/{name}/run"
	RoutePending         = "/moderation/pending"
	RouteLegacyRecipe    = "/api/recipes/{id}"
)

// RouterConfig configures route protection.
type RouterConfig struct {
	// Moderator guards moderation and profile writes. Nil disables them.
	Moderator      *middleware.ModeratorAuth
	RateLimitRPS   float64
	RateLimitBurst int
}

// Routes mounts the API on r: /api/v1 and the legacy recipe route.
func (h *Handler) Routes(r chi.Router, cfg RouterConfig) {
	moderator := cfg.Moderator
	if moderator == nil {
		moderator = middleware.NewModeratorAuth("")
	}
	limiter := middleware.NewClientRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	r.With(limiter.Middleware()).Get(RouteLegacyRecipe, h.LegacyRecipe)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(limiter.Middleware())

		// Public read endpoints
		r.Get("/status", h.GetStatus)
		r.Get("/ranks", h.GetRanks)
		r.Get("/platforms", h.ListPlatforms)
		r.Get(RouteBlueprints, h.ListBlueprints)
		r.Get(RouteBlueprintsSlug, h.GetBlueprint)
		r.Get(RouteMembers, h.ListMembers)
		r.Get(RouteMembersUsername, h.GetMember)
		r.Get(RouteJobs, h.ListJobs)
		r.Get(RouteJobs+"/featured", h.FeaturedJobs)
		r.Get(RouteJobsID, h.GetJob)
		r.Get(RouteScripts, h.ListScripts)
		r.Get(RouteScriptsID, h.GetScript)

		// Submissions are open; they land as pending
		r.Post(RouteBlueprints, h.CreateBlueprint)

		// Moderator endpoints
		r.Group(func(r chi.Router) {
			r.Use(moderator.Middleware)
			r.Get(RoutePending, h.ListPending)
			r.Put(RouteBlueprintsSlug, h.UpdateBlueprint)
			r.Post(RouteBlueprintsSlug+"/approve", h.ApproveBlueprint)
			r.Post(RouteBlueprintsSlug+"/reject", h.RejectBlueprint)
			r.Post(RouteBlueprintsSlug+"/verify", h.VerifyBlueprint)
			r.Put(RouteMembersUsername, h.UpsertMember)
			r.Post(RouteMembersUsername+"/credits", h.AwardCredits)
			r.Get("/events", h.ListEvents)
			r.Post(RouteTasksRun, h.RunTask)
		})

		r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
			WriteNotFound(w, "Endpoint not found")
		})
	})
}
