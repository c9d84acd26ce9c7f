// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the REST API handlers for the tag directory.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/leopoldus11/tag-directory/internal/content"
	"github.com/leopoldus11/tag-directory/internal/scheduler"
	"github.com/leopoldus11/tag-directory/internal/service"
	"github.com/leopoldus11/tag-directory/internal/version"
)

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	blueprints *service.BlueprintService
	members    *service.MemberService
	jobs       *service.JobService
	scripts    *service.ScriptService
	events     *service.EventService
	scheduler  *scheduler.Scheduler
	version    version.Info
	logger     *slog.Logger
}

// Deps lists the services the API is built on.
type Deps struct {
	Blueprints *service.BlueprintService
	Members    *service.MemberService
	Jobs       *service.JobService
	Scripts    *service.ScriptService
	Events     *service.EventService
	Scheduler  *scheduler.Scheduler // optional
	Version    version.Info
	Logger     *slog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(deps Deps) *Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		blueprints: deps.Blueprints,
		members:    deps.Members,
		jobs:       deps.Jobs,
		scripts:    deps.Scripts,
		events:     deps.Events,
		scheduler:  deps.Scheduler,
		version:    deps.Version,
		logger:     logger,
	}
}

// Response is the standard API response wrapper.
type Response struct {
	Data any   `json:"data,omitempty"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta contains pagination and other metadata.
type Meta struct {
	Total   int64 `json:"total"`
	Page    int   `json:"page,omitempty"`
	PerPage int   `json:"per_page,omitempty"`
	Pages   int   `json:"pages,omitempty"`
	// Degraded is set when the backing source failed and the listing is empty.
	Degraded bool `json:"degraded,omitempty"`
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any, meta *Meta) {
	WriteJSON(w, http.StatusOK, Response{Data: data, Meta: meta})
}

// WriteCreated writes a 201 Created JSON response.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{Data: data})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string, details map[string]string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message, details)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "not_found", message, nil)
}

// WriteForbidden writes a 403 Forbidden response.
func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, "forbidden", message, nil)
}

// WriteConflict writes a 409 Conflict response.
func WriteConflict(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, "conflict", message, nil)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, "internal_error", message, nil)
}

// WriteValidationError writes a 422 Unprocessable Entity response with field errors.
func WriteValidationError(w http.ResponseWriter, fieldErrors map[string]string) {
	WriteError(w, http.StatusUnprocessableEntity, "validation_error", "Validation failed", fieldErrors)
}

// validationDetails flattens field errors into path -> message.
func validationDetails(verr *content.ValidationError) map[string]string {
	details := make(map[string]string, len(verr.Errors))
	for _, fe := range verr.Errors {
		if prev, ok := details[fe.Path]; ok {
			details[fe.Path] = prev + "; " + fe.Message
			continue
		}
		details[fe.Path] = fe.Message
	}
	return details
}

// writeServiceError maps a service error to its HTTP response.
// Unexpected errors are logged and reported as 500.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, action string) {
	var verr *content.ValidationError
	switch {
	case errors.As(err, &verr):
		WriteValidationError(w, validationDetails(verr))
	case errors.Is(err, service.ErrBlueprintNotFound):
		WriteNotFound(w, "Blueprint not found")
	case errors.Is(err, service.ErrMemberNotFound):
		WriteNotFound(w, "Member not found")
	case errors.Is(err, service.ErrJobNotFound):
		WriteNotFound(w, "Job not found")
	case errors.Is(err, service.ErrScriptNotFound):
		WriteNotFound(w, "Script not found")
	case errors.Is(err, service.ErrNotOwner):
		WriteForbidden(w, err.Error())
	case errors.Is(err, service.ErrSlugTaken):
		WriteConflict(w, "Slug already exists")
	case errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidMemberID),
		errors.Is(err, service.ErrUnknownActivity):
		WriteBadRequest(w, capitalizeFirst(err.Error()), nil)
	default:
		h.logger.Error("failed to "+action, "error", err, "path", r.URL.Path)
		WriteInternalError(w, "Failed to "+action)
	}
}

// capitalizeFirst returns s with the first letter capitalized.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
