package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/leopoldus11/tag-directory/internal/model"
	"github.com/leopoldus11/tag-directory/internal/service"
)

// parseScriptFilter reads the script filter from the query string.
func parseScriptFilter(r *http.Request) (service.ScriptFilter, map[string]string) {
	q := r.URL.Query()
	errs := make(map[string]string)
	f := service.ScriptFilter{
		Recipe: strings.TrimSpace(q.Get("recipe")),
		Query:  q.Get("q"),
	}
	if v := q.Get("platform"); v != "" {
		p, ok := model.ParsePlatform(v)
		if !ok {
			errs["platform"] = "Unknown platform"
		}
		f.Platform = p
	}
	if v := q.Get("difficulty"); v != "" {
		d, ok := model.ParseDifficulty(v)
		if !ok {
			errs["difficulty"] = "Unknown difficulty: " + v
		}
		f.Difficulty = d
	}
	return f, errs
}

// ListScripts handles GET /api/v1/scripts.
// A failing source yields an empty, degraded listing instead of an error.
func (h *Handler) ListScripts(w http.ResponseWriter, r *http.Request) {
	filter, errs := parseScriptFilter(r)
	if len(errs) > 0 {
		WriteBadRequest(w, "Invalid filter", errs)
		return
	}

	scripts, err := h.scripts.List(r.Context(), filter)
	if err != nil {
		h.logger.Warn("script listing degraded", "error", err, "category", model.EventCategoryContent)
		WriteSuccess(w, []model.Script{}, &Meta{Degraded: true})
		return
	}
	WriteSuccess(w, scripts, &Meta{Total: int64(len(scripts))})
}

// GetScript handles GET /api/v1/scripts/{id}.
func (h *Handler) GetScript(w http.ResponseWriter, r *http.Request) {
	sc, err := h.scripts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err, "retrieve script")
		return
	}
	WriteSuccess(w, sc, nil)
}
