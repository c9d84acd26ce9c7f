package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ListJobs handles GET /api/v1/jobs.
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	jobs := h.jobs.List()
	WriteSuccess(w, jobs, &Meta{Total: int64(len(jobs))})
}

// FeaturedJobs handles GET /api/v1/jobs/featured.
func (h *Handler) FeaturedJobs(w http.ResponseWriter, r *http.Request) {
	jobs := h.jobs.Featured()
	WriteSuccess(w, jobs, &Meta{Total: int64(len(jobs))})
}

// GetJob handles GET /api/v1/jobs/{id}.
func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.jobs.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err, "retrieve job")
		return
	}
	WriteSuccess(w, job, nil)
}
