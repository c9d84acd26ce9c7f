package api

import (
	"net/http"
	"testing"

	"github.com/leopoldus11/tag-directory/internal/model"
)

func TestJobs(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		path    string
		wantIDs []string
	}{
		{"/api/v1/jobs", []string{"job-1", "job-2"}},
		{"/api/v1/jobs/featured", []string{"job-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := s.do(t, http.MethodGet, tt.path, nil, nil)
			assertStatusCode(t, w, http.StatusOK)
			var jobs []model.Job
			decodeData(t, w, &jobs)
			if len(jobs) != len(tt.wantIDs) {
				t.Fatalf("jobs = %+v, want %v", jobs, tt.wantIDs)
			}
			for i, id := range tt.wantIDs {
				if jobs[i].ID != id {
					t.Errorf("jobs[%d] = %s, want %s", i, jobs[i].ID, id)
				}
			}
		})
	}

	w := s.do(t, http.MethodGet, "/api/v1/jobs/job-2", nil, nil)
	assertStatusCode(t, w, http.StatusOK)

	w = s.do(t, http.MethodGet, "/api/v1/jobs/job-3", nil, nil)
	assertStatusCode(t, w, http.StatusNotFound)
}
