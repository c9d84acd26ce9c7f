// Copyright (c) 2026 The tag-directory Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/leopoldus11/tag-directory/internal/auth"
	"github.com/leopoldus11/tag-directory/internal/loader"
	"github.com/leopoldus11/tag-directory/internal/middleware"
	"github.com/leopoldus11/tag-directory/internal/service"
	"github.com/leopoldus11/tag-directory/internal/store"
	"github.com/leopoldus11/tag-directory/internal/testutil"
	"github.com/leopoldus11/tag-directory/internal/version"
)

const testModeratorToken = "tdm_test-moderator-token"

const testAuthors = `[
  {"username": "ann", "name": "Ann Author", "avatar": "A", "contributions": 3, "credits": 480},
  {"username": "bob", "name": "Bob", "avatar": "B", "contributions": 1, "credits": 20}
]`

const testJobs = `[
  {"id": "job-1", "title": "Tracking Engineer", "company": "Acme", "location": "Berlin",
   "workplaceType": "Remote", "experience": "Senior", "description": "GTM", "url": "https://acme.test/1", "featured": true},
  {"id": "job-2", "title": "Analyst", "company": "Beta", "location": "Paris",
   "workplaceType": "Hybrid", "experience": "Mid", "description": "GA4", "url": "https://beta.test/2"},
  {"id": "job-3", "title": "Closed", "company": "Gamma", "location": "Rome",
   "workplaceType": "On site", "experience": "Junior", "description": "x", "url": "https://gamma.test/3", "status": "closed"}
]`

const testScript = `{"id": "datalayer-init", "name": "DataLayer Init", "platform": "GTM",
  "codeSnippet": "window.dataLayer = window.dataLayer || [];", "author": "jane",
  "difficulty": "Beginner", "usedInRecipes": ["ga4-purchase"]}`

// testServer wires the API against a migrated database whose approved
// tags are the listing source.
type testServer struct {
	router  chi.Router
	handler *Handler
	queries *store.Queries
	db      *sql.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db := testutil.TestDB(t)
	dir := t.TempDir()
	authors := testutil.WriteFile(t, dir, "authors.json", testAuthors)
	jobs := testutil.WriteFile(t, dir, "jobs.json", testJobs)
	testutil.WriteFile(t, dir, "data/scripts/datalayer.json", testScript)

	logger := testutil.TestLoggerSilent()
	queries := store.New(db)
	members := service.NewMemberService(queries, authors, logger)
	blueprints := service.NewBlueprintService(loader.NewStoreSource(queries), queries, members, logger)

	h := NewHandler(Deps{
		Blueprints: blueprints,
		Members:    members,
		Jobs:       service.NewJobService(jobs, logger),
		Scripts:    service.NewScriptService(loader.NewFileSource(dir, loader.DefaultScriptDirs, 1), logger),
		Events:     service.NewEventService(queries),
		Version:    version.Info{Version: "1.2.3", GitCommit: "abc", BuildTime: "today"},
		Logger:     logger,
	})

	hash, err := auth.HashToken(testModeratorToken)
	if err != nil {
		t.Fatalf("HashToken: %v", err)
	}

	r := chi.NewRouter()
	h.Routes(r, RouterConfig{
		Moderator:      middleware.NewModeratorAuth(hash),
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
	})
	return &testServer{router: r, handler: h, queries: queries, db: db}
}

// do sends a request through the router. A non-nil body is JSON encoded.
func (s *testServer) do(t *testing.T, method, target string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func moderatorHeaders(actor string) map[string]string {
	h := map[string]string{"Authorization": "Bearer " + testModeratorToken}
	if actor != "" {
		h[ActorHeader] = actor
	}
	return h
}

// assertStatusCode checks that the response has the expected status code.
func assertStatusCode(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("expected status %d, got %d (body: %s)", expected, w.Code, w.Body.String())
	}
}

// assertErrorResponse unmarshals and validates an error response.
func assertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedCode string) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Error.Code != expectedCode {
		t.Errorf("expected code '%s', got %s", expectedCode, resp.Error.Code)
	}
	return resp
}

// decodeData unmarshals the data field of a success response into dst
// and returns the meta block.
func decodeData(t *testing.T, w *httptest.ResponseRecorder, dst any) *Meta {
	t.Helper()
	var resp struct {
		Data json.RawMessage `json:"data"`
		Meta *Meta           `json:"meta"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v (body: %s)", err, w.Body.String())
	}
	if dst != nil {
		if err := json.Unmarshal(resp.Data, dst); err != nil {
			t.Fatalf("failed to unmarshal data: %v", err)
		}
	}
	return resp.Meta
}

func submission(slug, platform string) map[string]any {
	return map[string]any{
		"slug":        slug,
		"title":       "Title " + slug,
		"platform":    platform,
		"type":        "Tag",
		"content":     "gtag('event', 'x');",
		"description": "# Heading\n\nSome **bold** text.",
		"difficulty":  "Beginner",
		"tags":        []string{"ga4", "events"},
	}
}

// publish submits and approves a blueprint authored by actor.
func (s *testServer) publish(t *testing.T, slug, platform, actor string) {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/blueprints", submission(slug, platform), map[string]string{ActorHeader: actor})
	if w.Code != http.StatusCreated {
		t.Fatalf("create %s: status %d, body %s", slug, w.Code, w.Body.String())
	}
	w = s.do(t, http.MethodPost, "/api/v1/blueprints/"+slug+"/approve", nil, moderatorHeaders(""))
	if w.Code != http.StatusOK {
		t.Fatalf("approve %s: status %d, body %s", slug, w.Code, w.Body.String())
	}
}
