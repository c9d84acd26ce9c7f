package logging

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leopoldus11/tag-directory/internal/model"
	"github.com/leopoldus11/tag-directory/internal/store"
)

// testDB creates a temporary test database with migrations applied.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := store.NewDB(store.DriverSQLite, filepath.Join(t.TempDir(), "logging.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(db, store.DriverSQLite); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

// discardHandler is a slog.Handler that discards all logs.
type discardHandler struct{}

func (h discardHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (h discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h discardHandler) WithGroup(string) slog.Handler             { return h }

func listEvents(t *testing.T, db *sql.DB) []store.Event {
	t.Helper()
	events, err := store.New(db).ListEvents(context.Background(), store.ListEventsParams{Limit: 10})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	return events
}

func TestEventLogHandler_Levels(t *testing.T) {
	tests := []struct {
		name      string
		log       func(*slog.Logger)
		wantLevel string
	}{
		{"error", func(l *slog.Logger) { l.Error("database connection failed", "host", "localhost") }, model.EventLevelError},
		{"warn", func(l *slog.Logger) { l.Warn("slow query detected", "duration_ms", 5000) }, model.EventLevelWarning},
		{"info", func(l *slog.Logger) { l.Info("server started", "port", 8080) }, ""},
		{"debug", func(l *slog.Logger) { l.Debug("processing request", "request_id", "abc123") }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testDB(t)
			tt.log(slog.New(NewEventLogHandler(discardHandler{}, db)))

			events := listEvents(t, db)
			if tt.wantLevel == "" {
				if len(events) != 0 {
					t.Errorf("expected no events, got %d", len(events))
				}
				return
			}
			if len(events) != 1 {
				t.Fatalf("expected 1 event, got %d", len(events))
			}
			if events[0].Level != tt.wantLevel {
				t.Errorf("Level = %q, want %q", events[0].Level, tt.wantLevel)
			}
		})
	}
}

func TestEventLogHandler_CustomLevel(t *testing.T) {
	db := testDB(t)
	logger := slog.New(NewEventLogHandlerWithLevel(discardHandler{}, db, slog.LevelInfo))

	logger.Info("server started", "port", 8080)

	if events := listEvents(t, db); len(events) != 1 {
		t.Errorf("expected 1 event with custom INFO level, got %d", len(events))
	}
}

func TestEventLogHandler_CategoryInference(t *testing.T) {
	db := testDB(t)
	logger := slog.New(NewEventLogHandler(discardHandler{}, db))

	testCases := []struct {
		message          string
		expectedCategory string
	}{
		{"blueprint rejected", model.EventCategoryContent},
		{"failed to record tag view", model.EventCategoryContent},
		{"approve failed", model.EventCategoryModeration},
		{"verification failed", model.EventCategoryModeration},
		{"failed to award credits", model.EventCategoryUser},
		{"config reload failed", model.EventCategoryConfig},
		{"unknown error occurred", model.EventCategorySystem},
	}

	for _, tc := range testCases {
		_, _ = db.Exec("DELETE FROM events")

		logger.Error(tc.message)

		events := listEvents(t, db)
		if len(events) != 1 {
			t.Errorf("message %q: expected 1 event, got %d", tc.message, len(events))
			continue
		}
		if events[0].Category != tc.expectedCategory {
			t.Errorf("message %q: Category = %q, want %q", tc.message, events[0].Category, tc.expectedCategory)
		}
	}
}

func TestEventLogHandler_ExplicitCategory(t *testing.T) {
	db := testDB(t)
	logger := slog.New(NewEventLogHandler(discardHandler{}, db))

	logger.Error("something happened", "category", model.EventCategoryUser)

	events := listEvents(t, db)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Category != model.EventCategoryUser {
		t.Errorf("Category = %q, want %q (explicit category should override)", events[0].Category, model.EventCategoryUser)
	}
}

func TestEventLogHandler_MetadataExtraction(t *testing.T) {
	db := testDB(t)
	logger := slog.New(NewEventLogHandler(discardHandler{}, db))

	logger.Error("request failed",
		"status_code", 500,
		"path", `/api/v1/blueprints/"quoted"`,
		"category", model.EventCategorySystem,
	)

	events := listEvents(t, db)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	var meta map[string]string
	if err := json.Unmarshal([]byte(events[0].Metadata), &meta); err != nil {
		t.Fatalf("Metadata is not valid JSON: %v (%s)", err, events[0].Metadata)
	}
	if meta["status_code"] != "500" {
		t.Errorf("status_code = %q, want 500", meta["status_code"])
	}
	if meta["path"] != `/api/v1/blueprints/"quoted"` {
		t.Errorf("path = %q", meta["path"])
	}
	if _, ok := meta["category"]; ok {
		t.Error("category should not be repeated in metadata")
	}
}

func TestEventLogHandler_WithAttrs(t *testing.T) {
	db := testDB(t)
	handler := NewEventLogHandler(discardHandler{}, db)
	logger := slog.New(handler.WithAttrs([]slog.Attr{
		slog.String("service", "api"),
		slog.String("category", model.EventCategoryModeration),
	}))

	logger.Warn("something odd")

	events := listEvents(t, db)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Category != model.EventCategoryModeration {
		t.Errorf("Category = %q, want %q", events[0].Category, model.EventCategoryModeration)
	}
	if !strings.Contains(events[0].Metadata, `"service":"api"`) {
		t.Errorf("Metadata = %s, want service attribute", events[0].Metadata)
	}

	if _, ok := logger.Handler().WithGroup("grp").(*EventLogHandler); !ok {
		t.Error("WithGroup should return an *EventLogHandler")
	}
}

func TestEventLogHandler_ForwardsToInner(t *testing.T) {
	db := testDB(t)
	var buf bytes.Buffer
	logger := slog.New(NewEventLogHandler(slog.NewTextHandler(&buf, nil), db))

	logger.Info("info goes to inner only")

	if !strings.Contains(buf.String(), "info goes to inner only") {
		t.Errorf("inner handler output = %q", buf.String())
	}
}

func TestNewHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, "debug", "json"))
	logger.Debug("hello", "k", "v")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("json output: %v (%s)", err, buf.String())
	}
	if rec["msg"] != "hello" || rec["k"] != "v" {
		t.Errorf("record = %v", rec)
	}

	buf.Reset()
	slog.New(NewHandler(&buf, "warn", "text")).Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("info should be dropped at warn level, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
