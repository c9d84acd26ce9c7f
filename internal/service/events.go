// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/leopoldus11/tag-directory/internal/model"
	"github.com/leopoldus11/tag-directory/internal/store"
)

// EventService reads and writes the event log.
type EventService struct {
	queries *store.Queries
}

// NewEventService creates a new EventService.
func NewEventService(queries *store.Queries) *EventService {
	return &EventService{queries: queries}
}

// LogEvent creates a new event log entry.
func (s *EventService) LogEvent(ctx context.Context, level, category, message string, metadata map[string]any) error {
	metadataJSON := "{}"
	if metadata != nil {
		jsonBytes, err := json.Marshal(metadata)
		if err == nil {
			metadataJSON = string(jsonBytes)
		}
	}

	_, err := s.queries.CreateEvent(ctx, store.CreateEventParams{
		Level:     level,
		Category:  category,
		Message:   message,
		Metadata:  metadataJSON,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("logging event: %w", err)
	}
	return nil
}

// EventPage is one page of the event log.
type EventPage struct {
	Events []model.LogEvent
	Total  int64
}

// List returns events newest first, optionally restricted to one level.
func (s *EventService) List(ctx context.Context, level string, limit, offset int64) (EventPage, error) {
	rows, err := s.queries.ListEvents(ctx, store.ListEventsParams{Level: level, Limit: limit, Offset: offset})
	if err != nil {
		return EventPage{}, fmt.Errorf("listing events: %w", err)
	}
	total, err := s.queries.CountEvents(ctx, level)
	if err != nil {
		return EventPage{}, fmt.Errorf("counting events: %w", err)
	}

	page := EventPage{Events: make([]model.LogEvent, 0, len(rows)), Total: total}
	for _, row := range rows {
		page.Events = append(page.Events, model.LogEvent{
			ID:        row.ID,
			Level:     row.Level,
			Category:  row.Category,
			Message:   row.Message,
			Metadata:  row.Metadata,
			CreatedAt: row.CreatedAt,
		})
	}
	return page, nil
}

// Prune deletes events older than retention.
func (s *EventService) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	n, err := s.queries.DeleteEventsBefore(ctx, time.Now().UTC().Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("pruning events: %w", err)
	}
	return n, nil
}
