package model

import (
	"time"
)

// Event levels
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories
const (
	EventCategoryContent    = "content"
	EventCategoryModeration = "moderation"
	EventCategoryUser       = "user"
	EventCategoryConfig     = "config"
	EventCategorySystem     = "system"
)

// LogEvent is a persisted event log entry.
type LogEvent struct {
	ID        int64     `json:"id"`
	Level     string    `json:"level"`
	Category  string    `json:"category"`
	Message   string    `json:"message"`
	Metadata  string    `json:"metadata"` // JSON string
	CreatedAt time.Time `json:"created_at"`
}
