// Copyright (c) 2026 The tag-directory Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"errors"
	"strings"
)

// RawRecord is a loosely-typed content record as read from a file or a table row.
type RawRecord map[string]any

// Clone returns a shallow copy of r.
func (r RawRecord) Clone() RawRecord {
	out := make(RawRecord, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// String returns the value under key if it is a string.
func (r RawRecord) String(key string) (string, bool) {
	s, ok := r[key].(string)
	return s, ok
}

// Has reports whether key is present (even with a nil value).
func (r RawRecord) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// Tag statuses
const (
	TagStatusPending  TagStatus = "pending"
	TagStatusApproved TagStatus = "approved"
	TagStatusRejected TagStatus = "rejected"
)

// TagStatus is the moderation state of a stored blueprint.
type TagStatus string

// Valid reports whether s is a known moderation status.
func (s TagStatus) Valid() bool {
	switch s {
	case TagStatusPending, TagStatusApproved, TagStatusRejected:
		return true
	}
	return false
}

// Authors holds one or more author identifiers (GitHub usernames).
// It decodes from either a JSON string or an array of strings and encodes
// back to a plain string when there is a single author.
type Authors []string

// UnmarshalJSON implements json.Unmarshaler.
func (a *Authors) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*a = Authors{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return errors.New("author must be a string or an array of strings")
	}
	*a = many
	return nil
}

// MarshalJSON implements json.Marshaler.
func (a Authors) MarshalJSON() ([]byte, error) {
	if len(a) == 1 {
		return json.Marshal(a[0])
	}
	return json.Marshal([]string(a))
}

// Primary returns the first author or an empty string.
func (a Authors) Primary() string {
	if len(a) == 0 {
		return ""
	}
	return a[0]
}

// Contains reports whether username is one of the authors (case-insensitive).
func (a Authors) Contains(username string) bool {
	for _, name := range a {
		if strings.EqualFold(name, username) {
			return true
		}
	}
	return false
}

// TriggerCondition is a GTM trigger filter. It is either a variable/operator/value
// triple or a free-form condition expression.
type TriggerCondition struct {
	Variable    string `json:"variable,omitempty"`
	Operator    string `json:"operator,omitempty"`
	Value       string `json:"value,omitempty"`
	Condition   string `json:"condition,omitempty"`
	Description string `json:"description,omitempty"`
}

// UnmarshalJSON accepts a bare string as shorthand for {"condition": s}.
func (c *TriggerCondition) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = TriggerCondition{Condition: s}
		return nil
	}
	type plain TriggerCondition
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = TriggerCondition(p)
	return nil
}

// Trigger is a named condition under which a tag fires.
type Trigger struct {
	Name        string             `json:"name"`
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Event       string             `json:"event,omitempty"`
	EventName   string             `json:"eventName,omitempty"`
	Conditions  []TriggerCondition `json:"conditions,omitempty"`
}

// Event is an Adobe Launch rule event. Multiple events combine with OR.
type Event struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	EventName   string `json:"eventName,omitempty"`
	Description string `json:"description,omitempty"`
}

// Condition is a rule-level condition. Multiple conditions combine with AND.
type Condition struct {
	Name        string `json:"name,omitempty"`
	Type        string `json:"type,omitempty"`
	Condition   string `json:"condition"`
	Description string `json:"description,omitempty"`
}

// Exception is a GTM condition that prevents a tag from firing.
type Exception struct {
	Name        string `json:"name,omitempty"`
	Condition   string `json:"condition"`
	Description string `json:"description,omitempty"`
}

// Blueprint is the canonical content record describing one tracking implementation.
type Blueprint struct {
	ID                string        `json:"id"`
	Slug              string        `json:"slug"`
	Title             string        `json:"title"`
	Author            Authors       `json:"author"`
	Platform          Platform      `json:"platform"`
	Type              BlueprintType `json:"type"`
	Content           string        `json:"content"`
	CommunityVerified bool          `json:"community_verified"`

	Description string     `json:"description,omitempty"`
	Difficulty  Difficulty `json:"difficulty,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Vendor      string     `json:"vendor,omitempty"`
	VendorIcon  string     `json:"vendorIcon,omitempty"`
	CreatedAt   string     `json:"createdAt,omitempty"`
	UpdatedAt   string     `json:"updatedAt,omitempty"`
	UseCase     UseCase    `json:"useCase,omitempty"`

	// Single-string forms kept from the legacy recipe format.
	Trigger   string `json:"trigger,omitempty"`
	Condition string `json:"condition,omitempty"`

	TagType        string         `json:"tagType,omitempty"`
	Triggers       []Trigger      `json:"triggers,omitempty"`
	Events         []Event        `json:"events,omitempty"`
	Conditions     []Condition    `json:"conditions,omitempty"`
	Exceptions     []Exception    `json:"exceptions,omitempty"`
	ExecutionOrder *float64       `json:"executionOrder,omitempty"`
	FilePath       string         `json:"filePath,omitempty"`
	Additional     map[string]any `json:"additionalConfig,omitempty"`

	// Set only for records read from the database.
	Status TagStatus `json:"status,omitempty"`
	Views  int64     `json:"views,omitempty"`
}

// HasTag reports whether the blueprint carries tag (case-insensitive).
func (b *Blueprint) HasTag(tag string) bool {
	for _, t := range b.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
