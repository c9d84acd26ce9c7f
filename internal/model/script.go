// Copyright (c) 2026 The tag-directory Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "slices"

// Script is a reusable code snippet that blueprints embed as custom code,
// such as a GTM custom HTML tag or an Adobe Launch custom code action.
type Script struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Platform    Platform   `json:"platform"`
	CodeSnippet string     `json:"codeSnippet"`
	Author      string     `json:"author"`
	Difficulty  Difficulty `json:"difficulty"`
	Description string     `json:"description,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Vendor      string     `json:"vendor,omitempty"`
	VendorIcon  string     `json:"vendorIcon,omitempty"`
	CreatedAt   string     `json:"createdAt,omitempty"`
	UpdatedAt   string     `json:"updatedAt,omitempty"`

	// UsedInRecipes lists the ids of blueprints built on this script.
	UsedInRecipes []string `json:"usedInRecipes,omitempty"`
}

// UsedIn reports whether the blueprint with id uses the script.
func (s *Script) UsedIn(id string) bool {
	return slices.Contains(s.UsedInRecipes, id)
}
