// Copyright (c) 2026 The tag-directory Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/leopoldus11/tag-directory/internal/model"
)

// Warning is a non-fatal style finding. It never blocks acceptance.
type Warning struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// placeholderAuthors are the author values left over from the contribution template.
var placeholderAuthors = []string{"your-github-username", "YOUR_USERNAME"}

var strictPolicy = bluemonday.StrictPolicy()

// Lint reports style issues of an accepted blueprint.
func Lint(bp model.Blueprint) []Warning {
	var warnings []Warning

	if strings.TrimSpace(bp.Description) == "" {
		warnings = append(warnings, Warning{Field: "description", Message: "Missing description"})
	} else if hasMarkup(bp.Description) {
		warnings = append(warnings, Warning{Field: "description", Message: "Description contains HTML markup"})
	}

	for _, placeholder := range placeholderAuthors {
		if bp.Author.Contains(placeholder) {
			warnings = append(warnings, Warning{Field: "author", Message: "Author is placeholder"})
			break
		}
	}

	switch bp.Platform {
	case model.PlatformGTM:
		if bp.Type == model.TypeTag {
			if bp.TagType == "" {
				warnings = append(warnings, Warning{Field: "tagType", Message: "GTM tag should declare a tagType"})
			}
			if len(bp.Triggers) == 0 {
				warnings = append(warnings, Warning{Field: "triggers", Message: "GTM tag should declare at least one trigger"})
			}
		}
	case model.PlatformAdobeLaunch:
		if bp.Type == model.TypeRule && len(bp.Events) == 0 && len(bp.Triggers) == 0 {
			warnings = append(warnings, Warning{Field: "events", Message: "Adobe Launch rule should declare at least one event"})
		}
	}

	return warnings
}

// hasMarkup reports whether s changes when all HTML is stripped.
// Entity escaping done by the sanitizer is undone before comparing.
func hasMarkup(s string) bool {
	return html.UnescapeString(strictPolicy.Sanitize(s)) != s
}
