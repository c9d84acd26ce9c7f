// Copyright (c) 2026 The tag-directory Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import "errors"

// Service errors mapped to HTTP statuses by the API handlers.
var (
	ErrBlueprintNotFound = errors.New("blueprint not found")
	ErrSlugTaken         = errors.New("slug already exists")
	ErrNotOwner          = errors.New("you can only update your own blueprints")
	ErrInvalidStatus     = errors.New("invalid moderation status")
	ErrMemberNotFound    = errors.New("member not found")
	ErrInvalidMemberID   = errors.New("member id must contain letters or digits")
	ErrUnknownActivity   = errors.New("unknown credit activity")
	ErrJobNotFound       = errors.New("job not found")
	ErrScriptNotFound    = errors.New("script not found")
)
