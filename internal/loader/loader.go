// Copyright (c) 2026 The tag-directory Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package loader enumerates raw content records from the content tree on disk
// or from the tags table. Records are returned unvalidated and in no
// guaranteed order; a record that cannot be parsed is reported, not fatal.
package loader

import (
	"context"

	"github.com/leopoldus11/tag-directory/internal/content"
)

// Source names as recorded in content.Origin.
const (
	SourceFiles = "files"
	SourceStore = "store"
)

// Source reads raw records. The error return is reserved for the backing
// store being unavailable; per-record failures are returned as LoadErrors.
type Source interface {
	Load(ctx context.Context) ([]content.Item, []content.LoadError, error)
}
