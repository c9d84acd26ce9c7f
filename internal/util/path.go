// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrPathEscapesRoot is returned when a relative path resolves outside its root.
var ErrPathEscapesRoot = errors.New("path escapes root directory")

// ResolveWithin joins rel onto root and returns the cleaned absolute result.
// Absolute rel values and ".." segments that leave root are rejected.
func ResolveWithin(root, rel string) (string, error) {
	absRoot, err := filepath.Abs(filepath.Clean(root))
	if err != nil {
		return "", fmt.Errorf("invalid root %q: %w", root, err)
	}
	if filepath.IsAbs(rel) {
		return "", fmt.Errorf("%q: %w", rel, ErrPathEscapesRoot)
	}

	target := filepath.Join(absRoot, rel)
	// trailing separator so /content-other does not match /content
	if target != absRoot && !strings.HasPrefix(target, absRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("%q: %w", rel, ErrPathEscapesRoot)
	}
	return target, nil
}

// RepoPath returns p relative to root using forward slashes, the form used
// for repository source links. Paths outside root are returned as-is.
func RepoPath(root, p string) string {
	rel, err := filepath.Rel(root, p)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(rel)
}
