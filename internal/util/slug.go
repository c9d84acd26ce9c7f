// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides general-purpose helpers: identifier and slug
// handling, path containment checks and SQL null conversions.
package util

import (
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// identifierRegex is the accepted shape of blueprint ids and slugs.
	identifierRegex = regexp.MustCompile(`^[a-z0-9-]+$`)
	// slugRegex matches non-alphanumeric characters (except hyphens)
	slugRegex = regexp.MustCompile(`[^a-z0-9-]+`)
	// multipleHyphens matches multiple consecutive hyphens
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// fallbackSlug is used when a title has no sluggable characters at all.
const fallbackSlug = "blueprint"

// randomSuffix returns the 5-digit number appended by GenerateSlug.
var randomSuffix = func() int {
	return 10000 + rand.IntN(90000)
}

// Slugify converts a string to a URL-friendly slug.
// Non-Latin scripts are transliterated, accents removed, whitespace turned
// into hyphens and anything outside [a-z0-9-] dropped.
func Slugify(s string) string {
	// Normalize unicode characters (decompose accents)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)

	result = unidecode.Unidecode(result)
	result = strings.ToLower(strings.TrimSpace(result))
	result = strings.Join(strings.Fields(result), "-")
	result = slugRegex.ReplaceAllString(result, "")
	result = multipleHyphens.ReplaceAllString(result, "-")

	return strings.Trim(result, "-")
}

// GenerateSlug builds a readable slug from a title with a random 5-digit
// suffix, e.g. "ga4-purchase-event-48213".
func GenerateSlug(title string) string {
	base := Slugify(title)
	if base == "" {
		base = fallbackSlug
	}
	return base + "-" + strconv.Itoa(randomSuffix())
}

// UniqueSlug returns slug if it is not taken, otherwise the first of
// slug-1, slug-2, ... that is free.
func UniqueSlug(slug string, taken func(string) bool) string {
	if !taken(slug) {
		return slug
	}
	for n := 1; ; n++ {
		candidate := slug + "-" + strconv.Itoa(n)
		if !taken(candidate) {
			return candidate
		}
	}
}

// IsValidIdentifier reports whether s is a non-empty lowercase alphanumeric
// string with hyphens, the format required for blueprint ids and slugs.
func IsValidIdentifier(s string) bool {
	return identifierRegex.MatchString(s)
}
