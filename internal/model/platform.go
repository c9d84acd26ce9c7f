// Copyright (c) 2026 The tag-directory Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models and types used throughout the application.
package model

// Platform is the tag-management or analytics system a blueprint targets.
type Platform string

// Supported platforms
const (
	PlatformGTM         Platform = "GTM"
	PlatformAdobeLaunch Platform = "Adobe Launch"
	PlatformTealium     Platform = "Tealium"
	PlatformGA4         Platform = "GA4"
	PlatformMeta        Platform = "Meta"
	PlatformConsent     Platform = "Consent"
	PlatformServerSide  Platform = "Server-Side"
	PlatformOther       Platform = "Other"
)

// AllPlatforms returns every platform in display order.
func AllPlatforms() []Platform {
	return []Platform{
		PlatformGTM,
		PlatformAdobeLaunch,
		PlatformTealium,
		PlatformGA4,
		PlatformMeta,
		PlatformConsent,
		PlatformServerSide,
		PlatformOther,
	}
}

// ParsePlatform returns the platform named s. Matching is exact.
func ParsePlatform(s string) (Platform, bool) {
	p := Platform(s)
	return p, p.Valid()
}

// Valid reports whether p is one of the known platforms.
func (p Platform) Valid() bool {
	switch p {
	case PlatformGTM, PlatformAdobeLaunch, PlatformTealium, PlatformGA4,
		PlatformMeta, PlatformConsent, PlatformServerSide, PlatformOther:
		return true
	}
	return false
}

func (p Platform) String() string {
	return string(p)
}

// BlueprintType classifies a blueprint by how it fires.
type BlueprintType string

// Blueprint types
const (
	TypeTag     BlueprintType = "Tag"
	TypeRule    BlueprintType = "Rule"
	TypeSnippet BlueprintType = "Snippet"
)

// AllBlueprintTypes returns every blueprint type.
func AllBlueprintTypes() []BlueprintType {
	return []BlueprintType{TypeTag, TypeRule, TypeSnippet}
}

// ParseBlueprintType returns the blueprint type named s.
func ParseBlueprintType(s string) (BlueprintType, bool) {
	t := BlueprintType(s)
	return t, t.Valid()
}

// Valid reports whether t is a known blueprint type.
func (t BlueprintType) Valid() bool {
	switch t {
	case TypeTag, TypeRule, TypeSnippet:
		return true
	}
	return false
}

func (t BlueprintType) String() string {
	return string(t)
}

// Difficulty is an ordered skill level.
type Difficulty string

// Difficulty levels, lowest first
const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

// AllDifficulties returns every difficulty level in ascending order.
func AllDifficulties() []Difficulty {
	return []Difficulty{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced}
}

// ParseDifficulty returns the difficulty named s.
func ParseDifficulty(s string) (Difficulty, bool) {
	d := Difficulty(s)
	return d, d.Valid()
}

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	return d.Level() > 0
}

// Level returns the 1-based position of d in the ordering, or 0 when unknown.
func (d Difficulty) Level() int {
	switch d {
	case DifficultyBeginner:
		return 1
	case DifficultyIntermediate:
		return 2
	case DifficultyAdvanced:
		return 3
	}
	return 0
}

func (d Difficulty) String() string {
	return string(d)
}

// UseCase groups blueprints by business purpose.
type UseCase string

// Use cases
const (
	UseCaseEcommerce   UseCase = "Ecommerce"
	UseCaseConsent     UseCase = "Consent"
	UseCaseUX          UseCase = "UX"
	UseCaseAnalytics   UseCase = "Analytics"
	UseCaseAdvertising UseCase = "Advertising"
	UseCaseOther       UseCase = "Other"
)

// AllUseCases returns every use case.
func AllUseCases() []UseCase {
	return []UseCase{
		UseCaseEcommerce,
		UseCaseConsent,
		UseCaseUX,
		UseCaseAnalytics,
		UseCaseAdvertising,
		UseCaseOther,
	}
}

// ParseUseCase returns the use case named s.
func ParseUseCase(s string) (UseCase, bool) {
	u := UseCase(s)
	return u, u.Valid()
}

// Valid reports whether u is a known use case.
func (u UseCase) Valid() bool {
	switch u {
	case UseCaseEcommerce, UseCaseConsent, UseCaseUX, UseCaseAnalytics,
		UseCaseAdvertising, UseCaseOther:
		return true
	}
	return false
}

func (u UseCase) String() string {
	return string(u)
}
