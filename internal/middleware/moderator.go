// Copyright (c) 2026 The tag-directory Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/leopoldus11/tag-directory/internal/auth"
)

// ContextKey is a type for context keys used in this package.
type ContextKey string

// ContextKeyModerator marks a request authenticated with the moderator token.
const ContextKeyModerator ContextKey = "moderator"

// ModeratorAuth holds the configured moderator token hash.
type ModeratorAuth struct {
	hash string

	// digests of tokens already verified, so argon2 runs once per token
	mu       sync.RWMutex
	verified map[string]bool
}

// NewModeratorAuth creates a ModeratorAuth for an encoded argon2id hash.
// An empty hash disables the write API.
func NewModeratorAuth(hash string) *ModeratorAuth {
	return &ModeratorAuth{hash: hash, verified: make(map[string]bool)}
}

// bearerToken extracts the token from an Authorization: Bearer header.
func bearerToken(r *http.Request) (string, string) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", "Missing Authorization header"
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", "Invalid Authorization header format. Use: Bearer <token>"
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", "Token is empty"
	}
	return token, ""
}

func (m *ModeratorAuth) check(token string) (bool, error) {
	sum := sha256.Sum256([]byte(token))
	digest := hex.EncodeToString(sum[:])

	m.mu.RLock()
	ok := m.verified[digest]
	m.mu.RUnlock()
	if ok {
		return true, nil
	}

	valid, err := auth.VerifyToken(token, m.hash)
	if err != nil || !valid {
		return false, err
	}
	m.mu.Lock()
	m.verified[digest] = true
	m.mu.Unlock()
	return true, nil
}

// Middleware rejects requests that do not carry the moderator token.
func (m *ModeratorAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.hash == "" {
			WriteAPIError(w, http.StatusForbidden, "forbidden", "Write API is disabled", nil)
			return
		}

		token, problem := bearerToken(r)
		if problem != "" {
			WriteAPIError(w, http.StatusUnauthorized, "unauthorized", problem, nil)
			return
		}

		valid, err := m.check(token)
		if err != nil {
			slog.Error("failed to verify moderator token", "error", err, "category", "config")
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to verify token", nil)
			return
		}
		if !valid {
			slog.Warn("invalid moderator token", "ip", clientIP(r), "path", r.URL.Path, "category", "moderation")
			WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Invalid token", nil)
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyModerator, true)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Authenticated reports whether r carries a valid moderator token, without
// rejecting the request.
func (m *ModeratorAuth) Authenticated(r *http.Request) bool {
	if m.hash == "" {
		return false
	}
	token, problem := bearerToken(r)
	if problem != "" {
		return false
	}
	valid, _ := m.check(token)
	return valid
}

// IsModerator reports whether the request passed ModeratorAuth.
func IsModerator(r *http.Request) bool {
	ok, _ := r.Context().Value(ContextKeyModerator).(bool)
	return ok
}
