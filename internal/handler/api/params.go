// Copyright (c) 2026 The tag-directory Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

// Pagination defaults
const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// ActorHeader names the member performing a write on behalf of the moderator token.
const ActorHeader = "X-Actor-ID"

// parsePagination reads page and per_page, clamping to sane bounds.
func parsePagination(r *http.Request) (page, perPage int) {
	q := r.URL.Query()

	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	perPage, err = strconv.Atoi(q.Get("per_page"))
	if err != nil || perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}

// pageMeta builds pagination metadata for total items.
func pageMeta(total int64, page, perPage int) *Meta {
	pages := int((total + int64(perPage) - 1) / int64(perPage))
	return &Meta{Total: total, Page: page, PerPage: perPage, Pages: pages}
}

// listParam returns a comma-separated or repeated query parameter as a list.
func listParam(r *http.Request, key string) []string {
	var out []string
	for _, raw := range r.URL.Query()[key] {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

// boolParam reports whether a query parameter is set to a true value.
func boolParam(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && v
}

// decodeJSON reads a single JSON document from the request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return fmt.Errorf("request body exceeds %d bytes", maxErr.Limit)
		case errors.Is(err, io.EOF):
			return errors.New("request body is empty")
		default:
			return fmt.Errorf("invalid JSON body: %w", err)
		}
	}
	if dec.More() {
		return errors.New("request body must contain a single JSON document")
	}
	return nil
}
