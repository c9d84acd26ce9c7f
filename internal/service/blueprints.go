// Copyright (c) 2026 The tag-directory Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service holds the directory's business logic: blueprint listing and
// submission, member profiles and credits, and job listings.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/leopoldus11/tag-directory/internal/cache"
	"github.com/leopoldus11/tag-directory/internal/content"
	"github.com/leopoldus11/tag-directory/internal/loader"
	"github.com/leopoldus11/tag-directory/internal/model"
	"github.com/leopoldus11/tag-directory/internal/store"
	"github.com/leopoldus11/tag-directory/internal/util"
)

// CreditAwarder awards credits for a contribution.
type CreditAwarder interface {
	AwardCredits(ctx context.Context, userID string, activity model.CreditActivity) (int64, error)
}

// BlueprintService serves blueprints from the configured source and manages
// submissions in the tags table.
type BlueprintService struct {
	source  loader.Source
	queries *store.Queries
	credits CreditAwarder
	logger  *slog.Logger
	now     func() time.Time

	cache    cache.Cache
	cacheTTL time.Duration
	builds   singleflight.Group

	viewFailures atomic.Int64
}

// corpusCacheKey is the cache key of the built corpus snapshot.
const corpusCacheKey = "corpus"

// NewBlueprintService creates a BlueprintService. Listings come from source;
// writes always go through queries. credits may be nil.
func NewBlueprintService(source loader.Source, queries *store.Queries, credits CreditAwarder, logger *slog.Logger) *BlueprintService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BlueprintService{
		source:  source,
		queries: queries,
		credits: credits,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// ListParams holds listing options. A zero PerPage returns every match.
type ListParams struct {
	Filter  Filter
	Page    int
	PerPage int
}

// ListResult is one page of blueprints.
type ListResult struct {
	Blueprints []model.Blueprint
	Total      int
}

// WithCache keeps built corpus snapshots in c for ttl. Writes through this
// service drop the snapshot; other writers are picked up when it expires.
func (s *BlueprintService) WithCache(c cache.Cache, ttl time.Duration) *BlueprintService {
	s.cache = c
	s.cacheTTL = ttl
	return s
}

// Corpus returns the validated corpus, from the cache when one is configured.
// Concurrent misses share a single rebuild.
func (s *BlueprintService) Corpus(ctx context.Context) (content.Corpus, error) {
	if s.cache == nil {
		return s.buildCorpus(ctx)
	}

	var corpus content.Corpus
	err := cache.GetJSON(ctx, s.cache, corpusCacheKey, &corpus)
	if err == nil {
		return corpus, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("corpus cache read failed", "error", err, "category", model.EventCategorySystem)
	}

	v, err, _ := s.builds.Do(corpusCacheKey, func() (any, error) {
		return s.rebuild(context.WithoutCancel(ctx))
	})
	if err != nil {
		return content.Corpus{}, err
	}
	return v.(content.Corpus), nil
}

// Refresh rebuilds the corpus and replaces the cached snapshot.
func (s *BlueprintService) Refresh(ctx context.Context) (content.Corpus, error) {
	if s.cache == nil {
		return s.buildCorpus(ctx)
	}
	v, err, _ := s.builds.Do(corpusCacheKey, func() (any, error) {
		return s.rebuild(ctx)
	})
	if err != nil {
		return content.Corpus{}, err
	}
	return v.(content.Corpus), nil
}

// CacheStats returns the corpus cache counters, or nil without a cache.
func (s *BlueprintService) CacheStats() *cache.Stats {
	sp, ok := s.cache.(cache.StatsProvider)
	if !ok {
		return nil
	}
	stats := sp.Stats()
	return &stats
}

// InvalidateCorpus drops the cached snapshot.
func (s *BlueprintService) InvalidateCorpus(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, corpusCacheKey); err != nil {
		s.logger.Warn("corpus cache invalidation failed", "error", err, "category", model.EventCategorySystem)
	}
}

func (s *BlueprintService) rebuild(ctx context.Context) (content.Corpus, error) {
	corpus, err := s.buildCorpus(ctx)
	if err != nil {
		return content.Corpus{}, err
	}
	if err := cache.SetJSON(ctx, s.cache, corpusCacheKey, corpus, s.cacheTTL); err != nil {
		s.logger.Warn("corpus cache write failed", "error", err, "category", model.EventCategorySystem)
	}
	return corpus, nil
}

func (s *BlueprintService) buildCorpus(ctx context.Context) (content.Corpus, error) {
	return s.buildCorpusFrom(ctx, s.source)
}

func (s *BlueprintService) buildCorpusFrom(ctx context.Context, source loader.Source) (content.Corpus, error) {
	items, loadErrs, err := source.Load(ctx)
	if err != nil {
		return content.Corpus{}, fmt.Errorf("loading blueprints: %w", err)
	}
	corpus := content.BuildCorpus(items, loadErrs)
	for _, r := range corpus.Rejections {
		s.logger.Debug("blueprint rejected",
			"kind", r.Kind, "origin", r.Origin.String(), "reason", r.Message)
	}
	if n := len(corpus.Rejections); n > 0 {
		s.logger.Info("blueprints excluded from listing", "count", n, "category", model.EventCategoryContent)
	}
	return corpus, nil
}

// listCorpus returns the corpus a listing is filtered from. Without a cache
// a store source narrows by platform in the query itself.
func (s *BlueprintService) listCorpus(ctx context.Context, filter Filter) (content.Corpus, error) {
	if st, ok := s.source.(*loader.StoreSource); ok && s.cache == nil && filter.Platform != "" {
		return s.buildCorpusFrom(ctx, st.WithPlatform(string(filter.Platform)))
	}
	return s.Corpus(ctx)
}

// List returns a filtered page of blueprints.
func (s *BlueprintService) List(ctx context.Context, params ListParams) (ListResult, error) {
	corpus, err := s.listCorpus(ctx, params.Filter)
	if err != nil {
		return ListResult{Blueprints: []model.Blueprint{}}, err
	}
	matched := FilterBlueprints(corpus.Blueprints, params.Filter)

	result := ListResult{Total: len(matched)}
	if params.PerPage <= 0 {
		result.Blueprints = matched
		return result, nil
	}
	page := max(params.Page, 1)
	start := (page - 1) * params.PerPage
	if start >= len(matched) {
		result.Blueprints = []model.Blueprint{}
		return result, nil
	}
	end := min(start+params.PerPage, len(matched))
	result.Blueprints = matched[start:end]
	return result, nil
}

// Get returns one visible blueprint by slug.
func (s *BlueprintService) Get(ctx context.Context, slug string) (model.Blueprint, error) {
	if !util.IsValidIdentifier(slug) {
		return model.Blueprint{}, ErrBlueprintNotFound
	}
	return s.find(ctx, func(bp model.Blueprint) bool { return bp.Slug == slug })
}

// GetByID returns one visible blueprint by its record id. Legacy recipe links
// address blueprints this way.
func (s *BlueprintService) GetByID(ctx context.Context, id string) (model.Blueprint, error) {
	if id == "" {
		return model.Blueprint{}, ErrBlueprintNotFound
	}
	return s.find(ctx, func(bp model.Blueprint) bool { return bp.ID == id })
}

func (s *BlueprintService) find(ctx context.Context, match func(model.Blueprint) bool) (model.Blueprint, error) {
	corpus, err := s.Corpus(ctx)
	if err != nil {
		return model.Blueprint{}, err
	}
	for _, bp := range corpus.Blueprints {
		if match(bp) {
			return bp, nil
		}
	}
	return model.Blueprint{}, ErrBlueprintNotFound
}

// Pending returns the stored submissions awaiting moderation, newest first.
// Records that no longer validate are left out.
func (s *BlueprintService) Pending(ctx context.Context) ([]model.Blueprint, error) {
	source := loader.NewStoreSource(s.queries).WithStatus(model.TagStatusPending)
	corpus, err := s.buildCorpusFrom(ctx, source)
	if err != nil {
		return []model.Blueprint{}, err
	}
	return corpus.Blueprints, nil
}

// PlatformCount is the number of listed blueprints of one platform.
type PlatformCount struct {
	Platform model.Platform `json:"platform"`
	Count    int            `json:"count"`
}

// Platforms returns every platform with its blueprint count.
func (s *BlueprintService) Platforms(ctx context.Context) ([]PlatformCount, error) {
	corpus, err := s.Corpus(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[model.Platform]int)
	for _, bp := range corpus.Blueprints {
		counts[bp.Platform]++
	}
	out := make([]PlatformCount, 0, len(model.AllPlatforms()))
	for _, p := range model.AllPlatforms() {
		out = append(out, PlatformCount{Platform: p, Count: counts[p]})
	}
	return out, nil
}

// CreateParams holds a new submission. Record is a blueprint in either
// layout; AuthorID is the submitting member and owner of the stored row.
type CreateParams struct {
	Record   model.RawRecord
	AuthorID string
}

// moderatorFields are set by moderation and view tracking only. Submitters
// and owners cannot write them.
var moderatorFields = []string{"status", "views", "community_verified"}

// Create validates a submission and stores it as pending. A missing slug is
// generated from the title. Credits are paid when the submission is approved.
func (s *BlueprintService) Create(ctx context.Context, params CreateParams) (model.Blueprint, error) {
	rec := content.Normalize(params.Record, content.Origin{Source: loader.SourceStore})
	for _, k := range moderatorFields {
		delete(rec, k)
	}
	rec["community_verified"] = false

	if !present(rec, "author") && params.AuthorID != "" {
		rec["author"] = params.AuthorID
	}
	slug, _ := rec.String("slug")
	if slug == "" {
		title, _ := rec.String("title")
		generated, err := s.uniqueSlug(ctx, util.GenerateSlug(title))
		if err != nil {
			return model.Blueprint{}, err
		}
		slug = generated
		rec["slug"] = slug
	}
	if !present(rec, "id") {
		rec["id"] = slug
	}

	bp, err := content.Validate(rec)
	if err != nil {
		return model.Blueprint{}, err
	}

	count, err := s.queries.CountTagsBySlug(ctx, bp.Slug)
	if err != nil {
		return model.Blueprint{}, fmt.Errorf("checking slug: %w", err)
	}
	if count > 0 {
		return model.Blueprint{}, ErrSlugTaken
	}

	authorID := params.AuthorID
	if authorID == "" {
		authorID = bp.Author.Primary()
	}

	row, err := s.insert(ctx, bp, authorID, model.TagStatusPending)
	if err != nil {
		return model.Blueprint{}, err
	}
	s.logger.Info("blueprint submitted", "slug", bp.Slug, "author", authorID, "category", model.EventCategoryContent)
	s.InvalidateCorpus(ctx)

	bp.Status = model.TagStatus(row.Status)
	return bp, nil
}

func (s *BlueprintService) uniqueSlug(ctx context.Context, base string) (string, error) {
	var lookupErr error
	slug := util.UniqueSlug(base, func(candidate string) bool {
		if lookupErr != nil {
			return false
		}
		n, err := s.queries.CountTagsBySlug(ctx, candidate)
		if err != nil {
			lookupErr = err
			return false
		}
		return n > 0
	})
	if lookupErr != nil {
		return "", fmt.Errorf("checking slug: %w", lookupErr)
	}
	return slug, nil
}

func (s *BlueprintService) insert(ctx context.Context, bp model.Blueprint, authorID string, status model.TagStatus) (store.Tag, error) {
	bp.Status = ""
	bp.Views = 0
	payload, err := json.Marshal(bp)
	if err != nil {
		return store.Tag{}, fmt.Errorf("encoding blueprint: %w", err)
	}

	now := s.now()
	row, err := s.queries.CreateTag(ctx, store.CreateTagParams{
		ID:                uuid.NewString(),
		Slug:              bp.Slug,
		Title:             bp.Title,
		Description:       util.NullStringFromValue(bp.Description),
		AuthorID:          util.NullStringFromValue(authorID),
		Platform:          string(bp.Platform),
		TagType:           util.NullStringFromValue(bp.TagType),
		Content:           string(payload),
		Status:            string(status),
		CommunityVerified: bp.CommunityVerified,
		FilePath:          util.NullStringFromValue(bp.FilePath),
		CreatedAt:         now,
		UpdatedAt:         now,
	})
	if err != nil {
		return store.Tag{}, fmt.Errorf("creating tag: %w", err)
	}
	return row, nil
}

// Update merges patch into a stored blueprint owned by actorID and
// re-validates the result. The slug and id cannot change.
func (s *BlueprintService) Update(ctx context.Context, slug string, patch model.RawRecord, actorID string) (model.Blueprint, error) {
	row, err := s.queries.GetTagBySlug(ctx, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Blueprint{}, ErrBlueprintNotFound
	}
	if err != nil {
		return model.Blueprint{}, fmt.Errorf("getting tag: %w", err)
	}
	if !row.AuthorID.Valid || row.AuthorID.String != actorID {
		return model.Blueprint{}, ErrNotOwner
	}

	rec, err := loader.RecordFromTag(row)
	if err != nil {
		return model.Blueprint{}, err
	}
	for k, v := range patch {
		switch k {
		case "id", "slug", "status", "views", "community_verified", "createdAt":
			continue
		}
		rec[k] = v
	}
	rec = content.Normalize(rec, content.Origin{Source: loader.SourceStore, Path: slug})

	bp, err := content.Validate(rec)
	if err != nil {
		return model.Blueprint{}, err
	}
	bp.UpdatedAt = s.now().Format(time.RFC3339)

	stored := bp
	stored.Status = ""
	stored.Views = 0
	payload, err := json.Marshal(stored)
	if err != nil {
		return model.Blueprint{}, fmt.Errorf("encoding blueprint: %w", err)
	}

	n, err := s.queries.UpdateTag(ctx, store.UpdateTagParams{
		Title:       bp.Title,
		Description: util.NullStringFromValue(bp.Description),
		Platform:    string(bp.Platform),
		TagType:     util.NullStringFromValue(bp.TagType),
		Content:     string(payload),
		UpdatedAt:   s.now(),
		Slug:        slug,
	})
	if err != nil {
		return model.Blueprint{}, fmt.Errorf("updating tag: %w", err)
	}
	if n == 0 {
		return model.Blueprint{}, ErrBlueprintNotFound
	}
	s.logger.Info("blueprint updated", "slug", slug, "actor", actorID, "category", model.EventCategoryContent)
	s.InvalidateCorpus(ctx)
	return bp, nil
}

// Moderate sets the moderation status of a stored blueprint. Approving a
// pending submission credits its author.
func (s *BlueprintService) Moderate(ctx context.Context, slug string, status model.TagStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	row, err := s.queries.GetTagBySlug(ctx, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrBlueprintNotFound
	}
	if err != nil {
		return fmt.Errorf("getting tag: %w", err)
	}

	n, err := s.queries.SetTagStatus(ctx, store.SetTagStatusParams{
		Status:    string(status),
		UpdatedAt: s.now(),
		Slug:      slug,
	})
	if err != nil {
		return fmt.Errorf("setting tag status: %w", err)
	}
	if n == 0 {
		return ErrBlueprintNotFound
	}
	s.logger.Info("blueprint moderated", "slug", slug, "status", status, "category", model.EventCategoryModeration)
	s.InvalidateCorpus(ctx)

	if model.TagStatus(row.Status) == model.TagStatusPending && status == model.TagStatusApproved {
		s.award(ctx, util.StringFromNull(row.AuthorID), model.ActivitySubmitTag)
	}
	return nil
}

// Verify marks a stored blueprint as community verified and credits its
// author. Verifying twice is a no-op.
func (s *BlueprintService) Verify(ctx context.Context, slug string) error {
	row, err := s.queries.GetTagBySlug(ctx, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrBlueprintNotFound
	}
	if err != nil {
		return fmt.Errorf("getting tag: %w", err)
	}
	if row.CommunityVerified {
		return nil
	}

	if _, err := s.queries.SetTagVerified(ctx, store.SetTagVerifiedParams{
		CommunityVerified: true,
		UpdatedAt:         s.now(),
		Slug:              slug,
	}); err != nil {
		return fmt.Errorf("verifying tag: %w", err)
	}
	s.logger.Info("blueprint verified", "slug", slug, "category", model.EventCategoryModeration)
	s.InvalidateCorpus(ctx)

	s.award(ctx, util.StringFromNull(row.AuthorID), model.ActivityTagVerified)
	return nil
}

// RecordView counts one view of slug. It never fails the caller: errors
// are logged and counted in ViewFailures. Slugs without a stored row, such
// as file-only blueprints, are not tracked.
func (s *BlueprintService) RecordView(ctx context.Context, slug string) {
	views, err := s.queries.IncrementTagViews(ctx, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return
	}
	if err != nil {
		s.viewFailures.Add(1)
		s.logger.Warn("failed to record blueprint view", "slug", slug, "error", err, "category", model.EventCategoryContent)
		return
	}

	if activity, ok := model.ViewMilestone(views); ok {
		author, err := s.queries.GetTagAuthor(ctx, slug)
		if err == nil && author.Valid {
			s.award(ctx, author.String, activity)
		}
	}
}

// ViewFailures returns how many view increments failed since startup.
func (s *BlueprintService) ViewFailures() int64 {
	return s.viewFailures.Load()
}

// ImportResult reports the outcome of Import.
type ImportResult struct {
	Imported []string `json:"imported"`
	Skipped  []string `json:"skipped"`
}

// Import copies validated blueprints into the tags table as approved rows.
// Slugs that already exist are skipped.
func (s *BlueprintService) Import(ctx context.Context, blueprints []model.Blueprint) (ImportResult, error) {
	result := ImportResult{Imported: []string{}, Skipped: []string{}}
	for _, bp := range blueprints {
		count, err := s.queries.CountTagsBySlug(ctx, bp.Slug)
		if err != nil {
			return result, fmt.Errorf("checking slug %q: %w", bp.Slug, err)
		}
		if count > 0 {
			result.Skipped = append(result.Skipped, bp.Slug)
			continue
		}
		if _, err := s.insert(ctx, bp, bp.Author.Primary(), model.TagStatusApproved); err != nil {
			return result, fmt.Errorf("importing %q: %w", bp.Slug, err)
		}
		result.Imported = append(result.Imported, bp.Slug)
	}
	if len(result.Imported) > 0 {
		s.InvalidateCorpus(ctx)
	}
	s.logger.Info("blueprints imported",
		"imported", len(result.Imported), "skipped", len(result.Skipped), "category", model.EventCategoryContent)
	return result, nil
}

// award credits a member best-effort.
func (s *BlueprintService) award(ctx context.Context, userID string, activity model.CreditActivity) {
	if s.credits == nil || userID == "" {
		return
	}
	if _, err := s.credits.AwardCredits(ctx, userID, activity); err != nil {
		s.logger.Warn("failed to award credits",
			"user", userID, "activity", activity, "error", err, "category", model.EventCategoryUser)
	}
}

func present(rec model.RawRecord, key string) bool {
	switch v := rec[key].(type) {
	case nil:
		return false
	case string:
		return v != ""
	}
	return true
}
