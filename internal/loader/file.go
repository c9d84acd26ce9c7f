// Copyright (c) 2026 The tag-directory Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/leopoldus11/tag-directory/internal/content"
	"github.com/leopoldus11/tag-directory/internal/model"
	"github.com/leopoldus11/tag-directory/internal/util"
)

// DefaultDirs are the content directories scanned when none are configured.
// The second one holds legacy recipes.
var DefaultDirs = []string{"src/content/blueprints", "data/recipes"}

// DefaultScriptDirs hold reusable script snippets.
var DefaultScriptDirs = []string{"data/scripts"}

// DefaultWorkers bounds concurrent file parsing.
const DefaultWorkers = 8

// ErrNotObject is returned for a content file whose top level is not a mapping.
var ErrNotObject = errors.New("record must be an object")

// FileSource reads records from content directories below Root.
type FileSource struct {
	Root    string
	Dirs    []string
	Workers int
}

// NewFileSource creates a FileSource. Empty dirs fall back to DefaultDirs;
// a non-positive workers count falls back to DefaultWorkers.
func NewFileSource(root string, dirs []string, workers int) *FileSource {
	if len(dirs) == 0 {
		dirs = DefaultDirs
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &FileSource{Root: root, Dirs: dirs, Workers: workers}
}

type fileEntry struct {
	fullPath string
	origin   content.Origin
}

// Load implements Source. Missing directories are skipped. Results are
// sorted by repository path.
func (s *FileSource) Load(ctx context.Context) ([]content.Item, []content.LoadError, error) {
	entries, err := s.scan()
	if err != nil {
		return nil, nil, err
	}

	type result struct {
		rec model.RawRecord
		err error
	}
	results := make([]result, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Workers)
	for i, entry := range entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec, err := ReadFile(entry.fullPath)
			results[i] = result{rec: rec, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("loading content files: %w", err)
	}

	items := make([]content.Item, 0, len(entries))
	var loadErrs []content.LoadError
	for i, entry := range entries {
		if results[i].err != nil {
			loadErrs = append(loadErrs, content.LoadError{Origin: entry.origin, Err: results[i].err})
			continue
		}
		items = append(items, content.Item{Record: results[i].rec, Origin: entry.origin})
	}
	return items, loadErrs, nil
}

// scan lists the supported files of every configured directory.
func (s *FileSource) scan() ([]fileEntry, error) {
	var entries []fileEntry
	for _, dir := range s.Dirs {
		abs, err := util.ResolveWithin(s.Root, dir)
		if err != nil {
			return nil, fmt.Errorf("content dir %q: %w", dir, err)
		}
		dirEntries, err := os.ReadDir(abs)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading content dir %q: %w", dir, err)
		}

		repoDir := path.Clean(filepath.ToSlash(dir))
		for _, de := range dirEntries {
			if !de.Type().IsRegular() || !Supported(de.Name()) {
				continue
			}
			entries = append(entries, fileEntry{
				fullPath: filepath.Join(abs, de.Name()),
				origin: content.Origin{
					Source:  SourceFiles,
					Path:    path.Join(repoDir, de.Name()),
					RepoDir: repoDir,
					File:    de.Name(),
				},
			})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].origin.Path < entries[j].origin.Path })
	return entries, nil
}

// Supported reports whether name has a content file extension.
func Supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".mdc", ".md", ".yaml", ".yml":
		return true
	}
	return false
}

// ReadFile reads and parses one content file according to its extension.
func ReadFile(name string) (model.RawRecord, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return Parse(filepath.Base(name), data)
}

// Parse decodes the contents of a content file named name.
func Parse(name string, data []byte) (model.RawRecord, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("parsing json: %w", err)
		}
		obj, ok := v.(map[string]any)
		if !ok {
			return nil, ErrNotObject
		}
		return model.RawRecord(obj), nil
	case ".yaml", ".yml":
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("parsing yaml: %w", err)
		}
		obj, ok := v.(map[string]any)
		if !ok {
			return nil, ErrNotObject
		}
		return model.RawRecord(obj), nil
	case ".mdc", ".md":
		return content.ParseFrontMatter(string(data))
	}
	return nil, fmt.Errorf("unsupported content file %q", name)
}
