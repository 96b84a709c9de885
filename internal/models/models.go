// Copyright 2026 The Ask Authors
// SPDX-License-Identifier: MIT

// Package models maintains a cached catalog of the endpoint's model ids,
// used to validate a configured model before the first request and to
// suggest close matches for typos.
package models

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"
)

// Lister fetches the model catalog from the remote endpoint.
type Lister interface {
	ListModels(ctx context.Context) ([]string, error)
}

// Catalog resolves model ids against a locally cached copy of the
// endpoint's model list, refreshing it when stale.
type Catalog struct {
	dir    string
	lister Lister
	now    func() time.Time
}

// NewCatalog creates a catalog backed by the cache directory dir.
func NewCatalog(dir string, lister Lister) *Catalog {
	return &Catalog{dir: dir, lister: lister, now: time.Now}
}

// Models returns the model ids, from cache when fresh, otherwise
// fetched and re-cached. A failed cache write is logged, not fatal.
func (c *Catalog) Models(ctx context.Context) ([]string, error) {
	cache, err := LoadCache(c.dir)
	if err != nil {
		slog.Warn("model cache unreadable, refetching", "error", err)
	}
	if cache != nil && !cache.Stale(c.now()) {
		slog.Debug("model catalog served from cache", "models", len(cache.Models))
		return cache.Models, nil
	}

	ids, err := c.Refresh(ctx)
	if err != nil && cache != nil {
		// A stale catalog beats no catalog.
		slog.Warn("model list fetch failed, using stale cache", "error", err)
		return cache.Models, nil
	}
	return ids, err
}

// Refresh fetches the catalog from the endpoint unconditionally and
// rewrites the cache. A failed cache write is logged, not fatal.
func (c *Catalog) Refresh(ctx context.Context) ([]string, error) {
	ids, err := c.lister.ListModels(ctx)
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)

	if err := SaveCache(c.dir, &Cache{
		Version:   cacheSchemaVersion,
		FetchedAt: c.now(),
		Models:    ids,
	}); err != nil {
		slog.Warn("model cache write failed", "error", err)
	}
	return ids, nil
}

// Validate reports whether model is in the catalog, returning close
// matches when it is not. A catalog fetch failure yields ok=true with
// the error: the endpoint remains the final authority, so validation
// never blocks a request it cannot check.
func (c *Catalog) Validate(ctx context.Context, model string) (bool, []string, error) {
	ids, err := c.Models(ctx)
	if err != nil {
		return true, nil, err
	}
	for _, id := range ids {
		if id == model {
			return true, nil, nil
		}
	}
	return false, Suggest(model, ids, 3), nil
}

// Suggest ranks available model ids by similarity to want and returns
// at most max of them. Similarity favors shared prefixes, then
// substring containment.
func Suggest(want string, available []string, max int) []string {
	type scored struct {
		id    string
		score int
	}

	var candidates []scored
	for _, id := range available {
		s := commonPrefixLen(want, id) * 2
		if strings.Contains(id, want) || strings.Contains(want, id) {
			s += len(want)
		}
		if s > 0 {
			candidates = append(candidates, scored{id: id, score: s})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].id < candidates[j].id
	})

	out := make([]string, 0, max)
	for _, c := range candidates {
		if len(out) == max {
			break
		}
		out = append(out, c.id)
	}
	return out
}

func commonPrefixLen(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}
