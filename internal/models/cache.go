// Copyright 2026 The Ask Authors
// SPDX-License-Identifier: MIT

package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// cacheFile is the catalog cache filename inside the state directory.
const cacheFile = "models.json"

// cacheSchemaVersion is the current cache file schema version.
const cacheSchemaVersion = "1"

// cacheTTL is how long a fetched catalog stays fresh.
const cacheTTL = 24 * time.Hour

// Cache is the on-disk model catalog.
type Cache struct {
	Version   string    `json:"version"`
	FetchedAt time.Time `json:"fetched_at"`
	Models    []string  `json:"models"`
}

// Stale reports whether the cache should be refetched.
func (c *Cache) Stale(now time.Time) bool {
	return now.Sub(c.FetchedAt) > cacheTTL
}

// LoadCache reads the catalog cache from dir. A missing file, or one
// with an unknown schema version, returns (nil, nil).
func LoadCache(dir string) (*Cache, error) {
	data, err := os.ReadFile(filepath.Join(dir, cacheFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var c Cache
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("models: parse cache: %w", err)
	}
	if c.Version != cacheSchemaVersion {
		return nil, nil
	}
	return &c, nil
}

// SaveCache writes the catalog cache to dir, creating it if needed.
func SaveCache(dir string, c *Cache) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("models: create cache directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("models: encode cache: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, cacheFile), data, 0o600); err != nil {
		return fmt.Errorf("models: write cache: %w", err)
	}
	return nil
}
