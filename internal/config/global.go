// Copyright 2026 The Ask Authors
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the config file name inside the ask config directory.
const FileName = "config.toml"

// Dir returns the directory for ask configuration. It uses
// $XDG_CONFIG_HOME/ask if set, otherwise ~/.config/ask.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "ask")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "ask")
}

// Path returns the path to the config file.
func Path() string {
	return filepath.Join(Dir(), FileName)
}

// StateDir returns the directory for mutable state (model cache,
// transcripts). It uses $XDG_STATE_HOME/ask if set, otherwise
// ~/.local/state/ask.
func StateDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "ask")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "ask")
}

// Save writes cfg to Path, creating the config directory if needed.
// The file is written 0600 since it may hold the API credential.
func Save(cfg Config) error {
	return SaveFile(Path(), cfg)
}

// SaveFile writes cfg to an explicit path.
func SaveFile(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	return nil
}
