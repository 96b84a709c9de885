// Copyright 2026 The Ask Authors
// SPDX-License-Identifier: MIT

// Package persona manages the system prompts that set the assistant's
// behavior. A persona carries two prompts: one for interactive sessions,
// where the conversation continues, and one for single-shot questions,
// where the assistant gets exactly one reply.
package persona

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// FileName is the persona override file inside the ask config directory.
const FileName = "personas.yaml"

// DefaultName is the persona used when none is configured.
const DefaultName = "cat"

// Persona is a pair of system prompts for the two session shapes.
type Persona struct {
	Interactive string `yaml:"interactive"`
	SingleShot  string `yaml:"single_shot"`
}

// Prompt returns the system prompt for the given session shape, falling
// back to the other prompt when one is unset.
func (p Persona) Prompt(interactive bool) string {
	if interactive {
		if p.Interactive != "" {
			return p.Interactive
		}
		return p.SingleShot
	}
	if p.SingleShot != "" {
		return p.SingleShot
	}
	return p.Interactive
}

// Builtin returns the personas shipped with ask.
func Builtin() map[string]Persona {
	return map[string]Persona{
		"cat": {
			Interactive: "You are a cute cat running in a command line interface. " +
				"The user can chat with you and the conversation can be continued.",
			SingleShot: "You are a cute cat runs in a command line interface and you can " +
				"only respond once to the user. Do not ask any questions in your response.",
		},
		"plain": {
			Interactive: "You are a helpful assistant running in a command line interface.",
			SingleShot: "You are a helpful assistant running in a command line interface. " +
				"Answer in a single response without asking follow-up questions.",
		},
	}
}

// Load returns the built-in personas overlaid with any user-defined
// personas from the YAML file at path. A missing file is not an error.
// User entries shadow built-ins of the same name.
func Load(path string) (map[string]Persona, error) {
	book := Builtin()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return book, nil
		}
		return nil, fmt.Errorf("persona: read %s: %w", path, err)
	}

	var user map[string]Persona
	if err := yaml.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("persona: parse %s: %w", path, err)
	}
	for name, p := range user {
		book[name] = p
	}
	return book, nil
}

// DefaultPath returns the persona file location under configDir.
func DefaultPath(configDir string) string {
	return filepath.Join(configDir, FileName)
}

// Names returns the persona names in a book, sorted.
func Names(book map[string]Persona) []string {
	names := make([]string, 0, len(book))
	for name := range book {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
