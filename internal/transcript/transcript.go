// Copyright 2026 The Ask Authors
// SPDX-License-Identifier: MIT

// Package transcript persists finished conversations as JSON files so a
// session can be reviewed after the terminal scrollback is gone.
package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/askcli/ask/internal/chat"
)

// schemaVersion is the transcript file schema version.
const schemaVersion = "1"

// subdir is the directory under the state dir holding transcripts.
const subdir = "transcripts"

// TurnRecord is one persisted conversation turn.
type TurnRecord struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Transcript is a finished conversation with its session metadata.
type Transcript struct {
	Version   string       `json:"version"`
	ID        string       `json:"id"`
	StartedAt time.Time    `json:"started_at"`
	EndedAt   time.Time    `json:"ended_at"`
	Model     string       `json:"model"`
	Turns     []TurnRecord `json:"turns"`
}

// New starts a transcript for a session against model.
func New(model string) *Transcript {
	return &Transcript{
		Version:   schemaVersion,
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Model:     model,
	}
}

// Record replaces the transcript's turns with the given conversation.
// Called once at session end with the session's final turn list.
func (t *Transcript) Record(turns []chat.Turn) {
	t.Turns = make([]TurnRecord, 0, len(turns))
	for _, turn := range turns {
		t.Turns = append(t.Turns, TurnRecord{
			Role:    string(turn.Role),
			Content: turn.Content,
		})
	}
}

// Save writes the transcript under stateDir and returns the file path.
func Save(stateDir string, t *Transcript) (string, error) {
	t.EndedAt = time.Now().UTC()

	dir := filepath.Join(stateDir, subdir)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("transcript: create directory: %w", err)
	}

	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return "", fmt.Errorf("transcript: encode: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("ask-%s.json", t.ID))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("transcript: write %s: %w", path, err)
	}
	return path, nil
}

// Load reads a transcript file.
func Load(path string) (*Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("transcript: read %s: %w", path, err)
	}
	var t Transcript
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("transcript: parse %s: %w", path, err)
	}
	return &t, nil
}
