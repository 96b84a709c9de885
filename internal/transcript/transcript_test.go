// Copyright 2026 The Ask Authors
// SPDX-License-Identifier: MIT

package transcript

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askcli/ask/internal/chat"
)

func TestNew(t *testing.T) {
	tr := New("gpt-4o")
	assert.Equal(t, schemaVersion, tr.Version)
	assert.Equal(t, "gpt-4o", tr.Model)
	assert.False(t, tr.StartedAt.IsZero())

	_, err := uuid.Parse(tr.ID)
	assert.NoError(t, err, "transcript id is a uuid")
}

func TestRecord(t *testing.T) {
	tr := New("m")
	tr.Record([]chat.Turn{
		chat.System("persona"),
		chat.User("question"),
		chat.Assistant("answer"),
	})

	require.Len(t, tr.Turns, 3)
	assert.Equal(t, TurnRecord{Role: "system", Content: "persona"}, tr.Turns[0])
	assert.Equal(t, TurnRecord{Role: "user", Content: "question"}, tr.Turns[1])
	assert.Equal(t, TurnRecord{Role: "assistant", Content: "answer"}, tr.Turns[2])
}

func TestSaveLoad_Roundtrip(t *testing.T) {
	dir := t.TempDir()
	tr := New("gpt-4o")
	tr.Record([]chat.Turn{chat.User("hi"), chat.Assistant("hello")})

	path, err := Save(dir, tr)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, subdir, "ask-"+tr.ID+".json"), path)
	assert.False(t, tr.EndedAt.IsZero())

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, tr.ID, got.ID)
	assert.Equal(t, tr.Model, got.Model)
	assert.Equal(t, tr.Turns, got.Turns)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
