// Copyright 2026 The Ask Authors
// SPDX-License-Identifier: MIT

package chat_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askcli/ask/internal/chat"
)

// wordCounter counts whitespace-separated words, giving tests a cheap
// deterministic stand-in for a real encoding.
type wordCounter struct{}

func (wordCounter) Count(text, _ string) (int, error) {
	return len(strings.Fields(text)), nil
}

// fixedCounter charges a flat rate per turn regardless of content.
type fixedCounter struct{ n int }

func (f fixedCounter) Count(_, _ string) (int, error) {
	return f.n, nil
}

// failingCounter simulates an unsupported model.
type failingCounter struct{ err error }

func (f failingCounter) Count(_, _ string) (int, error) {
	return 0, f.err
}

func threeUserTurns() []chat.Turn {
	return []chat.Turn{
		chat.User("first"),
		chat.User("second"),
		chat.User("third"),
	}
}

func TestEstimate(t *testing.T) {
	b := chat.DefaultBudget(1000)

	t.Run("empty conversation costs only reply priming", func(t *testing.T) {
		est, err := chat.Estimate(nil, "m", b, wordCounter{})
		require.NoError(t, err)
		assert.Equal(t, 3, est)
	})

	t.Run("per-message overhead plus content", func(t *testing.T) {
		turns := []chat.Turn{chat.User("one two"), chat.Assistant("three")}
		// 3 (priming) + 2*(3 per message) + 2 + 1 content tokens.
		est, err := chat.Estimate(turns, "m", b, wordCounter{})
		require.NoError(t, err)
		assert.Equal(t, 12, est)
	})

	t.Run("named turn costs the name overhead", func(t *testing.T) {
		anon := []chat.Turn{chat.User("hi")}
		named := []chat.Turn{{Role: chat.RoleUser, Content: "hi", Name: "alice"}}

		a, err := chat.Estimate(anon, "m", b, wordCounter{})
		require.NoError(t, err)
		n, err := chat.Estimate(named, "m", b, wordCounter{})
		require.NoError(t, err)
		assert.Equal(t, a+b.PerName, n)
	})

	t.Run("monotone in appended turns", func(t *testing.T) {
		turns := []chat.Turn{}
		prev := 0
		for _, text := range []string{"", "a", "a b c", "", "long turn with several words"} {
			turns = append(turns, chat.User(text))
			est, err := chat.Estimate(turns, "m", b, wordCounter{})
			require.NoError(t, err)
			assert.GreaterOrEqual(t, est, prev, "estimate must never decrease")
			prev = est
		}
	})

	t.Run("counter failure propagates", func(t *testing.T) {
		boom := errors.New("no encoding")
		_, err := chat.Estimate([]chat.Turn{chat.User("x")}, "m", b, failingCounter{boom})
		assert.ErrorIs(t, err, boom)
	})
}

func TestTrim_EvictsFromFrontUntilFit(t *testing.T) {
	// Reference scenario: limit 50, three turns at 20 tokens each,
	// per-message overhead 3. Estimate 3*3+60+3 = 72; 72+100 > 50, so
	// eviction runs until only the newest turn remains.
	b := chat.DefaultBudget(50)
	turns := threeUserTurns()

	got, err := chat.Trim(turns, "m", b, fixedCounter{20})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "third", got[0].Content, "eviction must be oldest-first")
}

func TestTrim_NoTrimWhenUnderLimit(t *testing.T) {
	// Same three turns against limit 200: 72+100 = 172 <= 200, no trim.
	b := chat.DefaultBudget(200)
	turns := threeUserTurns()

	got, err := chat.Trim(turns, "m", b, fixedCounter{20})
	require.NoError(t, err)
	assert.Equal(t, turns, got)
}

func TestTrim_PartialEviction(t *testing.T) {
	// Limit 160: full estimate 72+100=172 > 160; after one eviction
	// 49+100=149 <= 160, so exactly the oldest turn goes.
	b := chat.DefaultBudget(160)
	turns := threeUserTurns()

	got, err := chat.Trim(turns, "m", b, fixedCounter{20})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "second", got[0].Content)
	assert.Equal(t, "third", got[1].Content)
}

func TestTrim_LoneTurnAlwaysKept(t *testing.T) {
	b := chat.DefaultBudget(10)
	turns := []chat.Turn{chat.User("enormous")}

	got, err := chat.Trim(turns, "m", b, fixedCounter{5000})
	require.NoError(t, err)
	assert.Equal(t, turns, got, "a lone turn is sent regardless of estimated size")
}

func TestTrim_EmptyConversation(t *testing.T) {
	got, err := chat.Trim(nil, "m", chat.DefaultBudget(10), fixedCounter{1})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTrim_Idempotent(t *testing.T) {
	b := chat.DefaultBudget(160)
	turns := threeUserTurns()

	once, err := chat.Trim(turns, "m", b, fixedCounter{20})
	require.NoError(t, err)
	twice, err := chat.Trim(once, "m", b, fixedCounter{20})
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestTrim_DoesNotMutateInput(t *testing.T) {
	b := chat.DefaultBudget(50)
	turns := threeUserTurns()

	_, err := chat.Trim(turns, "m", b, fixedCounter{20})
	require.NoError(t, err)
	assert.Len(t, turns, 3, "caller's slice must be left intact")
	assert.Equal(t, "first", turns[0].Content)
}

func TestTrim_PreserveSystem(t *testing.T) {
	b := chat.DefaultBudget(50)
	b.PreserveSystem = true
	turns := []chat.Turn{
		chat.System("persona"),
		chat.User("first"),
		chat.User("second"),
	}

	got, err := chat.Trim(turns, "m", b, fixedCounter{20})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, chat.RoleSystem, got[0].Role, "leading system turn survives")
	assert.Equal(t, "second", got[1].Content)
}

func TestTrim_ReferencePolicyEvictsSystem(t *testing.T) {
	// Without PreserveSystem the system turn is ordinary and goes first,
	// matching the reference behavior.
	b := chat.DefaultBudget(50)
	turns := []chat.Turn{
		chat.System("persona"),
		chat.User("first"),
		chat.User("second"),
	}

	got, err := chat.Trim(turns, "m", b, fixedCounter{20})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "second", got[0].Content)
}

func TestTrim_CounterFailureSurfaces(t *testing.T) {
	boom := errors.New("unsupported model")
	_, err := chat.Trim(threeUserTurns(), "m", chat.DefaultBudget(50), failingCounter{boom})
	assert.ErrorIs(t, err, boom)
}
