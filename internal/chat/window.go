// Copyright 2026 The Ask Authors
// SPDX-License-Identifier: MIT

package chat

import (
	"fmt"
	"slices"
)

// TokenCounter estimates the token cost of text under a model's encoding.
// Implementations must be exact with respect to the provider's tokenizer;
// an unsupported model must return an error, never an approximation.
type TokenCounter interface {
	Count(text, model string) (int, error)
}

// replyPrimingTokens is the fixed overhead the protocol spends priming
// the assistant reply, independent of conversation content.
const replyPrimingTokens = 3

// Budget is the token ceiling the window manager enforces, plus the
// fixed per-turn overheads of the wire protocol. Constant for the
// process lifetime unless explicitly reconfigured.
type Budget struct {
	// Limit is the hard token ceiling for a submitted conversation.
	Limit int

	// PerMessage is the protocol overhead added for every turn.
	PerMessage int

	// PerName is the additional overhead for a turn carrying a Name.
	PerName int

	// SafetyMargin widens the ceiling check: trimming continues while
	// estimate+SafetyMargin exceeds Limit. The remote endpoint is the
	// final authority on context length; the margin keeps obviously
	// oversized requests from ever leaving the client.
	SafetyMargin int

	// PreserveSystem protects a leading system turn from eviction.
	// The reference behavior evicts it like any other turn, so this
	// is a policy knob rather than a hard-coded choice.
	PreserveSystem bool
}

// DefaultBudget returns the overheads for the chat-completions wire
// format (per the OpenAI token-counting cookbook) with the given limit.
func DefaultBudget(limit int) Budget {
	return Budget{
		Limit:        limit,
		PerMessage:   3,
		PerName:      1,
		SafetyMargin: 100,
	}
}

// Estimate computes the token cost of submitting turns to model:
// PerMessage per turn, the content's token count, PerName for named
// turns, plus the fixed reply-priming overhead. Purely additive, so the
// estimate never decreases as turns are appended.
func Estimate(turns []Turn, model string, b Budget, tc TokenCounter) (int, error) {
	total := replyPrimingTokens
	for _, t := range turns {
		n, err := tc.Count(t.Content, model)
		if err != nil {
			return 0, fmt.Errorf("estimate conversation: %w", err)
		}
		total += b.PerMessage + n
		if t.Name != "" {
			total += b.PerName
		}
	}
	return total, nil
}

// Trim evicts oldest turns until the estimate plus safety margin fits
// under the budget limit, and returns the trimmed conversation. The
// input slice is not modified.
//
// Eviction is strictly front-to-back; there is no summarization or
// mid-history removal. A lone remaining turn is always kept regardless
// of its estimated size: sending zero turns is meaningless, and the
// endpoint enforces the real context limit. With PreserveSystem set, a
// leading system turn is skipped over and the floor becomes that system
// turn plus one ordinary turn.
func Trim(turns []Turn, model string, b Budget, tc TokenCounter) ([]Turn, error) {
	out := slices.Clone(turns)
	for {
		est, err := Estimate(out, model, b, tc)
		if err != nil {
			return nil, err
		}
		if est+b.SafetyMargin <= b.Limit {
			return out, nil
		}

		evict := 0
		if b.PreserveSystem && len(out) > 0 && out[0].Role == RoleSystem {
			evict = 1
		}
		// Never evict the newest turn.
		if evict >= len(out)-1 {
			return out, nil
		}
		out = append(out[:evict], out[evict+1:]...)
	}
}
