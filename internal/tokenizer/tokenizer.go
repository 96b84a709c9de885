// Copyright 2026 The Ask Authors
// SPDX-License-Identifier: MIT

// Package tokenizer estimates token counts using the provider's own BPE
// encodings via tiktoken. Counts feed the conversation window manager;
// they are never decoded back to text.
package tokenizer

import (
	"errors"
	"fmt"
	"sync"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// ErrUnsupportedModel is returned when no encoding mapping exists for a
// model id. Callers must surface this rather than guess a count: a wrong
// estimate makes the window manager under- or over-trim.
var ErrUnsupportedModel = errors.New("tokenizer: unsupported model")

// Counter counts tokens for model-tagged text. Encodings are resolved
// once per model and cached; Counter is safe for concurrent use.
type Counter struct {
	mu   sync.Mutex
	encs map[string]*tiktoken.Tiktoken
}

// NewCounter returns an empty Counter.
func NewCounter() *Counter {
	return &Counter{encs: make(map[string]*tiktoken.Tiktoken)}
}

// Count returns the number of tokens in text under model's encoding.
// Deterministic for a given model/text pair.
func (c *Counter) Count(text, model string) (int, error) {
	enc, err := c.encoding(model)
	if err != nil {
		return 0, err
	}
	return len(enc.Encode(text, nil, nil)), nil
}

func (c *Counter) encoding(model string) (*tiktoken.Tiktoken, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if enc, ok := c.encs[model]; ok {
		return enc, nil
	}

	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrUnsupportedModel, model, err)
	}
	c.encs[model] = enc
	return enc, nil
}
