// Copyright 2026 The Ask Authors
// SPDX-License-Identifier: MIT

package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Fragment is one incremental piece of assistant text delivered during
// streaming. Ephemeral: forwarded to the sink and folded into the
// accumulated reply, never retained.
type Fragment struct {
	Text string
}

// Stream is a finite, single-pass sequence of fragments. Recv blocks
// until the next fragment is available and returns io.EOF when the
// transport signals end-of-stream. Streams are not restartable.
type Stream interface {
	Recv() (Fragment, error)
	Close() error
}

// Request is a single exchange submitted to the remote endpoint.
type Request struct {
	Turns       []Turn
	Model       string
	Temperature float64
	MaxTokens   int
}

// Streamer opens a streaming exchange with the remote chat endpoint.
type Streamer interface {
	Stream(ctx context.Context, req Request) (Stream, error)
}

// Completer performs a non-streaming exchange, returning the whole
// reply at once.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// TransportError wraps a network or transport failure during an
// exchange. Recoverable at the session level: the failed cycle appends
// no assistant turn and an interactive session continues.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("chat: transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Consumer drives one exchange: it forwards each received fragment to
// Sink immediately, in arrival order, while reconstructing the full
// reply for use as the next turn's context. The sink write and the
// accumulation are independent observers of each pulled fragment.
type Consumer struct {
	// Sink receives assistant text as it arrives. Typically stdout;
	// must tolerate partial output surviving a failed exchange, since
	// already-written fragments are never retracted.
	Sink io.Writer

	// OnFragment, if set, observes each non-empty fragment before it is
	// written. Used by the CLI to stop the first-token spinner.
	OnFragment func(Fragment)
}

// Run submits req via s and consumes the resulting stream.
//
// An empty conversation is a no-op, not an error: no network call, no
// output, empty reply. Empty fragments are skipped without being
// forwarded or accumulated. After end-of-stream a trailing newline
// terminates the visual response block on the sink; the returned reply
// excludes it. Transport failures surface as *TransportError with the
// partial accumulation discarded.
func (c *Consumer) Run(ctx context.Context, s Streamer, req Request) (string, error) {
	if len(req.Turns) == 0 {
		return "", nil
	}

	stream, err := s.Stream(ctx, req)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	defer stream.Close()

	var reply strings.Builder
	for {
		frag, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", &TransportError{Err: err}
		}
		if frag.Text == "" {
			continue
		}

		if c.OnFragment != nil {
			c.OnFragment(frag)
		}
		if _, err := io.WriteString(c.Sink, frag.Text); err != nil {
			return "", fmt.Errorf("chat: write fragment: %w", err)
		}
		reply.WriteString(frag.Text)
	}

	if _, err := io.WriteString(c.Sink, "\n"); err != nil {
		return "", fmt.Errorf("chat: terminate response block: %w", err)
	}
	return reply.String(), nil
}

// RunComplete is the non-streaming variant of Run: one blocking call,
// the whole reply written to the sink at once. Same empty-conversation
// and error contracts as Run.
func (c *Consumer) RunComplete(ctx context.Context, cp Completer, req Request) (string, error) {
	if len(req.Turns) == 0 {
		return "", nil
	}

	reply, err := cp.Complete(ctx, req)
	if err != nil {
		return "", &TransportError{Err: err}
	}

	if reply != "" {
		if c.OnFragment != nil {
			c.OnFragment(Fragment{Text: reply})
		}
		if _, err := io.WriteString(c.Sink, reply); err != nil {
			return "", fmt.Errorf("chat: write response: %w", err)
		}
	}
	if _, err := io.WriteString(c.Sink, "\n"); err != nil {
		return "", fmt.Errorf("chat: terminate response block: %w", err)
	}
	return reply, nil
}
