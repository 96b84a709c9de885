// Copyright 2026 The Ask Authors
// SPDX-License-Identifier: MIT

package chat

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
)

// ExitCommand ends an interactive session. Matched exactly, case
// sensitive, and never sent as a turn.
const ExitCommand = "exit"

// Local commands answered by the session itself (original conversation
// mode surface). Like ExitCommand, they never reach the endpoint.
const (
	statusCommand = "status"
	helpCommand   = "help"
)

// maxInputLine bounds a single line of operator input.
const maxInputLine = 1 << 20

// Session owns one conversation and drives repeated window-trim plus
// stream-consume cycles over it. Strictly sequential: no two exchanges
// for the same conversation run concurrently, and operator input is not
// read while a stream is in flight.
type Session struct {
	// Streamer performs streaming exchanges. Required unless Streaming
	// is false.
	Streamer Streamer

	// Completer performs whole-reply exchanges when Streaming is false.
	Completer Completer

	// Counter estimates token costs for the window manager.
	Counter TokenCounter

	// Budget is the conversation token budget.
	Budget Budget

	Model       string
	Temperature float64

	// Streaming selects delta streaming (default CLI behavior) or a
	// single blocking completion per cycle.
	Streaming bool

	// Sink receives assistant text. Must support immediate writes;
	// interactivity depends on it being unbuffered.
	Sink io.Writer

	// Notify receives user-facing notices: failed-cycle reports, the
	// status and help command output. Typically stderr.
	Notify io.Writer

	// Prompt, if set, is invoked before each interactive read.
	Prompt func()

	// Expand, if set, rewrites operator input before it becomes a turn
	// (file-reference attachment).
	Expand func(string) string

	// OnCycleStart and OnCycleEnd bracket each exchange, and OnFragment
	// observes each received fragment. The CLI uses these to run a
	// waiting spinner until the first token arrives.
	OnCycleStart func()
	OnCycleEnd   func()
	OnFragment   func(Fragment)

	turns []Turn
}

// SetSystem injects the persona system turn. Injected once at
// conversation start; subsequent calls are no-ops so the persona is
// never duplicated across cycles.
func (s *Session) SetSystem(content string) {
	if len(s.turns) > 0 && s.turns[0].Role == RoleSystem {
		return
	}
	s.turns = append([]Turn{System(content)}, s.turns...)
}

// Turns returns a copy of the conversation.
func (s *Session) Turns() []Turn {
	return slices.Clone(s.turns)
}

// Ask appends text as a user turn, runs one trim+exchange cycle, and
// appends the reply as an assistant turn.
//
// On failure no assistant turn is appended and the user turn is rolled
// back, leaving the conversation exactly as before the call: partial
// output already written to the sink stands, but the failed exchange
// contributes nothing to future context.
func (s *Session) Ask(ctx context.Context, text string) (string, error) {
	if s.Expand != nil {
		text = s.Expand(text)
	}

	mark := slices.Clone(s.turns)
	s.turns = append(s.turns, User(text))

	reply, err := s.cycle(ctx)
	if err != nil {
		s.turns = mark
		return "", err
	}

	s.turns = append(s.turns, Assistant(reply))
	return reply, nil
}

// cycle trims the conversation to budget and performs one exchange.
func (s *Session) cycle(ctx context.Context) (string, error) {
	trimmed, err := Trim(s.turns, s.Model, s.Budget, s.Counter)
	if err != nil {
		return "", err
	}
	if evicted := len(s.turns) - len(trimmed); evicted > 0 {
		slog.Debug("evicted oldest turns to fit token budget",
			"evicted", evicted, "remaining", len(trimmed))
	}
	s.turns = trimmed

	req := Request{
		Turns:       s.turns,
		Model:       s.Model,
		Temperature: s.Temperature,
	}
	if s.OnCycleStart != nil {
		s.OnCycleStart()
	}
	if s.OnCycleEnd != nil {
		defer s.OnCycleEnd()
	}
	consumer := &Consumer{Sink: s.Sink, OnFragment: s.OnFragment}
	if s.Streaming {
		return consumer.Run(ctx, s.Streamer, req)
	}
	return consumer.RunComplete(ctx, s.Completer, req)
}

// RunInteractive asks the initial question (when non-empty), then reads
// operator input one line at a time until ExitCommand or end-of-input.
// End-of-input terminates gracefully, exactly like the sentinel.
//
// Transport failures are reported to Notify and the loop continues to
// the next input; any other cycle error (an unsupported model leaves the
// window manager unable to trim) aborts the session.
func (s *Session) RunInteractive(ctx context.Context, in io.Reader, initial string) error {
	if initial != "" {
		if err := s.interactiveAsk(ctx, initial); err != nil {
			return err
		}
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxInputLine)

	for {
		if s.Prompt != nil {
			s.Prompt()
		}
		if !scanner.Scan() {
			// EOF on the operator stream is a graceful exit.
			return scanner.Err()
		}

		switch line := scanner.Text(); line {
		case ExitCommand:
			return nil
		case statusCommand:
			s.printStatus()
		case helpCommand:
			s.printHelp()
		default:
			if err := s.interactiveAsk(ctx, line); err != nil {
				return err
			}
		}
	}
}

func (s *Session) interactiveAsk(ctx context.Context, text string) error {
	_, err := s.Ask(ctx, text)
	var te *TransportError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &te):
		slog.Warn("exchange failed", "error", te.Err)
		fmt.Fprintf(s.notify(), "request failed: %v\n", te.Err)
		return nil
	default:
		return err
	}
}

func (s *Session) printStatus() {
	w := s.notify()
	fmt.Fprintln(w, "Conversation status:")
	fmt.Fprintf(w, "  Messages: %d\n", len(s.turns))
	if est, err := Estimate(s.turns, s.Model, s.Budget, s.Counter); err == nil {
		fmt.Fprintf(w, "  Approximate tokens: %d / %d\n", est, s.Budget.Limit)
	}
	fmt.Fprintf(w, "  Model: %s\n", s.Model)
	fmt.Fprintf(w, "  Temperature: %g\n", s.Temperature)
	fmt.Fprintf(w, "  Streaming: %t\n", s.Streaming)
}

func (s *Session) printHelp() {
	w := s.notify()
	fmt.Fprintln(w, "Conversation commands:")
	fmt.Fprintln(w, "  exit    - end the conversation")
	fmt.Fprintln(w, "  status  - show conversation info")
	fmt.Fprintln(w, "  help    - show this message")
	fmt.Fprintln(w, "  Anything else is sent to the assistant.")
}

func (s *Session) notify() io.Writer {
	if s.Notify != nil {
		return s.Notify
	}
	return s.Sink
}
