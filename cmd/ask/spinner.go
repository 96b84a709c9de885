// Copyright 2026 The Ask Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"
)

// spinnerInterval is the frame rate of the waiting spinner.
const spinnerInterval = 100 * time.Millisecond

var spinnerFrames = []string{"|", "/", "-", "\\"}

// spinner shows a small animation on w from the moment a request is
// sent until the first token arrives. Disabled when color output is off
// (non-terminal stderr, --no-color) so piped output stays clean.
type spinner struct {
	w io.Writer

	mu      sync.Mutex
	stop    chan struct{}
	done    *sync.WaitGroup
	running bool
}

func newSpinner(w io.Writer) *spinner {
	return &spinner{w: w}
}

// Start begins the animation. Safe to call while already running.
func (s *spinner) Start() {
	if color.NoColor {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stop = make(chan struct{})
	s.done = &sync.WaitGroup{}
	s.done.Add(1)

	go func(stop chan struct{}, done *sync.WaitGroup) {
		defer done.Done()
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()

		frame := 0
		for {
			select {
			case <-stop:
				fmt.Fprint(s.w, "\r \r")
				return
			case <-ticker.C:
				fmt.Fprintf(s.w, "\r%s", spinnerFrames[frame%len(spinnerFrames)])
				frame++
			}
		}
	}(s.stop, s.done)
}

// Stop ends the animation and clears the spinner character. Idempotent;
// called both on first token and at cycle end.
func (s *spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stop)
	done := s.done
	s.mu.Unlock()

	done.Wait()
}
