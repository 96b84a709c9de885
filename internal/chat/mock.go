// Copyright 2026 The Ask Authors
// SPDX-License-Identifier: MIT

package chat

import (
	"context"
	"io"
	"sync"
)

// MockStream replays a scripted sequence of fragments. After the script
// is exhausted it returns FinalErr, or io.EOF when FinalErr is nil.
type MockStream struct {
	Fragments []Fragment
	FinalErr  error

	idx    int
	closed bool
}

// Compile-time check that MockStream satisfies the Stream interface.
var _ Stream = (*MockStream)(nil)

// NewMockStream builds a stream that yields texts in order and then
// terminates cleanly.
func NewMockStream(texts ...string) *MockStream {
	frags := make([]Fragment, 0, len(texts))
	for _, t := range texts {
		frags = append(frags, Fragment{Text: t})
	}
	return &MockStream{Fragments: frags}
}

// Recv returns the next scripted fragment.
func (m *MockStream) Recv() (Fragment, error) {
	if m.idx >= len(m.Fragments) {
		if m.FinalErr != nil {
			return Fragment{}, m.FinalErr
		}
		return Fragment{}, io.EOF
	}
	f := m.Fragments[m.idx]
	m.idx++
	return f, nil
}

// Close marks the stream closed.
func (m *MockStream) Close() error {
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockStream) Closed() bool {
	return m.closed
}

// MockStreamer is a test double that hands out pre-configured streams in
// sequence and records every request for later assertion. After all
// streams are exhausted it keeps returning the last one.
type MockStreamer struct {
	mu      sync.Mutex
	streams []*MockStream
	openErr error
	calls   []Request
	idx     int
}

// Compile-time check that MockStreamer satisfies the Streamer interface.
var _ Streamer = (*MockStreamer)(nil)

// NewMockStreamer creates a mock that serves the given streams in order.
func NewMockStreamer(streams ...*MockStream) *MockStreamer {
	return &MockStreamer{streams: streams}
}

// FailOpen makes every Stream call fail with err before any fragment is
// produced.
func (m *MockStreamer) FailOpen(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.openErr = err
}

// Stream records the request and returns the next scripted stream.
// It respects context cancellation.
func (m *MockStreamer) Stream(ctx context.Context, req Request) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, req)

	if m.openErr != nil {
		return nil, m.openErr
	}
	if len(m.streams) == 0 {
		return NewMockStream(), nil
	}

	s := m.streams[m.idx]
	if m.idx < len(m.streams)-1 {
		m.idx++
	}
	return s, nil
}

// Calls returns a copy of all requests received by this mock.
func (m *MockStreamer) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Request, len(m.calls))
	copy(out, m.calls)
	return out
}
