// Copyright 2026 The Ask Authors
// SPDX-License-Identifier: MIT

package chat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Client adapts the go-openai SDK to the Streamer and Completer
// contracts. It targets exactly one protocol shape: ordered role/content
// turns in, streamed delta chunks out.
type Client struct {
	api *openai.Client
}

// Compile-time checks that Client satisfies the exchange contracts.
var (
	_ Streamer  = (*Client)(nil)
	_ Completer = (*Client)(nil)
)

// ClientOption configures a Client.
type ClientOption func(*clientConfig)

type clientConfig struct {
	baseURL string
	timeout time.Duration
}

// WithBaseURL points the client at a compatible non-default endpoint.
func WithBaseURL(url string) ClientOption {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithTimeout bounds each HTTP exchange, streaming included. Zero keeps
// the transport's default behavior.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *clientConfig) {
		c.timeout = d
	}
}

// NewClient creates a client for the chat-completions API.
func NewClient(apiKey string, opts ...ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("chat: API key not set")
	}

	var cc clientConfig
	for _, o := range opts {
		o(&cc)
	}

	cfg := openai.DefaultConfig(apiKey)
	if cc.baseURL != "" {
		cfg.BaseURL = cc.baseURL
	}
	if cc.timeout > 0 {
		cfg.HTTPClient = &http.Client{Timeout: cc.timeout}
	}

	return &Client{api: openai.NewClientWithConfig(cfg)}, nil
}

// Stream opens a streaming completion. The returned stream yields one
// fragment per delta chunk; deltas without content surface as empty
// fragments, which the consumer skips.
func (c *Client) Stream(ctx context.Context, req Request) (Stream, error) {
	s, err := c.api.CreateChatCompletionStream(ctx, completionRequest(req, true))
	if err != nil {
		return nil, fmt.Errorf("open stream: %w", err)
	}
	return &openaiStream{inner: s}, nil
}

// Complete performs a blocking, non-streaming completion.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, completionRequest(req, false))
	if err != nil {
		return "", fmt.Errorf("completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("completion: response contained no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// ListModels returns the ids of all models the endpoint serves.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	list, err := c.api.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	ids := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

func completionRequest(req Request, stream bool) openai.ChatCompletionRequest {
	msgs := make([]openai.ChatCompletionMessage, 0, len(req.Turns))
	for _, t := range req.Turns {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    string(t.Role),
			Content: t.Content,
			Name:    t.Name,
		})
	}
	return openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    msgs,
		Temperature: float32(req.Temperature),
		MaxTokens:   req.MaxTokens,
		Stream:      stream,
	}
}

// openaiStream wraps the SDK stream behind the Stream contract.
type openaiStream struct {
	inner *openai.ChatCompletionStream
}

func (s *openaiStream) Recv() (Fragment, error) {
	resp, err := s.inner.Recv()
	if err != nil {
		// io.EOF passes through untouched as the end-of-stream signal.
		return Fragment{}, err
	}
	if len(resp.Choices) == 0 {
		return Fragment{}, nil
	}
	return Fragment{Text: resp.Choices[0].Delta.Content}, nil
}

func (s *openaiStream) Close() error {
	return s.inner.Close()
}
