// Copyright 2026 The Ask Authors
// SPDX-License-Identifier: MIT

// Package chat implements the conversation core: the token-budget window
// manager, the streaming response consumer, and the interactive session
// loop. It owns no I/O policy beyond an injected sink and performs no
// process termination; errors surface as typed values for the CLI layer.
package chat

// Role tags a turn's author.
type Role string

// Roles understood by the chat-completions protocol.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in a conversation. Immutable once created; the
// ordered sequence of turns is the model's context, so order matters.
type Turn struct {
	Role    Role
	Content string

	// Name optionally identifies the participant. Named turns cost extra
	// tokens on the wire, which the window manager accounts for.
	Name string
}

// System returns a system turn.
func System(content string) Turn {
	return Turn{Role: RoleSystem, Content: content}
}

// User returns a user turn.
func User(content string) Turn {
	return Turn{Role: RoleUser, Content: content}
}

// Assistant returns an assistant turn.
func Assistant(content string) Turn {
	return Turn{Role: RoleAssistant, Content: content}
}
