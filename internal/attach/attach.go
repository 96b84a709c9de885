// Copyright 2026 The Ask Authors
// SPDX-License-Identifier: MIT

// Package attach expands @file references in prompt text into fenced
// file content, so "summarize @notes.txt" carries the file along with
// the question.
package attach

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode"
)

const (
	// maxFileSize caps how much of a referenced file is attached.
	maxFileSize = 10 * 1024

	// sniffLen is how many leading bytes are inspected to decide
	// whether a file is plain text.
	sniffLen = 512
)

// Expand replaces each @file reference in input with the file's content
// in a fenced block. References to missing or binary files become
// bracketed placeholders so the model sees what the user intended.
// Input without references is returned unchanged.
func Expand(input string) string {
	if !strings.Contains(input, "@") {
		return input
	}

	var out strings.Builder
	rest := input
	for {
		at := findRefStart(rest)
		if at < 0 {
			out.WriteString(rest)
			return out.String()
		}

		out.WriteString(rest[:at])
		name, advance := parseFilename(rest[at+1:])
		if name == "" {
			out.WriteString(rest[at : at+1])
			rest = rest[at+1:]
			continue
		}
		out.WriteString(replacement(name))
		rest = rest[at+1+advance:]
	}
}

// findRefStart returns the index of the next '@' that can open a file
// reference: at the start of the string or after whitespace or an
// opening bracket.
func findRefStart(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] != '@' {
			continue
		}
		if i == 0 {
			return i
		}
		prev := rune(s[i-1])
		if unicode.IsSpace(prev) || prev == '(' || prev == '[' || prev == '{' {
			return i
		}
	}
	return -1
}

// parseFilename extracts the filename following an '@'. It handles
// quoted names and stops unquoted names at whitespace or sentence
// punctuation. Returns the name and how many bytes were consumed.
func parseFilename(s string) (string, int) {
	if s == "" {
		return "", 0
	}

	if s[0] == '"' || s[0] == '\'' {
		quote := s[0]
		end := strings.IndexByte(s[1:], quote)
		if end < 0 {
			return strings.TrimRight(s[1:], "\"'`"), len(s)
		}
		return s[1 : 1+end], end + 2
	}

	end := len(s)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unicode.IsSpace(rune(c)) || c == '?' || c == '!' || c == ';' || c == ',' || c == ')' || c == '}' {
			end = i
			break
		}
		// A period ends the reference only at end of sentence, so
		// extensions like .txt still parse.
		if c == '.' && (i+1 >= len(s) || unicode.IsSpace(rune(s[i+1]))) {
			end = i
			break
		}
	}
	name := strings.TrimRight(s[:end], "\"'`")
	return name, end
}

func replacement(name string) string {
	info, err := os.Stat(name)
	if err != nil {
		slog.Warn("referenced file not found", "file", name)
		return fmt.Sprintf("[File not found: %s]", name)
	}
	if info.Size() > maxFileSize {
		slog.Warn("referenced file too large", "file", name, "size", info.Size())
		return fmt.Sprintf("[Error: Could not read %s]", name)
	}

	data, err := os.ReadFile(name)
	if err != nil {
		slog.Warn("referenced file unreadable", "file", name, "error", err)
		return fmt.Sprintf("[Error: Could not read %s]", name)
	}
	if !isPlainText(data) {
		slog.Warn("referenced file is not plain text", "file", name)
		return fmt.Sprintf("[File not found: %s]", name)
	}

	slog.Debug("attached file content", "file", name, "bytes", len(data))
	return fmt.Sprintf("\nFile: %s\n```\n%s\n```", name, data)
}

// isPlainText sniffs the leading bytes: any NUL, or more than 5%
// control characters, marks the file as binary.
func isPlainText(data []byte) bool {
	n := len(data)
	if n == 0 {
		return true
	}
	if n > sniffLen {
		n = sniffLen
	}

	var control int
	for _, b := range data[:n] {
		if b == 0 {
			return false
		}
		if b < 32 && b != '\n' && b != '\r' && b != '\t' {
			control++
		}
	}
	return control <= n/20
}
