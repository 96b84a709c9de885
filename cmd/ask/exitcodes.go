package main

import "fmt"

// Exit codes for the ask CLI.
const (
	ExitOK      = 0 // Question answered (or nothing to do).
	ExitConfig  = 1 // Invalid arguments or configuration.
	ExitRequest = 2 // The exchange with the endpoint failed.
)

// exitCodeError carries a non-zero exit code through cobra's error handling.
type exitCodeError struct {
	code int
	msg  string
}

func (e *exitCodeError) Error() string { return e.msg }

// ExitCode returns the exit code for this error.
func (e *exitCodeError) ExitCode() int { return e.code }

// exitError creates an exitCodeError.
func exitError(code int, format string, args ...any) *exitCodeError {
	return &exitCodeError{code: code, msg: fmt.Sprintf(format, args...)}
}
