package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestRootHelp(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"--help"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("root --help failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "command-line client") {
		t.Errorf("root help missing description, got:\n%s", out)
	}
	for _, sub := range []string{"version", "tokens", "models", "config"} {
		if !strings.Contains(out, sub) {
			t.Errorf("root help missing %s subcommand, got:\n%s", sub, out)
		}
	}
}

func TestGlobalFlags(t *testing.T) {
	for _, name := range []string{"verbose", "quiet", "no-color", "logfile"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("global flag --%s not registered", name)
		}
	}

	v := rootCmd.PersistentFlags().ShorthandLookup("v")
	if v == nil || v.Name != "verbose" {
		t.Error("-v shorthand not registered for --verbose")
	}
}

func TestChatFlags(t *testing.T) {
	tests := []struct {
		name      string
		shorthand string
	}{
		{"token", "t"},
		{"model", "m"},
		{"temperature", "T"},
		{"token-limit", "l"},
		{"continue", "c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := rootCmd.Flags().Lookup(tt.name)
			if f == nil {
				t.Fatalf("flag --%s not registered", tt.name)
			}
			if f.Shorthand != tt.shorthand {
				t.Errorf("flag --%s shorthand = %q, want %q", tt.name, f.Shorthand, tt.shorthand)
			}
		})
	}

	registered := map[string]bool{}
	rootCmd.Flags().VisitAll(func(f *pflag.Flag) {
		registered[f.Name] = true
	})
	for _, name := range []string{"no-stream", "timeout", "persona", "no-persona", "preserve-system", "transcript", "no-validate"} {
		if !registered[name] {
			t.Errorf("flag --%s not registered", name)
		}
	}
}

func TestQuestion_FromArgs(t *testing.T) {
	got, err := question([]string{"What", "is", "Go?"}, nil)
	if err != nil {
		t.Fatalf("question: %v", err)
	}
	if got != "What is Go?" {
		t.Errorf("question = %q, want %q", got, "What is Go?")
	}
}

func TestAskError_ExitCodes(t *testing.T) {
	// Transport failures and other runtime errors exit 2; the CLI layer
	// decides presentation, the core only supplies typed errors.
	err := askError(errStub("boom"))
	ece, ok := err.(*exitCodeError)
	if !ok {
		t.Fatalf("askError returned %T, want *exitCodeError", err)
	}
	if ece.ExitCode() != ExitRequest {
		t.Errorf("exit code = %d, want %d", ece.ExitCode(), ExitRequest)
	}
}

type errStub string

func (e errStub) Error() string { return string(e) }
