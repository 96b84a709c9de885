// Copyright 2026 The Ask Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/askcli/ask/internal/attach"
	"github.com/askcli/ask/internal/chat"
	"github.com/askcli/ask/internal/config"
	asklog "github.com/askcli/ask/internal/log"
	"github.com/askcli/ask/internal/models"
	"github.com/askcli/ask/internal/persona"
	"github.com/askcli/ask/internal/tokenizer"
	"github.com/askcli/ask/internal/transcript"
)

// Global flag values.
var (
	verbose bool
	quiet   bool
	noColor bool
	logFile string
)

// Chat flag values.
var (
	flagToken          string
	flagModel          string
	flagTemperature    float64
	flagTokenLimit     int
	flagContinue       bool
	flagNoStream       bool
	flagTimeout        int
	flagPersona        string
	flagNoPersona      bool
	flagPreserveSystem bool
	flagTranscript     bool
	flagNoValidate     bool
)

// rootCmd is the base command: it sends the question and streams the answer.
var rootCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question from your terminal",
	Long: `Ask is a command-line client for a chat-completion API. It sends your
question (from arguments or stdin), streams the reply token-by-token, and
with --continue keeps the conversation going until you type 'exit'.

Prior turns are kept within the model's token budget: once the estimated
cost exceeds the limit, the oldest turns are dropped before each request.

Reference files inline with @: ask "explain @main.go"`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		setupLogging()
		if noColor {
			color.NoColor = true
		}
	},
	RunE: runAsk,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	pf.BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	pf.BoolVar(&noColor, "no-color", false, "disable colored output")
	pf.StringVar(&logFile, "logfile", "", "write logs to a file instead of stderr")

	f := rootCmd.Flags()
	f.StringVarP(&flagToken, "token", "t", "", "API key for this invocation")
	f.StringVarP(&flagModel, "model", "m", "", "model to use")
	f.Float64VarP(&flagTemperature, "temperature", "T", config.DefaultTemperature, "sampling temperature (0.0-2.0)")
	f.IntVarP(&flagTokenLimit, "token-limit", "l", config.DefaultTokenLimit, "conversation token budget")
	f.BoolVarP(&flagContinue, "continue", "c", false, "keep the conversation open for more input")
	f.BoolVar(&flagNoStream, "no-stream", false, "wait for the complete response instead of streaming")
	f.IntVar(&flagTimeout, "timeout", 0, "per-request timeout in seconds (0 = transport default)")
	f.StringVar(&flagPersona, "persona", "", "persona setting the assistant's behavior")
	f.BoolVar(&flagNoPersona, "no-persona", false, "send no system prompt")
	f.BoolVar(&flagPreserveSystem, "preserve-system", true, "protect the system prompt from token-budget eviction")
	f.BoolVar(&flagTranscript, "transcript", false, "save the finished conversation to the state directory")
	f.BoolVar(&flagNoValidate, "no-validate", false, "skip model validation against the endpoint's catalog")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(tokensCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(configCmd)
}

func setupLogging() {
	if logFile == "" {
		asklog.Setup(verbose, quiet)
		return
	}
	f, err := os.OpenFile(logFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		asklog.Setup(verbose, quiet)
		slog.Warn("cannot open log file, logging to stderr", "file", logFile, "error", err)
		return
	}
	asklog.SetupWriter(f, verbose, quiet)
}

// loadConfig resolves file, environment, and flag layers into the
// immutable configuration the core receives.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}

	f := cmd.Flags()
	if flagToken != "" {
		cfg.APIKey = flagToken
	}
	if flagModel != "" {
		cfg.Model = flagModel
	}
	if f.Changed("temperature") {
		cfg.Temperature = flagTemperature
	}
	if f.Changed("token-limit") {
		cfg.TokenLimit = flagTokenLimit
	}
	if f.Changed("timeout") {
		cfg.TimeoutSeconds = flagTimeout
	}
	if flagPersona != "" {
		cfg.Persona = flagPersona
	}
	if cfg.Persona == "" {
		cfg.Persona = persona.DefaultName
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// question assembles the initial question from argv, falling back to
// piped stdin.
func question(args []string, stdin *os.File) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	info, err := stdin.Stat()
	if err != nil || info.Mode()&os.ModeCharDevice != 0 {
		// Interactive terminal with no argv question.
		return "", nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return exitError(ExitConfig, "%v", err)
	}
	if cfg.APIKey == "" {
		return exitError(ExitConfig,
			"API key not found. Set %s, or run: ask config set api_key <key>", config.EnvAPIKey)
	}

	initial, err := question(args, os.Stdin)
	if err != nil {
		return exitError(ExitConfig, "%v", err)
	}
	if initial == "" && !flagContinue {
		printUsageHint(cmd.OutOrStdout())
		return nil
	}

	client, err := chat.NewClient(cfg.APIKey,
		chat.WithBaseURL(cfg.BaseURL),
		chat.WithTimeout(cfg.Timeout()),
	)
	if err != nil {
		return exitError(ExitConfig, "%v", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if !flagNoValidate {
		warnUnknownModel(ctx, client, cfg.Model, cmd.ErrOrStderr())
	}

	book, err := persona.Load(persona.DefaultPath(config.Dir()))
	if err != nil {
		return exitError(ExitConfig, "%v", err)
	}

	budget := chat.DefaultBudget(cfg.TokenLimit)
	budget.PreserveSystem = flagPreserveSystem

	session := &chat.Session{
		Streamer:    client,
		Completer:   client,
		Counter:     tokenizer.NewCounter(),
		Budget:      budget,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		Streaming:   !flagNoStream,
		Sink:        cmd.OutOrStdout(),
		Notify:      cmd.ErrOrStderr(),
		Expand:      attach.Expand,
	}

	if !flagNoPersona {
		p, ok := book[cfg.Persona]
		if !ok {
			return exitError(ExitConfig, "unknown persona %q (available: %s)",
				cfg.Persona, strings.Join(persona.Names(book), ", "))
		}
		session.SetSystem(p.Prompt(flagContinue))
	}

	sp := newSpinner(cmd.ErrOrStderr())
	session.OnCycleStart = sp.Start
	session.OnCycleEnd = sp.Stop
	session.OnFragment = func(chat.Fragment) { sp.Stop() }

	if flagContinue {
		prompt := color.New(color.FgCyan)
		session.Prompt = func() { prompt.Fprint(cmd.ErrOrStderr(), "> ") }
	}

	err = runSession(ctx, session, initial)

	if flagTranscript {
		saveTranscript(session, cfg.Model, cmd.ErrOrStderr())
	}
	return err
}

func runSession(ctx context.Context, session *chat.Session, initial string) error {
	if !flagContinue {
		if _, err := session.Ask(ctx, initial); err != nil {
			return askError(err)
		}
		return nil
	}

	if initial == "" {
		fmt.Fprintln(session.Notify, "Starting conversation mode...")
	}
	fmt.Fprintln(session.Notify, "Type 'exit' to quit, 'status' for conversation info, or 'help' for commands.")

	if err := session.RunInteractive(ctx, os.Stdin, initial); err != nil {
		return askError(err)
	}
	return nil
}

// askError maps core errors onto exit codes.
func askError(err error) error {
	var te *chat.TransportError
	if errors.As(err, &te) {
		return exitError(ExitRequest, "request failed: %v", te.Err)
	}
	if errors.Is(err, tokenizer.ErrUnsupportedModel) {
		return exitError(ExitConfig, "%v", err)
	}
	return exitError(ExitRequest, "%v", err)
}

func warnUnknownModel(ctx context.Context, client *chat.Client, model string, w io.Writer) {
	catalog := models.NewCatalog(config.StateDir(), client)
	ok, suggestions, err := catalog.Validate(ctx, model)
	if err != nil {
		slog.Warn("model validation skipped", "error", err)
		return
	}
	if ok {
		return
	}
	warn := color.New(color.FgYellow)
	warn.Fprintf(w, "Model %q is not in the endpoint's catalog.\n", model)
	if len(suggestions) > 0 {
		warn.Fprintf(w, "Did you mean: %s?\n", strings.Join(suggestions, ", "))
	}
}

func saveTranscript(session *chat.Session, model string, w io.Writer) {
	turns := session.Turns()
	if len(turns) == 0 {
		return
	}
	tr := transcript.New(model)
	tr.Record(turns)
	path, err := transcript.Save(config.StateDir(), tr)
	if err != nil {
		slog.Warn("transcript not saved", "error", err)
		return
	}
	fmt.Fprintf(w, "Transcript saved to %s\n", path)
}

func printUsageHint(w io.Writer) {
	fmt.Fprintln(w, "No input provided. Usage examples:")
	fmt.Fprintln(w, `  ask "What is the capital of France?"`)
	fmt.Fprintln(w, `  ask -c "Let's have a conversation"`)
	fmt.Fprintln(w, "  ask --help")
}
