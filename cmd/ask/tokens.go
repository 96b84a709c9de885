// Copyright 2026 The Ask Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/askcli/ask/internal/chat"
	"github.com/askcli/ask/internal/config"
	"github.com/askcli/ask/internal/tokenizer"
)

var tokensModel string

// tokensCmd counts the tokens a message would cost, including the
// per-message protocol overhead, so the number matches what a request
// containing it would be billed as context.
var tokensCmd = &cobra.Command{
	Use:   "tokens [text]",
	Short: "Count the tokens in a message",
	Long: `Count the tokens the given text would cost as a single user message,
using the configured model's encoding. Reads stdin when no text is given.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return exitError(ExitConfig, "%v", err)
		}
		model := cfg.Model
		if tokensModel != "" {
			model = tokensModel
		}

		text, err := question(args, os.Stdin)
		if err != nil {
			return exitError(ExitConfig, "%v", err)
		}
		if strings.TrimSpace(text) == "" {
			return exitError(ExitConfig, "nothing to count: supply text or pipe it on stdin")
		}

		turns := []chat.Turn{chat.User(text)}
		n, err := chat.Estimate(turns, model, chat.DefaultBudget(cfg.TokenLimit), tokenizer.NewCounter())
		if err != nil {
			return exitError(ExitConfig, "%v", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), n)
		return nil
	},
}

func init() {
	tokensCmd.Flags().StringVarP(&tokensModel, "model", "m", "", "model whose encoding to use")
}
