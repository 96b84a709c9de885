// Copyright 2026 The Ask Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/askcli/ask/internal/chat"
	"github.com/askcli/ask/internal/config"
	"github.com/askcli/ask/internal/models"
)

var modelsRefresh bool

// modelsCmd lists the models the endpoint serves, from the local cache
// when it is fresh.
var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List available models",
	Long:  "List the model ids the endpoint serves. The catalog is cached locally for a day.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return exitError(ExitConfig, "%v", err)
		}
		if cfg.APIKey == "" {
			return exitError(ExitConfig,
				"API key not found. Set %s, or run: ask config set api_key <key>", config.EnvAPIKey)
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

		catalog := models.NewCatalog(config.StateDir(), client)

		var ids []string
		if modelsRefresh {
			ids, err = catalog.Refresh(ctx)
		} else {
			ids, err = catalog.Models(ctx)
		}
		if err != nil {
			return exitError(ExitRequest, "list models: %v", err)
		}
		for _, id := range ids {
			fmt.Fprintln(cmd.OutOrStdout(), id)
		}
		return nil
	},
}

func init() {
	modelsCmd.Flags().BoolVar(&modelsRefresh, "refresh", false, "refetch the catalog even if the cache is fresh")
}
