// Copyright 2026 The Ask Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/askcli/ask/internal/config"
)

// configCmd manages the persisted configuration file.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage persisted settings",
	Long: `Manage the ask configuration file. Settings persist across invocations;
flags and environment variables override them per run.`,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), config.Path())
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return exitError(ExitConfig, "%v", err)
		}

		var value string
		switch args[0] {
		case "api_key":
			value = maskKey(cfg.APIKey)
		case "model":
			value = cfg.Model
		case "base_url":
			value = cfg.BaseURL
		case "temperature":
			value = strconv.FormatFloat(cfg.Temperature, 'g', -1, 64)
		case "token_limit":
			value = strconv.Itoa(cfg.TokenLimit)
		case "persona":
			value = cfg.Persona
		case "timeout_seconds":
			value = strconv.Itoa(cfg.TimeoutSeconds)
		default:
			return exitError(ExitConfig, "unknown config key %q", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Persist one setting",
	Long: `Persist a setting to the config file. Keys: api_key, model, base_url,
temperature, token_limit, persona, timeout_seconds.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Start from the file alone so environment overrides are not
		// accidentally persisted.
		cfg, err := config.LoadFile(config.Path())
		if err != nil {
			return exitError(ExitConfig, "%v", err)
		}

		key, value := args[0], args[1]
		switch key {
		case "api_key":
			cfg.APIKey = value
		case "model":
			cfg.Model = value
		case "base_url":
			cfg.BaseURL = value
		case "temperature":
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return exitError(ExitConfig, "temperature must be a number: %v", err)
			}
			cfg.Temperature = f
		case "token_limit":
			n, err := strconv.Atoi(value)
			if err != nil {
				return exitError(ExitConfig, "token_limit must be an integer: %v", err)
			}
			cfg.TokenLimit = n
		case "persona":
			cfg.Persona = value
		case "timeout_seconds":
			n, err := strconv.Atoi(value)
			if err != nil {
				return exitError(ExitConfig, "timeout_seconds must be an integer: %v", err)
			}
			cfg.TimeoutSeconds = n
		default:
			return exitError(ExitConfig, "unknown config key %q", key)
		}

		if err := cfg.Validate(); err != nil {
			return exitError(ExitConfig, "%v", err)
		}
		if err := config.Save(cfg); err != nil {
			return exitError(ExitConfig, "%v", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s to %s\n", key, config.Path())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}
