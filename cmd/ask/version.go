package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/askcli/ask/internal/config"
)

// versionCmd prints the ask version and the effective chat settings.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Print the version of the ask binary and the configured model settings.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "ask %s\n", Version)
		fmt.Fprintf(out, "Model: %s\n", cfg.Model)
		fmt.Fprintf(out, "Token limit: %d\n", cfg.TokenLimit)
		fmt.Fprintf(out, "API key: %s\n", maskKey(cfg.APIKey))
		return nil
	},
}

// maskKey hides all but the tail of a credential.
func maskKey(key string) string {
	switch {
	case key == "":
		return "(not set)"
	case len(key) <= 8:
		return "****"
	default:
		return "****" + key[len(key)-4:]
	}
}
