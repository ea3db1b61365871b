package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"schoolpulse/exportd/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Validate a configuration file without starting the server.

Defaults and SCHOOLPULSE_* environment overrides are applied before
validation, matching what "exportd run" would load.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := config.LoadConfigWithEnvOverrides(cfgFile); err != nil {
			return err
		}
		fmt.Printf("✓ %s is valid\n", cfgFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
