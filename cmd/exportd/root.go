package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "exportd",
	Short: "SchoolPulse Exportd - attendance export service for BI tools",
	Long: `SchoolPulse Exportd exposes the daily school attendance dataset over
a single HTTP endpoint, GET /export.

Callers filter by district, block, cluster, school management, school type,
and geography, and receive the result set as a CSV download or a JSON array.
An optional static API key protects the endpoint.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "exportd.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
