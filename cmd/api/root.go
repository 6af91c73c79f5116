// ABOUTME: Root cobra command and shared flags
// ABOUTME: Loads configuration and the logger for every subcommand

package main

import (
	"fmt"
	"os"

	"hackerhome-api/infrastructure/logger"
	"hackerhome-api/pkg/config"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

var flagEnvFile string

var rootCmd = &cobra.Command{
	Use:           "hackerhome",
	Short:         "Developer news aggregator API",
	Long:          "hackerhome serves paginated, cached and searchable feeds from Hacker News, DEV, GitHub, Product Hunt and Medium.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "hackerhome %s (commit: %s)\n", version, commit)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: ")+err.Error())
		os.Exit(1)
	}
}

// loadConfig reads the configuration and builds the logger from it
func loadConfig() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(flagEnvFile)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, logger.New(cfg.Log), nil
}
