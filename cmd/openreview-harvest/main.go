// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the openreview-harvest CLI.
// See docs/ARCHITECTURE § Pipeline Interface, § Project Structure.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/openreview-harvest/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedCredentials holds the OpenReview login loaded from .secrets/ at
// startup.
var loadedCredentials secrets.Credentials

// credentialDefault resolves one credential: flag value first, then the
// .secrets/ key file, then the environment variable.
func credentialDefault(flag, fromFile, envKey string) string {
	if flag != "" {
		return flag
	}
	if fromFile != "" {
		return fromFile
	}
	return os.Getenv(envKey)
}

// rootCmd is the base command for the openreview-harvest CLI.
var rootCmd = &cobra.Command{
	Use:   "openreview-harvest",
	Short: "Collect ICLR paper metadata and reviews from OpenReview",
	Long: `openreview-harvest builds a JSONL dataset of ICLR submissions from the
OpenReview API: paper metadata, official reviews, meta-reviews, and
decisions, normalized across the per-year form changes from 2016 onward.

Each stage is a subcommand: collect fetches and assembles the dataset,
stats summarizes it, index builds a SQLite full-text index over it, and
query searches that index.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// .env is optional; a missing file is not an error.
		godotenv.Load()

		loadedCredentials = secrets.Load(".secrets/")
		if !loadedCredentials.IsZero() {
			fmt.Fprintln(os.Stderr, "Loaded credentials from .secrets/")
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./openreview-harvest.yaml or ~/.config/openreview-harvest/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("openreview-harvest")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "openreview-harvest"))
		}
	}

	viper.SetEnvPrefix("OPENREVIEW_HARVEST")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
