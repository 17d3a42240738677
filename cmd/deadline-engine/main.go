// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the deadline-engine CLI.
// Implements: prd101-scanning, prd102-normalization, prd103-lifecycle,
//             prd104-persistence, prd105-text-fetch (CLI surface).
// See docs/ARCHITECTURE § Pipeline Interface, § Project Structure.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/deadline-engine/internal/secrets"
	"github.com/pdiddy/deadline-engine/internal/store"
	"github.com/pdiddy/deadline-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the deadline-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "deadline-engine",
	Short: "Track contractual obligations and their due dates",
	Long: `deadline-engine scans extracted contract text for calendar-date mentions,
normalizes confirmed candidates into canonical dates, and keeps each
tracked deadline's lifecycle status current as time passes.

Each stage is a subcommand: scan finds date candidates in text, dates
manages tracked deadlines, reconcile refreshes every stored status in
one batch pass, and export writes the full deadline set to YAML or
JSON. The surrounding product composes these from its request and
scheduling layers.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			fmt.Fprintf(os.Stderr, "Loaded %d secret(s)\n", len(s))
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./deadline-engine.yaml or ~/.config/deadline-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("deadline-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "deadline-engine"))
		}
	}

	viper.SetEnvPrefix("DEADLINE_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// openStore opens the deadline store using the --data-dir flag, falling
// back to the store.data_dir config key.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	if dataDir == "" {
		dataDir = viper.GetString("store.data_dir")
	}
	return store.NewStore(types.StoreConfig{DataDir: dataDir})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
