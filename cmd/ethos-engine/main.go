// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the ethos-engine CLI. Upstream
// analyzers produce analysis documents; the CLI evaluates them against the
// configured rule set, manages that configuration, and queries the
// concept store.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the ethos-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "ethos-engine",
	Short: "Ethical-compliance and coherence scoring for analyzed text",
	Long: `ethos-engine ingests pre-extracted linguistic and affective signals about a
short text and produces an ethical-compliance verdict against a configurable
rule set plus a scalar coherence score fusing compliance, linguistic
richness, and concept density.

Each operation is a subcommand: evaluate scores one analysis document,
rules validates and inspects the rule set, and concepts queries the
persisted concept frequencies.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./ethos-engine.yaml or ~/.config/ethos-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("ethos-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "ethos-engine"))
		}
	}

	viper.SetEnvPrefix("ETHOS_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// configPath resolves the engine config file: the --config flag when set,
// otherwise the file viper discovered, otherwise ./ethos-engine.yaml.
func configPath() string {
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		return cfgFile
	}
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return "ethos-engine.yaml"
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
