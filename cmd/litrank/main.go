// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the litrank CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/litrank/internal/embed"
	"github.com/pdiddy/litrank/internal/pipeline"
	"github.com/pdiddy/litrank/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback if non-empty, otherwise the secret
// value for key if one was loaded.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the litrank CLI.
var rootCmd = &cobra.Command{
	Use:   "litrank",
	Short: "Find and rank scientific papers relevant to a research idea",
	Long: `litrank queries academic APIs (Semantic Scholar, arXiv, PubMed) for papers
matching a free-text research idea, embeds the idea and each paper with a
local model, and ranks the papers by semantic similarity.

Results within one session are cached, so repeating a query re-displays the
same ranking without touching the network.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./litrank.yaml or ~/.config/litrank/config.yaml)")
}

func initConfig() {
	// A .env file is optional; absence is not an error.
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("litrank")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "litrank"))
		}
	}

	viper.SetDefault("sources.scholargraph", true)
	viper.SetDefault("sources.arxiv", true)
	viper.SetDefault("sources.pubmed", true)
	viper.SetDefault("search.per_source", pipeline.DefaultResultsPerSource)
	viper.SetDefault("embed.url", embed.DefaultBaseURL)
	viper.SetDefault("embed.model", embed.DefaultModel)
	viper.SetDefault("embed.dimensions", embed.DefaultDimensions)

	viper.SetEnvPrefix("LITRANK")
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
