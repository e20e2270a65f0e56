// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/litrank/internal/cache"
	"github.com/pdiddy/litrank/internal/pipeline"
	"github.com/pdiddy/litrank/pkg/types"
)

const (
	defaultTimeout      = 10 * time.Second
	defaultEmbedTimeout = 30 * time.Second
	defaultUserAgent    = "litrank/0.1"
)

var searchCmd = &cobra.Command{
	Use:   "search \"<research idea>\"",
	Short: "Search academic APIs and rank papers by relevance",
	Long: `Search queries every enabled source for papers matching the research idea,
keeps papers published inside the year range, and ranks them by semantic
similarity to the idea. Papers without an abstract or a publication year
are dropped.

A source that fails is reported as a warning and contributes no papers;
the remaining sources still produce a ranking.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Int("from-year", 0, "earliest publication year to keep (inclusive)")
	searchCmd.Flags().Int("to-year", 0, "latest publication year to keep (inclusive; default: current year)")
	searchCmd.Flags().Int("per-source", 0, "results requested from each source (5-100, default 20)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().Bool("show-abstracts", false, "show abstracts with query keywords emphasized")
	searchCmd.Flags().String("csv", "", "export ranked results to a CSV file")
	searchCmd.Flags().String("save", "", "save the full pass to a YAML result file")
	searchCmd.Flags().Duration("timeout", 0, "HTTP request timeout for source APIs (default 10s)")
	searchCmd.Flags().String("ollama-url", "", "embedding service base URL")
	searchCmd.Flags().String("model", "", "embedding model identifier")
	searchCmd.Flags().Bool("no-scholargraph", false, "disable the Semantic Scholar source")
	searchCmd.Flags().Bool("no-arxiv", false, "disable the arXiv source")
	searchCmd.Flags().Bool("no-pubmed", false, "disable the PubMed source")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	idea := args[0]

	fromYear, _ := cmd.Flags().GetInt("from-year")
	toYear, _ := cmd.Flags().GetInt("to-year")
	if toYear == 0 {
		toYear = time.Now().Year()
	}
	perSource, _ := cmd.Flags().GetInt("per-source")
	if perSource == 0 {
		perSource = viper.GetInt("search.per_source")
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	showAbstracts, _ := cmd.Flags().GetBool("show-abstracts")
	csvPath, _ := cmd.Flags().GetString("csv")
	savePath, _ := cmd.Flags().GetString("save")

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	ollamaURL, _ := cmd.Flags().GetString("ollama-url")
	if ollamaURL == "" {
		ollamaURL = viper.GetString("embed.url")
	}
	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		model = viper.GetString("embed.model")
	}

	noScholarGraph, _ := cmd.Flags().GetBool("no-scholargraph")
	noArxiv, _ := cmd.Flags().GetBool("no-arxiv")
	noPubMed, _ := cmd.Flags().GetBool("no-pubmed")

	cfg := types.PipelineConfig{
		Source: types.SourceConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   timeout,
				UserAgent: defaultUserAgent,
			},
			ResultsPerSource:   perSource,
			EnableScholarGraph: viper.GetBool("sources.scholargraph") && !noScholarGraph,
			EnableArxiv:        viper.GetBool("sources.arxiv") && !noArxiv,
			EnablePubMed:       viper.GetBool("sources.pubmed") && !noPubMed,
			ScholarGraphAPIKey: secretDefault("scholargraph-api-key", viper.GetString("scholargraph_api_key")),
			EntrezAPIKey:       secretDefault("entrez-api-key", viper.GetString("entrez_api_key")),
		},
		Embed: types.EmbedConfig{
			BaseURL:    ollamaURL,
			Model:      model,
			Dimensions: viper.GetInt("embed.dimensions"),
			Timeout:    defaultEmbedTimeout,
		},
	}

	store, err := cache.NewStore()
	if err != nil {
		return fmt.Errorf("opening session cache: %w", err)
	}
	defer store.Close()

	p := pipeline.New(cfg, store, os.Stderr)

	q := types.Query{
		Text:             idea,
		StartYear:        fromYear,
		EndYear:          toYear,
		ResultsPerSource: perSource,
	}
	out, err := p.SearchAndRank(cmd.Context(), q)
	if err != nil {
		return err
	}

	switch {
	case asJSON:
		if err := pipeline.FormatJSON(out, os.Stdout); err != nil {
			return err
		}
	case showAbstracts:
		pipeline.FormatDetailed(out, strings.Fields(idea), os.Stdout)
	default:
		pipeline.FormatTable(out, os.Stdout)
	}

	if csvPath != "" && len(out.Results) > 0 {
		f, err := os.Create(csvPath)
		if err != nil {
			return fmt.Errorf("creating CSV file: %w", err)
		}
		if err := pipeline.WriteCSV(f, out.Results); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Exported %d papers to %s\n", len(out.Results), csvPath)
	}

	if savePath != "" {
		if err := pipeline.WriteResultFile(savePath, q, out); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved results to %s\n", savePath)
	}

	return nil
}
