// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litrank/internal/pipeline"
)

var showCmd = &cobra.Command{
	Use:   "show <result-file>",
	Short: "Re-display a saved ranking",
	Long: `Show loads a YAML result file written by search --save and renders it
without re-querying the source APIs or re-running the embedding model.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().Bool("json", false, "output results as JSON")
	showCmd.Flags().Bool("show-abstracts", false, "show abstracts with query keywords emphasized")

	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	rf, err := pipeline.ReadResultFile(args[0])
	if err != nil {
		return err
	}

	out := pipeline.Output{Results: rf.Results}
	for _, msg := range rf.Summary.SourceErrors {
		fmt.Fprintf(os.Stderr, "warning (at save time): %s\n", msg)
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	showAbstracts, _ := cmd.Flags().GetBool("show-abstracts")

	switch {
	case asJSON:
		return pipeline.FormatJSON(out, os.Stdout)
	case showAbstracts:
		pipeline.FormatDetailed(out, strings.Fields(rf.Query.Text), os.Stdout)
	default:
		fmt.Printf("Query: %q (%d-%d)\n\n", rf.Query.Text, rf.Query.StartYear, rf.Query.EndYear)
		pipeline.FormatTable(out, os.Stdout)
	}
	return nil
}
