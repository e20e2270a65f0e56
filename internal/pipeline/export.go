// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/pdiddy/litrank/pkg/types"
)

// csvHeader is the export column order. Rank order is the row order.
var csvHeader = []string{"Title", "Abstract", "Year", "URL", "Similarity"}

// WriteCSV writes the ranked results as a flat table, one row per
// paper, preserving rank order.
func WriteCSV(w io.Writer, results []types.ScoredPaper) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, r := range results {
		row := []string{
			r.Paper.Title,
			r.Paper.Abstract,
			strconv.Itoa(r.Paper.Year),
			r.Paper.URL,
			strconv.FormatFloat(float64(r.Similarity), 'f', 4, 32),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
