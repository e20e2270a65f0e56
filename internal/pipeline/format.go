// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/litrank/internal/rank"
)

// FormatTable writes the ranking as a human-readable table to w.
func FormatTable(out Output, w io.Writer) {
	if len(out.Results) == 0 {
		fmt.Fprintln(w, "No papers found in the selected year range.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-6s  %-7s  %-4s  %-60s  %s\n",
		"Rank", "Score", "Tier", "Year", "Title", "Source")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for i, r := range out.Results {
		title := r.Paper.Title
		if len(title) > 60 {
			title = title[:57] + "..."
		}
		fmt.Fprintf(w, "%-4d  %-6.2f  %-7s  %-4d  %-60s  %s\n",
			i+1, r.Similarity, r.Tier, r.Paper.Year, title, r.Paper.Source)
	}

	fmt.Fprintf(w, "\n%d papers\n", len(out.Results))
}

// FormatDetailed writes the ranking as one block per paper, with the
// query keywords emphasized in title and abstract.
func FormatDetailed(out Output, keywords []string, w io.Writer) {
	if len(out.Results) == 0 {
		fmt.Fprintln(w, "No papers found in the selected year range.")
		return
	}

	for i, r := range out.Results {
		title := rank.Highlight(r.Paper.Title, keywords)
		abstract := rank.Highlight(r.Paper.Abstract, keywords)
		if len(abstract) > 1000 {
			abstract = abstract[:1000] + "..."
		}

		fmt.Fprintf(w, "%d. %s (%d)\n", i+1, title, r.Paper.Year)
		fmt.Fprintf(w, "   similarity %.2f (%s)  %s  %s\n", r.Similarity, r.Tier, r.Paper.Source, r.Paper.URL)
		fmt.Fprintf(w, "   %s\n\n", abstract)
	}

	fmt.Fprintf(w, "%d papers\n", len(out.Results))
}

// FormatJSON writes the ranking as indented JSON to w.
func FormatJSON(out Output, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out.Results)
}
