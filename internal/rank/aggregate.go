// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank merges adapter outputs, scores papers against the query
// embedding, and orders them for presentation.
package rank

import "github.com/pdiddy/litrank/pkg/types"

// Aggregate concatenates the per-source paper lists in input order and
// drops incomplete or out-of-range records: papers without an abstract,
// without a year, or with a year outside [startYear, endYear] inclusive.
// Cross-source duplicates are kept; a paper indexed by two sources
// appears twice. An empty result is the no-results state, not an error.
func Aggregate(paperLists [][]types.Paper, startYear, endYear int) []types.Paper {
	var papers []types.Paper
	for _, list := range paperLists {
		for _, p := range list {
			if p.Abstract == "" || p.Year == 0 {
				continue
			}
			if p.Year < startYear || p.Year > endYear {
				continue
			}
			papers = append(papers, p)
		}
	}
	return papers
}
