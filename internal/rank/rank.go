// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"math"
	"sort"

	"github.com/pdiddy/litrank/pkg/types"
)

// CosineSimilarity computes the cosine similarity between two vectors.
// Returns a value between -1 and 1, where 1 means identical direction.
// Mismatched or empty inputs score 0.
func CosineSimilarity(a, b types.Vector) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float32
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	denominator := float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB)))
	if denominator == 0 {
		return 0
	}

	return dot / denominator
}

// Rank scores each paper against the query vector and returns the pairs
// sorted by similarity descending. The sort is stable, so papers with
// equal scores keep their concatenation order and repeat runs produce
// identical output. paperVectors[i] must be the embedding of papers[i].
func Rank(queryVector types.Vector, papers []types.Paper, paperVectors []types.Vector) []types.ScoredPaper {
	scored := make([]types.ScoredPaper, 0, len(papers))
	for i, p := range papers {
		var v types.Vector
		if i < len(paperVectors) {
			v = paperVectors[i]
		}
		sim := CosineSimilarity(queryVector, v)
		scored = append(scored, types.ScoredPaper{
			Similarity: sim,
			Tier:       types.TierFor(sim),
			Paper:      p,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})

	return scored
}
