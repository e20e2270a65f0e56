// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the litrank pipeline.
package types

// Source identifies the external literature API a paper came from.
type Source string

const (
	SourceScholarGraph Source = "scholargraph"
	SourceArxivFeed    Source = "arxiv"
	SourcePubMedEntrez Source = "pubmed"
)

// Paper is the normalized record every stage of the pipeline operates on.
// Adapters map their source schema into this shape; the aggregator drops
// records that lack an abstract or a publication year.
type Paper struct {
	// Title is the paper title as returned by the source.
	Title string `json:"title" yaml:"title"`

	// Abstract is the paper abstract or summary.
	Abstract string `json:"abstract" yaml:"abstract"`

	// URL is the canonical link to the paper's page at the source.
	URL string `json:"url" yaml:"url"`

	// Year is the publication year. Zero means the source did not report one.
	Year int `json:"year" yaml:"year"`

	// Source records which adapter produced this record, for traceability.
	Source Source `json:"source" yaml:"source"`
}

// Vector is a fixed-dimensional text embedding.
type Vector []float32

// Tier buckets a similarity score for display. It never affects
// filtering or ordering.
type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

// ScoredPaper pairs a paper with its similarity to the query. Produced
// once per ranking pass; the slice order is the ranking.
type ScoredPaper struct {
	// Similarity is the cosine similarity to the query, in [-1, 1].
	Similarity float32 `json:"similarity" yaml:"similarity"`

	// Tier is the display bucket derived from Similarity.
	Tier Tier `json:"tier" yaml:"tier"`

	Paper Paper `json:"paper" yaml:"paper"`
}

// TierFor maps a similarity score to its display tier.
func TierFor(similarity float32) Tier {
	switch {
	case similarity >= 0.75:
		return TierHigh
	case similarity >= 0.4:
		return TierMedium
	default:
		return TierLow
	}
}

// Query holds one search submission. Constructed fresh per submission
// and never persisted.
type Query struct {
	// Text is the research idea or keywords, trimmed and non-empty.
	Text string `json:"text" yaml:"text"`

	// StartYear and EndYear bound the publication year filter, inclusive.
	StartYear int `json:"start_year" yaml:"start_year"`
	EndYear   int `json:"end_year" yaml:"end_year"`

	// ResultsPerSource is the fetch limit passed to each adapter.
	ResultsPerSource int `json:"results_per_source" yaml:"results_per_source"`
}
