// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs one ranking pass: fetch papers from every
// enabled source, filter them to the query's year range, embed the
// query and the surviving papers, and order papers by cosine
// similarity to the query.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/litrank/internal/cache"
	"github.com/pdiddy/litrank/internal/embed"
	"github.com/pdiddy/litrank/internal/rank"
	"github.com/pdiddy/litrank/internal/source"
	"github.com/pdiddy/litrank/pkg/types"
)

// ErrEmptyQuery rejects blank or whitespace-only submissions before any
// network call is made.
var ErrEmptyQuery = errors.New("query is empty: provide a research idea or keywords")

// ResultsPerSource bounds for one fetch.
const (
	MinResultsPerSource     = 5
	MaxResultsPerSource     = 100
	DefaultResultsPerSource = 20
)

// Output holds one ranking pass: the ordered results plus the
// per-source diagnostics collected along the way.
type Output struct {
	// Results is the ranked list, best match first. Empty when nothing
	// survived filtering; that is the no-results state, not an error.
	Results []types.ScoredPaper

	// SourceErrors lists the sources that failed this pass. A failed
	// source contributes an empty result set.
	SourceErrors []source.SourceError
}

// Pipeline wires the stages of one ranking pass together. Construct it
// once per process; the embedding model connection and the session
// cache are shared across submissions.
type Pipeline struct {
	adapters []source.Adapter
	encoder  embed.Encoder
	store    *cache.Store
	diag     io.Writer
}

// New builds a pipeline from the stage configurations. Disabled sources
// get no adapter. diag receives per-source warnings; pass io.Discard to
// silence them.
func New(cfg types.PipelineConfig, store *cache.Store, diag io.Writer) *Pipeline {
	client := &http.Client{Timeout: cfg.Source.Timeout}

	var adapters []source.Adapter
	if cfg.Source.EnableScholarGraph {
		adapters = append(adapters, &source.ScholarGraphAdapter{
			Client:    client,
			UserAgent: cfg.Source.UserAgent,
			APIKey:    cfg.Source.ScholarGraphAPIKey,
		})
	}
	if cfg.Source.EnableArxiv {
		adapters = append(adapters, &source.ArxivAdapter{
			Client:    client,
			UserAgent: cfg.Source.UserAgent,
		})
	}
	if cfg.Source.EnablePubMed {
		adapters = append(adapters, source.NewPubMedAdapter(client, cfg.Source.UserAgent, cfg.Source.EntrezAPIKey))
	}

	encoder := embed.NewOllamaEncoder(
		embed.WithBaseURL(cfg.Embed.BaseURL),
		embed.WithModel(cfg.Embed.Model),
		embed.WithDimensions(cfg.Embed.Dimensions),
		embed.WithTimeout(cfg.Embed.Timeout),
	)

	return &Pipeline{
		adapters: adapters,
		encoder:  encoder,
		store:    store,
		diag:     diag,
	}
}

// NewWith builds a pipeline from explicit stages. Tests and embedders
// other than the default use this constructor.
func NewWith(adapters []source.Adapter, encoder embed.Encoder, store *cache.Store, diag io.Writer) *Pipeline {
	return &Pipeline{
		adapters: adapters,
		encoder:  encoder,
		store:    store,
		diag:     diag,
	}
}

// SearchAndRank runs one full pass for the query. A total outage of
// every source yields a well-formed empty Output, not an error.
func (p *Pipeline) SearchAndRank(ctx context.Context, q types.Query) (Output, error) {
	q.Text = strings.TrimSpace(q.Text)
	if q.Text == "" {
		return Output{}, ErrEmptyQuery
	}
	if q.StartYear > q.EndYear {
		return Output{}, fmt.Errorf("invalid year range: start %d after end %d", q.StartYear, q.EndYear)
	}
	q.ResultsPerSource = clampResultsPerSource(q.ResultsPerSource)

	if len(p.adapters) == 0 {
		return Output{}, fmt.Errorf("no sources enabled")
	}

	queryVec, err := p.encodeOne(ctx, q.Text)
	if err != nil {
		return Output{}, fmt.Errorf("embedding query: %w", err)
	}

	adapters := make([]source.Adapter, len(p.adapters))
	for i, a := range p.adapters {
		adapters[i] = p.cached(a)
	}
	lists, sourceErrs := source.FetchAll(ctx, adapters, q.Text, q.ResultsPerSource, p.diag)

	papers := rank.Aggregate(lists, q.StartYear, q.EndYear)
	if len(papers) == 0 {
		return Output{SourceErrors: sourceErrs}, nil
	}

	texts := make([]string, len(papers))
	for i, paper := range papers {
		texts[i] = EmbeddingText(paper)
	}
	paperVecs, err := p.encodeBatch(ctx, texts)
	if err != nil {
		return Output{}, fmt.Errorf("embedding papers: %w", err)
	}

	return Output{
		Results:      rank.Rank(queryVec, papers, paperVecs),
		SourceErrors: sourceErrs,
	}, nil
}

// EmbeddingText is the text that represents a paper in vector space.
func EmbeddingText(p types.Paper) string {
	return p.Title + ". " + p.Abstract
}

func clampResultsPerSource(n int) int {
	switch {
	case n == 0:
		return DefaultResultsPerSource
	case n < MinResultsPerSource:
		return MinResultsPerSource
	case n > MaxResultsPerSource:
		return MaxResultsPerSource
	default:
		return n
	}
}

// encodeOne embeds a single text through the vector cache.
func (p *Pipeline) encodeOne(ctx context.Context, text string) (types.Vector, error) {
	vecs, err := p.encodeBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// encodeBatch embeds texts, serving repeats from the session cache and
// batching only the misses through the model. Output order matches
// input order. Cache failures degrade to a warning, never to a failed pass.
func (p *Pipeline) encodeBatch(ctx context.Context, texts []string) ([]types.Vector, error) {
	vectors := make([]types.Vector, len(texts))

	var missTexts []string
	var missIdx []int
	for i, text := range texts {
		if p.store != nil {
			v, ok, err := p.store.GetVector(ctx, p.encoder.ModelName(), text)
			if err != nil {
				fmt.Fprintf(p.diag, "warning: vector cache read failed: %v\n", err)
			} else if ok {
				vectors[i] = v
				continue
			}
		}
		missTexts = append(missTexts, text)
		missIdx = append(missIdx, i)
	}

	if len(missTexts) == 0 {
		return vectors, nil
	}

	encoded, err := p.encoder.Encode(ctx, missTexts)
	if err != nil {
		return nil, err
	}

	for j, v := range encoded {
		vectors[missIdx[j]] = v
		if p.store != nil {
			if err := p.store.PutVector(ctx, p.encoder.ModelName(), missTexts[j], v); err != nil {
				fmt.Fprintf(p.diag, "warning: vector cache write failed: %v\n", err)
			}
		}
	}
	return vectors, nil
}

// cached wraps an adapter with the session fetch cache. Only successful
// fetches are stored, so a source that failed this pass is retried on
// the next submission.
func (p *Pipeline) cached(a source.Adapter) source.Adapter {
	if p.store == nil {
		return a
	}
	return &cachedAdapter{inner: a, store: p.store, diag: p.diag}
}

type cachedAdapter struct {
	inner source.Adapter
	store *cache.Store
	diag  io.Writer
}

func (c *cachedAdapter) Name() types.Source { return c.inner.Name() }

func (c *cachedAdapter) Fetch(ctx context.Context, query string, limit int) ([]types.Paper, error) {
	papers, ok, err := c.store.GetPapers(ctx, c.inner.Name(), query, limit)
	if err != nil {
		fmt.Fprintf(c.diag, "warning: fetch cache read failed: %v\n", err)
	} else if ok {
		return papers, nil
	}

	papers, err = c.inner.Fetch(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	if putErr := c.store.PutPapers(ctx, c.inner.Name(), query, limit, papers); putErr != nil {
		fmt.Fprintf(c.diag, "warning: fetch cache write failed: %v\n", putErr)
	}
	return papers, nil
}
