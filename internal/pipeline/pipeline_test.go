package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/pdiddy/litrank/internal/cache"
	"github.com/pdiddy/litrank/internal/source"
	"github.com/pdiddy/litrank/pkg/types"
)

// --- stubs ---

type stubAdapter struct {
	name   types.Source
	papers []types.Paper
	err    error
	calls  int32
}

func (a *stubAdapter) Name() types.Source { return a.name }

func (a *stubAdapter) Fetch(_ context.Context, _ string, _ int) ([]types.Paper, error) {
	atomic.AddInt32(&a.calls, 1)
	return a.papers, a.err
}

// stubEncoder returns fixed vectors per text, [0, 1] for unknown text.
type stubEncoder struct {
	vectors map[string]types.Vector
	calls   int32
}

func (e *stubEncoder) Encode(_ context.Context, texts []string) ([]types.Vector, error) {
	atomic.AddInt32(&e.calls, 1)
	out := make([]types.Vector, len(texts))
	for i, text := range texts {
		if v, ok := e.vectors[text]; ok {
			out[i] = v
		} else {
			out[i] = types.Vector{0, 1}
		}
	}
	return out, nil
}

func (e *stubEncoder) ModelName() string { return "stub" }
func (e *stubEncoder) Dimensions() int   { return 2 }

func testQuery() types.Query {
	return types.Query{
		Text:             "deep learning",
		StartYear:        2020,
		EndYear:          2024,
		ResultsPerSource: 20,
	}
}

// --- validation ---

func TestSearchAndRankEmptyQuery(t *testing.T) {
	p := NewWith([]source.Adapter{&stubAdapter{name: types.SourceArxivFeed}}, &stubEncoder{}, nil, io.Discard)

	for _, text := range []string{"", "   ", "\t\n"} {
		q := testQuery()
		q.Text = text
		_, err := p.SearchAndRank(context.Background(), q)
		if !errors.Is(err, ErrEmptyQuery) {
			t.Errorf("text %q: err = %v, want ErrEmptyQuery", text, err)
		}
	}
}

func TestSearchAndRankInvalidYearRange(t *testing.T) {
	p := NewWith([]source.Adapter{&stubAdapter{name: types.SourceArxivFeed}}, &stubEncoder{}, nil, io.Discard)

	q := testQuery()
	q.StartYear, q.EndYear = 2024, 2020
	_, err := p.SearchAndRank(context.Background(), q)
	if err == nil || !strings.Contains(err.Error(), "year range") {
		t.Errorf("err = %v, want year range error", err)
	}
}

func TestClampResultsPerSource(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, 20},
		{1, 5},
		{5, 5},
		{50, 50},
		{100, 100},
		{500, 100},
	}
	for _, tt := range tests {
		if got := clampResultsPerSource(tt.in); got != tt.want {
			t.Errorf("clampResultsPerSource(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

// --- degradation ---

func TestSearchAndRankAllSourcesDown(t *testing.T) {
	adapters := []source.Adapter{
		&stubAdapter{name: types.SourceScholarGraph, err: fmt.Errorf("timeout")},
		&stubAdapter{name: types.SourceArxivFeed, err: fmt.Errorf("HTTP 503")},
		&stubAdapter{name: types.SourcePubMedEntrez, err: fmt.Errorf("parse error")},
	}
	var diag bytes.Buffer
	p := NewWith(adapters, &stubEncoder{}, nil, &diag)

	out, err := p.SearchAndRank(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("total source outage must not error: %v", err)
	}
	if len(out.Results) != 0 {
		t.Errorf("len(Results) = %d, want 0", len(out.Results))
	}
	if len(out.SourceErrors) != 3 {
		t.Errorf("len(SourceErrors) = %d, want 3", len(out.SourceErrors))
	}
	if !strings.Contains(diag.String(), "warning: source") {
		t.Error("diagnostics should carry per-source warnings")
	}
}

func TestSearchAndRankNoResults(t *testing.T) {
	adapters := []source.Adapter{
		&stubAdapter{name: types.SourceScholarGraph},
		&stubAdapter{name: types.SourceArxivFeed},
		&stubAdapter{name: types.SourcePubMedEntrez},
	}
	p := NewWith(adapters, &stubEncoder{}, nil, io.Discard)

	out, err := p.SearchAndRank(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("empty sources must not error: %v", err)
	}
	if len(out.Results) != 0 || len(out.SourceErrors) != 0 {
		t.Errorf("Results = %d, SourceErrors = %d, want 0 and 0", len(out.Results), len(out.SourceErrors))
	}
}

func TestSearchAndRankPartialOutage(t *testing.T) {
	adapters := []source.Adapter{
		&stubAdapter{name: types.SourceScholarGraph, err: fmt.Errorf("down")},
		&stubAdapter{name: types.SourceArxivFeed, papers: []types.Paper{
			{Title: "Survivor", Abstract: "an abstract", Year: 2021, Source: types.SourceArxivFeed},
		}},
	}
	p := NewWith(adapters, &stubEncoder{}, nil, io.Discard)

	out, err := p.SearchAndRank(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("SearchAndRank: %v", err)
	}
	if len(out.Results) != 1 {
		t.Fatalf("len(Results) = %d, want 1", len(out.Results))
	}
	if len(out.SourceErrors) != 1 {
		t.Errorf("len(SourceErrors) = %d, want 1", len(out.SourceErrors))
	}
}

// --- ranking scenario ---

func TestSearchAndRankScenario(t *testing.T) {
	inRange := types.Paper{
		Title:    "Deep Learning for X",
		Abstract: "A study of deep learning methods.",
		URL:      "http://arxiv.org/abs/2101.00001",
		Year:     2021,
		Source:   types.SourceArxivFeed,
	}
	outOfRange := types.Paper{
		Title:    "Deep Learning for Y",
		Abstract: "Also about deep learning, but older.",
		URL:      "http://arxiv.org/abs/1801.00001",
		Year:     2018,
		Source:   types.SourceArxivFeed,
	}

	enc := &stubEncoder{vectors: map[string]types.Vector{
		"deep learning":           {1, 0},
		EmbeddingText(inRange):    {0.9, 0.1},
		EmbeddingText(outOfRange): {0.95, 0.05},
	}}
	adapters := []source.Adapter{
		&stubAdapter{name: types.SourceArxivFeed, papers: []types.Paper{inRange, outOfRange}},
	}
	p := NewWith(adapters, enc, nil, io.Discard)

	out, err := p.SearchAndRank(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("SearchAndRank: %v", err)
	}

	// The 2018 paper is excluded regardless of similarity.
	if len(out.Results) != 1 {
		t.Fatalf("len(Results) = %d, want 1", len(out.Results))
	}
	r := out.Results[0]
	if r.Paper.Title != "Deep Learning for X" {
		t.Errorf("result = %q", r.Paper.Title)
	}
	if r.Similarity <= 0 {
		t.Errorf("Similarity = %f, want > 0", r.Similarity)
	}

	// Keywords are emphasized in both title and abstract of the
	// detailed view.
	var buf bytes.Buffer
	FormatDetailed(out, strings.Fields("deep learning"), &buf)
	s := buf.String()
	if !strings.Contains(s, "**Deep** **Learning** for X") {
		t.Errorf("title not highlighted:\n%s", s)
	}
	if !strings.Contains(s, "**deep** **learning** methods") {
		t.Errorf("abstract not highlighted:\n%s", s)
	}
}

func TestSearchAndRankSortedDescending(t *testing.T) {
	papers := []types.Paper{
		{Title: "far", Abstract: "a", Year: 2021},
		{Title: "near", Abstract: "b", Year: 2021},
		{Title: "mid", Abstract: "c", Year: 2021},
	}
	enc := &stubEncoder{vectors: map[string]types.Vector{
		"deep learning":          {1, 0},
		EmbeddingText(papers[0]): {0, 1},
		EmbeddingText(papers[1]): {1, 0.01},
		EmbeddingText(papers[2]): {1, 1},
	}}
	p := NewWith([]source.Adapter{&stubAdapter{name: types.SourceArxivFeed, papers: papers}}, enc, nil, io.Discard)

	out, err := p.SearchAndRank(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("SearchAndRank: %v", err)
	}
	if out.Results[0].Paper.Title != "near" {
		t.Errorf("top result = %q, want near", out.Results[0].Paper.Title)
	}
	for i := 1; i < len(out.Results); i++ {
		if out.Results[i].Similarity > out.Results[i-1].Similarity {
			t.Errorf("not sorted at %d", i)
		}
	}
}

// --- caching ---

func TestRepeatQueryHitsCache(t *testing.T) {
	store, err := cache.NewStore()
	if err != nil {
		t.Fatalf("cache.NewStore: %v", err)
	}
	defer store.Close()

	adapter := &stubAdapter{name: types.SourceArxivFeed, papers: []types.Paper{
		{Title: "Cached Paper", Abstract: "an abstract", Year: 2021, Source: types.SourceArxivFeed},
	}}
	enc := &stubEncoder{}
	p := NewWith([]source.Adapter{adapter}, enc, store, io.Discard)

	first, err := p.SearchAndRank(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	second, err := p.SearchAndRank(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}

	if got := atomic.LoadInt32(&adapter.calls); got != 1 {
		t.Errorf("adapter calls = %d, want 1 (second pass must hit the cache)", got)
	}
	// First pass encodes the query and the papers (two batches); the
	// second pass needs no model call at all.
	if got := atomic.LoadInt32(&enc.calls); got != 2 {
		t.Errorf("encoder calls = %d, want 2", got)
	}

	var b1, b2 bytes.Buffer
	if err := FormatJSON(first, &b1); err != nil {
		t.Fatal(err)
	}
	if err := FormatJSON(second, &b2); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b1.Bytes(), b2.Bytes()) {
		t.Error("repeat query must produce byte-identical ranked output")
	}
}

func TestChangedParameterMissesCache(t *testing.T) {
	store, err := cache.NewStore()
	if err != nil {
		t.Fatalf("cache.NewStore: %v", err)
	}
	defer store.Close()

	adapter := &stubAdapter{name: types.SourceArxivFeed, papers: []types.Paper{
		{Title: "P", Abstract: "a", Year: 2021},
	}}
	p := NewWith([]source.Adapter{adapter}, &stubEncoder{}, store, io.Discard)

	q := testQuery()
	if _, err := p.SearchAndRank(context.Background(), q); err != nil {
		t.Fatal(err)
	}

	q.ResultsPerSource = 50
	if _, err := p.SearchAndRank(context.Background(), q); err != nil {
		t.Fatal(err)
	}

	if got := atomic.LoadInt32(&adapter.calls); got != 2 {
		t.Errorf("adapter calls = %d, want 2 (changed limit invalidates only its key)", got)
	}
}

func TestFailedFetchIsNotCached(t *testing.T) {
	store, err := cache.NewStore()
	if err != nil {
		t.Fatalf("cache.NewStore: %v", err)
	}
	defer store.Close()

	adapter := &stubAdapter{name: types.SourceArxivFeed, err: fmt.Errorf("down")}
	p := NewWith([]source.Adapter{adapter}, &stubEncoder{}, store, io.Discard)

	for i := 0; i < 2; i++ {
		if _, err := p.SearchAndRank(context.Background(), testQuery()); err != nil {
			t.Fatal(err)
		}
	}

	if got := atomic.LoadInt32(&adapter.calls); got != 2 {
		t.Errorf("adapter calls = %d, want 2 (failures are retried, not cached)", got)
	}
}
