// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source fetches paper metadata from the external literature APIs
// and maps each source's schema into the common Paper shape.
package source

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/pdiddy/litrank/pkg/types"
)

// Adapter fetches raw records from one literature API. Each source
// (ScholarGraph, arXiv, PubMed) implements this interface per the
// Strategy pattern.
type Adapter interface {
	Name() types.Source
	Fetch(ctx context.Context, query string, limit int) ([]types.Paper, error)
}

// SourceError records a non-fatal failure at one adapter. The pipeline
// surfaces it as a diagnostic; the failing source contributes an empty
// result set instead of aborting the pass.
type SourceError struct {
	Source types.Source
	Err    error
}

func (e SourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e SourceError) Unwrap() error { return e.Err }

// FetchAll runs every adapter concurrently and collects results into a
// slice indexed by adapter position, so the caller sees contributions
// in the declared source order regardless of completion order. Adapter
// failures become SourceError diagnostics and a warning on w; they
// never abort the fan-out.
func FetchAll(ctx context.Context, adapters []Adapter, query string, limit int, w io.Writer) ([][]types.Paper, []SourceError) {
	lists := make([][]types.Paper, len(adapters))
	errs := make([]error, len(adapters))

	var wg sync.WaitGroup
	for i, a := range adapters {
		wg.Add(1)
		go func(i int, a Adapter) {
			defer wg.Done()
			lists[i], errs[i] = a.Fetch(ctx, query, limit)
		}(i, a)
	}
	wg.Wait()

	var sourceErrs []SourceError
	for i, err := range errs {
		if err == nil {
			continue
		}
		se := SourceError{Source: adapters[i].Name(), Err: err}
		sourceErrs = append(sourceErrs, se)
		fmt.Fprintf(w, "warning: source %s failed: %v\n", se.Source, se.Err)
		lists[i] = nil
	}

	return lists, sourceErrs
}
