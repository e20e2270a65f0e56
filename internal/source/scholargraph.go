// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pdiddy/litrank/internal/httputil"
	"github.com/pdiddy/litrank/pkg/types"
)

// scholarGraphAPIBase is the ScholarGraph paper-search endpoint. Declared
// as a var so tests can substitute an httptest server.
var scholarGraphAPIBase = "https://api.semanticscholar.org/graph/v1/paper/search"

// scholarGraphFields restricts the response to the fields the Paper
// shape actually uses.
const scholarGraphFields = "title,abstract,url,year"

// ScholarGraphAdapter queries the ScholarGraph paper-search API.
type ScholarGraphAdapter struct {
	Client    *http.Client
	UserAgent string
	// APIKey is optional; with one the API grants higher rate limits.
	APIKey string
}

// Name returns the source identifier.
func (a *ScholarGraphAdapter) Name() types.Source { return types.SourceScholarGraph }

// Fetch issues one GET to the paper-search endpoint and maps each JSON
// record directly to a Paper. Missing fields become zero values, not
// errors; the aggregator filters incomplete records later.
func (a *ScholarGraphAdapter) Fetch(ctx context.Context, query string, limit int) ([]types.Paper, error) {
	params := url.Values{
		"query":  {query},
		"limit":  {fmt.Sprintf("%d", limit)},
		"fields": {scholarGraphFields},
	}
	reqURL := scholarGraphAPIBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", a.UserAgent)
	if a.APIKey != "" {
		req.Header.Set("x-api-key", a.APIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, a.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("ScholarGraph API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ScholarGraph API returned HTTP %d", resp.StatusCode)
	}

	var sr scholarGraphResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing ScholarGraph response: %w", err)
	}

	papers := make([]types.Paper, 0, len(sr.Data))
	for _, rec := range sr.Data {
		papers = append(papers, types.Paper{
			Title:    rec.Title,
			Abstract: rec.Abstract,
			URL:      rec.URL,
			Year:     rec.Year,
			Source:   types.SourceScholarGraph,
		})
	}
	return papers, nil
}

// ScholarGraph API JSON structures.
type scholarGraphResponse struct {
	Total  int                  `json:"total"`
	Offset int                  `json:"offset"`
	Data   []scholarGraphRecord `json:"data"`
}

type scholarGraphRecord struct {
	Title    string `json:"title"`
	Abstract string `json:"abstract"`
	URL      string `json:"url"`
	Year     int    `json:"year"`
}
