// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"github.com/pdiddy/litrank/pkg/types"
)

// PubMed E-utilities endpoints. Declared as vars so tests can substitute
// httptest servers.
var (
	pubmedSearchBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"
	pubmedFetchBase  = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi"
)

// NCBI allows 3 requests per second without an API key, 10 with one.
const (
	entrezRateNoKey   = 3
	entrezRateWithKey = 10
)

// PubMedAdapter queries the NCBI E-utilities API: an esearch call for
// PMIDs followed by an efetch call for the article records.
type PubMedAdapter struct {
	Client    *http.Client
	UserAgent string
	// APIKey is optional; with one NCBI raises the request rate limit.
	APIKey string

	limiter *rate.Limiter
}

// NewPubMedAdapter builds an adapter whose requests respect the NCBI
// rate limit for the given key configuration.
func NewPubMedAdapter(client *http.Client, userAgent, apiKey string) *PubMedAdapter {
	r := rate.Limit(entrezRateNoKey)
	if apiKey != "" {
		r = rate.Limit(entrezRateWithKey)
	}
	return &PubMedAdapter{
		Client:    client,
		UserAgent: userAgent,
		APIKey:    apiKey,
		limiter:   rate.NewLimiter(r, 1),
	}
}

// Name returns the source identifier.
func (a *PubMedAdapter) Name() types.Source { return types.SourcePubMedEntrez }

// Fetch runs the two-step E-utilities flow. When the ID search returns
// no PMIDs the fetch call is skipped entirely. Articles missing a title
// or abstract are skipped silently; a missing PubDate year stays zero
// for the aggregator to drop.
func (a *PubMedAdapter) Fetch(ctx context.Context, query string, limit int) ([]types.Paper, error) {
	ids, err := a.searchIDs(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return a.fetchArticles(ctx, ids)
}

func (a *PubMedAdapter) searchIDs(ctx context.Context, query string, limit int) ([]string, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"term":    {query},
		"retmax":  {fmt.Sprintf("%d", limit)},
		"retmode": {"json"},
	}
	if a.APIKey != "" {
		params.Set("api_key", a.APIKey)
	}

	body, err := a.get(ctx, pubmedSearchBase+"?"+params.Encode())
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var sr entrezSearchResponse
	if err := json.NewDecoder(body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing PubMed search response: %w", err)
	}
	return sr.ESearchResult.IDList, nil
}

func (a *PubMedAdapter) fetchArticles(ctx context.Context, ids []string) ([]types.Paper, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"id":      {strings.Join(ids, ",")},
		"retmode": {"xml"},
	}
	if a.APIKey != "" {
		params.Set("api_key", a.APIKey)
	}

	body, err := a.get(ctx, pubmedFetchBase+"?"+params.Encode())
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var set pubmedArticleSet
	if err := xml.NewDecoder(body).Decode(&set); err != nil {
		return nil, fmt.Errorf("parsing PubMed fetch response: %w", err)
	}

	var papers []types.Paper
	for _, article := range set.Articles {
		title := strings.TrimSpace(article.MedlineCitation.Article.Title)
		abstract := strings.TrimSpace(article.MedlineCitation.Article.Abstract.Text())
		if title == "" || abstract == "" {
			continue
		}

		p := types.Paper{
			Title:    title,
			Abstract: abstract,
			URL:      fmt.Sprintf("https://pubmed.ncbi.nlm.nih.gov/%s/", article.MedlineCitation.PMID),
			Source:   types.SourcePubMedEntrez,
		}
		if y, convErr := strconv.Atoi(article.MedlineCitation.Article.Journal.Issue.PubDate.Year); convErr == nil {
			p.Year = y
		}
		papers = append(papers, p)
	}
	return papers, nil
}

// get waits on the rate limiter, then issues one GET and returns the
// response body on HTTP 200.
func (a *PubMedAdapter) get(ctx context.Context, reqURL string) (io.ReadCloser, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", a.UserAgent)

	resp, err := a.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("PubMed API request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("PubMed API returned HTTP %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// E-utilities JSON and XML structures.
type entrezSearchResponse struct {
	ESearchResult struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

type pubmedArticleSet struct {
	XMLName  xml.Name        `xml:"PubmedArticleSet"`
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	MedlineCitation struct {
		PMID    string `xml:"PMID"`
		Article struct {
			Title    string         `xml:"ArticleTitle"`
			Abstract pubmedAbstract `xml:"Abstract"`
			Journal  struct {
				Issue struct {
					PubDate struct {
						Year string `xml:"Year"`
					} `xml:"PubDate"`
				} `xml:"JournalIssue"`
			} `xml:"Journal"`
		} `xml:"Article"`
	} `xml:"MedlineCitation"`
}

type pubmedAbstract struct {
	Sections []string `xml:"AbstractText"`
}

// Text joins the abstract sections. Structured abstracts carry one
// AbstractText element per labeled section.
func (ab pubmedAbstract) Text() string {
	return strings.TrimSpace(strings.Join(ab.Sections, " "))
}
