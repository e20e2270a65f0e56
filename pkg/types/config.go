package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "litrank/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SourceConfig holds settings for the source fetch stage.
type SourceConfig struct {
	HTTPConfig `yaml:",inline"`

	// ResultsPerSource is the fetch limit passed to each adapter (default 20).
	ResultsPerSource int `json:"results_per_source" yaml:"results_per_source"`

	// EnableScholarGraph controls whether the ScholarGraph adapter is used.
	EnableScholarGraph bool `json:"enable_scholargraph" yaml:"enable_scholargraph"`

	// EnableArxiv controls whether the arXiv adapter is used.
	EnableArxiv bool `json:"enable_arxiv" yaml:"enable_arxiv"`

	// EnablePubMed controls whether the PubMed adapter is used.
	EnablePubMed bool `json:"enable_pubmed" yaml:"enable_pubmed"`

	// ScholarGraphAPIKey is an optional API key for higher rate limits.
	ScholarGraphAPIKey string `json:"scholargraph_api_key,omitempty" yaml:"scholargraph_api_key,omitempty"`

	// EntrezAPIKey is an optional NCBI E-utilities key. Without one the
	// PubMed adapter throttles itself to 3 requests per second.
	EntrezAPIKey string `json:"entrez_api_key,omitempty" yaml:"entrez_api_key,omitempty"`
}

// EmbedConfig holds settings for the embedding stage.
type EmbedConfig struct {
	// BaseURL is the embedding service endpoint (default http://localhost:11434).
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Model is the embedding model identifier (default "all-minilm:l6-v2").
	Model string `json:"model" yaml:"model"`

	// Dimensions is the expected vector dimensionality (default 384).
	Dimensions int `json:"dimensions" yaml:"dimensions"`

	// Timeout is the per-request timeout for embedding calls.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// PipelineConfig groups all stage configurations for one ranking pass.
type PipelineConfig struct {
	Source SourceConfig `json:"source" yaml:"source"`
	Embed  EmbedConfig  `json:"embed" yaml:"embed"`
}
