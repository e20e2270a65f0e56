// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/litrank/pkg/types"
)

// ResultFile is the on-disk representation of a ranking pass. A saved
// pass can be reloaded and re-displayed without re-querying the APIs or
// re-running the model.
type ResultFile struct {
	Query   types.Query         `yaml:"query"`
	Results []types.ScoredPaper `yaml:"results"`
	Summary ResultSummary       `yaml:"summary"`
}

// ResultSummary stores result statistics and a timestamp.
type ResultSummary struct {
	Total        int       `yaml:"total"`
	SourceErrors []string  `yaml:"source_errors,omitempty"`
	Timestamp    time.Time `yaml:"timestamp"`
}

// WriteResultFile saves the query and its ranked results to a YAML file.
func WriteResultFile(path string, q types.Query, out Output) error {
	rf := ResultFile{
		Query:   q,
		Results: out.Results,
		Summary: ResultSummary{
			Total:     len(out.Results),
			Timestamp: time.Now(),
		},
	}
	for _, se := range out.SourceErrors {
		rf.Summary.SourceErrors = append(rf.Summary.SourceErrors, se.Error())
	}

	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling result file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadResultFile loads a previously saved ranking pass from disk.
func ReadResultFile(path string) (*ResultFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading result file: %w", err)
	}
	var rf ResultFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing result file: %w", err)
	}
	return &rf, nil
}
