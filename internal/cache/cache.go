// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache holds fetch and embedding results for the lifetime of
// one process. Repeat submissions with identical parameters re-issue no
// network calls and re-run no model; a changed parameter misses only
// its own key. Nothing survives the process: the store lives in an
// in-memory SQLite database.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/litrank/pkg/types"
)

// Store is the session-lifetime result cache.
type Store struct {
	db *sql.DB
}

// NewStore opens an in-memory SQLite database and creates the schema.
func NewStore() (*Store, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}
	// A :memory: database exists per connection; a second connection
	// would see an empty schema.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection and discards the cache.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE fetches (
			source TEXT NOT NULL,
			query TEXT NOT NULL,
			lim INTEGER NOT NULL,
			papers_json TEXT NOT NULL,
			PRIMARY KEY (source, query, lim)
		)`,
		`CREATE TABLE vectors (
			model TEXT NOT NULL,
			text TEXT NOT NULL,
			vector_json TEXT NOT NULL,
			PRIMARY KEY (model, text)
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// GetPapers returns the cached adapter output for the exact
// (source, query, limit) key. ok is false on a miss.
func (s *Store) GetPapers(ctx context.Context, source types.Source, query string, limit int) (papers []types.Paper, ok bool, err error) {
	var raw string
	err = s.db.QueryRowContext(ctx,
		`SELECT papers_json FROM fetches WHERE source = ? AND query = ? AND lim = ?`,
		string(source), query, limit,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("querying fetch cache: %w", err)
	}

	if err := json.Unmarshal([]byte(raw), &papers); err != nil {
		return nil, false, fmt.Errorf("decoding cached papers: %w", err)
	}
	return papers, true, nil
}

// PutPapers stores one adapter's output under its exact fetch parameters.
func (s *Store) PutPapers(ctx context.Context, source types.Source, query string, limit int, papers []types.Paper) error {
	raw, err := json.Marshal(papers)
	if err != nil {
		return fmt.Errorf("encoding papers for cache: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO fetches (source, query, lim, papers_json) VALUES (?, ?, ?, ?)
		 ON CONFLICT(source, query, lim) DO UPDATE SET papers_json = excluded.papers_json`,
		string(source), query, limit, string(raw),
	)
	if err != nil {
		return fmt.Errorf("writing fetch cache: %w", err)
	}
	return nil
}

// GetVector returns the cached embedding for the exact (model, text)
// key. ok is false on a miss.
func (s *Store) GetVector(ctx context.Context, model, text string) (v types.Vector, ok bool, err error) {
	var raw string
	err = s.db.QueryRowContext(ctx,
		`SELECT vector_json FROM vectors WHERE model = ? AND text = ?`,
		model, text,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("querying vector cache: %w", err)
	}

	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, false, fmt.Errorf("decoding cached vector: %w", err)
	}
	return v, true, nil
}

// PutVector stores one text's embedding under the model that produced it.
func (s *Store) PutVector(ctx context.Context, model, text string, v types.Vector) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding vector for cache: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO vectors (model, text, vector_json) VALUES (?, ?, ?)
		 ON CONFLICT(model, text) DO UPDATE SET vector_json = excluded.vector_json`,
		model, text, string(raw),
	)
	if err != nil {
		return fmt.Errorf("writing vector cache: %w", err)
	}
	return nil
}
