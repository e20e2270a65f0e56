// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package embed wraps a black-box text-to-vector model behind a small
// encoding contract.
package embed

import (
	"context"

	"github.com/pdiddy/litrank/pkg/types"
)

// Encoder turns text into fixed-dimensional vectors. Output order
// matches input order 1:1 and encoding is deterministic: the same text
// always yields the same vector.
type Encoder interface {
	// Encode embeds each text in order. Batching a single query alone
	// and batching many paper texts together are both valid calls.
	Encode(ctx context.Context, texts []string) ([]types.Vector, error)

	// ModelName returns the identifier of the underlying model.
	ModelName() string

	// Dimensions returns the vector dimensionality the model produces.
	Dimensions() int
}
