package embed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOllamaEncodeBatch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != apiPathEmbed {
			t.Errorf("path = %q, want %q", r.URL.Path, apiPathEmbed)
		}

		var req ollamaEmbedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("model = %q", req.Model)
		}

		// One distinct three-dimensional vector per input, in order.
		resp := ollamaEmbedResponse{}
		for i := range req.Input {
			resp.Embeddings = append(resp.Embeddings, []float32{float32(i), 1, 0})
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer ts.Close()

	e := NewOllamaEncoder(WithBaseURL(ts.URL), WithModel("test-model"), WithDimensions(3))
	vectors, err := e.Encode(context.Background(), []string{"alpha", "beta", "gamma"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(vectors) != 3 {
		t.Fatalf("len(vectors) = %d, want 3", len(vectors))
	}
	for i, v := range vectors {
		if len(v) != 3 {
			t.Errorf("vectors[%d] has %d dims, want 3", i, len(v))
		}
		if v[0] != float32(i) {
			t.Errorf("vectors[%d][0] = %f, order not preserved", i, v[0])
		}
	}
}

func TestOllamaEncodeEmptyInput(t *testing.T) {
	e := NewOllamaEncoder(WithBaseURL("http://127.0.0.1:1"))
	vectors, err := e.Encode(context.Background(), nil)
	if err != nil {
		t.Fatalf("Encode(nil) should not call the service: %v", err)
	}
	if vectors != nil {
		t.Errorf("vectors = %v, want nil", vectors)
	}
}

func TestOllamaEncodeDimensionMismatch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"embeddings":[[1,2]]}`)
	}))
	defer ts.Close()

	e := NewOllamaEncoder(WithBaseURL(ts.URL), WithDimensions(384))
	_, err := e.Encode(context.Background(), []string{"text"})
	if err == nil {
		t.Fatal("expected dimension mismatch error")
	}
}

func TestOllamaEncodeCountMismatch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"embeddings":[[1,2,3]]}`)
	}))
	defer ts.Close()

	e := NewOllamaEncoder(WithBaseURL(ts.URL), WithDimensions(3))
	_, err := e.Encode(context.Background(), []string{"a", "b"})
	if err == nil {
		t.Fatal("expected count mismatch error")
	}
}

func TestOllamaEncodeServiceError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	e := NewOllamaEncoder(WithBaseURL(ts.URL))
	_, err := e.Encode(context.Background(), []string{"text"})
	if err == nil {
		t.Fatal("expected error for HTTP 500")
	}
}

func TestOllamaPing(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != apiPathTags {
			t.Errorf("path = %q, want %q", r.URL.Path, apiPathTags)
		}
		fmt.Fprint(w, `{"models":[]}`)
	}))
	defer ts.Close()

	e := NewOllamaEncoder(WithBaseURL(ts.URL))
	if err := e.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}
}

func TestOllamaDefaults(t *testing.T) {
	e := NewOllamaEncoder()
	if e.ModelName() != DefaultModel {
		t.Errorf("ModelName = %q", e.ModelName())
	}
	if e.Dimensions() != DefaultDimensions {
		t.Errorf("Dimensions = %d", e.Dimensions())
	}
}
