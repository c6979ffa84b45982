package embedder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOllamaEmbed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embeddings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		var req embedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "nomic-embed-text" || req.Prompt != "a thought" {
			t.Errorf("unexpected request: %+v", req)
		}

		json.NewEncoder(w).Encode(embedResponse{Embedding: []float32{0.1, 0.2, 0.3}})
	}))
	defer srv.Close()

	o := newOllama(srv.URL, "nomic-embed-text")
	vec, err := o.Embed(context.Background(), "a thought")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	if len(vec) != 3 || vec[1] != 0.2 {
		t.Errorf("embedding = %v", vec)
	}
}

func TestOllamaEmbedErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	o := newOllama(srv.URL, "missing-model")
	if _, err := o.Embed(context.Background(), "a thought"); err == nil {
		t.Error("expected error on non-200 status")
	} else if !strings.Contains(err.Error(), "404") {
		t.Errorf("error should carry the status: %v", err)
	}
}

func TestOllamaEmbedRejectsEmptyVector(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(embedResponse{})
	}))
	defer srv.Close()

	o := newOllama(srv.URL, "nomic-embed-text")
	if _, err := o.Embed(context.Background(), "a thought"); err == nil {
		t.Error("expected error on empty embedding")
	}
}

func TestNewUnknownProvider(t *testing.T) {
	if _, err := New(Config{Provider: "word2vec"}); err == nil {
		t.Error("unknown provider should be rejected")
	}

	emb, err := New(Config{})
	if err != nil || emb != nil {
		t.Errorf("empty provider should disable embeddings, got %v, %v", emb, err)
	}
}
