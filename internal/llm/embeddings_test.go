package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewEmbeddingsClient(t *testing.T) {
	client := NewEmbeddingsClient("http://localhost:8080/", "test-key", "test-model", 10*time.Second)
	if client == nil {
		t.Fatal("NewEmbeddingsClient() returned nil")
	}
	if client.BaseURL != "http://localhost:8080" {
		t.Errorf("NewEmbeddingsClient() BaseURL = %v, want http://localhost:8080", client.BaseURL)
	}
	if client.ExpectedSize != 0 {
		t.Errorf("NewEmbeddingsClient() ExpectedSize = %v, want 0", client.ExpectedSize)
	}
}

func embeddingReply(sizes ...int) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := EmbeddingsResponse{}
		for i, n := range sizes {
			resp.Data = append(resp.Data, EmbeddingData{Index: i, Embedding: make([]float64, n)})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func TestEmbeddingsClient_EmbedTexts(t *testing.T) {
	tests := []struct {
		name         string
		texts        []string
		expectedSize int
		serverResp   func(w http.ResponseWriter, r *http.Request)
		wantErr      bool
		wantCount    int
	}{
		{
			name:         "successful embedding",
			texts:        []string{"Hello", "World"},
			expectedSize: 768,
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST, got %s", r.Method)
				}
				if r.URL.Path != "/v1/embeddings" {
					t.Errorf("expected /v1/embeddings, got %s", r.URL.Path)
				}
				var req EmbeddingsRequest
				_ = json.NewDecoder(r.Body).Decode(&req)
				if len(req.Input) != 2 || req.Model != "test-model" {
					t.Errorf("unexpected request %+v", req)
				}
				embeddingReply(768, 768)(w, r)
			},
			wantCount: 2,
		},
		{
			name:       "dimension taken from first vector",
			texts:      []string{"a", "b"},
			serverResp: embeddingReply(4, 4),
			wantCount:  2,
		},
		{
			name:       "inconsistent dimensions",
			texts:      []string{"a", "b"},
			serverResp: embeddingReply(4, 3),
			wantErr:    true,
		},
		{
			name:    "empty input",
			texts:   []string{},
			wantErr: true,
		},
		{
			name:       "mismatched count",
			texts:      []string{"Hello", "World"},
			serverResp: embeddingReply(8),
			wantErr:    true,
		},
		{
			name:         "wrong vector size",
			texts:        []string{"Hello"},
			expectedSize: 768,
			serverResp:   embeddingReply(512),
			wantErr:      true,
		},
		{
			name:       "empty vector",
			texts:      []string{"Hello"},
			serverResp: embeddingReply(0),
			wantErr:    true,
		},
		{
			name:  "server error",
			texts: []string{"Hello"},
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte("internal server error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := tt.serverResp
			if handler == nil {
				handler = func(w http.ResponseWriter, r *http.Request) {
					t.Error("unexpected request")
				}
			}
			server := httptest.NewServer(http.HandlerFunc(handler))
			defer server.Close()

			client := NewEmbeddingsClient(server.URL, "test-key", "test-model", 5*time.Second)
			client.ExpectedSize = tt.expectedSize
			embeddings, err := client.EmbedTexts(context.Background(), tt.texts)

			if tt.wantErr {
				if err == nil {
					t.Errorf("EmbedTexts() expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Errorf("EmbedTexts() unexpected error: %v", err)
				return
			}

			if len(embeddings) != tt.wantCount {
				t.Errorf("EmbedTexts() returned %d embeddings, want %d", len(embeddings), tt.wantCount)
			}
		})
	}
}

func TestEmbeddingsClient_EmbedTexts_ConvertsFloat64ToFloat32(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := EmbeddingsResponse{
			Data: []EmbeddingData{
				{Embedding: []float64{1.5, 2.5, 3.5}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewEmbeddingsClient(server.URL, "test-key", "test-model", 5*time.Second)
	emb, err := client.Embed(context.Background(), "test")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}

	want := []float32{1.5, 2.5, 3.5}
	if len(emb) != len(want) {
		t.Fatalf("Embed() size = %d, want %d", len(emb), len(want))
	}
	for i := range want {
		if emb[i] != want[i] {
			t.Errorf("Embed()[%d] = %v, want %v", i, emb[i], want[i])
		}
	}
}

func TestEmbeddingsClient_EmbedQuery_Prefix(t *testing.T) {
	var got []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req EmbeddingsRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		got = append(got, req.Input...)
		embeddingReply(2)(w, r)
	}))
	defer server.Close()

	client := NewEmbeddingsClient(server.URL, "", "test-model", 5*time.Second)
	client.QueryPrefix = "query: "

	if _, err := client.Embed(context.Background(), "chunk text"); err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if _, err := client.EmbedQuery(context.Background(), "find students"); err != nil {
		t.Fatalf("EmbedQuery() error = %v", err)
	}

	if len(got) != 2 || got[0] != "chunk text" || got[1] != "query: find students" {
		t.Errorf("inputs = %q, want [chunk text, query: find students]", got)
	}
}
