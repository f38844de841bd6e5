package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8081/", "test-key", "test-model", 30*time.Second)
	if client == nil {
		t.Fatal("NewClient() returned nil")
	}
	if client.BaseURL != "http://localhost:8081" {
		t.Errorf("NewClient() BaseURL = %v, want http://localhost:8081", client.BaseURL)
	}
	if client.Model != "test-model" {
		t.Errorf("NewClient() Model = %v, want test-model", client.Model)
	}
	if client.client == nil || client.client.Timeout != 30*time.Second {
		t.Error("NewClient() client should carry the timeout")
	}
}

func chatReply(content string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := ChatResponse{
			ID:     "test-id",
			Object: "chat.completion",
			Choices: []ChatChoice{
				{
					Index:        0,
					Message:      ChatChoiceMessage{Role: "assistant", Content: content},
					FinishReason: "stop",
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func TestClient_Generate(t *testing.T) {
	tests := []struct {
		name       string
		prompt     string
		serverResp func(w http.ResponseWriter, r *http.Request)
		wantReply  string
		wantErr    bool
	}{
		{
			name:   "successful generation",
			prompt: "Return ONLY JSON",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST, got %s", r.Method)
				}
				if r.URL.Path != "/v1/chat/completions" {
					t.Errorf("expected /v1/chat/completions, got %s", r.URL.Path)
				}
				if !strings.Contains(r.Header.Get("Authorization"), "Bearer") {
					t.Error("missing Authorization header")
				}
				var req ChatRequest
				_ = json.NewDecoder(r.Body).Decode(&req)
				if len(req.Messages) != 1 || req.Messages[0].Role != "user" || req.Messages[0].Content != "Return ONLY JSON" {
					t.Errorf("unexpected messages: %+v", req.Messages)
				}
				chatReply(`[{"roll":"1"}]`)(w, r)
			},
			wantReply: `[{"roll":"1"}]`,
		},
		{
			name:       "empty reply is not an error",
			prompt:     "x",
			serverResp: chatReply(""),
			wantReply:  "",
		},
		{
			name:   "no choices returned",
			prompt: "x",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(ChatResponse{ID: "test-id", Choices: []ChatChoice{}})
			},
			wantErr: true,
		},
		{
			name:   "server error",
			prompt: "x",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte("internal server error"))
			},
			wantErr: true,
		},
		{
			name:   "malformed body",
			prompt: "x",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("{not json"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tt.serverResp))
			defer server.Close()

			client := NewClient(server.URL, "test-key", "test-model", 5*time.Second)
			reply, err := client.Generate(context.Background(), tt.prompt)

			if tt.wantErr {
				if err == nil {
					t.Errorf("Generate() expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Errorf("Generate() unexpected error: %v", err)
				return
			}

			if reply != tt.wantReply {
				t.Errorf("Generate() reply = %v, want %v", reply, tt.wantReply)
			}
		})
	}
}

func TestClient_Generate_NoAPIKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Errorf("unexpected Authorization header %q", r.Header.Get("Authorization"))
		}
		chatReply("ok")(w, r)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "test-model", 0)
	if _, err := client.Generate(context.Background(), "x"); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
}

func TestClient_Generate_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
		chatReply("late")(w, r)
	}))
	defer server.Close()

	client := NewClient(server.URL, "k", "test-model", 50*time.Millisecond)
	if _, err := client.Generate(context.Background(), "x"); err == nil {
		t.Fatal("Generate() expected timeout error, got nil")
	}
}

func TestClient_ChatWithMessages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ChatRequest
		_ = json.NewDecoder(r.Body).Decode(&req) // Ignore decode error in test

		if len(req.Messages) != 2 {
			t.Errorf("expected 2 messages, got %d", len(req.Messages))
		}
		if req.Model != "custom-model" {
			t.Errorf("expected model custom-model, got %s", req.Model)
		}
		if req.MaxTokens != 100 {
			t.Errorf("expected max_tokens 100, got %d", req.MaxTokens)
		}
		chatReply("Response")(w, r)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "test-model", 5*time.Second)

	messages := []Message{
		{Role: "system", Content: "You extract records"},
		{Role: "user", Content: "Hello"},
	}

	params := ChatParams{
		Model:     "custom-model",
		MaxTokens: 100,
	}

	reply, err := client.ChatWithMessages(context.Background(), messages, params)
	if err != nil {
		t.Fatalf("ChatWithMessages() error = %v", err)
	}

	if reply != "Response" {
		t.Errorf("ChatWithMessages() reply = %v, want Response", reply)
	}
}

func TestClient_ChatWithMessages_DefaultModel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ChatRequest
		_ = json.NewDecoder(r.Body).Decode(&req) // Ignore decode error in test

		if req.Model != "test-model" {
			t.Errorf("expected model test-model, got %s", req.Model)
		}
		chatReply("Response")(w, r)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "test-model", 5*time.Second)

	reply, err := client.ChatWithMessages(context.Background(), []Message{{Role: "user", Content: "Hello"}}, ChatParams{})
	if err != nil {
		t.Fatalf("ChatWithMessages() error = %v", err)
	}

	if reply != "Response" {
		t.Errorf("ChatWithMessages() reply = %v, want Response", reply)
	}
}
