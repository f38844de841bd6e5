package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthHandler_ServeHTTP(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("unable to open database file") }

	tests := []struct {
		name       string
		method     string
		checks     map[string]Check
		wantStatus int
		wantHealth string
		wantIssues []string
	}{
		{
			name:       "healthy",
			method:     http.MethodGet,
			checks:     map[string]Check{"database": ok},
			wantStatus: http.StatusOK,
			wantHealth: "healthy",
		},
		{
			name:       "no checks",
			method:     http.MethodGet,
			checks:     nil,
			wantStatus: http.StatusOK,
			wantHealth: "healthy",
		},
		{
			name:       "database down",
			method:     http.MethodGet,
			checks:     map[string]Check{"database": down, "output_dir": ok},
			wantStatus: http.StatusServiceUnavailable,
			wantHealth: "unhealthy",
			wantIssues: []string{"database_unavailable"},
		},
		{
			name:       "method not allowed",
			method:     http.MethodPost,
			wantStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			NewHealthHandler(tt.checks).ServeHTTP(w, httptest.NewRequest(tt.method, "/api/health", nil))

			if w.Code != tt.wantStatus {
				t.Fatalf("ServeHTTP() status = %v, want %v", w.Code, tt.wantStatus)
			}
			if tt.wantHealth == "" {
				return
			}

			var resp HealthResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Status != tt.wantHealth {
				t.Errorf("status = %q, want %q", resp.Status, tt.wantHealth)
			}
			if len(resp.Issues) != len(tt.wantIssues) {
				t.Fatalf("issues = %v, want %v", resp.Issues, tt.wantIssues)
			}
			for i := range tt.wantIssues {
				if resp.Issues[i] != tt.wantIssues[i] {
					t.Errorf("issues[%d] = %q, want %q", i, resp.Issues[i], tt.wantIssues[i])
				}
			}
			for name := range tt.checks {
				if _, ok := resp.Checks[name]; !ok {
					t.Errorf("checks missing %q", name)
				}
			}
		})
	}
}
