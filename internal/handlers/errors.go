package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"docextract/internal/contextutil"
	"docextract/internal/extraction"
	"docextract/internal/pipeline"
	"docextract/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
	// Kind is the extraction error kind for failed runs.
	Kind string `json:"kind,omitempty"`
	// RunID and States describe a failed run.
	RunID  string           `json:"run_id,omitempty"`
	States []pipeline.State `json:"states,omitempty"`
}

// handleServiceError maps service errors to appropriate HTTP status codes and responses.
// res is the failed run, if the error came from the pipeline.
func handleServiceError(w http.ResponseWriter, ctx context.Context, err error, res *pipeline.Result, defaultMsg string) {
	logger := contextutil.LoggerFromContext(ctx)
	logger.ErrorContext(ctx, "service error", "error", err)

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("Validation error: %s", validationErr.Error())})
		return
	}

	// Check for wrapped errors
	if errors.Is(err, service.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid input"})
		return
	}

	if errors.Is(err, service.ErrNotFound) {
		writeError(w, http.StatusNotFound, ErrorResponse{Error: "Resource not found"})
		return
	}

	resp := ErrorResponse{}
	if res != nil {
		resp.RunID = res.RunID
		resp.States = res.States
	}

	if errors.Is(err, service.ErrUnprocessable) {
		resp.Error = err.Error()
		resp.Kind = string(extraction.KindOf(err))
		writeError(w, http.StatusUnprocessableEntity, resp)
		return
	}

	if errors.Is(err, service.ErrExternalService) {
		resp.Error = "External service error"
		resp.Kind = string(extraction.KindExternal)
		writeError(w, http.StatusBadGateway, resp)
		return
	}

	// Default to internal server error
	resp.Error = defaultMsg
	writeError(w, http.StatusInternalServerError, resp)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, statusCode int, resp ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes v as a 200 JSON response.
func writeJSON(w http.ResponseWriter, ctx context.Context, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}
