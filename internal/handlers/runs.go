package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"docextract/internal/contextutil"
	"docextract/internal/service"
	"docextract/internal/storage"
)

// RunsHandler serves run history.
type RunsHandler struct {
	extractService service.ExtractService
}

// NewRunsHandler creates a new RunsHandler.
func NewRunsHandler(extractService service.ExtractService) *RunsHandler {
	return &RunsHandler{extractService: extractService}
}

// RunsResponse represents the run history response.
type RunsResponse struct {
	Runs []storage.RunRecord `json:"runs"`
}

// List handles GET /runs?limit=N.
func (h *RunsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			logger.WarnContext(ctx, "invalid limit", "limit", v)
			writeError(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid limit"})
			return
		}
		limit = n
	}

	runs, err := h.extractService.Runs(ctx, limit)
	if err != nil {
		handleServiceError(w, ctx, err, nil, "Failed to list runs")
		return
	}
	writeJSON(w, ctx, RunsResponse{Runs: runs})
}

// Get handles GET /runs/{id}.
func (h *RunsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	run, err := h.extractService.Run(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, ctx, err, nil, "Failed to get run")
		return
	}
	writeJSON(w, ctx, run)
}
