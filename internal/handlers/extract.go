package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"docextract/internal/assemble"
	"docextract/internal/contextutil"
	"docextract/internal/extraction"
	"docextract/internal/pipeline"
	"docextract/internal/service"
)

// maxExtractBody caps the size of an extract request body.
const maxExtractBody = 32 << 20

// xlsxContentType is the media type of workbook responses.
const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// TableWriter renders a table to a stream.
type TableWriter interface {
	Render(w io.Writer, t *assemble.Table) error
}

// ExtractHandler handles HTTP requests for document extraction.
type ExtractHandler struct {
	extractService service.ExtractService
	workbooks      TableWriter
}

// NewExtractHandler creates a new ExtractHandler.
func NewExtractHandler(extractService service.ExtractService, workbooks TableWriter) *ExtractHandler {
	return &ExtractHandler{
		extractService: extractService,
		workbooks:      workbooks,
	}
}

// ExtractRequest represents the HTTP request payload for extraction.
type ExtractRequest struct {
	Profile string `json:"profile"`
	Text    string `json:"text,omitempty"`
	Path    string `json:"path,omitempty"`
	Export  bool   `json:"export,omitempty"`
}

// ExtractResponse represents the HTTP response payload for extraction.
type ExtractResponse struct {
	RunID       string              `json:"run_id"`
	Document    string              `json:"document"`
	Profile     string              `json:"profile"`
	Provenance  string              `json:"provenance"`
	Columns     []string            `json:"columns"`
	Records     []extraction.Record `json:"records"`
	States      []pipeline.State    `json:"states"`
	Stats       pipeline.ChunkStats `json:"stats"`
	Output      string              `json:"output,omitempty"`
	ExportError string              `json:"export_error,omitempty"`
	DurationMS  int64               `json:"duration_ms"`
}

// ServeHTTP handles HTTP requests for extraction.
// With ?format=xlsx the assembled table is returned as a workbook.
func (h *ExtractHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "Method not allowed"})
		return
	}

	format := strings.ToLower(r.URL.Query().Get("format"))
	if format != "" && format != "json" && format != "xlsx" {
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("Unsupported format %q", format)})
		return
	}

	var req ExtractRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxExtractBody)).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	// Convert HTTP request to service request
	svcReq := service.ExtractRequest{
		Profile: req.Profile,
		Text:    req.Text,
		Path:    req.Path,
		Export:  req.Export,
	}

	res, err := h.extractService.Extract(ctx, svcReq)
	if err != nil {
		handleServiceError(w, ctx, err, res, "Failed to process extract request")
		return
	}

	if format == "xlsx" {
		h.writeWorkbook(w, r, res)
		return
	}

	resp := ExtractResponse{
		RunID:      res.RunID,
		Document:   res.Document,
		Profile:    res.Profile,
		Provenance: string(res.Provenance),
		Records:    res.Records,
		States:     res.States,
		Stats:      res.Stats,
		Output:     res.Output,
		DurationMS: res.Duration.Milliseconds(),
	}
	if res.Table != nil {
		resp.Columns = res.Table.Columns
	}
	if res.ExportErr != nil {
		resp.ExportError = res.ExportErr.Error()
	}
	writeJSON(w, ctx, resp)
}

// writeWorkbook renders res as an xlsx attachment.
func (h *ExtractHandler) writeWorkbook(w http.ResponseWriter, r *http.Request, res *pipeline.Result) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if h.workbooks == nil || res.Table == nil {
		writeError(w, http.StatusInternalServerError, ErrorResponse{Error: "Workbook export unavailable", RunID: res.RunID})
		return
	}

	// Render fully before writing headers so a failure can still be reported.
	var buf bytes.Buffer
	if err := h.workbooks.Render(&buf, res.Table); err != nil {
		logger.ErrorContext(ctx, "failed to render workbook", "error", err)
		writeError(w, http.StatusInternalServerError, ErrorResponse{Error: "Failed to render workbook", RunID: res.RunID})
		return
	}

	name := strings.TrimSuffix(filepath.Base(res.Document), filepath.Ext(res.Document)) + ".xlsx"
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("X-Run-ID", res.RunID)
	w.Header().Set("X-Provenance", string(res.Provenance))
	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.ErrorContext(ctx, "failed to write workbook", "error", err)
	}
}
