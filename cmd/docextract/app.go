package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"docextract/internal/config"
	"docextract/internal/export"
	"docextract/internal/extraction"
	"docextract/internal/llm"
	"docextract/internal/pipeline"
	"docextract/internal/source"
	"docextract/internal/storage"
)

// app holds the wired components shared by every command.
type app struct {
	cfg      *config.Config
	db       *sql.DB
	runs     storage.RunStore
	exporter *export.XLSXExporter
	pipeline *pipeline.Pipeline
	detector *config.Detector
}

// newApp loads configuration, configures logging, opens the run history
// database and wires the pipeline to the configured providers.
func newApp(stdout io.Writer) (*app, error) {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := newLogger(cfg, stdout)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	slog.Debug("logging configured", "level", cfg.LogLevel, "format", cfg.LogFormat)

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := storage.Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Info("database initialized", "path", cfg.DBPath)

	detector, err := cfg.Detector()
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to build profile detector: %w", err)
	}

	runs := storage.NewRunRepo(db)
	exporter := export.NewXLSXExporter(export.DefaultSheet)

	p := pipeline.New(newEmbedder(cfg), newGenerator(cfg), exporter, pipeline.Options{
		NewIndex:        newIndexFactory(cfg),
		Repair:          cfg.ParserRepair,
		MaxContextRunes: cfg.PromptMaxContext,
		Runs:            runs,
	})
	slog.Info("pipeline initialized",
		"provider", cfg.LLMProvider,
		"model", cfg.LLMModelName,
		"embedding_model", cfg.EmbeddingModelName,
		"vector_backend", cfg.VectorBackend,
	)

	return &app{cfg: cfg, db: db, runs: runs, exporter: exporter, pipeline: p, detector: detector}, nil
}

// Close releases the database.
func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		slog.Warn("failed to close database", "error", err)
	}
}

// request builds a pipeline request for the document at path.
// The auto profile is resolved by the pipeline once the text is read.
func (a *app) request(path, profileName, dest string) (pipeline.Request, error) {
	req := pipeline.Request{Document: path, Dest: dest}
	if profileName == config.AutoProfile {
		req.Detector = a.detector
	} else {
		profile, err := a.cfg.Profile(profileName)
		if err != nil {
			return pipeline.Request{}, err
		}
		req.Profile = profile
	}

	src, err := source.Open(path, sourceConfig(a.cfg))
	if err != nil {
		return pipeline.Request{}, err
	}
	req.Source = src
	return req, nil
}

// ping checks the run history database.
func (a *app) ping(ctx context.Context) error {
	return a.db.PingContext(ctx)
}

// newLogger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: level,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler), nil
}

// parseLevel parses a LOG_LEVEL value.
func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL %q: %w", s, extraction.ErrConfig)
	}
	return level, nil
}

// newEmbedder returns the embedding client for LLM_PROVIDER.
func newEmbedder(cfg *config.Config) pipeline.Embedder {
	if cfg.LLMProvider == config.ProviderOpenAI {
		return llm.NewOpenAIEmbedder(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModelName, cfg.EmbeddingQueryPrefix, cfg.EmbeddingTimeout)
	}
	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModelName, cfg.EmbeddingTimeout)
	embedder.QueryPrefix = cfg.EmbeddingQueryPrefix
	embedder.ExpectedSize = cfg.EmbeddingDim
	return embedder
}

// newGenerator returns the generation client for LLM_PROVIDER.
func newGenerator(cfg *config.Config) pipeline.Generator {
	if cfg.LLMProvider == config.ProviderOpenAI {
		return llm.NewOpenAIGenerator(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName, cfg.LLMTimeout)
	}
	return llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName, cfg.LLMTimeout)
}

// newIndexFactory returns the per-run index factory for VECTOR_BACKEND.
func newIndexFactory(cfg *config.Config) pipeline.IndexFactory {
	if cfg.VectorBackend == config.BackendQdrant {
		return pipeline.QdrantIndexes(cfg.QdrantURL, cfg.QdrantAPIKey, cfg.QdrantCollectionPrefix)
	}
	return pipeline.MemoryIndexes()
}

// sourceConfig maps the OCR settings onto the document sources.
func sourceConfig(cfg *config.Config) source.Config {
	return source.Config{
		Pdftotext: cfg.PdftotextPath,
		Pdftoppm:  cfg.PdftoppmPath,
		Tesseract: cfg.TesseractPath,
		Lang:      cfg.OCRLang,
		DPI:       cfg.OCRDPI,
	}
}
