package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"docextract/internal/assemble"
	"docextract/internal/config"
	"docextract/internal/contextutil"
	"docextract/internal/extraction"
	"docextract/internal/fallback"
	"docextract/internal/parse"
	"docextract/internal/prompt"
	"docextract/internal/retrieve"
	"docextract/internal/segment"
	"docextract/internal/storage"
	"docextract/internal/vectorindex"
)

// Options configures a Pipeline. The zero value uses in-memory indexes,
// strict parsing and the default prompt bound, and records no history.
type Options struct {
	// NewIndex builds the per-run vector index.
	NewIndex IndexFactory
	// Repair enables JSON repair of generator output.
	Repair bool
	// MaxContextRunes bounds the context embedded in the prompt.
	MaxContextRunes int
	// Runs records run history when set.
	Runs storage.RunStore
}

// Pipeline extracts records from one document at a time.
// It holds no per-run state and is safe for concurrent use.
type Pipeline struct {
	embedder  Embedder
	generator Generator
	exporter  Exporter
	newIndex  IndexFactory
	parser    parse.Parser
	maxRunes  int
	runs      storage.RunStore
	now       func() time.Time
}

// New creates a pipeline. exporter may be nil when no run exports.
func New(embedder Embedder, generator Generator, exporter Exporter, opts Options) *Pipeline {
	newIndex := opts.NewIndex
	if newIndex == nil {
		newIndex = MemoryIndexes()
	}
	return &Pipeline{
		embedder:  embedder,
		generator: generator,
		exporter:  exporter,
		newIndex:  newIndex,
		parser:    parse.Parser{Repair: opts.Repair},
		maxRunes:  opts.MaxContextRunes,
		runs:      opts.Runs,
		now:       time.Now,
	}
}

// Request is one document to extract.
type Request struct {
	// Document names the document in logs and run history.
	Document string
	Source   TextSource
	Profile  config.Profile
	// Detector, when set, picks the profile from the document text and
	// Profile is ignored.
	Detector *config.Detector
	// Dest is the export destination. Empty skips the export stage.
	Dest string
}

// Result is the outcome of one run. It is returned for failed runs too,
// with the state trace up to the failure.
type Result struct {
	RunID      string                `json:"run_id"`
	Document   string                `json:"document"`
	Profile    string                `json:"profile"`
	Records    []extraction.Record   `json:"records"`
	Provenance extraction.Provenance `json:"provenance,omitempty"`
	Table      *assemble.Table       `json:"table,omitempty"`
	States     []State               `json:"states"`
	Stats      ChunkStats            `json:"stats"`
	Output     string                `json:"output,omitempty"`
	Duration   time.Duration         `json:"duration"`
	// GenerationErr is the recoverable error that sent the run to the fallback path.
	GenerationErr error `json:"-"`
	// ExportErr is set when the export stage failed. The records stay valid.
	ExportErr error `json:"-"`
}

// State returns the last state reached.
func (r *Result) State() State {
	if len(r.States) == 0 {
		return ""
	}
	return r.States[len(r.States)-1]
}

// run carries the state of one document through the stages.
type run struct {
	p       *Pipeline
	req     Request
	profile config.Profile
	res     *Result
	logger  *slog.Logger
	start   time.Time
}

func (r *run) enter(ctx context.Context, s State, args ...any) {
	r.res.States = append(r.res.States, s)
	if s.Terminal() {
		r.res.Duration = r.p.now().Sub(r.start)
	}
	r.logger.DebugContext(ctx, "pipeline state", append([]any{"state", string(s)}, args...)...)
}

// fail ends the run in StateFailed with err tagged by stage.
func (r *run) fail(ctx context.Context, stage State, err error) (*Result, error) {
	perr := extraction.NewError(string(stage), err)
	r.enter(ctx, StateFailed)
	r.logger.ErrorContext(ctx, "extraction failed", "stage", string(stage), "kind", string(perr.Kind), "error", err)
	r.p.finishRun(ctx, r.res, perr)
	return r.res, perr
}

// Run extracts records from one document.
// Generation failures are absorbed by the fallback extractor; every other
// failure ends the run and is returned as an *extraction.Error.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	profileName := req.Profile.Name
	if req.Detector != nil {
		profileName = config.AutoProfile
	}
	res := &Result{
		RunID:    uuid.New().String(),
		Document: req.Document,
		Profile:  profileName,
		Records:  []extraction.Record{},
	}
	logger := contextutil.LoggerFromContext(ctx).With("run_id", res.RunID, "document", req.Document, "profile", profileName)
	ctx = contextutil.WithLogger(ctx, logger)
	r := &run{p: p, req: req, profile: req.Profile, res: res, logger: logger, start: p.now()}

	p.startRun(ctx, res)
	logger.InfoContext(ctx, "extraction started")

	var (
		seg      segment.Segmenter
		patterns []fallback.Pattern
		err      error
	)
	// Pre-flight: profile parameters are checked before any external call.
	// A detected profile is checked as soon as the source is read.
	if req.Detector == nil {
		if seg, patterns, err = r.preflight(); err != nil {
			return r.fail(ctx, StateSegmenting, err)
		}
	}
	if req.Source == nil {
		return r.fail(ctx, StateSegmenting, fmt.Errorf("no text source: %w", extraction.ErrConfig))
	}

	r.enter(ctx, StateSegmenting)
	text, err := r.read(ctx)
	if err != nil {
		return r.fail(ctx, StateSegmenting, err)
	}
	if req.Detector != nil {
		r.detect(ctx, text)
		if seg, patterns, err = r.preflight(); err != nil {
			return r.fail(ctx, StateSegmenting, err)
		}
	}
	chunks, err := r.segment(text, seg)
	if err != nil {
		return r.fail(ctx, StateSegmenting, err)
	}

	r.enter(ctx, StateIndexing, "chunks", len(chunks))
	index, err := r.index(ctx, chunks)
	if closer, ok := index.(indexCloser); ok {
		defer func() {
			if cerr := closer.Close(context.WithoutCancel(ctx)); cerr != nil {
				logger.WarnContext(ctx, "failed to release index", "error", cerr)
			}
		}()
	}
	if err != nil {
		return r.fail(ctx, StateIndexing, err)
	}

	r.enter(ctx, StateRetrieving, "k", r.profile.K)
	retrieved, err := retrieve.New(p.embedder, index, chunks).Retrieve(ctx, r.profile.Query, r.profile.K)
	if err != nil {
		return r.fail(ctx, StateRetrieving, err)
	}
	res.Stats.ContextChunks = len(retrieved.Chunks)
	res.Stats.ContextRunes = len([]rune(retrieved.Text))

	r.enter(ctx, StatePrompting)
	schema := r.profile.Schema()
	builder := prompt.Builder{Description: r.profile.Description, MaxContextRunes: p.maxRunes}
	promptText := builder.Build(retrieved.Text, schema.Names())

	records, ok := r.generate(ctx, promptText, schema.Names())
	if ok {
		res.Provenance = extraction.ProvenanceGenerated
	} else {
		r.enter(ctx, StateFallback)
		records, err = fallback.Extract(chunks, patterns)
		if err != nil {
			r.enter(ctx, StateFallbackEmpty)
			return r.fail(ctx, StateFallback, err)
		}
		r.enter(ctx, StateFallbackExtracted, "records", len(records))
		res.Provenance = extraction.ProvenanceFallback
	}

	r.enter(ctx, StateAssembling)
	table, err := assemble.AssembleWith(records, schema, assemble.Options{
		AllowEmpty: res.Provenance == extraction.ProvenanceGenerated && r.profile.AcceptEmpty,
	})
	if err != nil {
		return r.fail(ctx, StateAssembling, err)
	}
	res.Table = table
	res.Records = table.Records(schema)

	if req.Dest != "" && p.exporter != nil {
		r.enter(ctx, StateExporting, "dest", req.Dest)
		if err := p.exporter.Write(ctx, table, req.Dest); err != nil {
			res.ExportErr = err
			logger.ErrorContext(ctx, "export failed", "dest", req.Dest, "error", err)
		} else {
			res.Output = req.Dest
		}
	}

	r.enter(ctx, StateDone)
	logger.InfoContext(ctx, "extraction finished",
		"provenance", string(res.Provenance),
		"records", len(res.Records),
		"chunks", res.Stats.Chunks,
		"duration_ms", res.Duration.Milliseconds(),
	)
	p.finishRun(ctx, res, nil)
	return res, nil
}

// preflight validates the run's profile and builds its segmenter and
// fallback patterns.
func (r *run) preflight() (segment.Segmenter, []fallback.Pattern, error) {
	if err := r.profile.Validate(); err != nil {
		return nil, nil, err
	}
	seg, err := r.profile.Segmenter()
	if err != nil {
		return nil, nil, err
	}
	patterns, err := r.profile.Patterns()
	if err != nil {
		return nil, nil, err
	}
	return seg, patterns, nil
}

// read returns the source's pages joined by newlines.
// A source with no text is ErrNoContent.
func (r *run) read(ctx context.Context) (string, error) {
	pages, err := r.req.Source.Pages(ctx)
	if err != nil {
		return "", fmt.Errorf("read source: %w", err)
	}
	r.res.Stats = pageStats(pages)

	text := strings.Join(pages, "\n")
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%d pages without text: %w", len(pages), extraction.ErrNoContent)
	}
	return text, nil
}

// detect switches the run to the profile the detector picks for text.
func (r *run) detect(ctx context.Context, text string) {
	profile, matched := r.req.Detector.Detect(text)
	r.profile = profile
	r.res.Profile = profile.Name
	r.logger.InfoContext(ctx, "profile detected", "detected", profile.Name, "matched", matched)
}

// segment splits text into chunks. Text that yields no chunks is ErrNoContent.
func (r *run) segment(text string, seg segment.Segmenter) ([]segment.Chunk, error) {
	chunks, err := seg.Segment(text)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("segmentation produced no chunks: %w", extraction.ErrNoContent)
	}

	r.res.Stats.Chunks = len(chunks)
	r.res.Stats.Tokens = chunkTokenStats(chunks)
	return chunks, nil
}

// index embeds every chunk and builds a fresh index over the vectors.
// The index is returned even on embedding failure so it can be released.
func (r *run) index(ctx context.Context, chunks []segment.Chunk) (vectorindex.Index, error) {
	index, err := r.p.newIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	vectors := make([][]float32, 0, len(chunks))
	for _, c := range chunks {
		vec, err := r.p.embedder.Embed(ctx, c.Text)
		if err != nil {
			return index, fmt.Errorf("embed chunk %d: %w", c.Index, err)
		}
		vectors = append(vectors, vec)
	}

	if err := index.Build(ctx, vectors); err != nil {
		return index, fmt.Errorf("build index: %w", err)
	}
	return index, nil
}

// generate runs the generator and parser. It reports false when the run
// must fall back, recording the reason on the result.
func (r *run) generate(ctx context.Context, text string, fields []string) ([]extraction.Record, bool) {
	raw, err := r.p.generator.Generate(ctx, text)
	if err != nil {
		r.res.GenerationErr = fmt.Errorf("%w: %v", extraction.ErrGeneration, err)
		r.enter(ctx, StateGenerationFailed)
		r.logger.WarnContext(ctx, "generation failed, using fallback", "error", err)
		return nil, false
	}
	r.enter(ctx, StateGenerated, "output_len", len(raw))

	r.enter(ctx, StateParsing)
	records, err := r.p.parser.Decode(raw, fields)
	switch {
	case err != nil:
		r.res.GenerationErr = fmt.Errorf("%w: %v", extraction.ErrGeneration, err)
	case len(records) == 0 && !r.profile.AcceptEmpty:
		r.res.GenerationErr = fmt.Errorf("%w: empty record array", extraction.ErrGeneration)
	default:
		r.enter(ctx, StateParsed, "records", len(records))
		return records, true
	}

	r.enter(ctx, StateParseEmpty)
	r.logger.WarnContext(ctx, "generator output unusable, using fallback", "error", r.res.GenerationErr)
	return nil, false
}

func (p *Pipeline) startRun(ctx context.Context, res *Result) {
	if p.runs == nil {
		return
	}
	rec := &storage.RunRecord{
		ID:        res.RunID,
		Document:  res.Document,
		Profile:   res.Profile,
		Status:    storage.StatusRunning,
		StartedAt: p.now().UTC(),
	}
	if err := p.runs.Create(ctx, rec); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to record run", "error", err)
	}
}

func (p *Pipeline) finishRun(ctx context.Context, res *Result, runErr error) {
	if p.runs == nil {
		return
	}
	rec := &storage.RunRecord{
		ID:          res.RunID,
		Profile:     res.Profile,
		Status:      storage.StatusDone,
		Provenance:  string(res.Provenance),
		RecordCount: len(res.Records),
		ChunkCount:  res.Stats.Chunks,
		OutputPath:  res.Output,
	}
	if runErr != nil {
		rec.Status = storage.StatusFailed
		rec.ErrorKind = string(extraction.KindOf(runErr))
		rec.Error = runErr.Error()
	} else if res.ExportErr != nil {
		rec.Error = res.ExportErr.Error()
	}
	if err := p.runs.Finish(context.WithoutCancel(ctx), rec); err != nil && !errors.Is(err, storage.ErrNotFound) {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to record run outcome", "error", err)
	}
}
