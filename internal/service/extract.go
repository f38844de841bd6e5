package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_extractor.go -package=mocks docextract/internal/service Extractor
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_extract_service.go -package=mocks -mock_names=ExtractService=MockExtractService docextract/internal/service ExtractService

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"docextract/internal/config"
	"docextract/internal/contextutil"
	"docextract/internal/pipeline"
	"docextract/internal/source"
	"docextract/internal/storage"
)

// Extractor runs the extraction pipeline for one document.
// This interface is defined from the service layer's perspective (consumer-first).
type Extractor interface {
	Run(ctx context.Context, req pipeline.Request) (*pipeline.Result, error)
}

// ExtractRequest represents an extraction request in the domain layer.
// Exactly one of Text and Path must be set.
type ExtractRequest struct {
	// Profile names the extraction profile. Empty selects the default
	// profile and "auto" picks one from the document text.
	Profile string
	// Text is inline document text. Form feeds separate pages.
	Text string
	// Path is a document inside the inbox directory. Relative paths are
	// resolved against it.
	Path string
	// Export writes the workbook under the output directory.
	Export bool
}

// ExtractService provides document extraction and run history.
type ExtractService interface {
	// Extract runs one document through the pipeline.
	Extract(ctx context.Context, req ExtractRequest) (*pipeline.Result, error)
	// Profiles returns the available profiles sorted by name.
	Profiles() []config.Profile
	// Runs returns the most recent runs first.
	Runs(ctx context.Context, limit int) ([]storage.RunRecord, error)
	// Run returns one run by ID.
	Run(ctx context.Context, id string) (*storage.RunRecord, error)
}

// Options configures an ExtractService.
type Options struct {
	Profiles       map[string]config.Profile
	DefaultProfile string
	Source         source.Config
	OutputDir      string
	// InboxDir is the only directory path inputs may read from.
	// Empty rejects every path input.
	InboxDir string
	// Detector serves the auto profile. Nil leaves auto unknown.
	Detector *config.Detector
}

// extractService implements ExtractService.
type extractService struct {
	extractor Extractor
	runs      storage.RunStore
	opts      Options
}

// NewExtractService creates a new ExtractService. runs may be nil, in which
// case the history endpoints report no runs.
func NewExtractService(extractor Extractor, runs storage.RunStore, opts Options) ExtractService {
	return &extractService{
		extractor: extractor,
		runs:      runs,
		opts:      opts,
	}
}

// Extract validates req, opens its source and runs the pipeline.
func (s *extractService) Extract(ctx context.Context, req ExtractRequest) (*pipeline.Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	text := strings.TrimSpace(req.Text)
	path := strings.TrimSpace(req.Path)
	switch {
	case text == "" && path == "":
		logger.WarnContext(ctx, "extract request without input")
		return nil, &ValidationError{Field: "text", Message: "text or path is required"}
	case text != "" && path != "":
		logger.WarnContext(ctx, "extract request with two inputs")
		return nil, &ValidationError{Field: "path", Message: "cannot be combined with text"}
	}

	var preq pipeline.Request
	profileName := config.AutoProfile
	if req.Profile == config.AutoProfile && s.opts.Detector != nil {
		preq.Detector = s.opts.Detector
	} else {
		profile, err := s.profile(req.Profile)
		if err != nil {
			return nil, err
		}
		preq.Profile = profile
		profileName = profile.Name
	}

	if path != "" {
		resolved, err := s.inboxPath(path)
		if err != nil {
			logger.WarnContext(ctx, "extract request path rejected", "path", path, "error", err)
			return nil, err
		}
		src, err := source.Open(resolved, s.opts.Source)
		switch {
		case errors.Is(err, source.ErrUnsupported):
			return nil, &ValidationError{Field: "path", Message: "unsupported document type " + filepath.Ext(path)}
		case errors.Is(err, os.ErrNotExist):
			return nil, WrapError(ErrNotFound, "document "+path)
		case err != nil:
			return nil, WrapError(err, "failed to open document")
		}
		preq.Document = path
		preq.Source = src
	} else {
		preq.Document = "inline"
		preq.Source = source.StaticSource(strings.Split(req.Text, "\f"))
	}

	if req.Export {
		preq.Dest = s.outputPath(preq.Document, profileName)
	}

	res, err := s.extractor.Run(ctx, preq)
	if err != nil {
		logger.ErrorContext(ctx, "extraction failed", "document", preq.Document, "error", err)
		return res, classify(err)
	}
	if res.ExportErr != nil {
		logger.WarnContext(ctx, "extraction succeeded without export", "document", preq.Document, "error", res.ExportErr)
	}

	logger.InfoContext(ctx, "extraction request processed successfully",
		"run_id", res.RunID,
		"provenance", string(res.Provenance),
		"records", len(res.Records),
	)
	return res, nil
}

// profile resolves name, falling back to the default profile.
func (s *extractService) profile(name string) (config.Profile, error) {
	if name == "" {
		name = s.opts.DefaultProfile
	}
	p, ok := s.opts.Profiles[name]
	if !ok {
		return config.Profile{}, &ValidationError{Field: "profile", Message: "unknown profile " + name}
	}
	return p, nil
}

// inboxPath resolves path inside the inbox directory. Paths that leave
// it, directly or through a symlink, are a ValidationError.
func (s *extractService) inboxPath(path string) (string, error) {
	if s.opts.InboxDir == "" {
		return "", &ValidationError{Field: "path", Message: "path input is disabled"}
	}
	root, err := filepath.Abs(s.opts.InboxDir)
	if err != nil {
		return "", WrapError(err, "failed to resolve inbox directory")
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	path = filepath.Clean(path)
	if !within(root, path) {
		return "", &ValidationError{Field: "path", Message: "must be inside the inbox directory"}
	}

	// Missing files are reported by source.Open.
	real, err := filepath.EvalSymlinks(path)
	if err != nil {
		return path, nil
	}
	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		realRoot = root
	}
	if !within(realRoot, real) {
		return "", &ValidationError{Field: "path", Message: "must be inside the inbox directory"}
	}
	return real, nil
}

// within reports whether path is root or below it.
func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// outputPath returns a unique workbook path for document under the output directory.
func (s *extractService) outputPath(document, profile string) string {
	base := strings.TrimSuffix(filepath.Base(document), filepath.Ext(document))
	name := base + "-" + profile + "-" + uuid.New().String()[:8] + ".xlsx"
	return filepath.Join(s.opts.OutputDir, name)
}

// Profiles returns the configured profiles sorted by name.
func (s *extractService) Profiles() []config.Profile {
	out := make([]config.Profile, 0, len(s.opts.Profiles))
	for _, p := range s.opts.Profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Runs returns recent run history.
func (s *extractService) Runs(ctx context.Context, limit int) ([]storage.RunRecord, error) {
	if limit < 0 {
		return nil, &ValidationError{Field: "limit", Message: "must not be negative"}
	}
	if s.runs == nil {
		return []storage.RunRecord{}, nil
	}
	runs, err := s.runs.List(ctx, limit)
	if err != nil {
		return nil, WrapError(err, "failed to list runs")
	}
	return runs, nil
}

// Run returns one run by ID.
func (s *extractService) Run(ctx context.Context, id string) (*storage.RunRecord, error) {
	if id == "" {
		return nil, &ValidationError{Field: "id", Message: "cannot be empty"}
	}
	if s.runs == nil {
		return nil, WrapError(ErrNotFound, "run "+id)
	}
	run, err := s.runs.Get(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, WrapError(ErrNotFound, "run "+id)
	}
	if err != nil {
		return nil, WrapError(err, "failed to get run")
	}
	return run, nil
}
