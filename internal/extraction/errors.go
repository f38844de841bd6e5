package extraction

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig is returned for invalid chunking, index or profile parameters.
	ErrConfig = errors.New("invalid configuration")
	// ErrNoContent is returned when the source document has no text.
	ErrNoContent = errors.New("no content")
	// ErrEmptyContext is returned when retrieval yields no usable context.
	ErrEmptyContext = errors.New("empty context")
	// ErrDimensionMismatch is returned when vector dimensions disagree.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrEmptyIndex is returned when searching an index that holds no vectors.
	ErrEmptyIndex = errors.New("empty index")
	// ErrGeneration is returned when the generator fails or its output is unusable.
	ErrGeneration = errors.New("generation failure")
	// ErrNoMatch is returned when no fallback pattern matched anything.
	ErrNoMatch = errors.New("no match")
	// ErrEmptySet is returned when there are no records to assemble.
	ErrEmptySet = errors.New("empty record set")
)

// Kind classifies pipeline errors.
type Kind string

const (
	KindUnknown           Kind = "unknown"
	KindConfig            Kind = "config"
	KindNoContent         Kind = "no_content"
	KindEmptyContext      Kind = "empty_context"
	KindDimensionMismatch Kind = "dimension_mismatch"
	KindEmptyIndex        Kind = "empty_index"
	KindGeneration        Kind = "generation"
	KindNoMatch           Kind = "no_match"
	KindEmptySet          Kind = "empty_set"
	KindExternal          Kind = "external"
)

var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrConfig, KindConfig},
	{ErrNoContent, KindNoContent},
	{ErrEmptyContext, KindEmptyContext},
	{ErrDimensionMismatch, KindDimensionMismatch},
	{ErrEmptyIndex, KindEmptyIndex},
	{ErrGeneration, KindGeneration},
	{ErrNoMatch, KindNoMatch},
	{ErrEmptySet, KindEmptySet},
}

// KindOf returns the kind of err. Errors that match no sentinel are KindExternal.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var e *Error
	if errors.As(err, &e) && e.Kind != "" {
		return e.Kind
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindExternal
}

// Error is a pipeline failure tagged with the stage it happened in.
type Error struct {
	Stage string
	Kind  Kind
	Err   error
}

// NewError wraps err for stage, deriving the kind from err.
func NewError(stage string, err error) *Error {
	return &Error{Stage: stage, Kind: KindOf(err), Err: err}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
