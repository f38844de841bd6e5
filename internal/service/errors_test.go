package service

import (
	"errors"
	"fmt"
	"testing"

	"docextract/internal/extraction"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *ValidationError
		want    string
	}{
		{
			name: "field and message",
			err: &ValidationError{
				Field:   "profile",
				Message: "unknown profile",
			},
			want: "validation error on field profile: unknown profile",
		},
		{
			name: "empty field",
			err: &ValidationError{
				Field:   "",
				Message: "invalid",
			},
			want: "validation error on field : invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("ValidationError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWrapError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		msg     string
		wantNil bool
		wantMsg string
	}{
		{
			name:    "nil error",
			err:     nil,
			msg:     "context",
			wantNil: true,
		},
		{
			name:    "wrapped error",
			err:     errors.New("original error"),
			msg:     "context",
			wantNil: false,
			wantMsg: "context: original error",
		},
		{
			name:    "empty message",
			err:     errors.New("original error"),
			msg:     "",
			wantNil: false,
			wantMsg: ": original error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapError(tt.err, tt.msg)
			if tt.wantNil {
				if got != nil {
					t.Errorf("WrapError() = %v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Errorf("WrapError() = nil, want error")
				return
			}
			if got.Error() != tt.wantMsg {
				t.Errorf("WrapError() = %v, want %v", got.Error(), tt.wantMsg)
			}
			// Verify error wrapping
			if !errors.Is(got, tt.err) {
				t.Errorf("WrapError() should wrap original error")
			}
		})
	}
}

func TestErrorConstants(t *testing.T) {
	if ErrInvalidInput == nil {
		t.Error("ErrInvalidInput should not be nil")
	}
	if ErrNotFound == nil {
		t.Error("ErrNotFound should not be nil")
	}
	if ErrExternalService == nil {
		t.Error("ErrExternalService should not be nil")
	}
	if ErrUnprocessable == nil {
		t.Error("ErrUnprocessable should not be nil")
	}

	// Test error matching
	if !errors.Is(ErrInvalidInput, ErrInvalidInput) {
		t.Error("ErrInvalidInput should match itself")
	}
	if !errors.Is(ErrNotFound, ErrNotFound) {
		t.Error("ErrNotFound should match itself")
	}
	if !errors.Is(ErrExternalService, ErrExternalService) {
		t.Error("ErrExternalService should match itself")
	}
}


func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantNil  bool
		wantIs   error
		wantKind extraction.Kind
	}{
		{
			name:    "nil",
			err:     nil,
			wantNil: true,
		},
		{
			name:     "collaborator failure",
			err:      extraction.NewError("indexing", errors.New("connection refused")),
			wantIs:   ErrExternalService,
			wantKind: extraction.KindExternal,
		},
		{
			name:     "no content",
			err:      extraction.NewError("segmenting", fmt.Errorf("0 pages: %w", extraction.ErrNoContent)),
			wantIs:   ErrUnprocessable,
			wantKind: extraction.KindNoContent,
		},
		{
			name:     "no match",
			err:      extraction.NewError("fallback", extraction.ErrNoMatch),
			wantIs:   ErrUnprocessable,
			wantKind: extraction.KindNoMatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err)
			if tt.wantNil {
				if got != nil {
					t.Errorf("classify() = %v, want nil", got)
				}
				return
			}
			if !errors.Is(got, tt.wantIs) {
				t.Errorf("classify() = %v, want it to match %v", got, tt.wantIs)
			}
			if !errors.Is(got, tt.err) {
				t.Errorf("classify() should wrap the original error")
			}
			if kind := extraction.KindOf(got); kind != tt.wantKind {
				t.Errorf("KindOf(classify()) = %v, want %v", kind, tt.wantKind)
			}
		})
	}
}
