package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"docextract/internal/extraction"
	"docextract/internal/fallback"
	"docextract/internal/segment"
)

// Profile is a named extraction schema plus its chunking and retrieval settings.
type Profile struct {
	Name        string             `yaml:"name" json:"name"`
	Description string             `yaml:"description,omitempty" json:"description,omitempty"`
	Query       string             `yaml:"query" json:"query"`
	Fields      []extraction.Field `yaml:"fields" json:"fields"`

	Mode          segment.Mode `yaml:"mode" json:"mode"`
	ChunkSize     int          `yaml:"chunk_size,omitempty" json:"chunk_size,omitempty"`
	Overlap       int          `yaml:"overlap,omitempty" json:"overlap,omitempty"`
	MinLineLength int          `yaml:"min_line_length,omitempty" json:"min_line_length,omitempty"`
	K             int          `yaml:"k" json:"k"`

	// AcceptEmpty treats a well-formed empty array from the generator as
	// a valid answer with zero records instead of falling back.
	AcceptEmpty bool `yaml:"accept_empty,omitempty" json:"accept_empty,omitempty"`

	// Detect is matched case-insensitively against the whole document text
	// when the auto profile is requested. Empty never matches.
	Detect string `yaml:"detect,omitempty" json:"detect,omitempty"`
}

// Schema returns the profile's record schema.
func (p Profile) Schema() extraction.Schema {
	return extraction.Schema{Name: p.Name, Fields: p.Fields}
}

// Segmenter returns the segmenter configured by the profile.
func (p Profile) Segmenter() (segment.Segmenter, error) {
	return segment.New(p.Mode, p.ChunkSize, p.Overlap, p.MinLineLength)
}

// Patterns compiles the profile's fallback patterns.
func (p Profile) Patterns() ([]fallback.Pattern, error) {
	return fallback.Compile(p.Fields)
}

// withDefaults fills unset chunking and retrieval settings.
func (p Profile) withDefaults() Profile {
	if p.Mode == "" {
		p.Mode = segment.ModeWords
	}
	if p.Mode == segment.ModeWords && p.ChunkSize == 0 {
		p.ChunkSize = segment.DefaultChunkSize
		if p.Overlap == 0 {
			p.Overlap = segment.DefaultOverlap
		}
	}
	if p.Mode == segment.ModeLines && p.MinLineLength == 0 {
		p.MinLineLength = segment.DefaultMinLineLength
	}
	if p.K == 0 {
		p.K = 10
	}
	return p
}

// Validate reports configuration errors in p, wrapped in extraction.ErrConfig.
func (p Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile name is required: %w", extraction.ErrConfig)
	}
	if p.Name == AutoProfile {
		return fmt.Errorf("profile name %q is reserved: %w", AutoProfile, extraction.ErrConfig)
	}
	if p.Query == "" {
		return fmt.Errorf("profile %q: query is required: %w", p.Name, extraction.ErrConfig)
	}
	if len(p.Fields) == 0 {
		return fmt.Errorf("profile %q: at least one field is required: %w", p.Name, extraction.ErrConfig)
	}
	seen := make(map[string]bool, len(p.Fields))
	for _, f := range p.Fields {
		if f.Name == "" {
			return fmt.Errorf("profile %q: field name is required: %w", p.Name, extraction.ErrConfig)
		}
		if seen[f.Name] {
			return fmt.Errorf("profile %q: duplicate field %q: %w", p.Name, f.Name, extraction.ErrConfig)
		}
		seen[f.Name] = true
	}
	if p.K <= 0 {
		return fmt.Errorf("profile %q: k must be greater than 0: %w", p.Name, extraction.ErrConfig)
	}
	if _, err := p.Segmenter(); err != nil {
		return fmt.Errorf("profile %q: %w", p.Name, err)
	}
	if _, err := p.Patterns(); err != nil {
		return fmt.Errorf("profile %q: %w", p.Name, err)
	}
	if _, err := p.detector(); err != nil {
		return fmt.Errorf("profile %q: %w", p.Name, err)
	}
	return nil
}

// profileFile is the on-disk layout of PROFILES_PATH.
type profileFile struct {
	Profiles []Profile `yaml:"profiles"`
}

// LoadProfiles reads and validates the profiles in the YAML file at path.
func LoadProfiles(path string) (map[string]Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}
	return ParseProfiles(data)
}

// ParseProfiles decodes and validates YAML profile definitions.
func ParseProfiles(data []byte) (map[string]Profile, error) {
	var file profileFile
	if err := yaml.UnmarshalWithOptions(data, &file, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("parse profiles: %v: %w", err, extraction.ErrConfig)
	}

	out := make(map[string]Profile, len(file.Profiles))
	for _, p := range file.Profiles {
		p = p.withDefaults()
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := out[p.Name]; dup {
			return nil, fmt.Errorf("profile %q defined twice: %w", p.Name, extraction.ErrConfig)
		}
		out[p.Name] = p
	}
	return out, nil
}

const (
	linkedInPattern = `linkedin\s*[\.:]?\s*com\s*/\s*in\s*/\s*[A-Za-z0-9\-_/]+`
	gitHubPattern   = `github\s*[\.:]?\s*com\s*/\s*[A-Za-z0-9\-_/]+`
	resumeDetect    = `linkedin|github`
	marksheetDetect = `pass|fail`
	rollPattern     = `\b(?:roll\s*(?:no|number)?\.?\s*[:#-]?\s*)?(\d{2,12})\b`
	statusPattern   = `\b(pass(?:ed)?|fail(?:ed)?|absent|present|detained)\b`
)

// Builtin returns the built-in profiles keyed by name.
func Builtin() map[string]Profile {
	profiles := []Profile{
		{
			Name:        "students",
			Description: "Extract student details from the text below.",
			Query:       "Extract roll number, name and status of all students",
			Fields: []extraction.Field{
				{Name: "roll", Header: "Roll_Number", Pattern: rollPattern},
				{Name: "name", Header: "Name"},
				{Name: "status", Header: "Status", Pattern: statusPattern},
			},
			Mode:          segment.ModeLines,
			MinLineLength: segment.DefaultMinLineLength,
			K:             10,
			Detect:        marksheetDetect,
		},
		{
			Name:        "profiles",
			Description: "Extract student details from the text below.",
			Query:       "Extract LinkedIn and GitHub of all students",
			Fields: []extraction.Field{
				{Name: "LinkedIn", Pattern: linkedInPattern, Scheme: "https://"},
				{Name: "GitHub", Pattern: gitHubPattern, Scheme: "https://"},
			},
			Mode:          segment.ModeLines,
			MinLineLength: segment.DefaultMinLineLength,
			K:             10,
			Detect:        resumeDetect,
		},
		{
			Name: "roster",
			Description: "The text comes from a PDF that contains student information (names, roll numbers, or IDs). " +
				"The data might not have clear labels, so look for patterns of names and numbers.",
			Query: "list of students names and numbers",
			Fields: []extraction.Field{
				{Name: "name", Header: "Name"},
				{Name: "roll", Header: "Roll_Number", Pattern: rollPattern},
			},
			Mode:      segment.ModeWords,
			ChunkSize: segment.DefaultChunkSize,
			Overlap:   segment.DefaultOverlap,
			K:         5,
		},
	}

	out := make(map[string]Profile, len(profiles))
	for _, p := range profiles {
		out[p.Name] = p
	}
	return out
}
