package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"docextract/internal/extraction"
	"docextract/internal/segment"
)

func TestBuiltin_Valid(t *testing.T) {
	for name, p := range Builtin() {
		if err := p.Validate(); err != nil {
			t.Errorf("builtin profile %q invalid: %v", name, err)
		}
	}

	students := Builtin()["students"]
	want := []string{"Roll_Number", "Name", "Status"}
	got := students.Schema().Headers()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("students headers = %v, want %v", got, want)
			break
		}
	}
	if students.Mode != segment.ModeLines || students.MinLineLength != 5 || students.K != 10 {
		t.Errorf("students chunking = %s/%d/k=%d", students.Mode, students.MinLineLength, students.K)
	}
}

func TestBuiltin_ProfilesPatterns(t *testing.T) {
	patterns, err := Builtin()["profiles"].Patterns()
	if err != nil {
		t.Fatalf("Patterns() error = %v", err)
	}
	if len(patterns) != 2 {
		t.Fatalf("len(patterns) = %d, want 2", len(patterns))
	}
	if !patterns[0].Regexp.MatchString("LinkedIn.com/in/someone") {
		t.Error("LinkedIn pattern should match case-insensitively")
	}
	if !patterns[1].Regexp.MatchString("github . com / someone") {
		t.Error("GitHub pattern should tolerate spaces")
	}
}

func TestProfile_Validate(t *testing.T) {
	base := Profile{
		Name:   "p",
		Query:  "q",
		Fields: []extraction.Field{{Name: "a"}},
		Mode:   segment.ModeWords, ChunkSize: 10, Overlap: 2,
		K: 3,
	}

	tests := []struct {
		name   string
		mutate func(*Profile)
	}{
		{name: "missing name", mutate: func(p *Profile) { p.Name = "" }},
		{name: "missing query", mutate: func(p *Profile) { p.Query = "" }},
		{name: "no fields", mutate: func(p *Profile) { p.Fields = nil }},
		{name: "empty field name", mutate: func(p *Profile) { p.Fields = []extraction.Field{{Name: ""}} }},
		{name: "duplicate field", mutate: func(p *Profile) { p.Fields = []extraction.Field{{Name: "a"}, {Name: "a"}} }},
		{name: "zero k", mutate: func(p *Profile) { p.K = 0 }},
		{name: "overlap not below size", mutate: func(p *Profile) { p.Overlap = 10 }},
		{name: "unknown mode", mutate: func(p *Profile) { p.Mode = "pages" }},
		{name: "bad pattern", mutate: func(p *Profile) { p.Fields = []extraction.Field{{Name: "a", Pattern: "("}} }},
		{name: "bad detect pattern", mutate: func(p *Profile) { p.Detect = "[" }},
		{name: "reserved name", mutate: func(p *Profile) { p.Name = AutoProfile }},
	}

	if err := base.Validate(); err != nil {
		t.Fatalf("base profile invalid: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			p.Fields = append([]extraction.Field(nil), base.Fields...)
			tt.mutate(&p)
			if err := p.Validate(); !errors.Is(err, extraction.ErrConfig) {
				t.Errorf("Validate() error = %v, want ErrConfig", err)
			}
		})
	}
}

func TestParseProfiles(t *testing.T) {
	data := []byte(`
profiles:
  - name: contacts
    description: Extract contact details from the text below.
    query: emails of all people
    mode: lines
    k: 4
    accept_empty: true
    fields:
      - name: email
        header: Email
        pattern: '[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}'
  - name: words
    query: anything
    fields:
      - name: x
`)

	profiles, err := ParseProfiles(data)
	if err != nil {
		t.Fatalf("ParseProfiles() error = %v", err)
	}

	c := profiles["contacts"]
	if c.Mode != segment.ModeLines || c.MinLineLength != segment.DefaultMinLineLength || c.K != 4 || !c.AcceptEmpty {
		t.Errorf("contacts = %+v", c)
	}
	if c.Fields[0].Title() != "Email" {
		t.Errorf("contacts header = %q, want Email", c.Fields[0].Title())
	}

	w := profiles["words"]
	if w.Mode != segment.ModeWords || w.ChunkSize != segment.DefaultChunkSize || w.Overlap != segment.DefaultOverlap || w.K != 10 {
		t.Errorf("words defaults = %+v", w)
	}
}

func TestParseProfiles_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "not yaml", data: "profiles: [: :"},
		{name: "unknown key", data: "profiles:\n  - name: a\n    query: q\n    colour: red\n    fields:\n      - name: x\n"},
		{name: "invalid profile", data: "profiles:\n  - name: a\n    query: q\n"},
		{name: "duplicate", data: "profiles:\n  - name: a\n    query: q\n    fields: [{name: x}]\n  - name: a\n    query: q\n    fields: [{name: x}]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseProfiles([]byte(tt.data)); !errors.Is(err, extraction.ErrConfig) {
				t.Errorf("ParseProfiles() error = %v, want ErrConfig", err)
			}
		})
	}
}

func TestLoadProfiles_MissingFile(t *testing.T) {
	if _, err := LoadProfiles(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadProfiles() expected error, got nil")
	}

	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, []byte("profiles: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	profiles, err := LoadProfiles(path)
	if err != nil || len(profiles) != 0 {
		t.Errorf("LoadProfiles(empty) = %v, %v", profiles, err)
	}
}
