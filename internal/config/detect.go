package config

import (
	"fmt"
	"regexp"
	"sort"

	"docextract/internal/extraction"
)

// AutoProfile selects the profile from the document text once it is read.
const AutoProfile = "auto"

// Detector picks a profile for a document by its detect pattern.
type Detector struct {
	candidates []candidate
	fallback   Profile
}

type candidate struct {
	profile Profile
	re      *regexp.Regexp
}

// NewDetector builds a detector over the profiles that declare a detect
// pattern. Candidates are tried in name order; fallback is used when none
// matches.
func NewDetector(profiles map[string]Profile, fallback Profile) (*Detector, error) {
	if err := fallback.Validate(); err != nil {
		return nil, fmt.Errorf("fallback profile: %w", err)
	}

	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)

	d := &Detector{fallback: fallback}
	for _, name := range names {
		p := profiles[name]
		re, err := p.detector()
		if err != nil {
			return nil, fmt.Errorf("profile %q: %w", name, err)
		}
		if re == nil {
			continue
		}
		d.candidates = append(d.candidates, candidate{profile: p, re: re})
	}
	return d, nil
}

// Detect returns the first candidate whose pattern matches text, or the
// fallback profile with matched false.
func (d *Detector) Detect(text string) (p Profile, matched bool) {
	for _, c := range d.candidates {
		if c.re.MatchString(text) {
			return c.profile, true
		}
	}
	return d.fallback, false
}

// Detector returns a detector over the configured profiles that falls
// back to the default profile.
func (c *Config) Detector() (*Detector, error) {
	fallback, err := c.Profile("")
	if err != nil {
		return nil, err
	}
	return NewDetector(c.Profiles, fallback)
}

// detector compiles the profile's detect pattern. It returns nil when the
// profile has none.
func (p Profile) detector() (*regexp.Regexp, error) {
	if p.Detect == "" {
		return nil, nil
	}
	re, err := regexp.Compile("(?i)" + p.Detect)
	if err != nil {
		return nil, fmt.Errorf("detect pattern: %v: %w", err, extraction.ErrConfig)
	}
	return re, nil
}
