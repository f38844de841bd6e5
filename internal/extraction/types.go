package extraction

// Record maps schema field names to extracted values.
// An empty string means the value is unknown.
type Record map[string]string

// Provenance tags which extractor produced a set of records.
type Provenance string

const (
	// ProvenanceGenerated marks records decoded from generator output.
	ProvenanceGenerated Provenance = "generated"
	// ProvenanceFallback marks records produced by pattern matching.
	ProvenanceFallback Provenance = "fallback"
)

// Field describes one column of a schema.
type Field struct {
	// Name is the JSON key the generator is asked to produce.
	Name string `yaml:"name" json:"name"`
	// Header is the spreadsheet column title. Defaults to Name.
	Header string `yaml:"header,omitempty" json:"header,omitempty"`
	// Pattern is the fallback regular expression for this field.
	Pattern string `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	// Scheme is prefixed to fallback matches (e.g. "https://") when set.
	Scheme string `yaml:"scheme,omitempty" json:"scheme,omitempty"`
}

// Title returns the column header for the field.
func (f Field) Title() string {
	if f.Header != "" {
		return f.Header
	}
	return f.Name
}

// Schema is the ordered list of fields a record must contain.
type Schema struct {
	Name   string  `yaml:"name" json:"name"`
	Fields []Field `yaml:"fields" json:"fields"`
}

// Names returns the field names in schema order.
func (s Schema) Names() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Headers returns the column headers in schema order.
func (s Schema) Headers() []string {
	headers := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		headers[i] = f.Title()
	}
	return headers
}

