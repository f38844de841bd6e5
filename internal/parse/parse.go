// Package parse pulls structured records out of free-form generator output.
package parse

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/kaptinlin/jsonrepair"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"docextract/internal/extraction"
)

var (
	// ErrNoArray means the output holds no '[' ... ']' span.
	ErrNoArray = errors.New("no JSON array in output")
	// ErrDecode means the bracketed span is not a JSON array of objects.
	ErrDecode = errors.New("malformed JSON array")
)

// decoder keeps JSON numbers as json.Number so long identifiers survive
// without float rounding.
var decoder = jsoniter.Config{UseNumber: true}.Froze()

// arrayOfObjects is the only output shape accepted from the generator.
var arrayOfObjects = jsonschema.MustCompileString("records.json", `{
	"type": "array",
	"items": {"type": "object"}
}`)

// Parser decodes generator output. The zero value decodes strictly.
type Parser struct {
	// Repair runs the bracketed span through jsonrepair when strict decoding fails.
	Repair bool
}

// Parse returns the records in raw coerced to fields, or an empty slice
// when raw holds no decodable array. It never fails.
func Parse(raw string, fields []string) []extraction.Record {
	return Parser{}.Parse(raw, fields)
}

// Decode is Parse with the failure reason kept.
func Decode(raw string, fields []string) ([]extraction.Record, error) {
	return Parser{}.Decode(raw, fields)
}

// Parse returns the records in raw coerced to fields, or an empty slice.
func (p Parser) Parse(raw string, fields []string) []extraction.Record {
	records, err := p.Decode(raw, fields)
	if err != nil {
		return []extraction.Record{}
	}
	return records
}

// Decode locates the span from the first '[' to the last ']' in raw and
// decodes it as a JSON array of objects. A well-formed empty array returns
// an empty slice and a nil error.
func (p Parser) Decode(raw string, fields []string) ([]extraction.Record, error) {
	span, ok := bracketed(raw)
	if !ok {
		return nil, ErrNoArray
	}

	items, err := decodeArray(span)
	if err != nil && p.Repair {
		repaired, rerr := jsonrepair.JSONRepair(span)
		if rerr == nil {
			items, err = decodeArray(repaired)
		}
	}
	if err != nil {
		return nil, err
	}

	records := make([]extraction.Record, 0, len(items))
	for _, item := range items {
		obj, _ := item.(map[string]any)
		records = append(records, coerce(obj, fields))
	}
	return records, nil
}

// bracketed returns raw[first '[' : last ']'+1].
func bracketed(raw string) (string, bool) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end < start {
		return "", false
	}
	return raw[start : end+1], true
}

func decodeArray(s string) ([]any, error) {
	var v any
	if err := decoder.UnmarshalFromString(s, &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if err := arrayOfObjects.Validate(v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	items, _ := v.([]any)
	return items, nil
}

// coerce maps obj onto fields. Missing keys become "", extra keys are dropped.
func coerce(obj map[string]any, fields []string) extraction.Record {
	r := make(extraction.Record, len(fields))
	for _, f := range fields {
		r[f] = text(obj[f])
	}
	return r
}

// text renders a decoded JSON value as a cell string.
func text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		s, err := decoder.MarshalToString(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return s
	}
}
