package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docextract/internal/extraction"
)

var studentFields = []string{"roll", "name", "status"}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []extraction.Record
	}{
		{
			name: "single record",
			raw:  `[{"roll":"12","name":"A","status":"Pass"}]`,
			want: []extraction.Record{{"roll": "12", "name": "A", "status": "Pass"}},
		},
		{
			name: "surrounding prose",
			raw:  "Sure! Here you go:\n```json\n[{\"roll\":\"1\",\"name\":\"B\",\"status\":\"Fail\"}]\n```\nDone.",
			want: []extraction.Record{{"roll": "1", "name": "B", "status": "Fail"}},
		},
		{
			name: "missing fields default to empty",
			raw:  `[{"name":"C"}]`,
			want: []extraction.Record{{"roll": "", "name": "C", "status": ""}},
		},
		{
			name: "extra fields dropped",
			raw:  `[{"roll":"2","name":"D","status":"Pass","grade":"A+"}]`,
			want: []extraction.Record{{"roll": "2", "name": "D", "status": "Pass"}},
		},
		{
			name: "scalars rendered as text",
			raw:  `[{"roll":12,"name":null,"status":true},{"roll":3.50,"name":"E","status":false}]`,
			want: []extraction.Record{
				{"roll": "12", "name": "", "status": "true"},
				{"roll": "3.50", "name": "E", "status": "false"},
			},
		},
		{
			name: "long numeric identifiers kept verbatim",
			raw:  `[{"roll":9007199254740993,"name":"F"},{"roll":123456789012345678901,"name":"G"}]`,
			want: []extraction.Record{
				{"roll": "9007199254740993", "name": "F", "status": ""},
				{"roll": "123456789012345678901", "name": "G", "status": ""},
			},
		},
		{
			name: "order preserved",
			raw:  `[{"roll":"b"},{"roll":"a"}]`,
			want: []extraction.Record{
				{"roll": "b", "name": "", "status": ""},
				{"roll": "a", "name": "", "status": ""},
			},
		},
		{name: "no brackets", raw: "no structured data here", want: []extraction.Record{}},
		{name: "only opening bracket", raw: "[ {", want: []extraction.Record{}},
		{name: "closing before opening", raw: "] then [", want: []extraction.Record{}},
		{name: "garbage between brackets", raw: "garbage [not json] more", want: []extraction.Record{}},
		{name: "array of scalars", raw: `["a","b"]`, want: []extraction.Record{}},
		{name: "empty array", raw: "[]", want: []extraction.Record{}},
		{name: "empty string", raw: "", want: []extraction.Record{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.raw, studentFields)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode("nothing", studentFields)
	assert.ErrorIs(t, err, ErrNoArray)

	_, err = Decode("garbage [not json] more", studentFields)
	assert.ErrorIs(t, err, ErrDecode)

	_, err = Decode(`[1, 2]`, studentFields)
	assert.ErrorIs(t, err, ErrDecode)

	records, err := Decode("[]", studentFields)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParser_Repair(t *testing.T) {
	// Trailing comma and single quotes: strict decoding rejects, repair accepts.
	raw := `Output: [{'roll': '7', 'name': 'F', 'status': 'Pass'},]`

	assert.Empty(t, Parser{}.Parse(raw, studentFields))

	got := Parser{Repair: true}.Parse(raw, studentFields)
	assert.Equal(t, []extraction.Record{{"roll": "7", "name": "F", "status": "Pass"}}, got)
}

func TestParser_RepairStillRejectsWrongShape(t *testing.T) {
	got, err := Parser{Repair: true}.Decode(`["just", "strings"]`, studentFields)
	assert.ErrorIs(t, err, ErrDecode)
	assert.Nil(t, got)
}
