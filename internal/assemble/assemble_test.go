package assemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docextract/internal/extraction"
)

var students = extraction.Schema{
	Name: "students",
	Fields: []extraction.Field{
		{Name: "roll", Header: "Roll_Number"},
		{Name: "name", Header: "Name"},
		{Name: "status", Header: "Status"},
	},
}

func TestAssemble(t *testing.T) {
	records := []extraction.Record{
		{"roll": "1", "name": "A", "status": "Pass", "extra": "dropped"},
		{"name": "B"},
	}

	got, err := Assemble(records, students)
	require.NoError(t, err)

	assert.Equal(t, []string{"Roll_Number", "Name", "Status"}, got.Columns)
	assert.Equal(t, [][]string{
		{"1", "A", "Pass"},
		{"", "B", ""},
	}, got.Rows)
}

func TestAssemble_HeaderDefaultsToName(t *testing.T) {
	schema := extraction.Schema{Fields: []extraction.Field{{Name: "LinkedIn"}, {Name: "GitHub"}}}

	got, err := Assemble([]extraction.Record{{"GitHub": "https://github.com/a"}}, schema)
	require.NoError(t, err)
	assert.Equal(t, []string{"LinkedIn", "GitHub"}, got.Columns)
	assert.Equal(t, [][]string{{"", "https://github.com/a"}}, got.Rows)
}

func TestAssemble_Empty(t *testing.T) {
	_, err := Assemble(nil, students)
	assert.ErrorIs(t, err, extraction.ErrEmptySet)

	got, err := AssembleWith(nil, students, Options{AllowEmpty: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"Roll_Number", "Name", "Status"}, got.Columns)
	assert.Empty(t, got.Rows)
}

func TestTable_Records(t *testing.T) {
	table := &Table{
		Columns: students.Headers(),
		Rows:    [][]string{{"1", "A", "Pass"}, {"2"}},
	}

	assert.Equal(t, []extraction.Record{
		{"roll": "1", "name": "A", "status": "Pass"},
		{"roll": "2", "name": "", "status": ""},
	}, table.Records(students))
}
