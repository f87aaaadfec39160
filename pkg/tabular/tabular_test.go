package tabular

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV(t *testing.T) {
	table, err := ParseCSV(strings.NewReader("name,q1,q2\nAlice,a,b\nBob,c\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "q1", "q2"}, table.Headers)
	assert.Equal(t, 2, table.Len())

	v, ok := table.Cell(0, "q1")
	assert.True(t, ok)
	assert.Equal(t, "a", v)

	// Ragged row reads the missing cell as empty.
	v, ok = table.Cell(1, "q2")
	assert.True(t, ok)
	assert.Equal(t, "", v)

	_, ok = table.Cell(0, "q9")
	assert.False(t, ok)
}

func TestParseCSVEmptyInput(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""))
	require.Error(t, err)
}

func TestParseUnsupportedExtension(t *testing.T) {
	_, err := Parse("answers.txt", strings.NewReader("name\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file format")
}

func TestCellAtBounds(t *testing.T) {
	table, err := ParseCSV(strings.NewReader("a,b\n1,2\n"))
	require.NoError(t, err)

	v, ok := table.CellAt(0, 1)
	assert.True(t, ok)
	assert.Equal(t, "2", v)

	_, ok = table.CellAt(0, 2)
	assert.False(t, ok)

	v, ok = table.CellAt(5, 0)
	assert.True(t, ok)
	assert.Equal(t, "", v)
}

func TestDuplicateHeadersFirstWins(t *testing.T) {
	table, err := ParseCSV(strings.NewReader("q1,q1\nfirst,second\n"))
	require.NoError(t, err)

	v, _ := table.Cell(0, "q1")
	assert.Equal(t, "first", v)
}
