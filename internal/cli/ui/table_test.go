package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, []string{"RESOURCE TYPE", "FILE", "REF"}, &TableOptions{NoColor: true})

	table.AddRow("Foo.Bar/widgets@2024-01-01", "types.json", "#/9")
	table.AddRow("Foo.Bar/gadgets@v1", "types.json", "#/12")
	assert.Equal(t, 2, table.Len())

	table.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "RESOURCE TYPE               FILE        REF", lines[0])
	assert.Equal(t, strings.Repeat("─", 26)+"  "+strings.Repeat("─", 10)+"  "+strings.Repeat("─", 4), lines[1])
	assert.Equal(t, "Foo.Bar/widgets@2024-01-01  types.json  #/9", lines[2])
	assert.Equal(t, "Foo.Bar/gadgets@v1          types.json  #/12", lines[3])
}

func TestTableShortAndLongRows(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, []string{"A", "B"}, &TableOptions{NoColor: true})
	table.AddRow("x")
	table.AddRow("1", "2", "dropped")
	table.Render()

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "x  \n")
	assert.Contains(t, buf.String(), "1  2\n")
}

func TestTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	NewTable(&buf, nil, nil).Render()
	assert.Empty(t, buf.String())
}

func TestKeyValueTable(t *testing.T) {
	var buf bytes.Buffer
	kv := NewKeyValueTable(&buf, true)
	kv.AddRow("Name", "Foo.Bar/widgets@2024-01-01")
	kv.AddRow("Body", "#/9")
	kv.AddRow("Properties", "5")
	kv.Render()

	assert.Equal(t,
		"Name:       Foo.Bar/widgets@2024-01-01\n"+
			"Body:       #/9\n"+
			"Properties: 5\n",
		buf.String())
}
