package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatError(t *testing.T) {
	tests := []struct {
		name        string
		opts        ErrorOptions
		contains    []string
		notContains []string
	}{
		{
			name: "basic error",
			opts: ErrorOptions{
				Context: "catalog error",
				Problem: "index.json is malformed.",
			},
			contains: []string{"✗ CATALOG ERROR: index.json is malformed.\n"},
		},
		{
			name: "no context",
			opts: ErrorOptions{Problem: "something failed"},
			contains: []string{"✗ something failed\n"},
		},
		{
			name: "warning",
			opts: ErrorOptions{Level: ErrorLevelWarning, Problem: "careful"},
			contains:    []string{"! careful\n"},
			notContains: []string{"✗"},
		},
		{
			name: "details suggestions and help",
			opts: ErrorOptions{
				Problem:      "failed",
				Details:      []string{"first", "second"},
				Suggestions:  []string{"A/b@v1", "A/c@v1"},
				HelpCommands: []string{"List resource types: typegraph list"},
			},
			contains: []string{
				"   first\n   second\n",
				"   Did you mean: A/b@v1, A/c@v1?\n",
				"   → List resource types: typegraph list\n",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.NoColor = true
			out := FormatError(tt.opts)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestResourceNotFoundError(t *testing.T) {
	out := ResourceNotFoundError("A/wigets@v1", []string{"A/widgets@v1"}, true)
	assert.Contains(t, out, "RESOURCE TYPE NOT FOUND: Cannot find resource type 'A/wigets@v1'.")
	assert.Contains(t, out, "Did you mean: A/widgets@v1?")
	assert.Contains(t, out, "typegraph list")
}

func TestProjectionErrors(t *testing.T) {
	out := ProjectionErrors([]string{"A/x@v1: boom"}, true)
	assert.Contains(t, out, "SCHEMA INCOMPLETE: 1 resource type(s) could not be projected.")
	assert.Contains(t, out, "   A/x@v1: boom\n")
}

func TestWriteSuccess(t *testing.T) {
	var buf bytes.Buffer
	WriteSuccess(&buf, "Wrote 2 files", true)
	assert.Equal(t, "✓ Wrote 2 files\n", buf.String())

	buf.Reset()
	WriteError(&buf, ErrorOptions{Problem: "x", NoColor: true})
	assert.Equal(t, "✗ x\n", buf.String())
}
