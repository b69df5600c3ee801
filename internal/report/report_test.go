package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mvp-joe/commentcov-typescript/internal/coverage"
)

// Test Plan for report:
// - Summarize counts per scope in protocol order and overall
// - Empty input summarizes to zero without dividing by zero
// - Text output prints each item block and the summary table
// - JSON output uses protocol field names and scope names
// - YAML output decodes back into the same document
// - ParseFormat rejects unknown formats

func items() []coverage.Item {
	return []coverage.Item{
		{
			Scope:          coverage.ScopePrivateVariable,
			TargetRange:    coverage.Range{StartLine: 8, StartColumn: 1, EndLine: 9, EndColumn: 18},
			File:           "/src/a.ts",
			Identifier:     "hidden",
			Extension:      ".ts",
			HeaderComments: []coverage.Comment{},
			InlineComments: []coverage.Comment{},
		},
		{
			Scope:       coverage.ScopePublicFunction,
			TargetRange: coverage.Range{StartLine: 1, StartColumn: 1, EndLine: 7, EndColumn: 1},
			File:        "/src/a.ts",
			Identifier:  "inc",
			Extension:   ".ts",
			HeaderComments: []coverage.Comment{
				{Range: coverage.Range{StartLine: 3, StartColumn: 1, EndLine: 3, EndColumn: 16}, Text: "Adds one."},
			},
			InlineComments: []coverage.Comment{
				{Range: coverage.Range{StartLine: 5, StartColumn: 17, EndLine: 5, EndColumn: 27}, Text: "plus one"},
			},
		},
		{
			Scope:          coverage.ScopePublicFunction,
			TargetRange:    coverage.Range{StartLine: 1, StartColumn: 1, EndLine: 2, EndColumn: 1},
			File:           "/src/b.ts",
			Identifier:     "dec",
			Extension:      ".ts",
			HeaderComments: []coverage.Comment{},
			InlineComments: []coverage.Comment{},
		},
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	s := Summarize(items())

	// Test: protocol order puts PUBLIC_FUNCTION before PRIVATE_VARIABLE
	assert.Equal(t, []ScopeSummary{
		{Scope: coverage.ScopePublicFunction, Total: 2, Documented: 1},
		{Scope: coverage.ScopePrivateVariable, Total: 1, Documented: 0},
	}, s.Scopes)
	assert.Equal(t, 2, s.Files)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 1, s.Documented)
	assert.InDelta(t, 1.0/3.0, s.Ratio(), 1e-9)
	assert.InDelta(t, 0.5, s.Scopes[0].Ratio(), 1e-9)
}

func TestSummarize_Empty(t *testing.T) {
	t.Parallel()

	s := Summarize(nil)
	assert.Empty(t, s.Scopes)
	assert.Zero(t, s.Ratio())
	assert.Zero(t, ScopeSummary{}.Ratio())
}

func TestWrite_Text(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatText, items()[1:2]))
	out := buf.String()

	assert.Contains(t, out, "scope: PUBLIC_FUNCTION\n")
	assert.Contains(t, out, "targetBlock: 1:1-7:1\n")
	assert.Contains(t, out, "file: /src/a.ts\n")
	assert.Contains(t, out, "identifier: inc\n")
	assert.Contains(t, out, "extension: .ts\n")
	assert.Contains(t, out, "header comments:\n  - 3:1-3:16 \"Adds one.\"\n")
	assert.Contains(t, out, "inline comments:\n  - 5:17-5:27 \"plus one\"\n")
	assert.Contains(t, out, "PUBLIC_FUNCTION  1           1      100.0%")
	assert.Contains(t, out, "1 files measured\n")
}

func TestWrite_TextNoComments(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteItem(&buf, items()[0]))
	assert.Contains(t, buf.String(), "header comments:\n  (none)\ninline comments:\n  (none)\n")
}

func TestWrite_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, items()))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	list := raw["coverageItems"].([]any)
	require.Len(t, list, 3)
	first := list[0].(map[string]any)
	assert.Equal(t, "PRIVATE_VARIABLE", first["scope"])
	assert.Contains(t, first, "targetBlock")
	assert.Contains(t, first, "headerComments")

	// Test: decodes back into the same document
	var doc Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, items(), doc.CoverageItems)
	assert.Equal(t, Summarize(items()), doc.Summary)
}

func TestWrite_YAML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatYAML, items()))
	assert.Contains(t, buf.String(), "scope: PUBLIC_FUNCTION")

	var doc Document
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, items(), doc.CoverageItems)
	assert.Equal(t, 3, doc.Summary.Total)
}

func TestWrite_EmptyJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, nil))
	assert.Contains(t, buf.String(), `"coverageItems": []`)
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}
