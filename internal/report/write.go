package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/mvp-joe/commentcov-typescript/internal/coverage"
)

// Format selects the output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (valid: text, json, yaml)", s)
	}
}

// Document is the structured report. Field names follow the plugin protocol.
type Document struct {
	CoverageItems []coverage.Item `json:"coverageItems" yaml:"coverage_items"`
	Summary       Summary         `json:"summary" yaml:"summary"`
}

// Write renders items in format.
func Write(w io.Writer, format Format, items []coverage.Item) error {
	if items == nil {
		items = []coverage.Item{}
	}
	doc := Document{CoverageItems: items, Summary: Summarize(items)}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case FormatText, "":
		for _, item := range items {
			if err := WriteItem(w, item); err != nil {
				return err
			}
		}
		return WriteSummary(w, doc.Summary)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// WriteItem prints one item in a human-readable block.
func WriteItem(w io.Writer, item coverage.Item) error {
	var b strings.Builder
	fmt.Fprintf(&b, "scope: %s\n", item.Scope)
	fmt.Fprintf(&b, "targetBlock: %s\n", formatRange(item.TargetRange))
	fmt.Fprintf(&b, "file: %s\n", item.File)
	fmt.Fprintf(&b, "identifier: %s\n", item.Identifier)
	fmt.Fprintf(&b, "extension: %s\n", item.Extension)
	writeComments(&b, "header comments", item.HeaderComments)
	writeComments(&b, "inline comments", item.InlineComments)
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func writeComments(b *strings.Builder, title string, comments []coverage.Comment) {
	fmt.Fprintf(b, "%s:\n", title)
	if len(comments) == 0 {
		b.WriteString("  (none)\n")
		return
	}
	for _, c := range comments {
		fmt.Fprintf(b, "  - %s %q\n", formatRange(c.Range), c.Text)
	}
}

// WriteSummary prints the per-scope table.
func WriteSummary(w io.Writer, s Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "SCOPE\tDOCUMENTED\tTOTAL\tCOVERAGE\n")
	for _, sc := range s.Scopes {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", sc.Scope, sc.Documented, sc.Total, percent(sc.Ratio()))
	}
	fmt.Fprintf(tw, "TOTAL\t%d\t%d\t%s\n", s.Documented, s.Total, percent(s.Ratio()))
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d files measured\n", s.Files)
	return err
}

func formatRange(r coverage.Range) string {
	return fmt.Sprintf("%d:%d-%d:%d", r.StartLine, r.StartColumn, r.EndLine, r.EndColumn)
}

func percent(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}
