package storage

import (
	"time"

	"github.com/google/uuid"

	"github.com/mvp-joe/commentcov-typescript/internal/coverage"
)

// Domain models that mirror SQL tables in schema.go.

// Run is one recorded measurement. Maps to the runs table.
type Run struct {
	ID              string    // id: UUID
	CreatedAt       time.Time // created_at: RFC3339Nano, UTC
	FileCount       int       // file_count: measured files
	ItemCount       int       // item_count: coverage items
	DocumentedCount int       // documented_count: items with a header comment
	Items           []ItemRecord
}

// ItemRecord is a coverage item without comment text. Maps to the items table.
type ItemRecord struct {
	File        string
	Identifier  string
	Scope       coverage.Scope // stored by name
	StartLine   int
	EndLine     int
	HeaderCount int
	InlineCount int
}

// Ratio is the documented share of items, 0 when there are none.
func (r Run) Ratio() float64 {
	if r.ItemCount == 0 {
		return 0
	}
	return float64(r.DocumentedCount) / float64(r.ItemCount)
}

// NewRun summarizes items into a run with a fresh id.
func NewRun(items []coverage.Item, fileCount int, now time.Time) *Run {
	run := &Run{
		ID:        uuid.NewString(),
		CreatedAt: now.UTC(),
		FileCount: fileCount,
		ItemCount: len(items),
		Items:     make([]ItemRecord, 0, len(items)),
	}
	for _, item := range items {
		if item.Documented() {
			run.DocumentedCount++
		}
		run.Items = append(run.Items, ItemRecord{
			File:        item.File,
			Identifier:  item.Identifier,
			Scope:       item.Scope,
			StartLine:   item.TargetRange.StartLine,
			EndLine:     item.TargetRange.EndLine,
			HeaderCount: len(item.HeaderComments),
			InlineCount: len(item.InlineComments),
		})
	}
	return run
}
