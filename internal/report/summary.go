// Package report renders measurement results.
package report

import (
	"github.com/mvp-joe/commentcov-typescript/internal/coverage"
)

// ScopeSummary counts the items of one scope.
type ScopeSummary struct {
	Scope      coverage.Scope `json:"scope" yaml:"scope"`
	Total      int            `json:"total" yaml:"total"`
	Documented int            `json:"documented" yaml:"documented"`
}

// Ratio is the documented share, 0 for an empty scope.
func (s ScopeSummary) Ratio() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Documented) / float64(s.Total)
}

// Summary aggregates coverage over all items.
type Summary struct {
	Scopes     []ScopeSummary `json:"scopes" yaml:"scopes"`
	Files      int            `json:"files" yaml:"files"`
	Total      int            `json:"total" yaml:"total"`
	Documented int            `json:"documented" yaml:"documented"`
}

// Ratio is the overall documented share.
func (s Summary) Ratio() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Documented) / float64(s.Total)
}

// Summarize counts items per scope, in protocol order, leaving out scopes
// with no items. An item is documented when it has a header comment.
func Summarize(items []coverage.Item) Summary {
	byScope := make(map[coverage.Scope]*ScopeSummary)
	files := make(map[string]struct{})
	sum := Summary{Scopes: []ScopeSummary{}}

	for _, item := range items {
		s, ok := byScope[item.Scope]
		if !ok {
			s = &ScopeSummary{Scope: item.Scope}
			byScope[item.Scope] = s
		}
		s.Total++
		sum.Total++
		if item.Documented() {
			s.Documented++
			sum.Documented++
		}
		files[item.File] = struct{}{}
	}

	for _, scope := range coverage.Scopes() {
		if s, ok := byScope[scope]; ok {
			sum.Scopes = append(sum.Scopes, *s)
		}
	}
	sum.Files = len(files)
	return sum
}
