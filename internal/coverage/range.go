package coverage

import "github.com/mvp-joe/commentcov-typescript/internal/syntax"

// Range is a span of source text. StartLine, StartColumn and EndLine are
// 1-based; EndColumn is the 0-based character of the exclusive end, which
// is the 1-based column of the last character. Columns count UTF-16 units.
type Range struct {
	StartLine   int `json:"startLine" yaml:"start_line"`
	StartColumn int `json:"startColumn" yaml:"start_column"`
	EndLine     int `json:"endLine" yaml:"end_line"`
	EndColumn   int `json:"endColumn" yaml:"end_column"`
}

// NewRange converts byte offsets of f into a Range.
func NewRange(f *syntax.File, start, end int) Range {
	startLine, startChar := f.Position(start)
	endLine, endChar := f.Position(end)
	return Range{
		StartLine:   startLine + 1,
		StartColumn: startChar + 1,
		EndLine:     endLine + 1,
		EndColumn:   endChar,
	}
}

// DeclarationRange spans a declaration from its full start, so leading
// trivia is included, to its end.
func DeclarationRange(f *syntax.File, d syntax.Declaration) Range {
	return NewRange(f, d.FullStart, d.End)
}

// CommentRange spans a comment token including its delimiters.
func CommentRange(f *syntax.File, c syntax.CommentRange) Range {
	return NewRange(f, c.Pos, c.End)
}

// Equal reports whether all four coordinates match.
func (r Range) Equal(o Range) bool {
	return r == o
}
