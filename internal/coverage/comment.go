package coverage

import (
	"regexp"
	"strings"

	"github.com/mvp-joe/commentcov-typescript/internal/syntax"
)

// Comment is a comment attached to a declaration with normalized text.
type Comment struct {
	Range Range  `json:"block" yaml:"block"`
	Text  string `json:"comment" yaml:"comment"`
}

// Equal compares range and normalized text.
func (c Comment) Equal(o Comment) bool {
	return c.Range.Equal(o.Range) && c.Text == o.Text
}

// whitespace is the ECMAScript \s class. Go's \s is ASCII only.
const whitespace = `[\t\n\v\f\r \x{00a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}]`

var (
	leadingSpaceRe   = regexp.MustCompile(`^` + whitespace + `+`)
	lineBreakRe      = regexp.MustCompile(whitespace + `*(\r\n|\r|\n)` + whitespace + `*`)
	gutterRe         = regexp.MustCompile(`(?m)^(?:\*` + whitespace + `+)+`)
	trailingBreaksRe = regexp.MustCompile(`(?:\r\n|\r|\n)+$`)
	trailingSpaceRe  = regexp.MustCompile(whitespace + `+$`)
)

// NormalizeText canonicalizes comment text: leading whitespace goes, the
// whitespace around each line break collapses to the break, a leading
// "* " gutter is removed from every line, and trailing line breaks and
// whitespace go. NormalizeText(NormalizeText(s)) == NormalizeText(s).
func NormalizeText(s string) string {
	s = leadingSpaceRe.ReplaceAllString(s, "")
	s = lineBreakRe.ReplaceAllString(s, "$1")
	s = gutterRe.ReplaceAllString(s, "")
	s = trailingBreaksRe.ReplaceAllString(s, "")
	return trailingSpaceRe.ReplaceAllString(s, "")
}

// Difference returns the elements of a that have no equal element in b,
// in order. Unmatched duplicates in a are kept.
func Difference(a, b []Comment) []Comment {
	out := make([]Comment, 0, len(a))
	for _, ac := range a {
		matched := false
		for _, bc := range b {
			if ac.Equal(bc) {
				matched = true
				break
			}
		}
		if !matched {
			out = append(out, ac)
		}
	}
	return out
}

// HeaderComments returns the documentation of d. JSDoc blocks win: one
// Comment per block, carrying only the block description. A description
// with inline links is normalized part by part and joined with line breaks.
// Without JSDoc every leading comment becomes its own Comment.
func HeaderComments(f *syntax.File, d syntax.Declaration) []Comment {
	if docs := f.JSDocComments(d.FullStart); len(docs) > 0 {
		out := make([]Comment, 0, len(docs))
		for _, doc := range docs {
			out = append(out, Comment{
				Range: CommentRange(f, doc.Range),
				Text:  jsdocText(doc),
			})
		}
		return out
	}

	return toComments(f, f.LeadingCommentRanges(d.FullStart))
}

func jsdocText(doc syntax.JSDoc) string {
	if len(doc.Parts) == 0 {
		return NormalizeText(doc.Description)
	}
	parts := make([]string, len(doc.Parts))
	for i, p := range doc.Parts {
		parts[i] = NormalizeText(p)
	}
	return strings.Join(parts, "\n")
}

// InlineComments returns every comment associated with d: its leading
// comments, the comments inside it and the comments trailing it on its
// last line.
func InlineComments(f *syntax.File, d syntax.Declaration) []Comment {
	ranges := f.LeadingCommentRanges(d.FullStart)
	ranges = append(ranges, f.CommentsWithin(d.Start, d.End)...)
	ranges = append(ranges, f.TrailingCommentRanges(d.End)...)
	return toComments(f, ranges)
}

func toComments(f *syntax.File, ranges []syntax.CommentRange) []Comment {
	out := make([]Comment, 0, len(ranges))
	for _, r := range ranges {
		out = append(out, Comment{
			Range: CommentRange(f, r),
			Text:  NormalizeText(f.CommentText(r)),
		})
	}
	return out
}
