package syntax

import (
	"sort"
	"unicode/utf16"
	"unicode/utf8"
)

// File is a parsed TypeScript source file. It owns no tree-sitter state: every
// node the coverage visitor needs is copied into Declarations before the tree
// is released, so a File is safe to share between goroutines.
type File struct {
	// Path is the path the file was parsed from (absolute when loaded
	// through a program).
	Path string

	// Source is the file text with a leading byte order mark removed.
	Source []byte

	// Declarations holds the top-level statements in document order.
	Declarations []Declaration

	// Imports lists module specifiers of import/export-from/require and
	// dynamic import() expressions, in document order.
	Imports []string

	// References lists `/// <reference path="..." />` targets.
	References []string

	lineStarts []int
	comments   []CommentRange
}

// Position returns the zero-based line and character of a byte offset.
// Characters are counted in UTF-16 code units.
func (f *File) Position(offset int) (line, character int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(f.Source) {
		offset = len(f.Source)
	}

	line = sort.Search(len(f.lineStarts), func(i int) bool {
		return f.lineStarts[i] > offset
	}) - 1
	if line < 0 {
		line = 0
	}

	return line, utf16Len(f.Source[f.lineStarts[line]:offset])
}

// LineCount returns the number of lines in the file.
func (f *File) LineCount() int {
	return len(f.lineStarts)
}

// Comments returns every comment token in the file in document order.
func (f *File) Comments() []CommentRange {
	return f.comments
}

// computeLineStarts returns the byte offset of every line start. Line breaks
// are \r\n, \r, \n, U+2028 and U+2029.
func computeLineStarts(src []byte) []int {
	starts := []int{0}
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == '\r':
			if i+1 < len(src) && src[i+1] == '\n' {
				i++
			}
			i++
			starts = append(starts, i)
		case c == '\n':
			i++
			starts = append(starts, i)
		case c < utf8.RuneSelf:
			i++
		default:
			r, size := utf8.DecodeRune(src[i:])
			i += size
			if r == '\u2028' || r == '\u2029' {
				starts = append(starts, i)
			}
		}
	}
	return starts
}

// utf16Len counts UTF-16 code units in b. Invalid bytes count as one unit.
func utf16Len(b []byte) int {
	n := 0
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		b = b[size:]
		if r == utf8.RuneError && size <= 1 {
			n++
			continue
		}
		n += utf16.RuneLen(r)
	}
	return n
}
