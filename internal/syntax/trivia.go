package syntax

import (
	"sort"
	"unicode"
	"unicode/utf8"
)

// CommentKind distinguishes `//` comments from `/* */` comments.
type CommentKind int

const (
	SingleLineComment CommentKind = iota
	MultiLineComment
)

// CommentRange is a comment token as byte offsets into File.Source.
// Pos is the offset of the first delimiter and End is exclusive.
type CommentRange struct {
	Pos  int
	End  int
	Kind CommentKind
}

// LeadingCommentRanges returns the comments in the trivia that starts at pos.
// Unless pos is 0, comments on the same line as pos belong to the previous
// token and are skipped; collection starts after the first line break and
// stops at the first non-trivia character.
func (f *File) LeadingCommentRanges(pos int) []CommentRange {
	return scanCommentRanges(f.Source, pos, false)
}

// TrailingCommentRanges returns the comments that follow pos on the same line.
func (f *File) TrailingCommentRanges(pos int) []CommentRange {
	return scanCommentRanges(f.Source, pos, true)
}

// CommentsWithin returns the comment tokens that start inside [start, end).
func (f *File) CommentsWithin(start, end int) []CommentRange {
	i := sort.Search(len(f.comments), func(i int) bool {
		return f.comments[i].Pos >= start
	})

	var out []CommentRange
	for ; i < len(f.comments) && f.comments[i].Pos < end; i++ {
		out = append(out, f.comments[i])
	}
	return out
}

// RawText returns the comment including its delimiters.
func (f *File) RawText(c CommentRange) string {
	return string(f.Source[c.Pos:c.End])
}

// CommentText returns the comment body without its delimiters.
func (f *File) CommentText(c CommentRange) string {
	raw := f.Source[c.Pos:c.End]
	switch c.Kind {
	case SingleLineComment:
		if len(raw) >= 2 {
			return string(raw[2:])
		}
	case MultiLineComment:
		if len(raw) >= 4 && raw[len(raw)-2] == '*' && raw[len(raw)-1] == '/' {
			return string(raw[2 : len(raw)-2])
		}
		if len(raw) >= 2 {
			// unterminated block comment
			return string(raw[2:])
		}
	}
	return ""
}

func scanCommentRanges(src []byte, pos int, trailing bool) []CommentRange {
	if pos < 0 || pos > len(src) {
		return nil
	}

	collecting := trailing || pos == 0
	if pos == 0 {
		pos = skipShebang(src)
	}

	var out []CommentRange
	for pos < len(src) {
		c := src[pos]
		switch c {
		case '\r', '\n':
			if c == '\r' && pos+1 < len(src) && src[pos+1] == '\n' {
				pos++
			}
			pos++
			if trailing {
				return out
			}
			collecting = true
			continue
		case '\t', '\v', '\f', ' ':
			pos++
			continue
		case '/':
			if pos+1 >= len(src) || (src[pos+1] != '/' && src[pos+1] != '*') {
				return out
			}
			start := pos
			kind := SingleLineComment
			if src[pos+1] == '*' {
				kind = MultiLineComment
			}
			pos += 2
			if kind == SingleLineComment {
				for pos < len(src) && !isLineBreakAt(src, pos) {
					pos++
				}
			} else {
				for pos < len(src) {
					if src[pos] == '*' && pos+1 < len(src) && src[pos+1] == '/' {
						pos += 2
						break
					}
					pos++
				}
			}
			if collecting {
				out = append(out, CommentRange{Pos: start, End: pos, Kind: kind})
			}
			continue
		}

		if c < utf8.RuneSelf {
			return out
		}
		// Non-ASCII line separators count as plain whitespace here.
		r, size := utf8.DecodeRune(src[pos:])
		if !isWhiteSpaceLike(r) {
			return out
		}
		pos += size
	}
	return out
}

func isLineBreakAt(src []byte, pos int) bool {
	switch src[pos] {
	case '\n', '\r':
		return true
	case 0xE2:
		r, _ := utf8.DecodeRune(src[pos:])
		return r == '\u2028' || r == '\u2029'
	}
	return false
}

func isWhiteSpaceLike(r rune) bool {
	switch r {
	case '\uFEFF', '\u0085', '\u200B', '\u2028', '\u2029':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

func skipShebang(src []byte) int {
	if len(src) < 2 || src[0] != '#' || src[1] != '!' {
		return 0
	}
	i := 2
	for i < len(src) && !isLineBreakAt(src, i) {
		i++
	}
	return i
}
