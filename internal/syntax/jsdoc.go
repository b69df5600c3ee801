package syntax

import "strings"

// JSDoc is a `/** ... */` block attached to a declaration.
type JSDoc struct {
	Range CommentRange

	// Description is the text before the first block tag, with the
	// leading `*` gutter of every line removed. Line breaks are kept.
	Description string

	// Parts splits Description at inline link tags ({@link}, {@linkcode},
	// {@linkplain}): the text around them and, for each link, the text
	// after its target. Nil when the description has no link.
	Parts []string
}

// JSDocComments returns the JSDoc blocks among the leading comments at pos.
// `/**/` is an empty block comment, not JSDoc.
func (f *File) JSDocComments(pos int) []JSDoc {
	var docs []JSDoc
	for _, c := range f.LeadingCommentRanges(pos) {
		if !isJSDoc(f.Source[c.Pos:c.End]) {
			continue
		}
		desc := jsdocDescription(string(f.Source[c.Pos:c.End]))
		docs = append(docs, JSDoc{
			Range:       c,
			Description: desc,
			Parts:       splitInlineLinks(desc),
		})
	}
	return docs
}

func isJSDoc(raw []byte) bool {
	return len(raw) >= 5 && raw[0] == '/' && raw[1] == '*' && raw[2] == '*' && raw[3] != '/'
}

// jsdocDescription extracts the free text of a JSDoc block. The first line
// (right after the opener) keeps any `*`; later lines drop leading
// whitespace and one `*`. A line that then starts with `@` opens the tag
// section and ends the description. Inline tags stay in place; see
// splitInlineLinks.
func jsdocDescription(raw string) string {
	body := strings.TrimPrefix(raw, "/**")
	body = strings.TrimSuffix(body, "*/")

	var b strings.Builder
	for i := 0; ; i++ {
		line, br, rest := cutLine(body)

		text := strings.TrimLeft(line, " \t\v\f")
		if i > 0 && strings.HasPrefix(text, "*") {
			text = strings.TrimLeft(text[1:], " \t\v\f")
		}
		if strings.HasPrefix(text, "@") {
			break
		}

		b.WriteString(text)
		if br == "" {
			break
		}
		b.WriteString(br)
		body = rest
	}

	return strings.TrimRight(b.String(), " \t\v\f\r\n")
}

// cutLine splits s at its first line break, returning the line, the break
// itself and the remainder.
func cutLine(s string) (line, br, rest string) {
	i := strings.IndexAny(s, "\r\n")
	if i < 0 {
		return s, "", ""
	}
	if s[i] == '\r' && i+1 < len(s) && s[i+1] == '\n' {
		return s[:i], s[i : i+2], s[i+2:]
	}
	return s[:i], s[i : i+1], s[i+1:]
}

var linkTags = []string{"{@linkcode", "{@linkplain", "{@link"}

// splitInlineLinks cuts desc into text and link parts. A link part is the
// text following the link target: "{@link Foo the foo}" gives "the foo",
// "{@link Foo}" gives "". URL targets stay in the link text. A tag without
// a closing brace on its line is plain text.
func splitInlineLinks(desc string) []string {
	var parts []string
	text := 0
	for i := 0; i < len(desc); i++ {
		if desc[i] != '{' {
			continue
		}
		content, end, ok := inlineLink(desc[i:])
		if !ok {
			continue
		}
		parts = append(parts, desc[text:i], linkText(content))
		i += end - 1
		text = i + 1
	}
	if parts == nil {
		return nil
	}
	return append(parts, desc[text:])
}

// inlineLink matches a link tag at the start of s, returning the content
// between the tag name and the closing brace and the length of the tag.
func inlineLink(s string) (content string, end int, ok bool) {
	for _, tag := range linkTags {
		if !strings.HasPrefix(s, tag) {
			continue
		}
		rest := s[len(tag):]
		if rest == "" || !(rest[0] == '}' || isInlineSpace(rest[0])) {
			return "", 0, false
		}
		closing := strings.IndexAny(rest, "}\r\n")
		if closing < 0 || rest[closing] != '}' {
			return "", 0, false
		}
		return rest[:closing], len(tag) + closing + 1, true
	}
	return "", 0, false
}

func linkText(content string) string {
	content = strings.TrimLeft(content, " \t")
	if strings.HasPrefix(content, "http://") || strings.HasPrefix(content, "https://") {
		return content
	}
	if i := strings.IndexAny(content, " \t"); i >= 0 {
		return content[i:]
	}
	return ""
}

func isInlineSpace(c byte) bool {
	return c == ' ' || c == '\t'
}
