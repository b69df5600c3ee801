package coverage

// Item is the coverage record of one declaration.
type Item struct {
	Scope       Scope `json:"scope" yaml:"scope"`
	TargetRange Range `json:"targetBlock" yaml:"target_block"`

	// File is the absolute path of the source file.
	File       string `json:"file" yaml:"file"`
	Identifier string `json:"identifier" yaml:"identifier"`
	Extension  string `json:"extension" yaml:"extension"`

	HeaderComments []Comment `json:"headerComments" yaml:"header_comments"`

	// InlineComments never contains a comment equal to a header comment.
	InlineComments []Comment `json:"inlineComments" yaml:"inline_comments"`
}

// Documented reports whether the declaration has at least one header comment.
func (i Item) Documented() bool {
	return len(i.HeaderComments) > 0
}
