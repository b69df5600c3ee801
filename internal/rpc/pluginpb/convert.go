package pluginpb

import (
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"

	"github.com/mvp-joe/commentcov-typescript/internal/coverage"
)

// NewMeasureCoverageIn builds a request for files.
func NewMeasureCoverageIn(files []string) *dynamicpb.Message {
	m := dynamicpb.NewMessage(MeasureCoverageIn)
	list := m.Mutable(MeasureCoverageIn.Fields().ByName("files")).List()
	for _, f := range files {
		list.Append(protoreflect.ValueOfString(f))
	}
	return m
}

// Files reads the file list of a MeasureCoverageIn.
func Files(in protoreflect.Message) []string {
	list := in.Get(MeasureCoverageIn.Fields().ByName("files")).List()
	files := make([]string, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		files = append(files, list.Get(i).String())
	}
	return files
}

// NewMeasureCoverageOut builds a response carrying items.
func NewMeasureCoverageOut(items []coverage.Item) *dynamicpb.Message {
	m := dynamicpb.NewMessage(MeasureCoverageOut)
	list := m.Mutable(MeasureCoverageOut.Fields().ByName("coverage_items")).List()
	for _, item := range items {
		list.Append(protoreflect.ValueOfMessage(encodeItem(item)))
	}
	return m
}

// Items reads the coverage items of a MeasureCoverageOut.
func Items(out protoreflect.Message) []coverage.Item {
	list := out.Get(MeasureCoverageOut.Fields().ByName("coverage_items")).List()
	items := make([]coverage.Item, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		items = append(items, decodeItem(list.Get(i).Message()))
	}
	return items
}

func encodeItem(item coverage.Item) *dynamicpb.Message {
	fields := CoverageItem.Fields()
	m := dynamicpb.NewMessage(CoverageItem)
	m.Set(fields.ByName("scope"), protoreflect.ValueOfEnum(protoreflect.EnumNumber(item.Scope)))
	m.Set(fields.ByName("target_block"), protoreflect.ValueOfMessage(encodeBlock(item.TargetRange)))
	m.Set(fields.ByName("file"), protoreflect.ValueOfString(item.File))
	m.Set(fields.ByName("identifier"), protoreflect.ValueOfString(item.Identifier))
	m.Set(fields.ByName("extension"), protoreflect.ValueOfString(item.Extension))
	appendComments(m.Mutable(fields.ByName("header_comments")).List(), item.HeaderComments)
	appendComments(m.Mutable(fields.ByName("inline_comments")).List(), item.InlineComments)
	return m
}

func decodeItem(m protoreflect.Message) coverage.Item {
	fields := CoverageItem.Fields()
	return coverage.Item{
		Scope:          coverage.Scope(m.Get(fields.ByName("scope")).Enum()),
		TargetRange:    decodeBlock(m.Get(fields.ByName("target_block")).Message()),
		File:           m.Get(fields.ByName("file")).String(),
		Identifier:     m.Get(fields.ByName("identifier")).String(),
		Extension:      m.Get(fields.ByName("extension")).String(),
		HeaderComments: decodeComments(m.Get(fields.ByName("header_comments")).List()),
		InlineComments: decodeComments(m.Get(fields.ByName("inline_comments")).List()),
	}
}

func appendComments(list protoreflect.List, comments []coverage.Comment) {
	fields := Comment.Fields()
	for _, c := range comments {
		m := dynamicpb.NewMessage(Comment)
		m.Set(fields.ByName("block"), protoreflect.ValueOfMessage(encodeBlock(c.Range)))
		m.Set(fields.ByName("comment"), protoreflect.ValueOfString(c.Text))
		list.Append(protoreflect.ValueOfMessage(m))
	}
}

func decodeComments(list protoreflect.List) []coverage.Comment {
	fields := Comment.Fields()
	comments := make([]coverage.Comment, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		m := list.Get(i).Message()
		comments = append(comments, coverage.Comment{
			Range: decodeBlock(m.Get(fields.ByName("block")).Message()),
			Text:  m.Get(fields.ByName("comment")).String(),
		})
	}
	return comments
}

func encodeBlock(r coverage.Range) *dynamicpb.Message {
	fields := Block.Fields()
	m := dynamicpb.NewMessage(Block)
	m.Set(fields.ByName("start_line"), protoreflect.ValueOfInt32(int32(r.StartLine)))
	m.Set(fields.ByName("start_column"), protoreflect.ValueOfInt32(int32(r.StartColumn)))
	m.Set(fields.ByName("end_line"), protoreflect.ValueOfInt32(int32(r.EndLine)))
	m.Set(fields.ByName("end_column"), protoreflect.ValueOfInt32(int32(r.EndColumn)))
	return m
}

func decodeBlock(m protoreflect.Message) coverage.Range {
	fields := Block.Fields()
	return coverage.Range{
		StartLine:   int(m.Get(fields.ByName("start_line")).Int()),
		StartColumn: int(m.Get(fields.ByName("start_column")).Int()),
		EndLine:     int(m.Get(fields.ByName("end_line")).Int()),
		EndColumn:   int(m.Get(fields.ByName("end_column")).Int()),
	}
}
