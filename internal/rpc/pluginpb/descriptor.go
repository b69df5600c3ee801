// Package pluginpb describes the commentcov plugin protocol.
//
// The descriptor is assembled at init and registered in
// protoregistry.GlobalFiles, so messages are dynamicpb values and server
// reflection can serve the schema without generated code.
package pluginpb

import (
	"strings"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/mvp-joe/commentcov-typescript/internal/coverage"
)

const (
	// FileName is the registered proto file path.
	FileName = "commentcov_plugin.proto"

	// Package is the proto package.
	Package = "commentcov.plugin"

	// ServiceName is the fully qualified plugin service.
	ServiceName = Package + ".CommentcovPlugin"

	// MeasureCoverageMethod is the full gRPC method name.
	MeasureCoverageMethod = "/" + ServiceName + "/MeasureCoverage"
)

// Descriptors, set at init.
var (
	File               protoreflect.FileDescriptor
	Block              protoreflect.MessageDescriptor
	Comment            protoreflect.MessageDescriptor
	CoverageItem       protoreflect.MessageDescriptor
	CoverageItemScope  protoreflect.EnumDescriptor
	MeasureCoverageIn  protoreflect.MessageDescriptor
	MeasureCoverageOut protoreflect.MessageDescriptor
	Service            protoreflect.ServiceDescriptor
)

func init() {
	fd, err := protodesc.NewFile(fileProto(), protoregistry.GlobalFiles)
	if err != nil {
		panic("pluginpb: invalid descriptor: " + err.Error())
	}
	if err := protoregistry.GlobalFiles.RegisterFile(fd); err != nil {
		panic("pluginpb: register descriptor: " + err.Error())
	}

	File = fd
	msgs := fd.Messages()
	Block = msgs.ByName("Block")
	Comment = msgs.ByName("Comment")
	CoverageItem = msgs.ByName("CoverageItem")
	CoverageItemScope = CoverageItem.Enums().ByName("Scope")
	MeasureCoverageIn = msgs.ByName("MeasureCoverageIn")
	MeasureCoverageOut = msgs.ByName("MeasureCoverageOut")
	Service = fd.Services().ByName("CommentcovPlugin")
}

func fileProto() *descriptorpb.FileDescriptorProto {
	const (
		int32Type   = descriptorpb.FieldDescriptorProto_TYPE_INT32
		stringType  = descriptorpb.FieldDescriptorProto_TYPE_STRING
		messageType = descriptorpb.FieldDescriptorProto_TYPE_MESSAGE
		enumType    = descriptorpb.FieldDescriptorProto_TYPE_ENUM
	)
	ref := func(name string) string { return "." + Package + "." + name }

	scopes := coverage.Scopes()
	scopeValues := make([]*descriptorpb.EnumValueDescriptorProto, len(scopes))
	for i, scope := range scopes {
		scopeValues[i] = &descriptorpb.EnumValueDescriptorProto{
			Name:   proto.String(scope.String()),
			Number: proto.Int32(int32(scope)),
		}
	}

	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String(FileName),
		Package: proto.String(Package),
		Syntax:  proto.String("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name: proto.String("Block"),
				Field: []*descriptorpb.FieldDescriptorProto{
					field("start_line", 1, int32Type, "", false),
					field("start_column", 2, int32Type, "", false),
					field("end_line", 3, int32Type, "", false),
					field("end_column", 4, int32Type, "", false),
				},
			},
			{
				Name: proto.String("Comment"),
				Field: []*descriptorpb.FieldDescriptorProto{
					field("block", 1, messageType, ref("Block"), false),
					field("comment", 2, stringType, "", false),
				},
			},
			{
				Name: proto.String("CoverageItem"),
				Field: []*descriptorpb.FieldDescriptorProto{
					field("scope", 1, enumType, ref("CoverageItem.Scope"), false),
					field("target_block", 2, messageType, ref("Block"), false),
					field("file", 3, stringType, "", false),
					field("identifier", 4, stringType, "", false),
					field("extension", 5, stringType, "", false),
					field("header_comments", 6, messageType, ref("Comment"), true),
					field("inline_comments", 7, messageType, ref("Comment"), true),
				},
				EnumType: []*descriptorpb.EnumDescriptorProto{
					{Name: proto.String("Scope"), Value: scopeValues},
				},
			},
			{
				Name: proto.String("MeasureCoverageIn"),
				Field: []*descriptorpb.FieldDescriptorProto{
					field("files", 1, stringType, "", true),
				},
			},
			{
				Name: proto.String("MeasureCoverageOut"),
				Field: []*descriptorpb.FieldDescriptorProto{
					field("coverage_items", 1, messageType, ref("CoverageItem"), true),
				},
			},
		},
		Service: []*descriptorpb.ServiceDescriptorProto{
			{
				Name: proto.String("CommentcovPlugin"),
				Method: []*descriptorpb.MethodDescriptorProto{
					{
						Name:       proto.String("MeasureCoverage"),
						InputType:  proto.String(ref("MeasureCoverageIn")),
						OutputType: proto.String(ref("MeasureCoverageOut")),
					},
				},
			},
		},
	}
}

func field(name string, number int32, typ descriptorpb.FieldDescriptorProto_Type, typeName string, repeated bool) *descriptorpb.FieldDescriptorProto {
	label := descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL
	if repeated {
		label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED
	}
	f := &descriptorpb.FieldDescriptorProto{
		Name:     proto.String(name),
		Number:   proto.Int32(number),
		Label:    label.Enum(),
		Type:     typ.Enum(),
		JsonName: proto.String(jsonName(name)),
	}
	if typeName != "" {
		f.TypeName = proto.String(typeName)
	}
	return f
}

// jsonName converts snake_case to lowerCamelCase.
func jsonName(name string) string {
	parts := strings.Split(name, "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}
