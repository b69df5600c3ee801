package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/dynamicpb"

	"github.com/mvp-joe/commentcov-typescript/internal/rpc/pluginpb"
)

// CommentcovPluginServer is the server API of the plugin service.
type CommentcovPluginServer interface {
	MeasureCoverage(ctx context.Context, in *dynamicpb.Message) (*dynamicpb.Message, error)
}

// RegisterCommentcovPluginServer registers srv on s.
func RegisterCommentcovPluginServer(s grpc.ServiceRegistrar, srv CommentcovPluginServer) {
	s.RegisterService(&serviceDesc, srv)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: pluginpb.ServiceName,
	HandlerType: (*CommentcovPluginServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "MeasureCoverage",
			Handler:    measureCoverageHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: pluginpb.FileName,
}

func measureCoverageHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := dynamicpb.NewMessage(pluginpb.MeasureCoverageIn)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CommentcovPluginServer).MeasureCoverage(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: pluginpb.MeasureCoverageMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CommentcovPluginServer).MeasureCoverage(ctx, req.(*dynamicpb.Message))
	}
	return interceptor(ctx, in, info, handler)
}
