package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	IngestionServiceName = "invoices.v1.IngestionService"

	IngestionService_IngestFile_FullMethodName      = "/invoices.v1.IngestionService/IngestFile"
	IngestionService_IngestDirectory_FullMethodName = "/invoices.v1.IngestionService/IngestDirectory"
)

// IngestionServiceServer is the server API for invoices.v1.IngestionService.
type IngestionServiceServer interface {
	IngestFile(context.Context, *structpb.Struct) (*structpb.Struct, error)
	IngestDirectory(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type UnimplementedIngestionServiceServer struct{}

func (UnimplementedIngestionServiceServer) IngestFile(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method IngestFile not implemented")
}
func (UnimplementedIngestionServiceServer) IngestDirectory(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method IngestDirectory not implemented")
}

func RegisterIngestionServiceServer(s grpc.ServiceRegistrar, srv IngestionServiceServer) {
	s.RegisterService(&IngestionService_ServiceDesc, srv)
}

var IngestionService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: IngestionServiceName,
	HandlerType: (*IngestionServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "IngestFile",
			Handler: unaryHandler(IngestionService_IngestFile_FullMethodName,
				func(srv any, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
					return srv.(IngestionServiceServer).IngestFile(ctx, in)
				}),
		},
		{
			MethodName: "IngestDirectory",
			Handler: unaryHandler(IngestionService_IngestDirectory_FullMethodName,
				func(srv any, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
					return srv.(IngestionServiceServer).IngestDirectory(ctx, in)
				}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "invoices/v1/ingest.proto",
}
