package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Messages are google.protobuf.Struct documents so the service needs no
// generated code; field names follow the JSON shapes in internal/utils.

const (
	InvoiceServiceName = "invoices.v1.InvoiceService"

	InvoiceService_SubmitText_FullMethodName     = "/invoices.v1.InvoiceService/SubmitText"
	InvoiceService_ListInvoices_FullMethodName   = "/invoices.v1.InvoiceService/ListInvoices"
	InvoiceService_GetInvoice_FullMethodName     = "/invoices.v1.InvoiceService/GetInvoice"
	InvoiceService_GetStats_FullMethodName       = "/invoices.v1.InvoiceService/GetStats"
	InvoiceService_ExportInvoices_FullMethodName = "/invoices.v1.InvoiceService/ExportInvoices"
)

// InvoiceServiceServer is the server API for invoices.v1.InvoiceService.
type InvoiceServiceServer interface {
	SubmitText(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListInvoices(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetInvoice(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetStats(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ExportInvoices(context.Context, *structpb.Struct) (*wrapperspb.BytesValue, error)
}

// UnimplementedInvoiceServiceServer can be embedded to have forward compatible implementations.
type UnimplementedInvoiceServiceServer struct{}

func (UnimplementedInvoiceServiceServer) SubmitText(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method SubmitText not implemented")
}
func (UnimplementedInvoiceServiceServer) ListInvoices(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method ListInvoices not implemented")
}
func (UnimplementedInvoiceServiceServer) GetInvoice(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetInvoice not implemented")
}
func (UnimplementedInvoiceServiceServer) GetStats(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetStats not implemented")
}
func (UnimplementedInvoiceServiceServer) ExportInvoices(context.Context, *structpb.Struct) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method ExportInvoices not implemented")
}

func RegisterInvoiceServiceServer(s grpc.ServiceRegistrar, srv InvoiceServiceServer) {
	s.RegisterService(&InvoiceService_ServiceDesc, srv)
}

// unaryHandler adapts one typed method to grpc.MethodDesc.
func unaryHandler[Req any, Resp any](fullMethod string, call func(srv any, ctx context.Context, in *Req) (Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv, ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var InvoiceService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: InvoiceServiceName,
	HandlerType: (*InvoiceServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "SubmitText",
			Handler: unaryHandler(InvoiceService_SubmitText_FullMethodName,
				func(srv any, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
					return srv.(InvoiceServiceServer).SubmitText(ctx, in)
				}),
		},
		{
			MethodName: "ListInvoices",
			Handler: unaryHandler(InvoiceService_ListInvoices_FullMethodName,
				func(srv any, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
					return srv.(InvoiceServiceServer).ListInvoices(ctx, in)
				}),
		},
		{
			MethodName: "GetInvoice",
			Handler: unaryHandler(InvoiceService_GetInvoice_FullMethodName,
				func(srv any, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
					return srv.(InvoiceServiceServer).GetInvoice(ctx, in)
				}),
		},
		{
			MethodName: "GetStats",
			Handler: unaryHandler(InvoiceService_GetStats_FullMethodName,
				func(srv any, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
					return srv.(InvoiceServiceServer).GetStats(ctx, in)
				}),
		},
		{
			MethodName: "ExportInvoices",
			Handler: unaryHandler(InvoiceService_ExportInvoices_FullMethodName,
				func(srv any, ctx context.Context, in *structpb.Struct) (*wrapperspb.BytesValue, error) {
					return srv.(InvoiceServiceServer).ExportInvoices(ctx, in)
				}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "invoices/v1/invoices.proto",
}

// InvoiceServiceClient is the client API for invoices.v1.InvoiceService.
type InvoiceServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewInvoiceServiceClient(cc grpc.ClientConnInterface) *InvoiceServiceClient {
	return &InvoiceServiceClient{cc: cc}
}

func (c *InvoiceServiceClient) SubmitText(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, InvoiceService_SubmitText_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *InvoiceServiceClient) ListInvoices(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, InvoiceService_ListInvoices_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *InvoiceServiceClient) GetInvoice(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, InvoiceService_GetInvoice_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *InvoiceServiceClient) GetStats(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, InvoiceService_GetStats_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *InvoiceServiceClient) ExportInvoices(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, InvoiceService_ExportInvoices_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
