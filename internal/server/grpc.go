package server

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/joseph-ayodele/invoices-tracker/internal/common"
)

const requestIDHeader = "x-request-id"

// NewGRPCServer builds a gRPC server with request logging, the invoice and
// ingestion services and the standard health service. ingestion may be nil.
func NewGRPCServer(logger *slog.Logger, invoiceSrv InvoiceServiceServer, ingestionSrv IngestionServiceServer) (*grpc.Server, *health.Server) {
	if logger == nil {
		logger = slog.Default()
	}
	s := grpc.NewServer(grpc.ChainUnaryInterceptor(LoggingInterceptor(logger)))

	RegisterInvoiceServiceServer(s, invoiceSrv)
	if ingestionSrv != nil {
		RegisterIngestionServiceServer(s, ingestionSrv)
	}

	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	// empty string means overall server health
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(InvoiceServiceName, healthpb.HealthCheckResponse_SERVING)
	return s, hs
}

// LoggingInterceptor tags each call with a request ID (from the
// x-request-id header when present) and logs its outcome.
func LoggingInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if ids := md.Get(requestIDHeader); len(ids) > 0 && ids[0] != "" {
				ctx = common.WithRequestID(ctx, ids[0])
			}
		}
		ctx, reqID := common.EnsureRequestID(ctx)
		log := logger.With("request_id", reqID, "method", info.FullMethod)
		ctx = common.WithLogger(ctx, log)

		resp, err := handler(ctx, req)

		code := status.Code(err)
		if err != nil {
			log.Warn("grpc call failed", "code", code.String(), "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		} else {
			log.Debug("grpc call", "code", code.String(), "elapsed_ms", time.Since(start).Milliseconds())
		}
		return resp, err
	}
}
