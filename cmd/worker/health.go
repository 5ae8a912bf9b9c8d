package main

import (
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// serveHealth starts a background gRPC health server on port, set to
// SERVING immediately — the worker has no dependency to wait on before
// it starts polling. The returned stop func closes the listener.
func serveHealth(port int, logger *slog.Logger) (stop func(), err error) {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("listen health port: %w", err)
	}

	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	grpcServer := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("health server stopped", "error", err)
		}
	}()

	return func() {
		healthServer.Shutdown()
		grpcServer.GracefulStop()
	}, nil
}
