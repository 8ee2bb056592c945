package health

import (
	"context"
	"errors"
	"fmt"
	"net"

	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/oshokin/alarm-clock/internal/logger"
)

// Serve runs a gRPC server exposing reporter on address until ctx is done.
func Serve(ctx context.Context, address string, reporter *Reporter) error {
	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", address)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", address, err)
	}

	return ServeListener(ctx, lis, reporter)
}

// ServeListener runs the health server on lis until ctx is done.
func ServeListener(ctx context.Context, lis net.Listener, reporter *Reporter) error {
	ctx = logger.WithName(ctx, "health")

	grpcServer := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcServer, reporter.Server())

	logger.InfoKV(ctx, "Health endpoint listening", "listen_address", lis.Addr().String())

	// Closed after GracefulStop returns so Serve does not exit early.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		reporter.Shutdown()
		grpcServer.GracefulStop()
		close(done)
	}()

	if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	<-done
	logger.Info(ctx, "Health endpoint stopped")

	return nil
}
