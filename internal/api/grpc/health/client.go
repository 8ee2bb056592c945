package health

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/encoding/protojson"
)

// errAddressRequired is returned when the probe has no address.
var errAddressRequired = errors.New("address must be provided")

// Check asks the health endpoint at address for the status of service. An
// empty service means the controller as a whole.
// Note: this uses insecure transport credentials; the endpoint is meant for
// the local network only.
func Check(ctx context.Context, address, service string, timeout time.Duration) (*healthpb.HealthCheckResponse, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial health endpoint: %w", err)
	}

	defer conn.Close() //nolint:errcheck // Nothing to do about a failed close.

	if timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return nil, fmt.Errorf("check %q: %w", service, err)
	}

	return resp, nil
}

// Format renders a response as single-line JSON.
func Format(resp *healthpb.HealthCheckResponse) (string, error) {
	data, err := protojson.MarshalOptions{UseProtoNames: true}.Marshal(resp)
	if err != nil {
		return "", fmt.Errorf("marshal health response: %w", err)
	}

	return string(data), nil
}
