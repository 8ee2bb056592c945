package health

import (
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/oshokin/alarm-clock/internal/domain/alarm"
)

// SchedulerService is the health service name tracking whether an alarm is set.
const SchedulerService = "alarm.Scheduler"

// Reporter mirrors scheduler states into a gRPC health server. It is a
// scheduler observer.
type Reporter struct {
	server *health.Server
}

// NewReporter returns a reporter with the overall service serving and no
// alarm set.
func NewReporter() *Reporter {
	server := health.NewServer()
	server.SetServingStatus(SchedulerService, healthpb.HealthCheckResponse_NOT_SERVING)

	return &Reporter{server: server}
}

// Observe records a scheduler state change.
func (r *Reporter) Observe(state alarm.State) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if state.Engaged() {
		status = healthpb.HealthCheckResponse_SERVING
	}

	r.server.SetServingStatus(SchedulerService, status)
}

// Shutdown reports every service as not serving. Later updates are ignored.
func (r *Reporter) Shutdown() {
	r.server.Shutdown()
}

// Server returns the health server to register on a gRPC server.
func (r *Reporter) Server() healthpb.HealthServer {
	return r.server
}
