package stop

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/oshokin/alarm-clock/internal/api/http/listener"
	"github.com/oshokin/alarm-clock/internal/api/http/pages"
	"github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/logger"
)

// FieldAction is the form field carrying the command token.
const FieldAction = "action"

// Options configures the service.
type Options struct {
	// Address is the listen address.
	Address string
	// Endpoint is the command path.
	Endpoint string
	// Command is the token that stops the alarm.
	Command string
	// PollInterval bounds how long an idle connection can delay shutdown.
	PollInterval time.Duration
	// ShutdownTimeout bounds the graceful shutdown.
	ShutdownTimeout time.Duration
}

// Service accepts stop commands.
type Service struct {
	opts     Options
	renderer *pages.Renderer
}

// New creates the service.
func New(opts Options, renderer *pages.Renderer) *Service {
	return &Service{opts: opts, renderer: renderer}
}

// Run serves commands until ctx is done.
func (s *Service) Run(ctx context.Context, flag *alarm.StopFlag) error {
	ctx = logger.WithName(ctx, "stop-command")

	opts := listener.Options{
		Address:           s.opts.Address,
		ReadHeaderTimeout: s.opts.PollInterval,
		ShutdownTimeout:   s.opts.ShutdownTimeout,
	}

	return listener.Serve(ctx, opts, s.Handler(ctx, flag), nil)
}

// Handler returns the router for one cycle. Every POST is answered with the
// stop page; only the exact command token sets flag.
func (s *Service) Handler(ctx context.Context, flag *alarm.StopFlag) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc(s.opts.Endpoint, func(w http.ResponseWriter, req *http.Request) {
		if err := req.ParseForm(); err != nil {
			logger.WarnKV(ctx, "Unreadable stop form", "remote", req.RemoteAddr, "error", err)
		}

		action := req.PostForm.Get(FieldAction)
		if action == s.opts.Command {
			flag.Request()
			logger.InfoKV(ctx, "Stop requested", "remote", req.RemoteAddr)
		} else {
			logger.WarnKV(ctx, "Unrecognized stop command", "remote", req.RemoteAddr, "action", action)
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")

		if err := s.renderer.Render(w, pages.StopPage, nil); err != nil {
			logger.ErrorKV(ctx, "Unable to render stop page", "error", err)
		}
	}).Methods(http.MethodPost)

	return r
}
