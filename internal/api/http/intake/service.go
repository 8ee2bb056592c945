package intake

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

// Form field names.
const (
	FieldRingTime = "ring_time"
	FieldRingtone = "ring_tone"
	FieldSnooze   = "snooze_time"
)

// Options configures the service.
type Options struct {
	// Address is the listen address.
	Address string
	// Endpoint is the submission path.
	Endpoint string
	// PollInterval bounds how long an idle connection can delay shutdown.
	PollInterval time.Duration
	// ShutdownTimeout bounds the graceful shutdown.
	ShutdownTimeout time.Duration
}

// Service accepts settings submissions.
type Service struct {
	opts     Options
	renderer *pages.Renderer
}

// New creates the service.
func New(opts Options, renderer *pages.Renderer) *Service {
	return &Service{opts: opts, renderer: renderer}
}

// Run serves submissions until ctx is done or latch resolves. The first
// submission resolves latch.
func (s *Service) Run(ctx context.Context, latch *alarm.Latch[alarm.Submission]) error {
	ctx = logger.WithName(ctx, "settings-intake")

	return listener.Serve(ctx, s.listenerOptions(), s.Handler(ctx, latch), latch.Done())
}

// Handler returns the router for one cycle.
func (s *Service) Handler(ctx context.Context, latch *alarm.Latch[alarm.Submission]) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc(s.opts.Endpoint, func(w http.ResponseWriter, req *http.Request) {
		s.submit(ctx, w, req, latch)
	}).Methods(http.MethodPost)

	return r
}

func (s *Service) submit(
	ctx context.Context,
	w http.ResponseWriter,
	req *http.Request,
	latch *alarm.Latch[alarm.Submission],
) {
	if err := req.ParseForm(); err != nil {
		logger.WarnKV(ctx, "Unreadable settings form", "remote", req.RemoteAddr, "error", err)
	}

	// Content is validated by the scheduler, not here.
	sub := alarm.Submission{
		RingTime: req.PostForm.Get(FieldRingTime),
		Ringtone: req.PostForm.Get(FieldRingtone),
		Snooze:   req.PostForm.Get(FieldSnooze),
		Source:   alarm.SourceHTTP,
	}

	if latch.Resolve(sub) {
		logger.InfoKV(ctx, "Settings received",
			"remote", req.RemoteAddr,
			"ring_time", sub.RingTime,
			"ring_tone", sub.Ringtone,
			"snooze_time", sub.Snooze,
		)
	} else {
		logger.InfoKV(ctx, "Settings ignored, cycle already configured", "remote", req.RemoteAddr)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	data := pages.SettingsData{RingTime: sub.RingTime, Ringtone: sub.Ringtone, Snooze: sub.Snooze}
	if err := s.renderer.Render(w, pages.SettingsPage, data); err != nil {
		logger.ErrorKV(ctx, "Unable to render settings page", "error", err)
	}
}

func (s *Service) listenerOptions() listener.Options {
	return listener.Options{
		Address:           s.opts.Address,
		ReadHeaderTimeout: s.opts.PollInterval,
		ShutdownTimeout:   s.opts.ShutdownTimeout,
	}
}
