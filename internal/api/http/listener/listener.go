package listener

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/oshokin/alarm-clock/internal/logger"
)

// Options configures a listener.
type Options struct {
	// Address is the TCP listen address.
	Address string
	// ReadHeaderTimeout bounds how long an idle connection may hold the
	// server before sending a request.
	ReadHeaderTimeout time.Duration
	// ShutdownTimeout bounds the graceful shutdown.
	ShutdownTimeout time.Duration
}

// Serve listens on opts.Address and serves handler until ctx is done or
// until is closed. In-flight requests are allowed to finish. A nil until
// never fires.
func Serve(ctx context.Context, opts Options, handler http.Handler, until <-chan struct{}) error {
	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", opts.Address)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", opts.Address, err)
	}

	return ServeListener(ctx, lis, opts, handler, until)
}

// ServeListener is Serve on an existing listener. The listener is closed
// on return.
func ServeListener(ctx context.Context, lis net.Listener, opts Options, handler http.Handler, until <-chan struct{}) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: opts.ReadHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	logger.InfoKV(ctx, "HTTP listener started", "address", lis.Addr().String())

	// Done channel is closed after Shutdown finishes so we return only once
	// the server has fully stopped.
	done := make(chan struct{})
	served := make(chan struct{})

	go func() {
		defer close(done)

		select {
		case <-ctx.Done():
		case <-until:
		case <-served:
			return
		}

		timeout := opts.ShutdownTimeout
		if timeout <= 0 {
			timeout = time.Second
		}

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.WarnKV(ctx, "HTTP listener shutdown incomplete", "error", err)

			_ = srv.Close()
		}
	}()

	err := srv.Serve(lis)

	close(served)
	<-done

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve %s: %w", lis.Addr(), err)
	}

	logger.InfoKV(ctx, "HTTP listener stopped", "address", lis.Addr().String())

	return nil
}
