package client

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestNew_ValidatesEndpoint rejects an empty or malformed endpoint.
func TestNew_ValidatesEndpoint(t *testing.T) {
	t.Parallel()

	c, err := New("")
	require.ErrorIs(t, err, errAddressRequired)
	require.Nil(t, c)

	_, err = New("not a url")
	require.Error(t, err)
}

// TestClient_callContext checks timeout vs cancel-only behavior of callContext.
func TestClient_callContext(t *testing.T) {
	t.Parallel()

	c := &Client{callTimeout: 0}

	ctx, cancel := c.callContext(context.Background())
	cancel()

	_, ok := ctx.Deadline()
	require.False(t, ok)

	c.callTimeout = 10 * time.Millisecond

	ctx, cancel = c.callContext(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	require.WithinDuration(t, time.Now().Add(10*time.Millisecond), deadline, 30*time.Millisecond)
}

// TestClient_SubmitSettings posts the settings form.
func TestClient_SubmitSettings(t *testing.T) {
	t.Parallel()

	forms := make(chan url.Values, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.ParseForm() != nil {
			w.WriteHeader(http.StatusBadRequest)

			return
		}

		forms <- r.PostForm
		_, _ = io.WriteString(w, "ok")
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL + "/send_data")
	require.NoError(t, err)

	body, err := c.SubmitSettings(context.Background(), Settings{RingTime: "07:15", Ringtone: "audio1.wav", Snooze: "10"})
	require.NoError(t, err)
	require.Equal(t, "ok", body)

	got := <-forms
	require.Equal(t, "07:15", got.Get("ring_time"))
	require.Equal(t, "audio1.wav", got.Get("ring_tone"))
	require.Equal(t, "10", got.Get("snooze_time"))
}

// TestClient_NonSuccessStatus wraps ErrUnexpectedStatus with the status code.
func TestClient_NonSuccessStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	c, err := New(srv.URL + "/stop_alarm")
	require.NoError(t, err)

	_, err = c.Stop(context.Background(), "stop_alarm")
	require.ErrorIs(t, err, ErrUnexpectedStatus)
	require.Contains(t, err.Error(), "404")
}

// TestEndpointURL builds controller URLs from a host override or the listen address.
func TestEndpointURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		host, listen, path, want string
	}{
		{listen: ":8080", path: "/send_data", want: "http://127.0.0.1:8080/send_data"},
		{host: "pi.local", listen: ":8081", path: "/stop_alarm", want: "http://pi.local:8081/stop_alarm"},
		{listen: "10.0.0.5:8080", path: "/send_data", want: "http://10.0.0.5:8080/send_data"},
		{host: "::1", listen: ":8080", path: "/x", want: "http://[::1]:8080/x"},
	}

	for _, tt := range tests {
		got, err := EndpointURL(tt.host, tt.listen, tt.path)
		require.NoError(t, err)
		require.Equal(t, tt.want, got)
	}

	_, err := EndpointURL("", "8080", "/")
	require.Error(t, err)
}

// TestRunStop_RetriesUntilReachable keeps pushing until the controller answers.
func TestRunStop_RetriesUntilReachable(t *testing.T) {
	t.Parallel()

	// Reserve a port, then start the server only after the first attempt fails.
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr := l.Addr().String()
	require.NoError(t, l.Close())

	var (
		calls  atomic.Int32
		action atomic.Value
	)

	srv := &http.Server{
		Addr: addr,
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			_ = r.ParseForm()
			action.Store(r.PostForm.Get("action"))
			w.WriteHeader(http.StatusOK)
		}),
		ReadHeaderTimeout: time.Second,
	}
	t.Cleanup(func() { _ = srv.Close() })

	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = srv.ListenAndServe()
	}()

	opts := &Options{
		ConfigPath:   filepath.Join(t.TempDir(), "missing.yaml"),
		URL:          "http://" + addr + "/stop_alarm",
		CallTimeout:  time.Second,
		Attempts:     100,
		PushInterval: 20 * time.Millisecond,
	}

	require.NoError(t, RunStop(context.Background(), opts))
	require.Equal(t, int32(1), calls.Load())
	require.Equal(t, "stop_alarm", action.Load())
}

// TestRunSet_GivesUp fails after the configured attempts.
func TestRunSet_GivesUp(t *testing.T) {
	t.Parallel()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr := l.Addr().String()
	require.NoError(t, l.Close())

	opts := &Options{
		ConfigPath:   filepath.Join(t.TempDir(), "missing.yaml"),
		URL:          "http://" + addr + "/send_data",
		Attempts:     2,
		PushInterval: time.Millisecond,
	}

	err = RunSet(context.Background(), opts, Settings{RingTime: "07:15"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "giving up after 2 attempts")
}
