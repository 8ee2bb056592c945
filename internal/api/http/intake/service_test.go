package intake

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/alarm-clock/internal/api/http/pages"
	"github.com/oshokin/alarm-clock/internal/domain/alarm"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	renderer, err := pages.NewRenderer("")
	require.NoError(t, err)

	return New(Options{Endpoint: "/send_data"}, renderer)
}

func postForm(t *testing.T, h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

// TestSubmit_ResolvesLatch checks the submission is published verbatim.
func TestSubmit_ResolvesLatch(t *testing.T) {
	t.Parallel()

	latch := alarm.NewLatch[alarm.Submission]()
	h := newTestService(t).Handler(context.Background(), latch)

	rec := postForm(t, h, "/send_data", url.Values{
		FieldRingTime: {"07:15"},
		FieldRingtone: {"audio1.wav"},
		FieldSnooze:   {"10"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	require.Contains(t, rec.Body.String(), "07:15")
	require.Contains(t, rec.Body.String(), "audio1.wav")

	got, ok := latch.Value()
	require.True(t, ok)
	require.Equal(t, alarm.Submission{
		RingTime: "07:15",
		Ringtone: "audio1.wav",
		Snooze:   "10",
		Source:   alarm.SourceHTTP,
	}, got)
}

// TestSubmit_MissingFieldsAreEmpty does not validate content.
func TestSubmit_MissingFieldsAreEmpty(t *testing.T) {
	t.Parallel()

	latch := alarm.NewLatch[alarm.Submission]()
	h := newTestService(t).Handler(context.Background(), latch)

	rec := postForm(t, h, "/send_data", url.Values{FieldRingTime: {"banana"}})
	require.Equal(t, http.StatusOK, rec.Code)

	got, ok := latch.Value()
	require.True(t, ok)
	require.Equal(t, "banana", got.RingTime)
	require.Empty(t, got.Ringtone)
	require.Empty(t, got.Snooze)
}

// TestSubmit_FirstWins keeps the first of several concurrent submissions.
func TestSubmit_FirstWins(t *testing.T) {
	t.Parallel()

	latch := alarm.NewLatch[alarm.Submission]()
	h := newTestService(t).Handler(context.Background(), latch)

	var wg sync.WaitGroup

	times := []string{"06:00", "06:01", "06:02", "06:03", "06:04", "06:05", "06:06", "06:07"}
	codes := make(chan int, len(times))

	for _, rt := range times {
		rt := rt
		wg.Add(1)

		go func() {
			defer wg.Done()

			req := httptest.NewRequest(http.MethodPost, "/send_data",
				strings.NewReader(url.Values{FieldRingTime: {rt}}.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			codes <- rec.Code
		}()
	}

	wg.Wait()
	close(codes)

	for code := range codes {
		require.Equal(t, http.StatusOK, code)
	}

	got, ok := latch.Value()
	require.True(t, ok)
	require.Contains(t, times, got.RingTime)

	// A late submission is answered but does not change the cycle.
	rec := postForm(t, h, "/send_data", url.Values{FieldRingTime: {"23:59"}})
	require.Equal(t, http.StatusOK, rec.Code)

	again, _ := latch.Value()
	require.Equal(t, got, again)
}

// TestRouting rejects other paths and methods.
func TestRouting(t *testing.T) {
	t.Parallel()

	latch := alarm.NewLatch[alarm.Submission]()
	h := newTestService(t).Handler(context.Background(), latch)

	rec := postForm(t, h, "/other", url.Values{FieldRingTime: {"07:00"}})
	require.Equal(t, http.StatusNotFound, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/send_data", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	require.False(t, latch.Resolved())
}
