package stop

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/alarm-clock/internal/api/http/pages"
	"github.com/oshokin/alarm-clock/internal/domain/alarm"
)

// TestHandler sets the stop flag only for the exact command and always answers 200.
func TestHandler(t *testing.T) {
	t.Parallel()

	renderer, err := pages.NewRenderer("")
	require.NoError(t, err)

	svc := New(Options{Endpoint: "/stop_alarm", Command: "stop_alarm"}, renderer)

	tests := []struct {
		name string
		body string
		want bool
	}{
		{name: "exact token", body: url.Values{FieldAction: {"stop_alarm"}}.Encode(), want: true},
		{name: "wrong token", body: url.Values{FieldAction: {"stop"}}.Encode()},
		{name: "token with spaces", body: url.Values{FieldAction: {" stop_alarm"}}.Encode()},
		{name: "missing field", body: url.Values{"other": {"stop_alarm"}}.Encode()},
		{name: "empty body"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var flag alarm.StopFlag

			req := httptest.NewRequest(http.MethodPost, "/stop_alarm", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

			rec := httptest.NewRecorder()
			svc.Handler(context.Background(), &flag).ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			require.Contains(t, rec.Body.String(), "Stop request received")
			require.Equal(t, tt.want, flag.Requested())
		})
	}
}
