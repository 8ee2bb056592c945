package display

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/repository/status"
)

func newReader(t *testing.T) (*StatusReader, string, *clockwork.FakeClock) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "to_display.status")
	clock := clockwork.NewFakeClock()

	reader := NewStatusReader(status.NewControllerStore(path), ReaderOptions{
		Retries:    3,
		RetryDelay: time.Second,
		Backoff:    10 * time.Second,
		Clock:      clock,
	})

	return reader, path, clock
}

func readAsync(reader *StatusReader) <-chan alarm.ControllerStatus {
	result := make(chan alarm.ControllerStatus, 1)

	go func() {
		st, err := reader.Read(context.Background())
		if err == nil {
			result <- st
		}

		close(result)
	}()

	return result
}

// TestStatusReader_ValidRecord returns a well-formed record at once.
func TestStatusReader_ValidRecord(t *testing.T) {
	t.Parallel()

	reader, path, _ := newReader(t)
	require.NoError(t, os.WriteFile(path, []byte("07:15\nactive\nringing\n"), 0o600))

	st, err := reader.Read(context.Background())
	require.NoError(t, err)
	require.Equal(t, alarm.ControllerStatus{RingTime: "07:15", Phase: alarm.PhaseActive, Ringing: alarm.RingingOn}, st)
}

// TestStatusReader_RecoversAfterHeal retries once and then reads the healed record.
func TestStatusReader_RecoversAfterHeal(t *testing.T) {
	t.Parallel()

	reader, path, clock := newReader(t)
	require.NoError(t, os.WriteFile(path, []byte("garbage\n"), 0o600))

	result := readAsync(reader)

	require.NoError(t, clock.BlockUntilContext(context.Background(), 1))
	clock.Advance(time.Second)

	st, ok := <-result
	require.True(t, ok)
	require.Equal(t, alarm.DefaultControllerStatus(), st)
}

// TestStatusReader_BacksOff waits for the long backoff after three healed reads.
func TestStatusReader_BacksOff(t *testing.T) {
	t.Parallel()

	reader, path, clock := newReader(t)
	require.NoError(t, os.WriteFile(path, []byte("1\n2\n3\n4\n5\n"), 0o600))

	start := clock.Now()
	result := readAsync(reader)

	for i := 0; i < 3; i++ {
		require.NoError(t, clock.BlockUntilContext(context.Background(), 1))
		// The controller keeps writing a broken record.
		require.NoError(t, os.WriteFile(path, []byte("broken\n"), 0o600))
		clock.Advance(time.Second)
	}

	require.NoError(t, clock.BlockUntilContext(context.Background(), 1))

	select {
	case <-result:
		t.Fatal("returned before the backoff")
	default:
	}

	clock.Advance(10 * time.Second)

	st, ok := <-result
	require.True(t, ok)
	require.Equal(t, alarm.DefaultControllerStatus(), st)
	require.Equal(t, 13*time.Second, clock.Since(start))
}

// TestStatusReader_Cancelled stops waiting when the context is done.
func TestStatusReader_Cancelled(t *testing.T) {
	t.Parallel()

	reader, _, _ := newReader(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The missing record heals, then the retry wait sees the cancellation.
	_, err := reader.Read(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
