package alarm

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestParseRingTime covers accepted and rejected spellings.
func TestParseRingTime(t *testing.T) {
	t.Parallel()

	good := map[string]RingTime{
		"07:15": {7, 15},
		"7:5":   {7, 5},
		"00:00": {0, 0},
		"23:59": {23, 59},
		" 6:00": {6, 0},
	}
	for in, want := range good {
		got, err := ParseRingTime(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got)
	}

	for _, in := range []string{"", "24:00", "12:60", "1215", "12:5a", "None", "-1:00", "123:00"} {
		_, err := ParseRingTime(in)
		require.ErrorIs(t, err, ErrInvalidRingTime, in)
	}
}

// TestRingTime_String pads both fields.
func TestRingTime_String(t *testing.T) {
	t.Parallel()

	require.Equal(t, "07:05", RingTime{7, 5}.String())
	require.Equal(t, "23:59", RingTime{23, 59}.String())
}

// TestRingTime_AddMinutes carries between fields and wraps around the day.
func TestRingTime_AddMinutes(t *testing.T) {
	t.Parallel()

	require.Equal(t, RingTime{7, 0}, RingTime{6, 59}.AddMinutes(1))
	require.Equal(t, RingTime{0, 0}, RingTime{23, 59}.AddMinutes(1))
	require.Equal(t, RingTime{23, 59}, RingTime{0, 0}.AddMinutes(-1))
	require.Equal(t, RingTime{5, 55}, RingTime{6, 0}.AddMinutes(-5))
	require.Equal(t, RingTime{0, 3}, RingTime{23, 58}.AddMinutes(5))
	require.Equal(t, RingTime{6, 0}, RingTime{6, 0}.AddMinutes(24*60))
}

// TestWaitDuration covers same-day, next-day and exact-match targets.
func TestWaitDuration(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 7, 14, 50, 0, time.Local)

	require.Equal(t, 10*time.Second, WaitDuration(now, RingTime{7, 15}))
	require.Equal(t, 24*time.Hour-50*time.Second-14*time.Minute, WaitDuration(now, RingTime{7, 0}))
	require.Equal(t, time.Duration(0), WaitDuration(time.Date(2026, 3, 1, 7, 15, 0, 0, time.Local), RingTime{7, 15}))
}

// TestWaitDuration_Modular checks wait == (target - now) mod 24h for random inputs.
func TestWaitDuration_Modular(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42)) //nolint:gosec // Deterministic test data.
	base := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 2000; i++ {
		now := base.Add(time.Duration(rng.Int63n(int64(24 * time.Hour))))
		rt := RingTime{Hour: rng.Intn(24), Minute: rng.Intn(60)}

		target := time.Duration(rt.Hour)*time.Hour + time.Duration(rt.Minute)*time.Minute
		elapsed := now.Sub(base)
		want := ((target-elapsed)%(24*time.Hour) + 24*time.Hour) % (24 * time.Hour)

		got := WaitDuration(now, rt)
		require.Equal(t, want, got)
		require.GreaterOrEqual(t, got, time.Duration(0))
		require.Less(t, got, 24*time.Hour)
	}
}
