package status

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/alarm-clock/internal/domain/alarm"
)

func readFile(t *testing.T, path string) string {
	t.Helper()

	contents, err := os.ReadFile(path)
	require.NoError(t, err)

	return string(contents)
}

// TestChannel_WriteRead_Roundtrip ensures a written record is read back unchanged.
func TestChannel_WriteRead_Roundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "record.status")
	ch := NewChannel(path, []string{"a", "b", "c"}, nil)

	require.NoError(t, ch.Write(context.Background(), []string{"x", "y", "z"}))
	require.Equal(t, "x\ny\nz\n", readFile(t, path))

	rec, err := ch.Read(context.Background())
	require.NoError(t, err)
	require.False(t, rec.Healed)
	require.Equal(t, []string{"x", "y", "z"}, rec.Fields)

	require.ErrorIs(t, ch.Write(context.Background(), nil), ErrNoFields)
}

// TestChannel_Read_HealsBadFiles injects corrupt content and expects the default record.
func TestChannel_Read_HealsBadFiles(t *testing.T) {
	t.Parallel()

	cases := map[string]*string{
		"missing":    nil,
		"empty":      ptr(""),
		"one line":   ptr("07:15\n"),
		"five lines": ptr("07:15\nactive\nringing\nextra\nmore\n"),
		"bad phase":  ptr("07:15\narmed\nringing\n"),
		"bad time":   ptr("7h\nactive\nringing\n"),
		"blank line": ptr("07:15\n\nringing\n"),
	}

	for name, contents := range cases {
		contents := contents
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "to_display.status")
			if contents != nil {
				require.NoError(t, os.WriteFile(path, []byte(*contents), 0o600))
			}

			store := NewControllerStore(path)

			st, healed, err := store.Load(context.Background())
			require.NoError(t, err)
			require.True(t, healed)
			require.Equal(t, alarm.DefaultControllerStatus(), st)
			require.Equal(t, "11:11\ninactive\nnot_ringing\n", readFile(t, path))

			// The healed file now reads cleanly.
			st, healed, err = store.Load(context.Background())
			require.NoError(t, err)
			require.False(t, healed)
			require.Len(t, st.Fields(), alarm.ControllerStatusFields)
		})
	}
}

// TestChannel_Read_ToleratesWhitespace accepts CRLF endings and a missing final newline.
func TestChannel_Read_ToleratesWhitespace(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "record.status")
	require.NoError(t, os.WriteFile(path, []byte("07:15\r\nactive \r\nnot_ringing"), 0o600))

	st, healed, err := NewControllerStore(path).Load(context.Background())
	require.NoError(t, err)
	require.False(t, healed)
	require.Equal(t, alarm.ControllerStatus{RingTime: "07:15", Phase: alarm.PhaseActive, Ringing: alarm.RingingOff}, st)
}

// TestControllerStore_AlwaysThreeFields writes after corruption and reads exactly three fields.
func TestControllerStore_AlwaysThreeFields(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "record.status")
	store := NewControllerStore(path)

	for _, corrupt := range []string{"x\n", "1\n2\n3\n4\n5\n"} {
		require.NoError(t, os.WriteFile(path, []byte(corrupt), 0o600))

		want := alarm.ControllerStatus{RingTime: "06:30", Phase: alarm.PhaseActive, Ringing: alarm.RingingOn}
		require.NoError(t, store.Publish(context.Background(), want))

		rec, err := store.Channel().Read(context.Background())
		require.NoError(t, err)
		require.Len(t, rec.Fields, 3)
		require.Equal(t, want.Fields(), rec.Fields)
	}
}

// TestRequestStore covers submit, reset and the missing-file case.
func TestRequestStore(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "from_display.status")
	store := NewRequestStore(path)

	req, err := store.Load(context.Background())
	require.NoError(t, err)
	require.False(t, req.Pending())
	require.Equal(t, "None\n", readFile(t, path))

	require.NoError(t, store.Submit(context.Background(), alarm.RingTime{Hour: 6, Minute: 5}))
	require.Equal(t, "06:05\n", readFile(t, path))

	req, err = store.Load(context.Background())
	require.NoError(t, err)
	require.True(t, req.Pending())
	require.Equal(t, alarm.RingTime{Hour: 6, Minute: 5}, *req.RingTime)

	require.NoError(t, os.WriteFile(path, []byte("99:99\n"), 0o600))

	req, err = store.Load(context.Background())
	require.NoError(t, err)
	require.False(t, req.Pending())

	require.NoError(t, store.Submit(context.Background(), alarm.RingTime{Hour: 7}))
	require.NoError(t, store.Reset(context.Background()))
	require.Equal(t, "None\n", readFile(t, path))
}

// TestWebStore writes the phase and ignores writes without a path.
func TestWebStore(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "web.status")
	require.NoError(t, NewWebStore(path).Publish(context.Background(), alarm.PhaseActive))
	require.Equal(t, "active\n", readFile(t, path))

	require.NoError(t, NewWebStore("").Publish(context.Background(), alarm.PhaseActive))
}

// TestChannel_Write_LeavesNoTemporaryFiles checks the rename cleanup.
func TestChannel_Write_LeavesNoTemporaryFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ch := NewChannel(filepath.Join(dir, "r.status"), []string{"None"}, nil)

	for i := 0; i < 5; i++ {
		require.NoError(t, ch.Write(context.Background(), []string{"07:00"}))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.False(t, strings.HasPrefix(entries[0].Name(), "."))
}

func ptr(s string) *string {
	return &s
}
