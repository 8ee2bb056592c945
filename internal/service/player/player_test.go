package player_test

import (
	"context"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/service/player"
	"github.com/oshokin/alarm-clock/internal/service/player/playertest"
)

var allowed = alarm.AllowList{"main_audio.wav", "audio1.wav"}

// TestPlay_RefusesUnknownRingtone never launches a player for a name outside the allow-list.
func TestPlay_RefusesUnknownRingtone(t *testing.T) {
	t.Parallel()

	launcher := new(playertest.Launcher)
	p := player.New(player.Options{Dir: "audios", Allowed: allowed, Command: "aplay", Launcher: launcher})

	for _, name := range []string{"nope.wav", "", "../audio1.wav", "audios/audio1.wav"} {
		require.ErrorIs(t, p.Check(name), alarm.ErrRingtoneNotAllowed, name)

		pb, err := p.Play(context.Background(), name)
		require.ErrorIs(t, err, alarm.ErrRingtoneNotAllowed, name)
		require.Nil(t, pb)
	}

	require.NoError(t, p.Check("audio1.wav"))

	require.Zero(t, launcher.Count())
}

// TestPlay_TerminateAndNaturalEnd covers both ways a playback ends.
func TestPlay_TerminateAndNaturalEnd(t *testing.T) {
	t.Parallel()

	launcher := new(playertest.Launcher)
	p := player.New(player.Options{Dir: "audios", Allowed: allowed, Command: "aplay", Launcher: launcher})

	pb, err := p.Play(context.Background(), "audio1.wav")
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join("audios", "audio1.wav")}, launcher.Launches())
	require.Equal(t, "audio1.wav", pb.Ringtone())

	require.NoError(t, pb.Terminate())
	require.True(t, launcher.Last().Terminated())
	require.False(t, launcher.Last().Killed())
	require.NoError(t, pb.Wait())

	pb, err = p.Play(context.Background(), "main_audio.wav")
	require.NoError(t, err)

	launcher.Last().Finish()

	select {
	case <-pb.Done():
	case <-time.After(time.Second):
		t.Fatal("playback did not finish")
	}

	// Terminating a finished playback is a no-op.
	require.NoError(t, pb.Terminate())
	require.False(t, launcher.Last().Terminated())
}

// TestTerminate_KillsAfterGrace kills a player that ignores the terminate request.
func TestTerminate_KillsAfterGrace(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	launcher := &playertest.Launcher{IgnoreTerminate: true}
	p := player.New(player.Options{
		Allowed:  allowed,
		Command:  "aplay",
		Launcher: launcher,
		Clock:    clock,
		Grace:    500 * time.Millisecond,
	})

	pb, err := p.Play(context.Background(), "audio1.wav")
	require.NoError(t, err)

	result := make(chan error, 1)

	go func() {
		result <- pb.Terminate()
	}()

	require.NoError(t, clock.BlockUntilContext(context.Background(), 1))
	require.False(t, launcher.Last().Killed())

	clock.Advance(500 * time.Millisecond)

	require.NoError(t, <-result)
	require.True(t, launcher.Last().Terminated())
	require.True(t, launcher.Last().Killed())
}

// TestPlay_ExecLauncher runs a real shell as the player.
func TestPlay_ExecLauncher(t *testing.T) {
	t.Parallel()

	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh is not available")
	}

	dir := t.TempDir()

	long := player.New(player.Options{Dir: dir, Allowed: allowed, Command: sh, Args: []string{"-c", "sleep 30"}})

	pb, err := long.Play(context.Background(), "audio1.wav")
	require.NoError(t, err)
	require.NoError(t, pb.Terminate())

	select {
	case <-pb.Done():
	default:
		t.Fatal("player still running after Terminate")
	}

	short := player.New(player.Options{Dir: dir, Allowed: allowed, Command: sh, Args: []string{"-c", "exit 0"}})

	pb, err = short.Play(context.Background(), "main_audio.wav")
	require.NoError(t, err)
	require.NoError(t, pb.Wait())
}

// TestReapStray_NoMatch leaves the system alone when nothing matches.
func TestReapStray_NoMatch(t *testing.T) {
	t.Parallel()

	killed, err := player.ReapStray(context.Background(), "alarm-clock-no-such-player")
	require.NoError(t, err)
	require.Zero(t, killed)

	killed, err = player.ReapStray(context.Background(), "")
	require.NoError(t, err)
	require.Zero(t, killed)
}
