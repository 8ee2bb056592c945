package display

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/alarm-clock/internal/config"
)

// TestRun_TUIInputsNeedTUIScreen rejects keyboard inputs without the terminal screen.
func TestRun_TUIInputsNeedTUIScreen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	cfg := &config.Config{Display: config.Display{Inputs: config.Inputs{Driver: config.DriverTUI}}}
	require.NoError(t, config.Save(path, cfg))

	err := Run(context.Background(), &Options{ConfigPath: path, Output: new(recordingScreen)})
	require.ErrorIs(t, err, errTUIInputs)
}

// TestRunTasks_FirstReturnCancelsTheRest cancels the other tasks once one returns.
func TestRunTasks_FirstReturnCancelsTheRest(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errBoom := errors.New("boom")

	err := runTasks(ctx, cancel, []task{
		func(context.Context) error { return errBoom },
		func(ctx context.Context) error {
			<-ctx.Done()

			return nil
		},
	})
	require.ErrorIs(t, err, errBoom)
	require.Error(t, ctx.Err())
}
