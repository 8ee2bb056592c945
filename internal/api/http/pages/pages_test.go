package pages

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestRenderer_Embedded renders the built-in pages.
func TestRenderer_Embedded(t *testing.T) {
	t.Parallel()

	r, err := NewRenderer("")
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, r.Render(&sb, SettingsPage, SettingsData{
		RingTime: "07:15",
		Ringtone: "<b>audio1.wav</b>",
		Snooze:   "10",
	}))

	page := sb.String()
	require.Contains(t, page, "07:15")
	require.Contains(t, page, "&lt;b&gt;audio1.wav&lt;/b&gt;")
	require.Contains(t, page, "10")

	sb.Reset()
	require.NoError(t, r.Render(&sb, StopPage, nil))
	require.Contains(t, sb.String(), "Stop request received")

	require.Error(t, r.Render(&sb, "missing.html", nil))
}

// TestRenderer_DirectoryOverride prefers pages found in the template directory.
func TestRenderer_DirectoryOverride(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsPage), []byte("set {{ .RingTime }}|{{ .Snooze }}"), 0o600))

	r, err := NewRenderer(dir)
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, r.Render(&sb, SettingsPage, SettingsData{RingTime: "06:00", Snooze: ""}))
	require.Equal(t, "set 06:00|", sb.String())

	// Pages missing from the directory fall back to the embedded ones.
	sb.Reset()
	require.NoError(t, r.Render(&sb, StopPage, nil))
	require.Contains(t, sb.String(), "Stop request received")
}

// TestRenderer_BadOverride fails on a broken template in the directory.
func TestRenderer_BadOverride(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, StopPage), []byte("{{ .Broken "), 0o600))

	_, err := NewRenderer(dir)
	require.Error(t, err)
}
