package screen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oyarzun/hoteltv/category"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadConfigDefaults(t *testing.T) {
	cfg, err := ReadConfig(strings.NewReader(`category = "lobby"`))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000", cfg.APIURL)
	assert.Equal(t, category.Lobby, cfg.Category)
	assert.Equal(t, 5, cfg.PollIntervalSeconds)
	assert.Equal(t, "mpv", cfg.Player.Binary)
	assert.Contains(t, cfg.Player.Args, "--fullscreen")
	assert.Equal(t, "HDMI-A-1", cfg.Output.Name)
	assert.True(t, cfg.Output.ManageRotation)
}

func TestReadConfigOverrides(t *testing.T) {
	doc := `
api_url = "http://tv-server.hotel.lan:5000"
category = "happy-hour"
poll_interval_seconds = 30

[player]
binary = "vlc"
args = ["--fullscreen"]

[output]
name = "DP-1"
manage_rotation = false
`
	cfg, err := ReadConfig(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, "http://tv-server.hotel.lan:5000", cfg.APIURL)
	assert.Equal(t, category.HappyHour, cfg.Category)
	assert.Equal(t, 30, cfg.PollIntervalSeconds)
	assert.Equal(t, "vlc", cfg.Player.Binary)
	assert.Equal(t, []string{"--fullscreen"}, cfg.Player.Args)
	assert.Equal(t, "DP-1", cfg.Output.Name)
	assert.False(t, cfg.Output.ManageRotation)
}

func TestReadConfigRejectsUnknownCategory(t *testing.T) {
	_, err := ReadConfig(strings.NewReader(`category = "spa"`))
	require.ErrorIs(t, err, category.ErrUnknown)
}

func TestReadConfigRejectsMissingCategory(t *testing.T) {
	_, err := ReadConfig(strings.NewReader(``))
	require.ErrorIs(t, err, category.ErrUnknown)
}

func TestReadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "screen.toml")
	require.NoError(t, os.WriteFile(path, []byte(`category = "clients"`), 0o644))

	cfg, err := ReadConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, category.Clients, cfg.Category)

	_, err = ReadConfigFromFile(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}
