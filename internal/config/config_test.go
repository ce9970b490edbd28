package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justinabrahms/zombiechess/internal/chess"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
	assert.Equal(t, "localhost:8080", cfg.Server.Addr())
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel())
}

func TestLoadFileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  port: 9090
game:
  capture_policy: convert
  seed: 42
  session_ttl: 2h
development:
  log_level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	t.Setenv("ZOMBIECHESS_GAME_DEFAULT_PRESET", "endgame")
	t.Setenv("ZOMBIECHESS_AUTH_REQUIRE_TOKENS", "false")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, string(chess.PolicyConvert), cfg.Game.CapturePolicy)
	assert.Equal(t, int64(42), cfg.Game.Seed)
	assert.Equal(t, 2*time.Hour, cfg.Game.SessionTTL)
	assert.Equal(t, string(chess.PresetEndgame), cfg.Game.DefaultPreset)
	assert.False(t, cfg.Auth.RequireTokens)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel())
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg := Defaults()
	cfg.Server.Port = 0
	cfg.Game.DefaultPreset = "chess960"
	cfg.Game.CapturePolicy = "zombie"
	cfg.Auth.TokenTTL = 0

	err := cfg.Validate()
	require.Error(t, err)
	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 4)
	assert.ErrorIs(t, err, chess.ErrUnknownPreset)
	assert.ErrorIs(t, err, chess.ErrUnknownPolicy)
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("game:\n  capture_policy: zombie\n"), 0o600))
	_, err := Load(dir)
	assert.ErrorIs(t, err, chess.ErrUnknownPolicy)
}
