package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFillsUnsetFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blackjack.hcl")
	src := `
player {
  name = "Alice"
}

ui {
  log_level = "debug"
  no_color  = true
}
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Alice", cfg.Player.Name)
	assert.Equal(t, 100, cfg.Player.StartingBalance)
	assert.Equal(t, int64(0), cfg.Game.Seed)
	assert.Equal(t, "debug", cfg.UI.LogLevel)
	assert.Equal(t, "blackjack.log", cfg.UI.LogFile)
	assert.Equal(t, "default", cfg.UI.Theme)
	assert.True(t, cfg.UI.NoColor)
	require.NoError(t, cfg.Validate())
}

func TestParseRejectsUnknownAttribute(t *testing.T) {
	_, err := Parse([]byte("player {\n  chips = 5\n}\n"), "bad.hcl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode HCL")

	_, err = Parse([]byte("player {"), "broken.hcl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse HCL")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"empty name", func(c *Config) { c.Player.Name = "" }, "player name is required"},
		{"zero balance", func(c *Config) { c.Player.StartingBalance = 0 }, "starting balance must be positive"},
		{"negative balance", func(c *Config) { c.Player.StartingBalance = -10 }, "starting balance must be positive"},
		{"bad log level", func(c *Config) { c.UI.LogLevel = "trace" }, "invalid log level: trace"},
		{"bad theme", func(c *Config) { c.UI.Theme = "neon" }, "invalid theme: neon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("BLACKJACK_PLAYER_NAME", "Bob")
	t.Setenv("BLACKJACK_PLAYER_STARTING_BALANCE", "250")
	t.Setenv("BLACKJACK_GAME_SEED", "7")
	t.Setenv("BLACKJACK_UI_NO_COLOR", "true")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, "Bob", cfg.Player.Name)
	assert.Equal(t, 250, cfg.Player.StartingBalance)
	assert.Equal(t, int64(7), cfg.Game.Seed)
	assert.True(t, cfg.UI.NoColor)
	assert.Equal(t, "warn", cfg.UI.LogLevel, "unset variables keep their value")
}

func TestApplyEnvRejectsBadValue(t *testing.T) {
	t.Setenv("BLACKJACK_PLAYER_STARTING_BALANCE", "lots")

	cfg := Default()
	assert.Error(t, cfg.ApplyEnv())
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Player.Name = "Carol"
	cfg.Game.Seed = 99

	out := cfg.Encode()
	assert.Contains(t, string(out), "player {")
	assert.Regexp(t, `name\s+= "Carol"`, string(out))

	decoded, err := Parse(out, "encoded.hcl")
	require.NoError(t, err)
	assert.Equal(t, cfg, decoded)
}
