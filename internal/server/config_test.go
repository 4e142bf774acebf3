package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/bidforbots/internal/game"
)

const sampleConfig = `
game {
  win_trophies    = 3
  bid_timeout_ms  = 2500
  reveal_delay_ms = 400
  history_dir     = "rounds"
}

player "Akos" {
  url   = "http://localhost:3000"
  coins = 250.5
}

player "Razvan" {
  url = "http://localhost:3001"
}

player "Kristof" {
  url      = "http://localhost:3002"
  trophies = 1
  fallback = "split"
}
`

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(sampleConfig), "game.hcl")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 3, cfg.Game.WinTrophies)
	assert.Equal(t, 2500*time.Millisecond, cfg.Game.BidTimeout())
	assert.Equal(t, time.Second, cfg.Game.PingTimeout(), "ping timeout defaults")
	assert.Equal(t, 400*time.Millisecond, cfg.Game.RevealDelay())
	assert.Equal(t, "rounds", cfg.Game.HistoryDir)

	require.Len(t, cfg.Players, 3)
	assert.Equal(t, "split", cfg.Players[2].Fallback)

	roster := cfg.Roster()
	assert.Equal(t, "Akos", roster[0].Name)
	assert.True(t, d("250.5").Equal(roster[0].Coins))
	assert.True(t, game.DefaultCoins.Equal(roster[1].Coins))
	assert.Equal(t, 1, roster[2].Trophies)
	assert.Equal(t, "http://localhost:3001", roster[1].URL)
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
player "A" { url = "http://a:1" }
player "B" { url = "http://b:1" }
player "C" { url = "http://c:1" }
`), "min.hcl")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, game.DefaultWinTrophies, cfg.Game.WinTrophies)
	assert.Equal(t, 5*time.Second, cfg.Game.BidTimeout())
	assert.Equal(t, time.Second, cfg.Game.PingTimeout())
	assert.Zero(t, cfg.Game.RevealDelay())
	assert.Empty(t, cfg.Game.HistoryDir)
}

func TestParseConfigErrors(t *testing.T) {
	_, err := ParseConfig([]byte(`player "A" {`), "broken.hcl")
	assert.Error(t, err)

	_, err = ParseConfig([]byte(`player "A" { coins = 10 }`), "missing_url.hcl")
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.hcl"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	require.NoError(t, cfg.Validate())

	path := filepath.Join(t.TempDir(), "game.hcl")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o644))
	cfg, err = LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Game.WinTrophies)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"two players", func(c *Config) { c.Players = c.Players[:2] }},
		{"duplicate name", func(c *Config) { c.Players[1].Name = c.Players[0].Name }},
		{"empty name", func(c *Config) { c.Players[0].Name = "" }},
		{"bad url", func(c *Config) { c.Players[0].URL = "localhost" }},
		{"negative trophies", func(c *Config) { c.Players[0].Trophies = -1 }},
		{"unknown fallback", func(c *Config) { c.Players[0].Fallback = "psychic" }},
		{"zero threshold", func(c *Config) { c.Game.WinTrophies = 0 }},
		{"negative delay", func(c *Config) { c.Game.RevealDelayMS = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	cfg := DefaultConfig()
	cfg.Players = cfg.Players[:2]
	assert.ErrorIs(t, cfg.Validate(), game.ErrRosterSize)
}
