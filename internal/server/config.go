package server

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/shopspring/decimal"

	"github.com/lox/bidforbots/internal/game"
	"github.com/lox/bidforbots/internal/player"
	"github.com/lox/bidforbots/internal/policy"
)

// Config is the game configuration file.
type Config struct {
	Game    *GameSettings  `hcl:"game,block"`
	Players []PlayerConfig `hcl:"player,block"`
}

// GameSettings holds the rules and timing of a game.
type GameSettings struct {
	WinTrophies   int    `hcl:"win_trophies,optional"`
	BidTimeoutMS  int    `hcl:"bid_timeout_ms,optional"`
	PingTimeoutMS int    `hcl:"ping_timeout_ms,optional"`
	RevealDelayMS int    `hcl:"reveal_delay_ms,optional"`
	HistoryDir    string `hcl:"history_dir,optional"`
}

// PlayerConfig is one roster seat.
type PlayerConfig struct {
	Name     string   `hcl:"name,label"`
	URL      string   `hcl:"url"`
	Coins    *float64 `hcl:"coins,optional"`
	Trophies int      `hcl:"trophies,optional"`
	Fallback string   `hcl:"fallback,optional"`
}

// DefaultConfig returns the three player roster on localhost.
func DefaultConfig() *Config {
	cfg := &Config{
		Players: []PlayerConfig{
			{Name: "Akos", URL: "http://localhost:3000"},
			{Name: "Razvan", URL: "http://localhost:3001"},
			{Name: "Kristof", URL: "http://localhost:3002"},
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

// LoadConfig reads an HCL configuration file. A missing file yields the
// default configuration.
func LoadConfig(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return ParseConfig(src, filename)
}

// ParseConfig decodes HCL source and applies defaults.
func ParseConfig(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	if diags := gohcl.DecodeBody(file.Body, nil, &config); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.ApplyDefaults()
	return &config, nil
}

func (c *Config) ApplyDefaults() {
	if c.Game == nil {
		c.Game = &GameSettings{}
	}
	if c.Game.WinTrophies == 0 {
		c.Game.WinTrophies = game.DefaultWinTrophies
	}
	if c.Game.BidTimeoutMS == 0 {
		c.Game.BidTimeoutMS = int(player.DefaultBidTimeout / time.Millisecond)
	}
	if c.Game.PingTimeoutMS == 0 {
		c.Game.PingTimeoutMS = int(player.DefaultPingTimeout / time.Millisecond)
	}
}

// Validate checks the roster and game settings.
func (c *Config) Validate() error {
	if c.Game.WinTrophies <= 0 {
		return fmt.Errorf("win_trophies must be positive, got %d", c.Game.WinTrophies)
	}
	if c.Game.BidTimeoutMS < 0 || c.Game.PingTimeoutMS < 0 || c.Game.RevealDelayMS < 0 {
		return fmt.Errorf("timeouts and delays must not be negative")
	}

	if len(c.Players) != game.RosterSize {
		return fmt.Errorf("%w: got %d players, want %d", game.ErrRosterSize, len(c.Players), game.RosterSize)
	}

	seen := make(map[string]bool, len(c.Players))
	for _, p := range c.Players {
		if p.Name == "" {
			return fmt.Errorf("player name must not be empty")
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: %s", game.ErrDuplicatePlayer, p.Name)
		}
		seen[p.Name] = true

		u, err := url.Parse(p.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("player %s: invalid url %q", p.Name, p.URL)
		}
		if p.Trophies < 0 {
			return fmt.Errorf("player %s: trophies must not be negative", p.Name)
		}
		if p.Fallback != "" && !slices.Contains(policy.Names(), p.Fallback) {
			return fmt.Errorf("player %s: unknown fallback %q (available: %v)", p.Name, p.Fallback, policy.Names())
		}
	}

	return nil
}

// Roster returns the configured players with their starting balances.
func (c *Config) Roster() []game.Player {
	players := make([]game.Player, 0, len(c.Players))
	for _, pc := range c.Players {
		p := game.NewPlayer(pc.Name, pc.URL)
		if pc.Coins != nil {
			p.Coins = decimal.NewFromFloat(*pc.Coins)
		}
		p.Trophies = pc.Trophies
		players = append(players, p)
	}
	return players
}

func (s *GameSettings) BidTimeout() time.Duration {
	return time.Duration(s.BidTimeoutMS) * time.Millisecond
}

func (s *GameSettings) PingTimeout() time.Duration {
	return time.Duration(s.PingTimeoutMS) * time.Millisecond
}

func (s *GameSettings) RevealDelay() time.Duration {
	return time.Duration(s.RevealDelayMS) * time.Millisecond
}
