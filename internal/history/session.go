// Package history records completed rounds to disk.
//
// Every game gets its own directory, game-<id>, holding a session.toml that
// is rewritten atomically after each event.
package history

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"

	"github.com/lox/bidforbots/internal/gameid"
)

const (
	defaultBaseDir  = "rounds"
	sessionFilename = "session.toml"
)

// Session is the on-disk record of one game.
type Session struct {
	GameID      string    `toml:"game_id"`
	StartedAt   time.Time `toml:"started_at"`
	UpdatedAt   time.Time `toml:"updated_at"`
	WinTrophies int       `toml:"win_trophies"`
	Finished    bool      `toml:"finished"`
	Reason      string    `toml:"reason,omitempty"`
	Winners     []string  `toml:"winners"`

	Roster   []Seat    `toml:"roster"`
	Rounds   []Round   `toml:"round"`
	Failures []Failure `toml:"failure,omitempty"`
}

// Seat is a roster entry with its starting balances.
type Seat struct {
	Name     string          `toml:"name"`
	URL      string          `toml:"url,omitempty"`
	Coins    decimal.Decimal `toml:"coins"`
	Trophies int             `toml:"trophies"`
}

// Round is one settled round.
type Round struct {
	Number       int                        `toml:"number"`
	At           time.Time                  `toml:"at"`
	RoundWinners []string                   `toml:"round_winners"`
	GameWinners  []string                   `toml:"game_winners"`
	Warnings     []string                   `toml:"warnings,omitempty"`
	Bids         []Bid                      `toml:"bid"`
	Coins        map[string]decimal.Decimal `toml:"coins"`
	Points       map[string]int             `toml:"points"`
	Trophies     map[string]int             `toml:"trophies"`
}

// Bid is one directed amount.
type Bid struct {
	From   string          `toml:"from"`
	To     string          `toml:"to"`
	Amount decimal.Decimal `toml:"amount"`
}

// Failure is an abandoned round.
type Failure struct {
	Round  int       `toml:"round"`
	At     time.Time `toml:"at"`
	Player string    `toml:"player,omitempty"`
	Error  string    `toml:"error"`
}

// SessionPath returns the session file of a game under baseDir.
func SessionPath(baseDir, gameID string) string {
	if baseDir == "" {
		baseDir = defaultBaseDir
	}
	return filepath.Join(baseDir, fmt.Sprintf("game-%s", gameID), sessionFilename)
}

// Load reads a session file.
func Load(path string) (*Session, error) {
	var s Session
	if _, err := toml.DecodeFile(path, &s); err != nil {
		return nil, fmt.Errorf("history: failed to read %s: %w", path, err)
	}
	if err := gameid.Validate(s.GameID); err != nil {
		return nil, fmt.Errorf("history: %s: %w", path, err)
	}
	return &s, nil
}
