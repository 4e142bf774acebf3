package game

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// RosterSize is the number of players in every game.
	RosterSize = 3

	// DefaultWinTrophies is the trophy count that ends a game.
	DefaultWinTrophies = 5

	// DefaultTrophies is the starting trophy count.
	DefaultTrophies = 0
)

// DefaultCoins is the starting coin balance.
var DefaultCoins = decimal.NewFromInt(100)

// Player is a roster member with its live balances.
type Player struct {
	Name     string          `json:"name"`
	URL      string          `json:"url"`
	Coins    decimal.Decimal `json:"coins"`
	Trophies int             `json:"trophies"`
	Online   bool            `json:"online"`
}

// NewPlayer creates a player with the default starting balances.
func NewPlayer(name, url string) Player {
	return Player{
		Name:     name,
		URL:      url,
		Coins:    DefaultCoins,
		Trophies: DefaultTrophies,
	}
}

// Opponents returns the names of every roster member except name, in roster
// order. For a three player roster the first entry is the player's "team A"
// and the second its "team B".
func Opponents(players []Player, name string) []string {
	others := make([]string, 0, len(players))
	for _, p := range players {
		if p.Name != name {
			others = append(others, p.Name)
		}
	}
	return others
}

func validateRoster(players []Player) error {
	if len(players) != RosterSize {
		return fmt.Errorf("%w: got %d players, want %d", ErrRosterSize, len(players), RosterSize)
	}
	seen := make(map[string]bool, len(players))
	for _, p := range players {
		if p.Name == "" {
			return fmt.Errorf("%w: empty player name", ErrInvalidRoster)
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: %s", ErrDuplicatePlayer, p.Name)
		}
		if p.Trophies < 0 {
			return fmt.Errorf("%w: %s has negative trophies", ErrInvalidRoster, p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}
