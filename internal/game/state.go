package game

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// State tracks the roster balances across rounds. It is not safe for
// concurrent use; callers serialize access.
type State struct {
	id          string
	players     []Player
	winTrophies int
	round       int
	winners     []string
}

// Snapshot is a copy of the state suitable for rendering or JSON encoding.
type Snapshot struct {
	ID          string   `json:"id"`
	Round       int      `json:"round"`
	WinTrophies int      `json:"win_trophies"`
	Players     []Player `json:"players"`
	Winners     []string `json:"winners"`
	Finished    bool     `json:"finished"`
}

// NewState validates the roster and returns a state at round zero.
func NewState(id string, players []Player, winTrophies int) (*State, error) {
	if err := validateRoster(players); err != nil {
		return nil, err
	}
	if winTrophies <= 0 {
		return nil, fmt.Errorf("%w: win threshold must be positive, got %d", ErrInvalidRoster, winTrophies)
	}
	return &State{
		id:          id,
		players:     slices.Clone(players),
		winTrophies: winTrophies,
	}, nil
}

// ID returns the game identifier.
func (s *State) ID() string { return s.id }

// Round returns the number of rounds applied so far.
func (s *State) Round() int { return s.round }

// WinTrophies returns the trophy threshold.
func (s *State) WinTrophies() int { return s.winTrophies }

// Players returns a copy of the roster.
func (s *State) Players() []Player { return slices.Clone(s.players) }

// Winners returns the declared game winners, empty until the game ends.
func (s *State) Winners() []string { return slices.Clone(s.winners) }

// Finished reports whether a game winner has been declared.
func (s *State) Finished() bool { return len(s.winners) > 0 }

// Player returns the named player.
func (s *State) Player(name string) (Player, bool) {
	for _, p := range s.players {
		if p.Name == name {
			return p, true
		}
	}
	return Player{}, false
}

// View projects the standings for one player.
func (s *State) View(name string) (View, error) {
	return Project(s.players, name)
}

// Views projects the standings for every player from one snapshot.
func (s *State) Views() []View {
	return ProjectAll(s.players)
}

// SetOnline records the advisory liveness of a player.
func (s *State) SetOnline(name string, online bool) error {
	for i := range s.players {
		if s.players[i].Name == name {
			s.players[i].Online = online
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownPlayer, name)
}

// Settle computes the next round from the current balances without mutating
// the state.
func (s *State) Settle(bids map[string]Bid) (*RoundResult, error) {
	return Settle(s.round+1, s.players, bids, s.winTrophies)
}

// Apply commits a result produced by Settle for the next round.
func (s *State) Apply(r *RoundResult) error {
	if r == nil || r.Round != s.round+1 {
		return ErrRoundMismatch
	}
	for _, p := range s.players {
		if _, ok := r.Coins[p.Name]; !ok {
			return fmt.Errorf("%w: no balance for %s", ErrRoundMismatch, p.Name)
		}
	}
	for i := range s.players {
		name := s.players[i].Name
		s.players[i].Coins = r.Coins[name]
		s.players[i].Trophies = r.Trophies[name]
	}
	s.round = r.Round
	// Winners accumulate in order of declaration.
	for _, name := range r.GameWinners {
		if !slices.Contains(s.winners, name) {
			s.winners = append(s.winners, name)
		}
	}
	return nil
}

// TotalCoins returns the sum of all balances.
func (s *State) TotalCoins() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.players {
		total = total.Add(p.Coins)
	}
	return total
}

// Snapshot returns a copy of the state.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		ID:          s.id,
		Round:       s.round,
		WinTrophies: s.winTrophies,
		Players:     s.Players(),
		Winners:     s.Winners(),
		Finished:    s.Finished(),
	}
}
