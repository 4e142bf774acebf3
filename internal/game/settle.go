package game

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Duel is the pairwise comparison between two players in one round.
type Duel struct {
	A      string          `json:"a"`
	B      string          `json:"b"`
	AToB   decimal.Decimal `json:"a_to_b"`
	BToA   decimal.Decimal `json:"b_to_a"`
	Winner string          `json:"winner,omitempty"` // empty on a tie
}

// RoundResult is the immutable outcome of settling one round.
type RoundResult struct {
	Round        int                        `json:"round"`
	Players      []Player                   `json:"players"` // pre-round snapshot, roster order
	Bids         map[string]Bid             `json:"bids"`
	Coins        map[string]decimal.Decimal `json:"coins"`
	CoinDeltas   map[string]decimal.Decimal `json:"coin_deltas"`
	Points       map[string]int             `json:"points"`
	Duels        []Duel                     `json:"duels"`
	RoundWinners []string                   `json:"round_winners"`
	Trophies     map[string]int             `json:"trophies"`
	GameWinners  []string                   `json:"game_winners"`
	Warnings     []Disqualification         `json:"warnings,omitempty"`
}

// Settle computes the outcome of a round from the pre-round roster and one bid
// per player. The roster is not modified.
//
// Transfers are all computed from pre-round balances. A bid whose total
// exceeds the bidder's coins is settled as given and reported in Warnings,
// so balances may go negative.
func Settle(round int, players []Player, bids map[string]Bid, winTrophies int) (*RoundResult, error) {
	if len(players) < 2 {
		return nil, fmt.Errorf("%w: need at least two players", ErrRosterSize)
	}
	for _, p := range players {
		if err := validateBid(players, p.Name, bids[p.Name]); err != nil {
			return nil, err
		}
	}
	for name := range bids {
		if !hasPlayer(players, name) {
			return nil, fmt.Errorf("%w: bid from %q", ErrUnknownPlayer, name)
		}
	}

	result := &RoundResult{
		Round:        round,
		Players:      append([]Player(nil), players...),
		Bids:         make(map[string]Bid, len(players)),
		Coins:        make(map[string]decimal.Decimal, len(players)),
		CoinDeltas:   make(map[string]decimal.Decimal, len(players)),
		Points:       make(map[string]int, len(players)),
		Trophies:     make(map[string]int, len(players)),
		RoundWinners: []string{},
		GameWinners:  []string{},
	}

	for _, p := range players {
		bid := bids[p.Name]
		result.Bids[p.Name] = bid
		result.CoinDeltas[p.Name] = decimal.Zero
		if dq, ok := CheckCommitment(p.Name, p.Coins, bid); ok {
			result.Warnings = append(result.Warnings, dq)
		}
	}

	// Coin transfer
	for _, p := range players {
		bid := bids[p.Name]
		result.CoinDeltas[p.Name] = result.CoinDeltas[p.Name].Sub(bid.Total())
		for target, amount := range bid {
			result.CoinDeltas[target] = result.CoinDeltas[target].Add(amount)
		}
	}
	for _, p := range players {
		result.Coins[p.Name] = p.Coins.Add(result.CoinDeltas[p.Name])
	}

	// Scoring
	for _, p := range players {
		points := 0
		for _, o := range Opponents(players, p.Name) {
			if bids[p.Name].Toward(o).GreaterThan(bids[o].Toward(p.Name)) {
				points++
			}
		}
		result.Points[p.Name] = points
	}
	for i, a := range players {
		for _, b := range players[i+1:] {
			duel := Duel{
				A:    a.Name,
				B:    b.Name,
				AToB: bids[a.Name].Toward(b.Name),
				BToA: bids[b.Name].Toward(a.Name),
			}
			switch duel.AToB.Cmp(duel.BToA) {
			case 1:
				duel.Winner = a.Name
			case -1:
				duel.Winner = b.Name
			}
			result.Duels = append(result.Duels, duel)
		}
	}

	// Round winners
	best := 0
	for _, p := range players {
		best = max(best, result.Points[p.Name])
	}
	for _, p := range players {
		trophies := p.Trophies
		if result.Points[p.Name] == best {
			result.RoundWinners = append(result.RoundWinners, p.Name)
			trophies++
		}
		result.Trophies[p.Name] = trophies
	}

	// Game winners
	for _, p := range players {
		if result.Trophies[p.Name] >= winTrophies {
			result.GameWinners = append(result.GameWinners, p.Name)
		}
	}

	return result, nil
}

// IsRoundWinner reports whether name won the round.
func (r *RoundResult) IsRoundWinner(name string) bool {
	for _, w := range r.RoundWinners {
		if w == name {
			return true
		}
	}
	return false
}

// Received returns the coins directed at name by the other players.
func (r *RoundResult) Received(name string) decimal.Decimal {
	total := decimal.Zero
	for bidder, bid := range r.Bids {
		if bidder != name {
			total = total.Add(bid.Toward(name))
		}
	}
	return total
}

func hasPlayer(players []Player, name string) bool {
	for _, p := range players {
		if p.Name == name {
			return true
		}
	}
	return false
}
