package history

import (
	"fmt"

	"github.com/lox/bidforbots/internal/game"
)

// Replay settles the recorded rounds again from the starting roster and
// returns the results. It fails when a recomputed balance disagrees with
// the recorded one.
func (s *Session) Replay() ([]*game.RoundResult, error) {
	players := make([]game.Player, 0, len(s.Roster))
	for _, seat := range s.Roster {
		players = append(players, game.Player{
			Name:     seat.Name,
			URL:      seat.URL,
			Coins:    seat.Coins,
			Trophies: seat.Trophies,
		})
	}

	results := make([]*game.RoundResult, 0, len(s.Rounds))
	for _, round := range s.Rounds {
		bids := make(map[string]game.Bid, len(players))
		for _, p := range players {
			bids[p.Name] = game.Bid{}
		}
		for _, b := range round.Bids {
			bid, ok := bids[b.From]
			if !ok {
				return nil, fmt.Errorf("round %d: %w: %s", round.Number, game.ErrUnknownPlayer, b.From)
			}
			bid[b.To] = b.Amount
		}

		result, err := game.Settle(round.Number, players, bids, s.WinTrophies)
		if err != nil {
			return nil, fmt.Errorf("round %d: %w", round.Number, err)
		}
		for i := range players {
			name := players[i].Name
			if recorded, ok := round.Coins[name]; ok && !recorded.Equal(result.Coins[name]) {
				return nil, fmt.Errorf("round %d: %s recorded %s coins, replay gives %s",
					round.Number, name, recorded, result.Coins[name])
			}
			players[i].Coins = result.Coins[name]
			players[i].Trophies = result.Trophies[name]
		}
		results = append(results, result)
	}
	return results, nil
}
