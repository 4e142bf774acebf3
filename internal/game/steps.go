package game

import (
	"fmt"
	"strings"
)

// StepKind identifies a stage of the round reveal.
type StepKind string

const (
	StepBids         StepKind = "bids"
	StepDuel         StepKind = "duel"
	StepCoinTransfer StepKind = "coin_transfer"
	StepScoring      StepKind = "scoring"
	StepRoundWinner  StepKind = "round_winner"
	StepGameWinner   StepKind = "game_winner"
)

// Step is one record of the ordered reveal sequence for a round.
type Step struct {
	Round       int      `json:"round"`
	Index       int      `json:"index"`
	Kind        StepKind `json:"kind"`
	Description string   `json:"description"`
	Details     []string `json:"details,omitempty"`
	Duel        *Duel    `json:"duel,omitempty"`
	Winners     []string `json:"winners,omitempty"`
}

// Steps returns the reveal sequence for the round. The sequence is derived
// from the result alone, so it can be replayed any number of times.
func (r *RoundResult) Steps() []Step {
	var steps []Step
	add := func(s Step) {
		s.Round = r.Round
		s.Index = len(steps)
		steps = append(steps, s)
	}

	bids := make([]string, 0, len(r.Players))
	for _, p := range r.Players {
		bid := r.Bids[p.Name]
		parts := make([]string, 0, len(bid))
		for _, target := range Opponents(r.Players, p.Name) {
			parts = append(parts, fmt.Sprintf("%s to %s", FormatCoins(bid.Toward(target)), target))
		}
		bids = append(bids, fmt.Sprintf("%s: %s", p.Name, strings.Join(parts, ", ")))
	}
	add(Step{Kind: StepBids, Description: "Players placed their bids:", Details: bids})

	for i := range r.Duels {
		d := r.Duels[i]
		desc := fmt.Sprintf("%s vs %s: tie", d.A, d.B)
		if d.Winner != "" {
			desc = fmt.Sprintf("%s vs %s: %s takes the point", d.A, d.B, d.Winner)
		}
		add(Step{
			Kind:        StepDuel,
			Description: desc,
			Details: []string{
				fmt.Sprintf("%s -> %s: %s", d.A, d.B, FormatCoins(d.AToB)),
				fmt.Sprintf("%s -> %s: %s", d.B, d.A, FormatCoins(d.BToA)),
			},
			Duel: &d,
		})
	}

	transfers := make([]string, 0, len(r.Players))
	for _, p := range r.Players {
		delta := r.CoinDeltas[p.Name]
		sign := ""
		if delta.IsPositive() {
			sign = "+"
		}
		transfers = append(transfers, fmt.Sprintf("%s: %s -> %s (%s%s)",
			p.Name, FormatCoins(p.Coins), FormatCoins(r.Coins[p.Name]), sign, FormatCoins(delta)))
	}
	add(Step{Kind: StepCoinTransfer, Description: "Coins transferred between players:", Details: transfers})

	points := make([]string, 0, len(r.Players))
	for _, p := range r.Players {
		points = append(points, fmt.Sprintf("%s: %d", p.Name, r.Points[p.Name]))
	}
	add(Step{Kind: StepScoring, Description: "Points scored by players:", Details: points})

	add(Step{
		Kind:        StepRoundWinner,
		Description: fmt.Sprintf("Round winner(s): %s", strings.Join(r.RoundWinners, ", ")),
		Winners:     r.RoundWinners,
	})

	if len(r.GameWinners) > 0 {
		add(Step{
			Kind:        StepGameWinner,
			Description: fmt.Sprintf("%s won the game", strings.Join(r.GameWinners, ", ")),
			Winners:     r.GameWinners,
		})
	}
	return steps
}
