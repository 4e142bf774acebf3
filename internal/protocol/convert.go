package protocol

import (
	"errors"
	"fmt"

	"github.com/lox/bidforbots/internal/game"
)

// ErrTriangle is returned when a view does not have exactly two opponents.
var ErrTriangle = errors.New("protocol: standings require exactly two opponents")

// NewStandings maps an identity keyed view onto the own/teamA/teamB slots.
func NewStandings(v game.View) (Standings, error) {
	if len(v.Opponents) != 2 {
		return Standings{}, fmt.Errorf("%w: %s has %d", ErrTriangle, v.Player, len(v.Opponents))
	}
	a, b := v.Opponents[0], v.Opponents[1]
	return Standings{
		Coins: CoinStandings{
			Own:   NewAmount(v.Coins[v.Player]),
			TeamA: NewAmount(v.Coins[a]),
			TeamB: NewAmount(v.Coins[b]),
		},
		Trophies: TrophyStandings{
			Own:   v.Trophies[v.Player],
			TeamA: v.Trophies[a],
			TeamB: v.Trophies[b],
		},
	}, nil
}

// NewBidRequest builds the request body for the player owning v.
func NewBidRequest(v game.View) (BidRequest, error) {
	s, err := NewStandings(v)
	if err != nil {
		return BidRequest{}, err
	}
	return BidRequest{Standings: s}, nil
}

// Bid maps the response slots back onto opponent identities.
func (r BidResponse) Bid(v game.View) (game.Bid, error) {
	if len(v.Opponents) != 2 {
		return nil, fmt.Errorf("%w: %s has %d", ErrTriangle, v.Player, len(v.Opponents))
	}
	if r.AmountToA.IsNegative() || r.AmountToB.IsNegative() {
		return nil, fmt.Errorf("%w: negative amount (%s, %s)", game.ErrInvalidBid, r.AmountToA, r.AmountToB)
	}
	return game.NewBid(v, r.AmountToA.Decimal, r.AmountToB.Decimal)
}
