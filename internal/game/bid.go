package game

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Bid maps an opponent name to the coins committed toward that opponent for
// one round.
type Bid map[string]decimal.Decimal

// NewBid builds a Bid from the two wire slots of a View.
func NewBid(v View, toA, toB decimal.Decimal) (Bid, error) {
	if len(v.Opponents) != 2 {
		return nil, fmt.Errorf("%w: view for %s has %d opponents", ErrInvalidBid, v.Player, len(v.Opponents))
	}
	return Bid{
		v.Opponents[0]: toA,
		v.Opponents[1]: toB,
	}, nil
}

// Toward returns the amount committed toward name, zero when absent.
func (b Bid) Toward(name string) decimal.Decimal {
	if amount, ok := b[name]; ok {
		return amount
	}
	return decimal.Zero
}

// Total returns the sum committed across all opponents.
func (b Bid) Total() decimal.Decimal {
	total := decimal.Zero
	for _, amount := range b {
		total = total.Add(amount)
	}
	return total
}

// Targets returns the opponent names in the bid, sorted.
func (b Bid) Targets() []string {
	names := make([]string, 0, len(b))
	for name := range b {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Disqualification flags a bid whose total exceeds the bidder's balance.
// It is a warning: the bid is still settled as submitted.
type Disqualification struct {
	Player    string          `json:"player"`
	Committed decimal.Decimal `json:"committed"`
	Coins     decimal.Decimal `json:"coins"`
}

func (d Disqualification) String() string {
	return fmt.Sprintf("%s committed %s with only %s coins", d.Player, FormatCoins(d.Committed), FormatCoins(d.Coins))
}

// CheckCommitment reports a Disqualification when bid commits more than coins.
func CheckCommitment(player string, coins decimal.Decimal, bid Bid) (Disqualification, bool) {
	total := bid.Total()
	if total.GreaterThan(coins) {
		return Disqualification{Player: player, Committed: total, Coins: coins}, true
	}
	return Disqualification{}, false
}

func validateBid(players []Player, bidder string, bid Bid) error {
	if bid == nil {
		return fmt.Errorf("%w: %s", ErrMissingBid, bidder)
	}
	opponents := make(map[string]bool, len(players))
	for _, name := range Opponents(players, bidder) {
		opponents[name] = true
	}
	for target, amount := range bid {
		if !opponents[target] {
			return fmt.Errorf("%w: %s bid toward %q", ErrUnknownPlayer, bidder, target)
		}
		if amount.IsNegative() {
			return fmt.Errorf("%w: %s bid %s toward %s", ErrInvalidBid, bidder, amount, target)
		}
	}
	return nil
}

// FormatCoins renders a coin amount rounded to two decimals.
func FormatCoins(d decimal.Decimal) string {
	return d.Round(2).String()
}
