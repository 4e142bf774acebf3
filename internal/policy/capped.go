package policy

import (
	"github.com/shopspring/decimal"

	"github.com/lox/bidforbots/internal/protocol"
)

// Capped wraps p so the bid never commits more coins than the player holds.
// Over-commitments are scaled down proportionally. It is the policy used
// when a disqualified player is taken over.
func Capped(p Policy) Policy {
	return Func(func(s protocol.Standings) protocol.BidResponse {
		resp := p.Bid(s)
		a := nonNegative(resp.AmountToA.Decimal)
		b := nonNegative(resp.AmountToB.Decimal)
		own := s.Coins.Own.Decimal

		if !own.IsPositive() {
			return respond(decimal.Zero, decimal.Zero)
		}
		total := a.Add(b)
		if total.LessThanOrEqual(own) {
			return respond(a, b)
		}
		a = a.Mul(own).Div(total).Truncate(2)
		b = decimal.Min(b.Mul(own).Div(total).Truncate(2), own.Sub(a))
		return respond(a, b)
	})
}
