package player

import (
	"context"

	"github.com/lox/bidforbots/internal/game"
	"github.com/lox/bidforbots/internal/policy"
	"github.com/lox/bidforbots/internal/protocol"
)

// Local runs a policy in process. It goes through the same standings mapping
// as a remote call.
type Local struct {
	policy policy.Policy
}

// NewLocal returns a bidder backed by p.
func NewLocal(p policy.Policy) *Local {
	return &Local{policy: p}
}

// Bid implements Bidder.
func (l *Local) Bid(ctx context.Context, v game.View) (game.Bid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s, err := protocol.NewStandings(v)
	if err != nil {
		return nil, err
	}
	return l.policy.Bid(s).Bid(v)
}
