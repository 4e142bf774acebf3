package policy

import (
	rand "math/rand/v2"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lox/bidforbots/internal/protocol"
	"github.com/lox/bidforbots/internal/randutil"
)

// quietRounds is how many opening rounds Scripted bids nothing.
const quietRounds = 3

var (
	one  = decimal.NewFromInt(1)
	two  = decimal.NewFromInt(2)
	four = decimal.NewFromInt(4)
)

// Zero never bids.
func Zero() Policy {
	return Func(func(protocol.Standings) protocol.BidResponse {
		return respond(decimal.Zero, decimal.Zero)
	})
}

// Split commits half of its coins, evenly between both opponents.
func Split() Policy {
	return Func(func(s protocol.Standings) protocol.BidResponse {
		quarter := nonNegative(s.Coins.Own.Decimal).Div(four).Truncate(2)
		return respond(quarter, quarter)
	})
}

// Outbid tries to send each opponent one coin more than it holds. When that
// is unaffordable it spends just under half its coins on each.
func Outbid() Policy {
	return Func(outbid)
}

func outbid(s protocol.Standings) protocol.BidResponse {
	own := s.Coins.Own.Decimal
	a, b := s.Coins.TeamA.Decimal, s.Coins.TeamB.Decimal
	if a.Add(b).Add(decimal.NewFromInt(3)).GreaterThan(own) {
		half := own.Div(two).Sub(one).Truncate(2)
		return respond(half, half)
	}
	return respond(a.Add(one), b.Add(one))
}

// Scripted sits out the first three rounds, then plays Outbid.
type Scripted struct {
	rounds *Counter
}

// NewScripted returns a scripted policy owning rounds. A nil counter starts
// a fresh one.
func NewScripted(rounds *Counter) *Scripted {
	if rounds == nil {
		rounds = &Counter{}
	}
	return &Scripted{rounds: rounds}
}

// Bid implements Policy.
func (p *Scripted) Bid(s protocol.Standings) protocol.BidResponse {
	if p.rounds.Next() <= quietRounds {
		return respond(decimal.Zero, decimal.Zero)
	}
	return outbid(s)
}

// Random commits a random share of its coins with a random split. It never
// commits more than it holds.
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom returns a seeded random policy.
func NewRandom(seed int64) *Random {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Random{rng: randutil.New(seed)}
}

// Bid implements Policy.
func (p *Random) Bid(s protocol.Standings) protocol.BidResponse {
	p.mu.Lock()
	share, split := p.rng.Float64(), p.rng.Float64()
	p.mu.Unlock()

	own := nonNegative(s.Coins.Own.Decimal)
	total := own.Mul(decimal.NewFromFloat(share)).Truncate(2)
	a := total.Mul(decimal.NewFromFloat(split)).Truncate(2)
	return respond(a, total.Sub(a))
}
