// Package policy contains interchangeable bidding strategies.
//
// A Policy sees the same standings a remote player service receives and
// answers with the same two amounts. Policies are plain values: any state
// they keep, such as a round counter, belongs to the instance.
package policy

import (
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/lox/bidforbots/internal/protocol"
)

// Policy decides a bid from one player's standings.
type Policy interface {
	Bid(s protocol.Standings) protocol.BidResponse
}

// Func adapts a plain function to Policy.
type Func func(s protocol.Standings) protocol.BidResponse

// Bid implements Policy.
func (f Func) Bid(s protocol.Standings) protocol.BidResponse { return f(s) }

// Counter counts rounds for a single policy instance.
type Counter struct {
	mu sync.Mutex
	n  int
}

// Next advances the counter and returns the new round number, starting at 1.
func (c *Counter) Next() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
	return c.n
}

// Current returns the last value returned by Next.
func (c *Counter) Current() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

// Options configures a policy built by name.
type Options struct {
	// Seed drives randomized policies; zero picks a time based seed.
	Seed int64

	// Counter is used by stateful policies. A fresh counter is created when nil.
	Counter *Counter
}

type factory func(Options) Policy

var registry = map[string]factory{
	"zero":     func(Options) Policy { return Zero() },
	"split":    func(Options) Policy { return Split() },
	"outbid":   func(Options) Policy { return Outbid() },
	"scripted": func(o Options) Policy { return NewScripted(o.Counter) },
	"random":   func(o Options) Policy { return NewRandom(o.Seed) },
}

// New builds a registered policy.
func New(name string, opts Options) (Policy, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown policy %q (available: %v)", name, Names())
	}
	return f(opts), nil
}

// Names lists the registered policies.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func respond(a, b decimal.Decimal) protocol.BidResponse {
	return protocol.BidResponse{
		AmountToA: protocol.NewAmount(nonNegative(a)),
		AmountToB: protocol.NewAmount(nonNegative(b)),
	}
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
