package player

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Pinger is a player that can be probed for liveness.
type Pinger interface {
	Name() string
	Ping(ctx context.Context) error
}

// Status is the advisory liveness of one player.
type Status struct {
	Name   string
	Online bool
	Err    error
}

// ProbeAll pings every player concurrently. Each probe is bounded by timeout
// when it is positive. Results keep the order of pingers.
func ProbeAll(ctx context.Context, pingers []Pinger, timeout time.Duration) []Status {
	statuses := make([]Status, len(pingers))

	var g errgroup.Group
	for i, p := range pingers {
		g.Go(func() error {
			pctx := ctx
			if timeout > 0 {
				var cancel context.CancelFunc
				pctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			err := p.Ping(pctx)
			statuses[i] = Status{Name: p.Name(), Online: err == nil, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return statuses
}
