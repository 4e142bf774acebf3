package server

import (
	"errors"
	"fmt"
)

// ErrRoundInFlight is returned when a round is requested while another one
// is still being settled.
var ErrRoundInFlight = errors.New("server: round already in flight")

// RoundError reports a round that was abandoned. The game state is left at
// its pre-round snapshot.
type RoundError struct {
	Round  int
	Player string // empty when the failure is not tied to one player
	Err    error
}

func (e *RoundError) Error() string {
	if e.Player == "" {
		return fmt.Sprintf("round %d failed: %v", e.Round, e.Err)
	}
	return fmt.Sprintf("round %d failed: player %s: %v", e.Round, e.Player, e.Err)
}

func (e *RoundError) Unwrap() error { return e.Err }
