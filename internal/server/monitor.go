package server

import "github.com/lox/bidforbots/internal/game"

// RoundMonitor receives notifications about game progress.
type RoundMonitor interface {
	// OnGameStart is called once before the first round.
	OnGameStart(snapshot game.Snapshot)

	// OnRoundComplete is called after a round has been applied to the state.
	OnRoundComplete(result *game.RoundResult, snapshot game.Snapshot)

	// OnRoundFailed is called when a round is abandoned.
	OnRoundFailed(err *RoundError)

	// OnGameComplete is called when the game stops, with the reason.
	OnGameComplete(snapshot game.Snapshot, reason string)
}

// NullRoundMonitor is a no-op implementation.
type NullRoundMonitor struct{}

func (NullRoundMonitor) OnGameStart(game.Snapshot)                        {}
func (NullRoundMonitor) OnRoundComplete(*game.RoundResult, game.Snapshot) {}
func (NullRoundMonitor) OnRoundFailed(*RoundError)                        {}
func (NullRoundMonitor) OnGameComplete(game.Snapshot, string)             {}

// MultiRoundMonitor fans events out to multiple monitors.
type MultiRoundMonitor struct {
	monitors []RoundMonitor
}

// NewMultiRoundMonitor builds a composite monitor, pruning nil entries and
// returning a NullRoundMonitor when no monitors are provided.
func NewMultiRoundMonitor(monitors ...RoundMonitor) RoundMonitor {
	filtered := make([]RoundMonitor, 0, len(monitors))
	for _, monitor := range monitors {
		if monitor != nil {
			filtered = append(filtered, monitor)
		}
	}

	switch len(filtered) {
	case 0:
		return NullRoundMonitor{}
	case 1:
		return filtered[0]
	default:
		return MultiRoundMonitor{monitors: filtered}
	}
}

func (m MultiRoundMonitor) OnGameStart(snapshot game.Snapshot) {
	for _, monitor := range m.monitors {
		monitor.OnGameStart(snapshot)
	}
}

func (m MultiRoundMonitor) OnRoundComplete(result *game.RoundResult, snapshot game.Snapshot) {
	for _, monitor := range m.monitors {
		monitor.OnRoundComplete(result, snapshot)
	}
}

func (m MultiRoundMonitor) OnRoundFailed(err *RoundError) {
	for _, monitor := range m.monitors {
		monitor.OnRoundFailed(err)
	}
}

func (m MultiRoundMonitor) OnGameComplete(snapshot game.Snapshot, reason string) {
	for _, monitor := range m.monitors {
		monitor.OnGameComplete(snapshot, reason)
	}
}
