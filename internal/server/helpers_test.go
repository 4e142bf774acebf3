package server

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/lox/bidforbots/internal/game"
	"github.com/lox/bidforbots/internal/player"
)

var testRoster = []string{"Akos", "Razvan", "Kristof"}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// fixedBidder answers every round with the same two slot amounts.
type fixedBidder struct {
	mu    sync.Mutex
	toA   decimal.Decimal
	toB   decimal.Decimal
	err   error
	calls int
	views []game.View

	// onBid runs inside Bid before answering.
	onBid func(ctx context.Context)
}

func bidding(toA, toB string) *fixedBidder {
	return &fixedBidder{toA: d(toA), toB: d(toB)}
}

func failing(err error) *fixedBidder {
	return &fixedBidder{err: err}
}

func (b *fixedBidder) Bid(ctx context.Context, v game.View) (game.Bid, error) {
	if b.onBid != nil {
		b.onBid(ctx)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	b.views = append(b.views, v)
	if b.err != nil {
		return nil, b.err
	}
	return game.NewBid(v, b.toA, b.toB)
}

func (b *fixedBidder) Calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

func newTestGame(t *testing.T, bidders map[string]player.Bidder, opts ...Option) *Game {
	t.Helper()
	players := make([]game.Player, 0, len(testRoster))
	seats := make([]Seat, 0, len(testRoster))
	for _, name := range testRoster {
		players = append(players, game.NewPlayer(name, ""))
		seats = append(seats, Seat{Name: name, Bidder: bidders[name]})
	}
	state, err := game.NewState("test-game", players, game.DefaultWinTrophies)
	require.NoError(t, err)

	opts = append([]Option{WithLogger(zerolog.New(zerolog.NewTestWriter(t)))}, opts...)
	g, err := NewGame(state, seats, opts...)
	require.NoError(t, err)
	return g
}

type recordingMonitor struct {
	mu        sync.Mutex
	started   int
	completed []*game.RoundResult
	failed    []*RoundError
	reason    string
	final     game.Snapshot
}

func (m *recordingMonitor) OnGameStart(game.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started++
}

func (m *recordingMonitor) OnRoundComplete(result *game.RoundResult, _ game.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completed = append(m.completed, result)
}

func (m *recordingMonitor) OnRoundFailed(err *RoundError) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failed = append(m.failed, err)
}

func (m *recordingMonitor) OnGameComplete(snapshot game.Snapshot, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.final = snapshot
	m.reason = reason
}
