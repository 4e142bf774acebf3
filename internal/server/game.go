package server

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"

	"github.com/lox/bidforbots/internal/game"
	"github.com/lox/bidforbots/internal/gameid"
	"github.com/lox/bidforbots/internal/player"
	"github.com/lox/bidforbots/internal/policy"
	"github.com/lox/bidforbots/internal/randutil"
)

// Seat binds a roster player to the bidder that answers for it.
type Seat struct {
	Name   string
	Bidder player.Bidder

	// Fallback takes over the seat after its first disqualification
	// warning. Optional.
	Fallback player.Bidder
}

type seat struct {
	Seat
	takenOver bool
}

// Game runs rounds against a game state. Rounds are serialized: at most one
// is in flight at a time, and the state only changes once all bids are in.
type Game struct {
	mu       sync.RWMutex
	state    *game.State
	seats    map[string]*seat
	results  []*game.RoundResult
	inFlight atomic.Bool
	started  sync.Once

	pingTimeout time.Duration
	monitor     RoundMonitor
	clock       quartz.Clock
	logger      zerolog.Logger
}

// Option configures a Game.
type Option func(*Game)

func WithMonitor(m RoundMonitor) Option {
	return func(g *Game) { g.monitor = m }
}

func WithClock(c quartz.Clock) Option {
	return func(g *Game) { g.clock = c }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(g *Game) { g.logger = logger }
}

func WithPingTimeout(d time.Duration) Option {
	return func(g *Game) { g.pingTimeout = d }
}

// NewGame binds one seat to every roster player of state.
func NewGame(state *game.State, seats []Seat, opts ...Option) (*Game, error) {
	g := &Game{
		state:       state,
		seats:       make(map[string]*seat, len(seats)),
		pingTimeout: player.DefaultPingTimeout,
		monitor:     NullRoundMonitor{},
		clock:       quartz.NewReal(),
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = g.logger.With().Str("component", "game").Str("game_id", state.ID()).Logger()

	for _, s := range seats {
		if _, ok := state.Player(s.Name); !ok {
			return nil, fmt.Errorf("%w: seat %s", game.ErrUnknownPlayer, s.Name)
		}
		if _, dup := g.seats[s.Name]; dup {
			return nil, fmt.Errorf("%w: seat %s", game.ErrDuplicatePlayer, s.Name)
		}
		if s.Bidder == nil {
			return nil, fmt.Errorf("seat %s has no bidder", s.Name)
		}
		g.seats[s.Name] = &seat{Seat: s}
	}
	for _, p := range state.Players() {
		if _, ok := g.seats[p.Name]; !ok {
			return nil, fmt.Errorf("player %s has no seat", p.Name)
		}
	}

	return g, nil
}

// NewGameFromConfig builds a game whose seats call the configured player
// services. seed drives the fallback policies.
func NewGameFromConfig(cfg *Config, seed int64, logger zerolog.Logger, opts ...Option) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	state, err := game.NewState(gameid.Generate(), cfg.Roster(), cfg.Game.WinTrophies)
	if err != nil {
		return nil, err
	}

	seats := make([]Seat, 0, len(cfg.Players))
	for _, pc := range cfg.Players {
		s := Seat{
			Name: pc.Name,
			Bidder: player.NewClient(pc.Name, pc.URL,
				player.WithBidTimeout(cfg.Game.BidTimeout()),
				player.WithPingTimeout(cfg.Game.PingTimeout()),
				player.WithLogger(logger),
			),
		}
		if pc.Fallback != "" {
			p, err := policy.New(pc.Fallback, policy.Options{Seed: randutil.DeriveSeed(seed, pc.Name)})
			if err != nil {
				return nil, fmt.Errorf("player %s: %w", pc.Name, err)
			}
			s.Fallback = player.NewLocal(policy.Capped(p))
		}
		seats = append(seats, s)
	}

	opts = append([]Option{WithLogger(logger), WithPingTimeout(cfg.Game.PingTimeout())}, opts...)
	return NewGame(state, seats, opts...)
}

// ID returns the game identifier.
func (g *Game) ID() string { return g.state.ID() }

// Snapshot returns a copy of the current state.
func (g *Game) Snapshot() game.Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state.Snapshot()
}

// Results returns the completed rounds, oldest first.
func (g *Game) Results() []*game.RoundResult {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return slices.Clone(g.results)
}

// TakenOver reports whether a seat is being played by its fallback.
func (g *Game) TakenOver(name string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	s, ok := g.seats[name]
	return ok && s.takenOver
}

// PlayRound collects one bid per player from the same pre-round snapshot,
// settles them and applies the result. Any bidder failure abandons the round
// and returns a *RoundError; the state is not modified. Cancellation is
// checked between bidder calls.
func (g *Game) PlayRound(ctx context.Context) (*game.RoundResult, error) {
	if !g.inFlight.CompareAndSwap(false, true) {
		return nil, ErrRoundInFlight
	}
	defer g.inFlight.Store(false)
	g.Start()

	g.mu.RLock()
	round := g.state.Round() + 1
	players := g.state.Players()
	winTrophies := g.state.WinTrophies()
	bidders := make(map[string]player.Bidder, len(g.seats))
	for name, s := range g.seats {
		bidders[name] = s.Bidder
		if s.takenOver {
			bidders[name] = s.Fallback
		}
	}
	g.mu.RUnlock()

	logger := g.logger.With().Int("round", round).Logger()
	logger.Debug().Msg("Collecting bids")

	bids := make(map[string]game.Bid, len(players))
	for _, v := range game.ProjectAll(players) {
		if err := ctx.Err(); err != nil {
			return nil, g.fail(round, "", err)
		}
		bid, err := bidders[v.Player].Bid(ctx, v)
		if err != nil {
			return nil, g.fail(round, v.Player, err)
		}
		bids[v.Player] = bid
	}

	result, err := game.Settle(round, players, bids, winTrophies)
	if err != nil {
		return nil, g.fail(round, "", err)
	}

	g.mu.Lock()
	if err := g.state.Apply(result); err != nil {
		g.mu.Unlock()
		return nil, g.fail(round, "", err)
	}
	g.results = append(g.results, result)
	for _, w := range result.Warnings {
		if s := g.seats[w.Player]; s.Fallback != nil && !s.takenOver {
			s.takenOver = true
			logger.Warn().Str("player", w.Player).Msg("Fallback policy takes over disqualified player")
		}
	}
	snapshot := g.state.Snapshot()
	g.mu.Unlock()

	for _, w := range result.Warnings {
		logger.Warn().
			Str("player", w.Player).
			Str("committed", game.FormatCoins(w.Committed)).
			Str("coins", game.FormatCoins(w.Coins)).
			Msg("Disqualification: bid exceeds balance")
	}
	logger.Info().
		Strs("round_winners", result.RoundWinners).
		Strs("game_winners", result.GameWinners).
		Msg("Round complete")

	g.monitor.OnRoundComplete(result, snapshot)
	return result, nil
}

func (g *Game) fail(round int, name string, err error) error {
	rerr := &RoundError{Round: round, Player: name, Err: err}
	g.logger.Error().
		Int("round", round).
		Str("player", name).
		Err(err).
		Msg("Round abandoned")
	g.monitor.OnRoundFailed(rerr)
	return rerr
}

// Run plays rounds until a game winner is declared, maxRounds rounds have
// been played in this call (zero for no limit), or a round fails. Failed
// rounds are not retried.
func (g *Game) Run(ctx context.Context, maxRounds int) (game.Snapshot, error) {
	g.Start()

	reason := ""
	var runErr error
	for played := 0; ; played++ {
		snapshot := g.Snapshot()
		if snapshot.Finished {
			reason = "game winner declared"
			break
		}
		if maxRounds > 0 && played >= maxRounds {
			reason = fmt.Sprintf("round limit %d reached", maxRounds)
			break
		}
		if _, err := g.PlayRound(ctx); err != nil {
			reason = "round failed"
			runErr = err
			break
		}
	}

	snapshot := g.Snapshot()
	g.logger.Info().
		Int("rounds", snapshot.Round).
		Strs("winners", snapshot.Winners).
		Str("reason", reason).
		Msg("Game stopped")
	g.monitor.OnGameComplete(snapshot, reason)
	return snapshot, runErr
}

// Start announces the game to the monitor. Only the first call has an
// effect; PlayRound and Run call it too.
func (g *Game) Start() {
	g.started.Do(func() {
		g.monitor.OnGameStart(g.Snapshot())
	})
}

// RefreshLiveness probes every seat that can be pinged and records the
// result on the roster. Seats without a remote service count as online.
func (g *Game) RefreshLiveness(ctx context.Context) []player.Status {
	g.mu.RLock()
	var pingers []player.Pinger
	statuses := make([]player.Status, 0, len(g.seats))
	for _, p := range g.state.Players() {
		if pinger, ok := g.seats[p.Name].Bidder.(player.Pinger); ok {
			pingers = append(pingers, pinger)
		} else {
			statuses = append(statuses, player.Status{Name: p.Name, Online: true})
		}
	}
	g.mu.RUnlock()

	started := g.clock.Now()
	statuses = append(statuses, player.ProbeAll(ctx, pingers, g.pingTimeout)...)

	g.mu.Lock()
	for _, st := range statuses {
		_ = g.state.SetOnline(st.Name, st.Online)
	}
	g.mu.Unlock()

	for _, st := range statuses {
		ev := g.logger.Debug()
		if !st.Online {
			ev = g.logger.Warn().Err(st.Err)
		}
		ev.Str("player", st.Name).Bool("online", st.Online).Msg("Liveness probe")
	}
	g.logger.Debug().Dur("elapsed", g.clock.Since(started)).Msg("Liveness refreshed")
	return statuses
}
