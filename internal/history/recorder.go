package history

import (
	"io"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/coder/quartz"
	"github.com/rs/zerolog"

	"github.com/lox/bidforbots/internal/fileutil"
	"github.com/lox/bidforbots/internal/game"
	"github.com/lox/bidforbots/internal/server"
)

var _ server.RoundMonitor = (*Recorder)(nil)

// Recorder is a round monitor that keeps the session file of one game up to
// date.
type Recorder struct {
	mu      sync.Mutex
	baseDir string
	path    string
	clock   quartz.Clock
	logger  zerolog.Logger
	session Session
}

// NewRecorder writes sessions under baseDir. The session file is named after
// the game announced by OnGameStart. A nil clock uses wall time.
func NewRecorder(baseDir string, clock quartz.Clock, logger zerolog.Logger) *Recorder {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Recorder{
		baseDir: baseDir,
		clock:   clock,
		logger:  logger.With().Str("component", "history").Logger(),
	}
}

// Path returns the session file location, empty before the game starts.
func (r *Recorder) Path() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.path
}

// Session returns a copy of the recorded session.
func (r *Recorder) Session() Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.session
	s.Roster = append([]Seat(nil), s.Roster...)
	s.Rounds = append([]Round(nil), s.Rounds...)
	s.Failures = append([]Failure(nil), s.Failures...)
	s.Winners = append([]string(nil), s.Winners...)
	return s
}

func (r *Recorder) OnGameStart(snapshot game.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	r.path = SessionPath(r.baseDir, snapshot.ID)
	r.logger = r.logger.With().Str("game_id", snapshot.ID).Logger()
	r.session = Session{GameID: snapshot.ID}
	r.session.StartedAt = now
	r.session.UpdatedAt = now
	r.session.WinTrophies = snapshot.WinTrophies
	for _, p := range snapshot.Players {
		r.session.Roster = append(r.session.Roster, Seat{
			Name:     p.Name,
			URL:      p.URL,
			Coins:    p.Coins,
			Trophies: p.Trophies,
		})
	}
	r.flushLocked()
}

func (r *Recorder) OnRoundComplete(result *game.RoundResult, snapshot game.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	round := Round{
		Number:       result.Round,
		At:           r.clock.Now(),
		RoundWinners: result.RoundWinners,
		GameWinners:  result.GameWinners,
		Coins:        result.Coins,
		Points:       result.Points,
		Trophies:     result.Trophies,
	}
	for _, p := range result.Players {
		bid := result.Bids[p.Name]
		for _, target := range game.Opponents(result.Players, p.Name) {
			round.Bids = append(round.Bids, Bid{From: p.Name, To: target, Amount: bid.Toward(target)})
		}
	}
	for _, w := range result.Warnings {
		round.Warnings = append(round.Warnings, w.String())
	}

	r.session.Rounds = append(r.session.Rounds, round)
	r.session.UpdatedAt = round.At
	r.session.Winners = snapshot.Winners
	r.session.Finished = snapshot.Finished
	r.flushLocked()
}

func (r *Recorder) OnRoundFailed(err *server.RoundError) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	r.session.Failures = append(r.session.Failures, Failure{
		Round:  err.Round,
		At:     now,
		Player: err.Player,
		Error:  err.Err.Error(),
	})
	r.session.UpdatedAt = now
	r.flushLocked()
}

func (r *Recorder) OnGameComplete(snapshot game.Snapshot, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.session.UpdatedAt = r.clock.Now()
	r.session.Winners = snapshot.Winners
	r.session.Finished = snapshot.Finished
	r.session.Reason = reason
	r.flushLocked()
}

func (r *Recorder) flushLocked() {
	if r.path == "" {
		r.logger.Warn().Msg("round history event before game start, not written")
		return
	}
	err := fileutil.WriteAtomic(r.path, 0o644, func(w io.Writer) error {
		return toml.NewEncoder(w).Encode(r.session)
	})
	if err != nil {
		r.logger.Error().Err(err).Str("path", r.path).Msg("round history flush failed")
		return
	}
	r.logger.Debug().Int("rounds", len(r.session.Rounds)).Str("path", r.path).Msg("round history flushed")
}
