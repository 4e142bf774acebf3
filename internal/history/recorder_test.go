package history

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/bidforbots/internal/game"
	"github.com/lox/bidforbots/internal/server"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newState(t *testing.T) *game.State {
	t.Helper()
	players := []game.Player{
		game.NewPlayer("Akos", "http://localhost:3000"),
		game.NewPlayer("Razvan", "http://localhost:3001"),
		game.NewPlayer("Kristof", "http://localhost:3002"),
	}
	state, err := game.NewState("01jabcdefghjkmnpqrstvwxyz0", players, 2)
	require.NoError(t, err)
	return state
}

func playRound(t *testing.T, state *game.State, bids map[string]game.Bid) *game.RoundResult {
	t.Helper()
	result, err := state.Settle(bids)
	require.NoError(t, err)
	require.NoError(t, state.Apply(result))
	return result
}

func TestSessionPath(t *testing.T) {
	assert.Equal(t, filepath.Join("rounds", "game-abc", "session.toml"), SessionPath("", "abc"))
	assert.Equal(t, filepath.Join("/tmp/x", "game-abc", "session.toml"), SessionPath("/tmp/x", "abc"))
}

func TestRecorderWritesSession(t *testing.T) {
	dir := t.TempDir()
	mClock := quartz.NewMock(t)
	start := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	mClock.Set(start)

	state := newState(t)
	rec := NewRecorder(dir, mClock, zerolog.New(zerolog.NewTestWriter(t)))

	rec.OnGameStart(state.Snapshot())
	_, err := os.Stat(rec.Path())
	require.NoError(t, err, "session written on start")

	mClock.Set(start.Add(time.Minute))
	r1 := playRound(t, state, map[string]game.Bid{
		"Akos":    {"Razvan": d("60.25"), "Kristof": d("50")},
		"Razvan":  {"Akos": d("0"), "Kristof": d("0")},
		"Kristof": {"Akos": d("0"), "Razvan": d("0")},
	})
	rec.OnRoundComplete(r1, state.Snapshot())

	mClock.Set(start.Add(2 * time.Minute))
	rec.OnRoundFailed(&server.RoundError{Round: 2, Player: "Razvan", Err: errors.New("status 500")})

	r2 := playRound(t, state, map[string]game.Bid{
		"Akos":    {"Razvan": d("0"), "Kristof": d("1")},
		"Razvan":  {"Akos": d("0"), "Kristof": d("0")},
		"Kristof": {"Akos": d("0"), "Razvan": d("0")},
	})
	rec.OnRoundComplete(r2, state.Snapshot())
	rec.OnGameComplete(state.Snapshot(), "game winner declared")

	loaded, err := Load(rec.Path())
	require.NoError(t, err)

	assert.Equal(t, state.ID(), loaded.GameID)
	assert.True(t, start.Equal(loaded.StartedAt))
	assert.True(t, start.Add(2*time.Minute).Equal(loaded.UpdatedAt))
	assert.Equal(t, 2, loaded.WinTrophies)
	assert.True(t, loaded.Finished)
	assert.Equal(t, []string{"Akos"}, loaded.Winners)
	assert.Equal(t, "game winner declared", loaded.Reason)

	require.Len(t, loaded.Roster, 3)
	assert.Equal(t, "Akos", loaded.Roster[0].Name)
	assert.True(t, d("100").Equal(loaded.Roster[0].Coins))

	require.Len(t, loaded.Rounds, 2)
	first := loaded.Rounds[0]
	assert.Equal(t, 1, first.Number)
	assert.True(t, start.Add(time.Minute).Equal(first.At))
	assert.Equal(t, []string{"Akos"}, first.RoundWinners)
	assert.True(t, d("-10.25").Equal(first.Coins["Akos"]))
	assert.True(t, d("160.25").Equal(first.Coins["Razvan"]))
	assert.Equal(t, 2, first.Points["Akos"])
	assert.Equal(t, 1, first.Trophies["Akos"])
	require.Len(t, first.Warnings, 1)
	assert.Contains(t, first.Warnings[0], "Akos committed 110.25")

	require.Len(t, first.Bids, 6)
	assert.Equal(t, "Akos", first.Bids[0].From)
	assert.Equal(t, "Razvan", first.Bids[0].To)
	assert.True(t, d("60.25").Equal(first.Bids[0].Amount))

	assert.Equal(t, []string{"Akos"}, loaded.Rounds[1].GameWinners)

	require.Len(t, loaded.Failures, 1)
	assert.Equal(t, 2, loaded.Failures[0].Round)
	assert.Equal(t, "Razvan", loaded.Failures[0].Player)
	assert.Equal(t, "status 500", loaded.Failures[0].Error)
}

func TestRecorderSessionIsValidTOML(t *testing.T) {
	dir := t.TempDir()
	state := newState(t)
	rec := NewRecorder(dir, nil, zerolog.Nop())
	rec.OnGameStart(state.Snapshot())

	data, err := os.ReadFile(rec.Path())
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `game_id = "01jabcdefghjkmnpqrstvwxyz0"`)
	assert.Contains(t, text, "[[roster]]")
	assert.True(t, strings.HasPrefix(filepath.Base(filepath.Dir(rec.Path())), "game-"))

	snap := rec.Session()
	assert.Len(t, snap.Roster, 3)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalidGameID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.toml")
	require.NoError(t, os.WriteFile(path, []byte("game_id = \"not-a-game\"\nwin_trophies = 5\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "game ID")
}

func TestRecorderIgnoresEventsBeforeStart(t *testing.T) {
	rec := NewRecorder(t.TempDir(), nil, zerolog.Nop())
	rec.OnRoundFailed(&server.RoundError{Round: 1, Err: errors.New("boom")})
	assert.Empty(t, rec.Path())
}

func TestSessionReplay(t *testing.T) {
	dir := t.TempDir()
	state := newState(t)
	rec := NewRecorder(dir, quartz.NewMock(t), zerolog.Nop())
	rec.OnGameStart(state.Snapshot())

	var want []*game.RoundResult
	for _, bids := range []map[string]game.Bid{
		{
			"Akos":    {"Razvan": d("10"), "Kristof": d("20")},
			"Razvan":  {"Akos": d("15"), "Kristof": d("0")},
			"Kristof": {"Akos": d("20"), "Razvan": d("5.5")},
		},
		{
			"Akos":    {"Razvan": d("0"), "Kristof": d("0")},
			"Razvan":  {"Akos": d("1"), "Kristof": d("1")},
			"Kristof": {"Akos": d("0"), "Razvan": d("0")},
		},
	} {
		r := playRound(t, state, bids)
		rec.OnRoundComplete(r, state.Snapshot())
		want = append(want, r)
	}

	loaded, err := Load(rec.Path())
	require.NoError(t, err)

	got, err := loaded.Replay()
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Round, got[i].Round)
		assert.Equal(t, want[i].RoundWinners, got[i].RoundWinners)
		assert.Equal(t, want[i].Points, got[i].Points)
		assert.Equal(t, want[i].Trophies, got[i].Trophies)
		for name, coins := range want[i].Coins {
			assert.True(t, coins.Equal(got[i].Coins[name]), "%s round %d", name, want[i].Round)
		}
		assert.Equal(t, len(want[i].Steps()), len(got[i].Steps()))
	}

	loaded.Rounds[0].Coins["Akos"] = d("999")
	_, err = loaded.Replay()
	assert.ErrorContains(t, err, "replay gives")
}
