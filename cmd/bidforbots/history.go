package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lox/bidforbots/internal/game"
	"github.com/lox/bidforbots/internal/history"
	"github.com/lox/bidforbots/internal/server"
)

// HistoryCmd is the root command for round history utilities.
type HistoryCmd struct {
	Render HistoryRenderCmd `cmd:"render" help:"Replay a session file through the round report"`
}

// HistoryRenderCmd re-settles a recorded session and prints it.
type HistoryRenderCmd struct {
	File  string `arg:"" name:"file" help:"Path to session.toml"`
	Limit int    `help:"Maximum number of rounds to render (0 = all)"`

	out io.Writer
}

func (cmd HistoryRenderCmd) Run() error {
	session, err := history.Load(cmd.File)
	if err != nil {
		return err
	}
	results, err := session.Replay()
	if err != nil {
		return fmt.Errorf("replaying %s: %w", cmd.File, err)
	}
	if len(results) == 0 {
		return fmt.Errorf("no rounds found in %s", cmd.File)
	}

	limit := cmd.Limit
	if limit <= 0 || limit > len(results) {
		limit = len(results)
	}

	players := make([]game.Player, 0, len(session.Roster))
	for _, seat := range session.Roster {
		players = append(players, game.Player{Name: seat.Name, URL: seat.URL, Coins: seat.Coins, Trophies: seat.Trophies, Online: true})
	}
	state, err := game.NewState(session.GameID, players, session.WinTrophies)
	if err != nil {
		return err
	}

	out := cmd.out
	if out == nil {
		out = os.Stdout
	}
	monitor := server.NewPrettyMonitor(out)
	monitor.OnGameStart(state.Snapshot())
	for _, result := range results[:limit] {
		if err := state.Apply(result); err != nil {
			return fmt.Errorf("rendering round %d: %w", result.Round, err)
		}
		monitor.OnRoundComplete(result, state.Snapshot())
	}

	reason := "history playback"
	if session.Reason != "" && limit == len(results) {
		reason = strings.TrimSpace(session.Reason)
	}
	monitor.OnGameComplete(state.Snapshot(), reason)
	return nil
}
