package server

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lox/bidforbots/internal/game"
)

type prettyStyles struct {
	header  lipgloss.Style
	section lipgloss.Style
	winner  lipgloss.Style
	warning lipgloss.Style
	errText lipgloss.Style
	dim     lipgloss.Style
	gain    lipgloss.Style
	loss    lipgloss.Style
}

func newPrettyStyles(r *lipgloss.Renderer) prettyStyles {
	return prettyStyles{
		header: r.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true).
			Padding(0, 1),
		section: r.NewStyle().Foreground(lipgloss.Color("#96CEB4")).Bold(true),
		winner:  r.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true),
		warning: r.NewStyle().Foreground(lipgloss.Color("#FFEAA7")).Bold(true),
		errText: r.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
		dim:     r.NewStyle().Foreground(lipgloss.Color("#626262")),
		gain:    r.NewStyle().Foreground(lipgloss.Color("#96CEB4")),
		loss:    r.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
	}
}

// PrettyMonitor prints a formatted report of every round.
type PrettyMonitor struct {
	writer   io.Writer
	renderer *lipgloss.Renderer
	styles   prettyStyles
}

// NewPrettyMonitor writes to writer, or stdout when nil.
func NewPrettyMonitor(writer io.Writer) *PrettyMonitor {
	if writer == nil {
		writer = os.Stdout
	}
	r := lipgloss.NewRenderer(writer)
	return &PrettyMonitor{
		writer:   writer,
		renderer: r,
		styles:   newPrettyStyles(r),
	}
}

// SetColorProfile overrides the detected terminal profile.
func (p *PrettyMonitor) SetColorProfile(profile termenv.Profile) {
	p.renderer.SetColorProfile(profile)
	p.styles = newPrettyStyles(p.renderer)
}

func (p *PrettyMonitor) OnGameStart(snapshot game.Snapshot) {
	fmt.Fprintln(p.writer, p.styles.header.Render(fmt.Sprintf("Game %s", snapshot.ID)))
	fmt.Fprintf(p.writer, "First to %d trophies wins\n", snapshot.WinTrophies)
	p.printStandings(snapshot.Players)
}

func (p *PrettyMonitor) OnRoundComplete(result *game.RoundResult, snapshot game.Snapshot) {
	fmt.Fprintln(p.writer)
	fmt.Fprintln(p.writer, p.styles.header.Render(fmt.Sprintf("Round %d", result.Round)))

	for _, step := range result.Steps() {
		desc := step.Description
		switch step.Kind {
		case game.StepRoundWinner, game.StepGameWinner:
			desc = p.styles.winner.Render(desc)
		default:
			desc = p.styles.section.Render(desc)
		}
		fmt.Fprintln(p.writer, desc)
		for _, d := range step.Details {
			fmt.Fprintf(p.writer, "  %s\n", d)
		}
	}

	for _, w := range result.Warnings {
		fmt.Fprintln(p.writer, p.styles.warning.Render("Disqualification: "+w.String()))
	}

	p.printStandings(snapshot.Players)
	fmt.Fprintln(p.writer, p.styles.dim.Render(strings.Repeat("─", 40)))
}

func (p *PrettyMonitor) OnRoundFailed(err *RoundError) {
	fmt.Fprintln(p.writer, p.styles.errText.Render(err.Error()))
}

func (p *PrettyMonitor) OnGameComplete(snapshot game.Snapshot, reason string) {
	fmt.Fprintln(p.writer)
	fmt.Fprintln(p.writer, p.styles.header.Render("Game complete"))
	fmt.Fprintf(p.writer, "Rounds played: %d\n", snapshot.Round)
	if reason != "" {
		fmt.Fprintf(p.writer, "Reason: %s\n", reason)
	}
	if len(snapshot.Winners) > 0 {
		fmt.Fprintln(p.writer, p.styles.winner.Render("Winner(s): "+strings.Join(snapshot.Winners, ", ")))
	}
}

func (p *PrettyMonitor) printStandings(players []game.Player) {
	width := 0
	for _, pl := range players {
		width = max(width, len(pl.Name))
	}
	for _, pl := range players {
		coins := game.FormatCoins(pl.Coins)
		switch {
		case pl.Coins.GreaterThan(game.DefaultCoins):
			coins = p.styles.gain.Render(coins)
		case pl.Coins.LessThan(game.DefaultCoins):
			coins = p.styles.loss.Render(coins)
		}
		status := ""
		if !pl.Online {
			status = p.styles.dim.Render(" (offline)")
		}
		fmt.Fprintf(p.writer, "  %-*s  coins %s  trophies %d%s\n", width, pl.Name, coins, pl.Trophies, status)
	}
}
