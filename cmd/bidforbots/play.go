package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"

	"github.com/lox/bidforbots/cmd/bidforbots/shared"
	"github.com/lox/bidforbots/internal/history"
	"github.com/lox/bidforbots/internal/policy"
	"github.com/lox/bidforbots/internal/server"
)

// PlayCmd runs a game against remote player services.
type PlayCmd struct {
	Config     string `kong:"default='game.hcl',help='Game configuration file (defaults apply when missing)'"`
	Addr       string `kong:"help='Serve the control API and spectator stream on this address'"`
	Manual     bool   `kong:"help='Do not play automatically; rounds are started with POST /rounds'"`
	Rounds     int    `kong:"default='0',help='Stop after N rounds (0 for no limit)'"`
	Seed       *int64 `kong:"help='Seed for fallback policies (optional)'"`
	HistoryDir string `kong:"help='Directory for round history (overrides config)'"`
	Quiet      bool   `kong:"help='Do not print the round report'"`

	shared.LogOptions `embed:""`
}

func (c *PlayCmd) Run() error {
	logger := c.Logger()

	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	if c.HistoryDir != "" {
		cfg.Game.HistoryDir = c.HistoryDir
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", c.Config, err)
	}
	if c.Manual && c.Addr == "" {
		return fmt.Errorf("--manual requires --addr")
	}

	seed := shared.ResolveSeed(c.Seed, logger)
	ctx := shared.SetupSignalHandler(logger)

	return runGame(ctx, gameRun{
		cfg:    cfg,
		seed:   seed,
		addr:   c.Addr,
		manual: c.Manual,
		rounds: c.Rounds,
		quiet:  c.Quiet,
		logger: logger,
	})
}

type gameRun struct {
	cfg    *server.Config
	seed   int64
	addr   string
	manual bool
	rounds int
	quiet  bool
	logger zerolog.Logger
}

// runGame wires monitors, the optional API and plays the game.
func runGame(ctx context.Context, r gameRun) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	hub := server.NewHub(r.logger)
	go hub.Run(ctx)

	reveal := server.NewRevealMonitor(
		server.NewSequencer(quartz.NewReal(), r.cfg.Game.RevealDelay()),
		hub,
		r.logger,
	)
	go func() { _ = reveal.Run(ctx) }()

	monitors := []server.RoundMonitor{hub, reveal}
	if !r.quiet {
		monitors = append(monitors, server.NewPrettyMonitor(os.Stdout))
	}
	if r.cfg.Game.HistoryDir != "" {
		monitors = append(monitors, history.NewRecorder(r.cfg.Game.HistoryDir, nil, r.logger))
	}

	g, err := server.NewGameFromConfig(r.cfg, r.seed, r.logger,
		server.WithMonitor(server.NewMultiRoundMonitor(monitors...)))
	if err != nil {
		return err
	}

	var offline []string
	for _, st := range g.RefreshLiveness(ctx) {
		if !st.Online {
			offline = append(offline, st.Name)
		}
	}
	if len(offline) > 0 {
		r.logger.Warn().Strs("players", offline).Msg("Some players are offline; they will still be asked to bid")
	}

	apiErr := make(chan error, 1)
	if r.addr != "" {
		ln, err := net.Listen("tcp", r.addr)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", r.addr, err)
		}
		api := server.NewServer(g, hub, r.logger)
		go func() { apiErr <- api.Serve(ctx, ln) }()
	}

	if r.manual {
		g.Start()
		r.logger.Info().Str("game_id", g.ID()).Msg("Waiting for rounds to be requested")
		select {
		case <-ctx.Done():
			return nil
		case err := <-apiErr:
			return err
		}
	}

	snapshot, err := g.Run(ctx, r.rounds)
	if err != nil {
		return err
	}
	if len(snapshot.Winners) > 0 {
		r.logger.Info().
			Str("game_id", snapshot.ID).
			Str("winners", strings.Join(snapshot.Winners, ", ")).
			Int("rounds", snapshot.Round).
			Msg("Game won")
	}
	return nil
}

func policyList() string {
	return strings.Join(policy.Names(), ",")
}
