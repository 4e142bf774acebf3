package main

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lox/bidforbots/cmd/bidforbots/shared"
	"github.com/lox/bidforbots/internal/player"
	"github.com/lox/bidforbots/internal/policy"
	"github.com/lox/bidforbots/internal/randutil"
	"github.com/lox/bidforbots/internal/server"
)

// SpawnCmd starts three in-process players on random ports and plays them
// against each other.
type SpawnCmd struct {
	Names       []string `kong:"default='Akos,Razvan,Kristof',help='Roster names in seat order'"`
	Policies    []string `kong:"default='scripted,split,random',help='Policy per seat (${policies})'"`
	Fallback    string   `kong:"default='',help='Fallback policy for disqualified seats'"`
	Rounds      int      `kong:"default='50',help='Stop after N rounds (0 for no limit)'"`
	WinTrophies int      `kong:"default='5',help='Trophies needed to win'"`
	RevealMs    int      `kong:"default='0',help='Delay between reveal steps for spectators, in milliseconds'"`
	HistoryDir  string   `kong:"help='Directory for round history'"`
	Addr        string   `kong:"help='Serve the control API and spectator stream on this address'"`
	Seed        *int64   `kong:"help='Seed for randomized policies (optional)'"`
	Quiet       bool     `kong:"help='Do not print the round report'"`

	shared.LogOptions `embed:""`
}

func (c *SpawnCmd) Run() error {
	logger := c.Logger()

	if len(c.Names) != len(c.Policies) {
		return fmt.Errorf("got %d names but %d policies", len(c.Names), len(c.Policies))
	}

	seed := shared.ResolveSeed(c.Seed, logger)
	ctx, cancel := context.WithCancel(shared.SetupSignalHandler(logger))
	defer cancel()

	cfg := &server.Config{
		Game: &server.GameSettings{
			WinTrophies:   c.WinTrophies,
			RevealDelayMS: c.RevealMs,
			HistoryDir:    c.HistoryDir,
		},
	}

	var services errgroup.Group
	for i, name := range c.Names {
		p, err := policy.New(c.Policies[i], policy.Options{Seed: randutil.DeriveSeed(seed, name)})
		if err != nil {
			return fmt.Errorf("player %s: %w", name, err)
		}

		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("player %s: %w", name, err)
		}
		svc := player.NewService(p, logger.With().Str("player", name).Str("policy", c.Policies[i]).Logger())
		services.Go(func() error { return svc.Serve(ctx, ln) })

		cfg.Players = append(cfg.Players, server.PlayerConfig{
			Name:     name,
			URL:      "http://" + ln.Addr().String(),
			Fallback: c.Fallback,
		})
	}
	defer func() {
		cancel()
		if err := services.Wait(); err != nil {
			logger.Error().Err(err).Msg("Player service stopped with error")
		}
	}()

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := waitForPlayers(ctx, cfg); err != nil {
		return err
	}

	logger.Info().
		Str("roster", strings.Join(c.Names, ", ")).
		Str("policies", strings.Join(c.Policies, ", ")).
		Msg("Players started")

	return runGame(ctx, gameRun{
		cfg:    cfg,
		seed:   seed,
		addr:   c.Addr,
		rounds: c.Rounds,
		quiet:  c.Quiet,
		logger: logger,
	})
}

// waitForPlayers polls until every player answers a ping.
func waitForPlayers(ctx context.Context, cfg *server.Config) error {
	pingers := make([]player.Pinger, 0, len(cfg.Players))
	for _, pc := range cfg.Players {
		pingers = append(pingers, player.NewClient(pc.Name, pc.URL))
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		ready := true
		for _, st := range player.ProbeAll(ctx, pingers, 100*time.Millisecond) {
			ready = ready && st.Online
		}
		if ready {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
	return fmt.Errorf("players did not become healthy within 5s")
}
