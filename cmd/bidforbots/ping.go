package main

import (
	"context"
	"fmt"
	"os"

	"github.com/lox/bidforbots/cmd/bidforbots/shared"
	"github.com/lox/bidforbots/internal/player"
	"github.com/lox/bidforbots/internal/server"
)

// PingCmd probes every configured player once.
type PingCmd struct {
	Config string `kong:"default='game.hcl',help='Game configuration file'"`

	shared.LogOptions `embed:""`
}

func (c *PingCmd) Run() error {
	logger := c.Logger()

	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", c.Config, err)
	}

	pingers := make([]player.Pinger, 0, len(cfg.Players))
	for _, pc := range cfg.Players {
		pingers = append(pingers, player.NewClient(pc.Name, pc.URL, player.WithLogger(logger)))
	}

	offline := 0
	for _, st := range player.ProbeAll(context.Background(), pingers, cfg.Game.PingTimeout()) {
		if st.Online {
			fmt.Fprintf(os.Stdout, "%-12s online\n", st.Name)
			continue
		}
		offline++
		fmt.Fprintf(os.Stdout, "%-12s offline (%v)\n", st.Name, st.Err)
	}

	if offline > 0 {
		return fmt.Errorf("%d of %d players offline", offline, len(pingers))
	}
	return nil
}
