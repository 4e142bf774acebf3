package main

import (
	"fmt"

	"github.com/lox/bidforbots/cmd/bidforbots/shared"
	"github.com/lox/bidforbots/internal/player"
	"github.com/lox/bidforbots/internal/policy"
)

// PlayerCmd serves one built-in policy over HTTP.
type PlayerCmd struct {
	Policy string `kong:"arg,optional,default='split',enum='${policies}',help='Bidding policy (${policies})'"`
	Host   string `kong:"default='',help='Interface to listen on'"`
	Port   int    `kong:"default='3000',env='PORT',help='Port to listen on'"`
	Seed   *int64 `kong:"help='Seed for the random policy (optional)'"`
	Capped bool   `kong:"help='Never commit more coins than held'"`

	shared.LogOptions `embed:""`
}

func (c *PlayerCmd) Run() error {
	logger := c.Logger()

	p, err := policy.New(c.Policy, policy.Options{Seed: shared.ResolveSeed(c.Seed, logger)})
	if err != nil {
		return err
	}
	if c.Capped {
		p = policy.Capped(p)
	}

	ctx := shared.SetupSignalHandler(logger)
	addr := fmt.Sprintf("%s:%d", c.Host, c.Port)
	logger.Info().Str("policy", c.Policy).Str("addr", addr).Msg("Starting player")

	svc := player.NewService(p, logger.With().Str("policy", c.Policy).Logger())
	return svc.ListenAndServe(ctx, addr)
}
