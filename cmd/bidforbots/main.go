package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Play    PlayCmd          `cmd:"" help:"Play a game against configured player services"`
	Player  PlayerCmd        `cmd:"" help:"Serve a built-in bidding policy as a player"`
	Spawn   SpawnCmd         `cmd:"" help:"Start three built-in players in process and play a game"`
	Ping    PingCmd          `cmd:"" help:"Check which configured players are online"`
	History HistoryCmd       `cmd:"" help:"Work with round history files"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("bidforbots"),
		kong.Description("Three player sealed-bid tournament for bots"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version":  version,
			"policies": policyList(),
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
