package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command. Flags override the config
// file and BLACKJACK_* environment variables.
type Globals struct {
	ConfigFile string `name:"config" short:"c" default:"blackjack.hcl" help:"Path to HCL configuration file"`
	Seed       int64  `help:"Shuffle seed (0 for random)"`
	Balance    int    `help:"Starting balance"`
	Name       string `help:"Player name"`
}

type CLI struct {
	Globals `embed:""`

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"withargs" help:"Play blackjack in the terminal"`
	Simulate SimulateCmd      `cmd:"" help:"Play headless sessions with a fixed strategy"`
	Config   ConfigCmd        `cmd:"config" help:"Print the effective configuration as HCL"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjack"),
		kong.Description("Single-player blackjack against the dealer"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
