package main

import (
	"fmt"
	"os"
	"time"

	"github.com/lox/blackjack/cmd/blackjack/shared"
	"github.com/lox/blackjack/internal/simulator"
)

// SimulateCmd plays headless sessions and reports aggregate statistics
type SimulateCmd struct {
	Sessions int  `default:"4" help:"Number of independent sessions"`
	Rounds   int  `default:"1000" help:"Rounds per session"`
	Bet      int  `default:"10" help:"Fixed bet per round"`
	StandOn  int  `default:"17" help:"Hit below this total, stand at or above it"`
	Workers  int  `help:"Sessions to run in parallel (0 for GOMAXPROCS)"`
	Verbose  bool `short:"V" help:"Verbose logging"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, err := g.LoadConfig()
	if err != nil {
		return err
	}

	level := cfg.UI.LogLevel
	if c.Verbose {
		level = "debug"
	}
	logger, err := shared.SetupLogger(os.Stderr, level)
	if err != nil {
		return err
	}

	ctx, cancel := shared.SetupSignalHandler(logger)
	defer cancel()

	sim := simulator.New(simulator.Config{
		Sessions:        c.Sessions,
		Rounds:          c.Rounds,
		Bet:             c.Bet,
		StandOn:         c.StandOn,
		StartingBalance: cfg.Player.StartingBalance,
		Seed:            cfg.Game.Seed,
		Workers:         c.Workers,
		Logger:          logger,
	})

	start := time.Now()
	report, err := sim.Run(ctx)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	fmt.Printf("Simulated %d sessions of up to %d rounds, bet %d, standing on %d (%s)\n\n",
		c.Sessions, c.Rounds, c.Bet, c.StandOn, time.Since(start).Round(time.Millisecond))
	fmt.Print(report.Stats.Summary())
	fmt.Println()

	fmt.Printf("%-8s %-20s %7s %8s\n", "Session", "Seed", "Rounds", "Balance")
	for _, s := range report.Sessions {
		balance := fmt.Sprintf("$%d", s.FinalBalance)
		if s.Broke {
			balance = "broke"
		}
		fmt.Printf("%-8d %-20d %7d %8s\n", s.Session, s.Seed, s.Rounds, balance)
	}
	return nil
}
