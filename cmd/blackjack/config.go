package main

import (
	"fmt"
	"os"

	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/fileutil"
)

// ConfigCmd prints the configuration that play and simulate would use
type ConfigCmd struct {
	Write bool `short:"w" help:"Write the effective configuration to the config file instead of printing it"`
}

func (c *ConfigCmd) Run(g *Globals) error {
	cfg, err := g.LoadConfig()
	if err != nil {
		return err
	}

	if c.Write {
		if err := fileutil.WriteFileAtomic(g.ConfigFile, cfg.Encode(), 0o644); err != nil {
			return fmt.Errorf("writing config %s: %w", g.ConfigFile, err)
		}
		fmt.Printf("Wrote %s\n", g.ConfigFile)
		return nil
	}

	_, err = os.Stdout.Write(cfg.Encode())
	return err
}

// LoadConfig resolves the configuration from the file, then the
// environment, then command line flags
func (g *Globals) LoadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", g.ConfigFile, err)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if g.Seed != 0 {
		cfg.Game.Seed = g.Seed
	}
	if g.Balance != 0 {
		cfg.Player.StartingBalance = g.Balance
	}
	if g.Name != "" {
		cfg.Player.Name = g.Name
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
