// Package config loads blackjack settings from an HCL file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix for environment overrides, e.g.
// BLACKJACK_PLAYER_STARTING_BALANCE=250
const EnvPrefix = "BLACKJACK"

// Config represents the complete configuration
type Config struct {
	Player *PlayerSettings `hcl:"player,block"`
	Game   *GameSettings   `hcl:"game,block"`
	UI     *UISettings     `hcl:"ui,block"`
}

// PlayerSettings contains player-specific settings
type PlayerSettings struct {
	Name            string `hcl:"name,optional"`
	StartingBalance int    `hcl:"starting_balance,optional" split_words:"true"`
}

// GameSettings contains settings for the deck
type GameSettings struct {
	// Seed fixes the shuffle sequence; 0 picks a seed at startup
	Seed int64 `hcl:"seed,optional"`
}

// UISettings contains user interface settings
type UISettings struct {
	LogLevel    string `hcl:"log_level,optional" split_words:"true"`
	LogFile     string `hcl:"log_file,optional" split_words:"true"`
	HistoryFile string `hcl:"history_file,optional" split_words:"true"`
	Theme       string `hcl:"theme,optional"`
	NoColor     bool   `hcl:"no_color,optional" split_words:"true"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Player: &PlayerSettings{
			Name:            "Player",
			StartingBalance: 100,
		},
		Game: &GameSettings{},
		UI:   &UISettings{
			LogLevel: "warn",
			LogFile:  "blackjack.log",
			Theme:    "default",
		},
	}
}

// Load loads configuration from an HCL file. A missing file yields the
// defaults; fields left unset in the file are filled from the defaults.
func Load(filename string) (*Config, error) {
	if filename == "" {
		return Default(), nil
	}
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

// Parse decodes configuration from HCL source, for tests and embedded configs
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	defaults := Default()

	if c.Player == nil {
		c.Player = defaults.Player
	}
	if c.Game == nil {
		c.Game = defaults.Game
	}
	if c.UI == nil {
		c.UI = defaults.UI
	}

	if c.Player.Name == "" {
		c.Player.Name = defaults.Player.Name
	}
	if c.Player.StartingBalance == 0 {
		c.Player.StartingBalance = defaults.Player.StartingBalance
	}
	if c.UI.LogLevel == "" {
		c.UI.LogLevel = defaults.UI.LogLevel
	}
	if c.UI.LogFile == "" {
		c.UI.LogFile = defaults.UI.LogFile
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
}

// ApplyEnv overrides fields from BLACKJACK_* environment variables
func (c *Config) ApplyEnv() error {
	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Player.Name == "" {
		return fmt.Errorf("player name is required")
	}

	if c.Player.StartingBalance <= 0 {
		return fmt.Errorf("starting balance must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.UI.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.UI.LogLevel)
	}

	validThemes := map[string]bool{
		"default": true,
		"dark":    true,
		"light":   true,
	}
	if !validThemes[c.UI.Theme] {
		return fmt.Errorf("invalid theme: %s", c.UI.Theme)
	}

	return nil
}

// Encode renders the configuration as HCL
func (c *Config) Encode() []byte {
	f := hclwrite.NewEmptyFile()
	gohcl.EncodeIntoBody(c, f.Body())
	return f.Bytes()
}
