package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lox/blackjack/cmd/blackjack/shared"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/history"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/statistics"
	"github.com/lox/blackjack/internal/tui"
)

var titleStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4")).
	Padding(0, 1).
	Bold(true)

// PlayCmd runs the interactive game
type PlayCmd struct {
	LogLevel    string `help:"Log level (overrides config)"`
	LogFile     string `help:"Log file path (overrides config)"`
	HistoryFile string `help:"Write a plain-text history of every round to this file on exit"`
	Theme       string `help:"Colour theme: default, dark or light (overrides config)"`
	NoColor     bool   `help:"Disable colours"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.LoadConfig()
	if err != nil {
		return err
	}
	if c.LogLevel != "" {
		cfg.UI.LogLevel = c.LogLevel
	}
	if c.LogFile != "" {
		cfg.UI.LogFile = c.LogFile
	}
	if c.HistoryFile != "" {
		cfg.UI.HistoryFile = c.HistoryFile
	}
	if c.Theme != "" {
		cfg.UI.Theme = c.Theme
	}
	if c.NoColor {
		cfg.UI.NoColor = true
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// The terminal belongs to the TUI, so logs go to a file
	logFile, err := os.OpenFile(cfg.UI.LogFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o666)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = logFile.Close() }()

	logger, err := shared.SetupLogger(logFile, cfg.UI.LogLevel)
	if err != nil {
		return err
	}

	seed := randutil.Seed(cfg.Game.Seed)
	logger.Info("Starting blackjack",
		"player", cfg.Player.Name,
		"balance", cfg.Player.StartingBalance,
		"seed", seed,
		"config", g.ConfigFile)

	bus := game.NewEventBus()
	collector := statistics.NewCollector()
	recorder := history.NewRecorder(cfg.Player.Name)
	bus.Subscribe(collector)
	bus.Subscribe(recorder)

	engine := game.NewEngine(deck.NewDeck(randutil.New(seed)), bus, logger, game.EngineConfig{
		PlayerName:      cfg.Player.Name,
		StartingBalance: cfg.Player.StartingBalance,
	})

	model := tui.NewTUIModel(engine, logger, tui.Options{
		Theme:   cfg.UI.Theme,
		NoColor: cfg.UI.NoColor,
		Stats:   collector,
	})

	ctx, cancel := shared.SetupSignalHandler(logger)
	defer cancel()

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, runErr := program.Run()
	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return fmt.Errorf("error running TUI: %w", runErr)
	}

	if cfg.UI.HistoryFile != "" {
		if err := recorder.Save(cfg.UI.HistoryFile); err != nil {
			logger.Error("Failed to save history", "file", cfg.UI.HistoryFile, "error", err)
			return err
		}
		logger.Info("Saved history", "file", cfg.UI.HistoryFile, "rounds", len(recorder.Rounds()))
	}

	if err := model.Err(); err != nil {
		return fmt.Errorf("game aborted: %w", err)
	}

	stats := collector.Statistics()
	fmt.Println(titleStyle.Render(" ♠ ♥ Blackjack ♦ ♣ "))
	fmt.Printf("%s finished with $%d after %d rounds (%d won, %d lost, %d drawn)\n",
		cfg.Player.Name, engine.Balance(), stats.Rounds, stats.Wins, stats.Losses, stats.Draws)
	return nil
}
