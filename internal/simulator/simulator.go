// Package simulator plays headless blackjack sessions with a fixed strategy
// and aggregates their statistics.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/statistics"
	"golang.org/x/sync/errgroup"
)

// Config holds configuration for running simulations
type Config struct {
	Sessions        int
	Rounds          int // rounds per session
	Bet             int
	StandOn         int // player stands at or above this total
	StartingBalance int
	Seed            int64
	Workers         int
	Logger          *log.Logger
}

// SessionResult summarises one session
type SessionResult struct {
	Session      int
	Seed         int64
	Rounds       int
	FinalBalance int
	Broke        bool
}

// Report holds the outcome of a simulation run
type Report struct {
	Stats    *statistics.Statistics
	Sessions []SessionResult
}

// Simulator runs blackjack simulations
type Simulator struct {
	config Config
	logger *log.Logger
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Sessions == 0 {
		config.Sessions = 1
	}
	if config.Bet == 0 {
		config.Bet = 10
	}
	if config.StandOn == 0 {
		config.StandOn = game.DealerStandTotal
	}
	if config.StartingBalance == 0 {
		config.StartingBalance = game.DefaultStartingBalance
	}
	if config.Workers == 0 {
		config.Workers = runtime.GOMAXPROCS(0)
	}
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	return &Simulator{
		config: config,
		logger: config.Logger.WithPrefix("simulator"),
	}
}

// Validate checks the configuration
func (s *Simulator) Validate() error {
	c := s.config
	if c.Sessions <= 0 {
		return fmt.Errorf("sessions must be positive, got %d", c.Sessions)
	}
	if c.Rounds <= 0 {
		return fmt.Errorf("rounds must be positive, got %d", c.Rounds)
	}
	if c.Bet <= 0 {
		return fmt.Errorf("bet must be positive, got %d", c.Bet)
	}
	if c.StandOn < 12 || c.StandOn > game.BlackjackTotal {
		return fmt.Errorf("stand-on total must be between 12 and %d, got %d", game.BlackjackTotal, c.StandOn)
	}
	if c.StartingBalance < c.Bet {
		return fmt.Errorf("starting balance %d is below the bet %d", c.StartingBalance, c.Bet)
	}
	return nil
}

// Run plays every session and returns the merged statistics. Sessions run
// in parallel, each with its own engine and deck seeded from the base seed,
// so a run is reproducible for a given seed regardless of scheduling.
func (s *Simulator) Run(ctx context.Context) (*Report, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	seed := randutil.Seed(s.config.Seed)
	s.logger.Info("Starting simulation",
		"sessions", s.config.Sessions,
		"rounds", s.config.Rounds,
		"bet", s.config.Bet,
		"stand_on", s.config.StandOn,
		"seed", seed)

	sessionStats := make([]*statistics.Statistics, s.config.Sessions)
	results := make([]SessionResult, s.config.Sessions)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)

	for i := 0; i < s.config.Sessions; i++ {
		sessionSeed := randutil.Derive(seed, i)
		g.Go(func() error {
			stats, result, err := s.playSession(ctx, i, sessionSeed)
			if err != nil {
				return fmt.Errorf("session %d (seed %d): %w", i+1, sessionSeed, err)
			}
			sessionStats[i] = stats
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := &statistics.Statistics{}
	for _, stats := range sessionStats {
		total.Merge(stats)
	}

	if err := total.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	s.logger.Info("Simulation complete", "rounds", total.Rounds, "net", total.Net())
	return &Report{Stats: total, Sessions: results}, nil
}

// playSession plays up to Rounds rounds on a fresh engine, stopping early
// if the player can no longer cover a bet
func (s *Simulator) playSession(ctx context.Context, session int, seed int64) (*statistics.Statistics, SessionResult, error) {
	collector := statistics.NewCollector()
	bus := game.NewEventBus()
	bus.Subscribe(collector)

	round := 0
	engine := game.NewEngine(deck.NewDeck(randutil.New(seed)), bus, s.config.Logger, game.EngineConfig{
		PlayerName:      fmt.Sprintf("sim-%d", session+1),
		StartingBalance: s.config.StartingBalance,
		NewRoundID: func() string {
			round++
			return fmt.Sprintf("s%d-r%d", session+1, round)
		},
	})

	result := SessionResult{Session: session + 1, Seed: seed}
	for result.Rounds < s.config.Rounds {
		if err := ctx.Err(); err != nil {
			return nil, result, err
		}
		if !engine.CanBet() {
			result.Broke = true
			break
		}

		if err := s.playRound(engine); err != nil {
			return nil, result, err
		}
		result.Rounds++
	}

	result.FinalBalance = engine.Balance()
	s.logger.Debug("Session finished",
		"session", result.Session,
		"rounds", result.Rounds,
		"balance", result.FinalBalance,
		"broke", result.Broke)

	return collector.Statistics(), result, nil
}

// playRound bets, hits below the stand-on total, stands and settles
func (s *Simulator) playRound(engine *game.Engine) error {
	bet := min(s.config.Bet, engine.Balance())
	if err := engine.PlaceBet(bet); err != nil {
		return err
	}

	for engine.State() == game.PlayerTurn && engine.PlayerTotal() < s.config.StandOn {
		if _, err := engine.Hit(); err != nil {
			return err
		}
	}

	if engine.State() == game.PlayerTurn {
		if _, err := engine.Stand(); err != nil {
			return err
		}
	}

	if engine.State() != game.Resolved {
		return errors.New("round did not resolve")
	}

	_, err := engine.PlayAgain()
	return err
}

// RunSimulation is a convenience wrapper that builds and runs a simulator
func RunSimulation(ctx context.Context, sessions, rounds, bet int, seed int64, logger *log.Logger) (*Report, error) {
	return New(Config{
		Sessions: sessions,
		Rounds:   rounds,
		Bet:      bet,
		Seed:     seed,
		Logger:   logger,
	}).Run(ctx)
}
