package simulator

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppliesDefaults(t *testing.T) {
	sim := New(Config{Rounds: 5})

	assert.Equal(t, 1, sim.config.Sessions)
	assert.Equal(t, 10, sim.config.Bet)
	assert.Equal(t, game.DealerStandTotal, sim.config.StandOn)
	assert.Equal(t, game.DefaultStartingBalance, sim.config.StartingBalance)
	assert.Positive(t, sim.config.Workers)
	assert.NotNil(t, sim.config.Logger)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{"valid", Config{Rounds: 10}, ""},
		{"no rounds", Config{}, "rounds must be positive, got 0"},
		{"negative sessions", Config{Sessions: -1, Rounds: 1}, "sessions must be positive, got -1"},
		{"negative bet", Config{Rounds: 1, Bet: -5}, "bet must be positive, got -5"},
		{"stand too low", Config{Rounds: 1, StandOn: 11}, "stand-on total must be between 12 and 21, got 11"},
		{"stand too high", Config{Rounds: 1, StandOn: 22}, "stand-on total must be between 12 and 21, got 22"},
		{"bet over balance", Config{Rounds: 1, Bet: 200}, "starting balance 100 is below the bet 200"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.config).Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestRunPlaysEveryRound(t *testing.T) {
	sim := New(Config{
		Sessions:        4,
		Rounds:          50,
		Bet:             10,
		StartingBalance: 100_000,
		Seed:            12345,
		Logger:          log.New(io.Discard),
	})

	report, err := sim.Run(context.Background())
	require.NoError(t, err)

	stats := report.Stats
	assert.Equal(t, 200, stats.Rounds)
	assert.Equal(t, 2000, stats.TotalWagered)
	assert.Equal(t, stats.Rounds, stats.Wins+stats.Losses+stats.Draws)
	require.NoError(t, stats.Validate())

	require.Len(t, report.Sessions, 4)
	for i, session := range report.Sessions {
		assert.Equal(t, i+1, session.Session)
		assert.Equal(t, 50, session.Rounds)
		assert.False(t, session.Broke)
	}
}

func TestRunIsDeterministicForSeed(t *testing.T) {
	config := Config{Sessions: 3, Rounds: 40, Seed: 99, StartingBalance: 10_000, Workers: 3}

	first, err := New(config).Run(context.Background())
	require.NoError(t, err)

	config.Workers = 1
	second, err := New(config).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Sessions, second.Sessions)
	assert.Equal(t, first.Stats.Net(), second.Stats.Net())
	assert.Equal(t, first.Stats.Wins, second.Stats.Wins)
	assert.Equal(t, first.Stats.Values, second.Stats.Values)
}

func TestRunBalancesReconcile(t *testing.T) {
	const (
		sessions = 5
		start    = 30
	)
	report, err := New(Config{
		Sessions:        sessions,
		Rounds:          200,
		Bet:             10,
		StartingBalance: start,
		Seed:            7,
	}).Run(context.Background())
	require.NoError(t, err)

	rounds := 0
	balances := 0
	for _, session := range report.Sessions {
		rounds += session.Rounds
		balances += session.FinalBalance
		if session.Broke {
			assert.Zero(t, session.FinalBalance)
			assert.Less(t, session.Rounds, 200)
		} else {
			assert.Equal(t, 200, session.Rounds)
		}
	}

	assert.Equal(t, report.Stats.Rounds, rounds)
	assert.Equal(t, sessions*start+report.Stats.Net(), balances)
}

func TestRunStandOnChangesBusts(t *testing.T) {
	cautious, err := New(Config{Sessions: 2, Rounds: 300, StandOn: 12, StartingBalance: 100_000, Seed: 3}).Run(context.Background())
	require.NoError(t, err)

	greedy, err := New(Config{Sessions: 2, Rounds: 300, StandOn: 21, StartingBalance: 100_000, Seed: 3}).Run(context.Background())
	require.NoError(t, err)

	// Standing on 12 can never bust: the first hit only happens below 12.
	assert.Zero(t, cautious.Stats.PlayerBusts)
	assert.Greater(t, greedy.Stats.PlayerBusts, 0)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Config{Sessions: 2, Rounds: 10}).Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunSimulation(t *testing.T) {
	report, err := RunSimulation(context.Background(), 2, 5, 5, 42, nil)
	require.NoError(t, err)
	assert.Equal(t, 10, report.Stats.Rounds)
	assert.Equal(t, 50, report.Stats.TotalWagered)
}
