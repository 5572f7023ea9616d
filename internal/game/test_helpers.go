package game

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/randutil"
)

// TestEngineOption configures test engine creation
type TestEngineOption func(*testEngineBuilder)

type testEngineBuilder struct {
	seed     int64
	stacked  []deck.Card
	config   EngineConfig
	eventBus EventBus
}

// WithSeed shuffles with a seeded RNG instead of a stacked deck
func WithSeed(seed int64) TestEngineOption {
	return func(b *testEngineBuilder) { b.seed = seed }
}

// WithCards stacks the deck so the given cards are dealt first, in order.
// The initial deal goes player, dealer, player, dealer. Shuffling is disabled.
func WithCards(cards string) TestEngineOption {
	return func(b *testEngineBuilder) { b.stacked = deck.MustParseCards(cards) }
}

// WithBalance sets the starting balance
func WithBalance(balance int) TestEngineOption {
	return func(b *testEngineBuilder) { b.config.StartingBalance = balance }
}

// WithClock sets the engine clock
func WithClock(clock quartz.Clock) TestEngineOption {
	return func(b *testEngineBuilder) { b.config.Clock = clock }
}

// WithEventBus sets the engine event bus
func WithEventBus(eventBus EventBus) TestEngineOption {
	return func(b *testEngineBuilder) { b.eventBus = eventBus }
}

// NewTestEngine creates an engine for tests with sequential round IDs and a
// discarded log
func NewTestEngine(opts ...TestEngineOption) *Engine {
	n := 0
	builder := &testEngineBuilder{
		seed: 42,
		config: EngineConfig{
			PlayerName: "Player",
			NewRoundID: func() string {
				n++
				return fmt.Sprintf("round-%d", n)
			},
		},
		eventBus: NewEventBus(),
	}

	for _, opt := range opts {
		opt(builder)
	}

	var d *deck.Deck
	if builder.stacked != nil {
		d = deck.NewStackedDeck(deck.NopShuffler{}, builder.stacked...)
	} else {
		d = deck.NewDeck(randutil.New(builder.seed))
	}

	return NewEngine(d, builder.eventBus, log.New(io.Discard), builder.config)
}
