// Package game implements the rules of single-player blackjack against a
// dealer.
//
// The main type is Engine, which owns the deck and both hands and moves a
// round through its phases:
//
//	AwaitingBet -> Dealt -> PlayerTurn -> DealerTurn -> Resolved -> AwaitingBet
//
// Dealt is transient: naturals are settled as soon as the cards are dealt,
// so PlaceBet leaves the engine in either PlayerTurn or Resolved.
//
// # Basic Usage
//
//	e := game.NewEngine(deck.NewDeck(randutil.New(42)), nil, logger, game.EngineConfig{})
//	if err := e.PlaceBet(10); errors.Is(err, game.ErrInvalidBet) {
//	    // ask again
//	}
//	for e.State() == game.PlayerTurn && e.PlayerTotal() < 17 {
//	    e.Hit()
//	}
//	if e.State() == game.PlayerTurn {
//	    e.Stand()
//	}
//	settlement, _ := e.PlayAgain()
//
// # Events
//
// Every transition is published on the engine's EventBus, timestamped with
// the configured quartz.Clock. The TUI log, round history and session
// statistics are all subscribers.
//
// # Deterministic Testing
//
// Pass a deck built with deck.NewStackedDeck and deck.NopShuffler to control
// exactly which cards are dealt; see NewTestEngine.
package game
