package game

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/roundid"
)

// DealerStandTotal is the total at which the dealer stops drawing, soft or hard
const DealerStandTotal = 17

// DefaultStartingBalance is the player's balance at the start of a session
const DefaultStartingBalance = 100

var (
	// ErrInvalidBet is returned for a non-numeric, non-positive or
	// over-balance bet. The engine state is unchanged.
	ErrInvalidBet = errors.New("invalid bet")

	// ErrWrongState is returned when an intent is not accepted in the
	// current state. The engine state is unchanged.
	ErrWrongState = errors.New("action not allowed in current state")
)

// EngineConfig holds engine settings
type EngineConfig struct {
	PlayerName      string
	StartingBalance int
	Clock           quartz.Clock
	NewRoundID      func() string
}

// HitResult is returned from Engine.Hit
type HitResult struct {
	Card  deck.Card
	Total int
	Bust  bool
}

// StandResult is returned from Engine.Stand
type StandResult struct {
	Outcome     Outcome
	DealerCards []deck.Card
	DealerTotal int
}

// Settlement is returned from Engine.PlayAgain
type Settlement struct {
	Payout  int
	Balance int
}

// Engine runs rounds of blackjack between one player and the dealer. It is
// not safe for concurrent use; a single caller owns it for its lifetime.
type Engine struct {
	deck   *deck.Deck
	player *Hand
	dealer *Hand

	state     State
	outcome   Outcome
	natural   bool
	bet       int
	round     int
	roundID   string
	startedAt time.Time

	logger     *log.Logger
	eventBus   EventBus
	clock      quartz.Clock
	newRoundID func() string
}

// NewEngine creates an engine that plays from d. The deck must be full.
func NewEngine(d *deck.Deck, eventBus EventBus, logger *log.Logger, config EngineConfig) *Engine {
	if config.PlayerName == "" {
		config.PlayerName = "Player"
	}
	if config.StartingBalance == 0 {
		config.StartingBalance = DefaultStartingBalance
	}
	if config.Clock == nil {
		config.Clock = quartz.NewReal()
	}
	if config.NewRoundID == nil {
		config.NewRoundID = roundid.Generate
	}
	if eventBus == nil {
		eventBus = NewEventBus()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Engine{
		deck:       d,
		player:     NewHand(config.PlayerName, config.StartingBalance),
		dealer:     NewHand("Dealer", 0),
		state:      AwaitingBet,
		logger:     logger.WithPrefix("engine"),
		eventBus:   eventBus,
		clock:      config.Clock,
		newRoundID: config.NewRoundID,
	}
}

// EventBus returns the bus the engine publishes round events on
func (e *Engine) EventBus() EventBus {
	return e.eventBus
}

// PlaceBetInput parses raw user input as a bet and places it. Unparseable
// input is rejected with ErrInvalidBet.
func (e *Engine) PlaceBetInput(input string) error {
	amount, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return fmt.Errorf("%w: %q is not a number", ErrInvalidBet, input)
	}
	return e.PlaceBet(amount)
}

// PlaceBet deducts amount from the player's balance, shuffles, deals and
// settles naturals. It returns ErrInvalidBet without changing state if
// amount is not in (0, balance].
func (e *Engine) PlaceBet(amount int) error {
	if e.state != AwaitingBet {
		return fmt.Errorf("place bet during %s: %w", e.state, ErrWrongState)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: must be positive, got %d", ErrInvalidBet, amount)
	}
	if amount > e.player.Money {
		return fmt.Errorf("%w: %d exceeds balance %d", ErrInvalidBet, amount, e.player.Money)
	}

	e.player.Money -= amount
	e.bet = amount
	e.round++
	e.roundID = e.newRoundID()
	e.startedAt = e.clock.Now()
	e.state = Dealt

	e.logger.Debug("Bet placed", "round", e.round, "id", e.roundID, "bet", amount, "balance", e.player.Money)
	e.eventBus.Publish(NewBetPlacedEvent(e.roundID, e.startedAt, e.round, e.player.Name, amount, e.player.Money))

	e.deck.Shuffle()
	if err := e.deck.Deal(e.player, e.dealer); err != nil {
		e.logger.Error("Failed to deal", "error", err, "remaining", e.deck.CardsRemaining())
		return fmt.Errorf("deal: %w", err)
	}

	e.eventBus.Publish(NewCardsDealtEvent(e.roundID, e.clock.Now(), e.player.Cards(), e.dealer.Cards(), e.player.Total()))
	e.checkNaturals()
	return nil
}

func (e *Engine) checkNaturals() {
	playerNatural := e.player.Total() == BlackjackTotal
	dealerNatural := e.dealer.Total() == BlackjackTotal

	switch {
	case playerNatural && dealerNatural:
		e.resolve(Draw, false)
	case playerNatural:
		e.resolve(Win, true)
	case dealerNatural:
		e.resolve(Lose, false)
	default:
		e.state = PlayerTurn
	}
}

// Hit draws a card for the player. A total over 21 loses the round.
func (e *Engine) Hit() (HitResult, error) {
	if e.state != PlayerTurn {
		return HitResult{}, fmt.Errorf("hit during %s: %w", e.state, ErrWrongState)
	}

	card, err := e.deck.Draw()
	if err != nil {
		e.logger.Error("Failed to draw for player", "error", err)
		return HitResult{}, fmt.Errorf("player draw: %w", err)
	}
	e.player.AddCard(card)
	total := e.player.Total()

	e.logger.Debug("Player hits", "card", card, "total", total)
	e.eventBus.Publish(NewPlayerActionEvent(e.roundID, e.clock.Now(), Hit, &card, total))

	bust := total > BlackjackTotal
	if bust {
		e.resolve(Lose, false)
	}
	return HitResult{Card: card, Total: total, Bust: bust}, nil
}

// Stand ends the player's turn, plays the dealer's hand and resolves the
// round.
func (e *Engine) Stand() (StandResult, error) {
	if e.state != PlayerTurn {
		return StandResult{}, fmt.Errorf("stand during %s: %w", e.state, ErrWrongState)
	}

	e.logger.Debug("Player stands", "total", e.player.Total())
	e.eventBus.Publish(NewPlayerActionEvent(e.roundID, e.clock.Now(), Stand, nil, e.player.Total()))
	e.state = DealerTurn

	// Every draw adds at least one point, so the loop ends within a few cards.
	for e.dealer.Total() < DealerStandTotal {
		card, err := e.deck.Draw()
		if err != nil {
			e.logger.Error("Failed to draw for dealer", "error", err)
			return StandResult{}, fmt.Errorf("dealer draw: %w", err)
		}
		e.dealer.AddCard(card)
		e.logger.Debug("Dealer draws", "card", card, "total", e.dealer.Total())
		e.eventBus.Publish(NewDealerDrawEvent(e.roundID, e.clock.Now(), card, e.dealer.Total()))
	}

	player, dealer := e.player.Total(), e.dealer.Total()
	switch {
	case dealer > BlackjackTotal:
		e.resolve(Win, false)
	case player > dealer:
		e.resolve(Win, false)
	case dealer > player:
		e.resolve(Lose, false)
	default:
		e.resolve(Draw, false)
	}

	return StandResult{
		Outcome:     e.outcome,
		DealerCards: e.dealer.Cards(),
		DealerTotal: dealer,
	}, nil
}

func (e *Engine) resolve(outcome Outcome, natural bool) {
	e.outcome = outcome
	e.natural = natural
	e.state = Resolved

	e.logger.Debug("Round resolved",
		"round", e.round,
		"outcome", outcome,
		"natural", natural,
		"player", e.player.Total(),
		"dealer", e.dealer.Total())

	e.eventBus.Publish(RoundResolvedEvent{
		eventHeader: eventHeader{roundID: e.roundID, timestamp: e.clock.Now()},
		Outcome:     outcome,
		Natural:     natural,
		Bet:         e.bet,
		PlayerCards: e.player.Cards(),
		DealerCards: e.dealer.Cards(),
		PlayerTotal: e.player.Total(),
		DealerTotal: e.dealer.Total(),
	})
}

// PlayAgain pays out the resolved round, returns both hands to the deck and
// waits for the next bet.
func (e *Engine) PlayAgain() (Settlement, error) {
	if e.state != Resolved {
		return Settlement{}, fmt.Errorf("play again during %s: %w", e.state, ErrWrongState)
	}

	payout := Payout(e.outcome, e.natural, e.bet)
	e.player.Money += payout

	now := e.clock.Now()
	e.logger.Info("Round settled",
		"round", e.round,
		"outcome", e.outcome,
		"bet", e.bet,
		"payout", payout,
		"balance", e.player.Money)

	e.eventBus.Publish(SettlementEvent{
		eventHeader: eventHeader{roundID: e.roundID, timestamp: now},
		Outcome:     e.outcome,
		Natural:     e.natural,
		Bet:         e.bet,
		Payout:      payout,
		Balance:     e.player.Money,
		Duration:    now.Sub(e.startedAt),
	})

	e.player.ReturnCards(e.deck)
	e.dealer.ReturnCards(e.deck)
	e.bet = 0
	e.outcome = NoOutcome
	e.natural = false
	e.roundID = ""
	e.state = AwaitingBet

	return Settlement{Payout: payout, Balance: e.player.Money}, nil
}

// State returns the current round phase
func (e *Engine) State() State { return e.state }

// Outcome returns the round outcome, or NoOutcome before the round resolves
func (e *Engine) Outcome() Outcome { return e.outcome }

// Natural reports whether the resolved round was won with a two-card 21
func (e *Engine) Natural() bool { return e.natural }

// IsPlaying reports whether a round is in progress and unresolved
func (e *Engine) IsPlaying() bool {
	return e.state == Dealt || e.state == PlayerTurn || e.state == DealerTurn
}

// DealerHoleHidden reports whether the dealer's first card should be drawn
// face down
func (e *Engine) DealerHoleHidden() bool { return e.state == PlayerTurn }

// CanBet reports whether a new bet may be placed
func (e *Engine) CanBet() bool { return e.state == AwaitingBet && e.player.Money > 0 }

// PlayerHand returns the player's cards
func (e *Engine) PlayerHand() []deck.Card { return e.player.Cards() }

// DealerHand returns the dealer's cards, hole card first
func (e *Engine) DealerHand() []deck.Card { return e.dealer.Cards() }

// PlayerTotal returns the player's current hand total
func (e *Engine) PlayerTotal() int { return e.player.Total() }

// DealerTotal returns the dealer's current hand total
func (e *Engine) DealerTotal() int { return e.dealer.Total() }

// PlayerName returns the player's display name
func (e *Engine) PlayerName() string { return e.player.Name }

// Balance returns the player's balance, excluding any bet in play
func (e *Engine) Balance() int { return e.player.Money }

// Bet returns the stake of the current round, or 0 between rounds
func (e *Engine) Bet() int { return e.bet }

// Round returns the number of rounds started
func (e *Engine) Round() int { return e.round }

// RoundID returns the ID of the current round, or "" between rounds
func (e *Engine) RoundID() string { return e.roundID }

// CardsInPlay returns the number of cards in the deck and both hands, which
// is always deck.Size
func (e *Engine) CardsInPlay() int {
	return e.deck.CardsRemaining() + e.player.Len() + e.dealer.Len()
}
