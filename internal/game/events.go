package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/lox/blackjack/internal/deck"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for round events
const (
	EventTypeBetPlaced     EventType = "bet_placed"
	EventTypeCardsDealt    EventType = "cards_dealt"
	EventTypePlayerAction  EventType = "player_action"
	EventTypeDealerDraw    EventType = "dealer_draw"
	EventTypeRoundResolved EventType = "round_resolved"
	EventTypeSettlement    EventType = "settlement"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents anything that happens during a round
type GameEvent interface {
	EventType() EventType
	RoundID() string
	Timestamp() time.Time
}

type eventHeader struct {
	roundID   string
	timestamp time.Time
}

func (h eventHeader) RoundID() string      { return h.roundID }
func (h eventHeader) Timestamp() time.Time { return h.timestamp }

// BetPlacedEvent is published when a bet is accepted and a round begins
type BetPlacedEvent struct {
	eventHeader
	Round        int
	Player       string
	Amount       int
	BalanceAfter int
}

func (e BetPlacedEvent) EventType() EventType { return EventTypeBetPlaced }

// NewBetPlacedEvent creates a new bet placed event
func NewBetPlacedEvent(roundID string, at time.Time, round int, player string, amount, balanceAfter int) BetPlacedEvent {
	return BetPlacedEvent{
		eventHeader:  eventHeader{roundID: roundID, timestamp: at},
		Round:        round,
		Player:       player,
		Amount:       amount,
		BalanceAfter: balanceAfter,
	}
}

// CardsDealtEvent is published after the initial two cards each
type CardsDealtEvent struct {
	eventHeader
	PlayerCards []deck.Card
	DealerCards []deck.Card
	PlayerTotal int
}

func (e CardsDealtEvent) EventType() EventType { return EventTypeCardsDealt }

// NewCardsDealtEvent creates a new cards dealt event
func NewCardsDealtEvent(roundID string, at time.Time, playerCards, dealerCards []deck.Card, playerTotal int) CardsDealtEvent {
	return CardsDealtEvent{
		eventHeader: eventHeader{roundID: roundID, timestamp: at},
		PlayerCards: playerCards,
		DealerCards: dealerCards,
		PlayerTotal: playerTotal,
	}
}

// PlayerActionEvent is published when the player hits or stands
type PlayerActionEvent struct {
	eventHeader
	Action Action
	Card   *deck.Card // drawn card, hits only
	Total  int
}

func (e PlayerActionEvent) EventType() EventType { return EventTypePlayerAction }

// NewPlayerActionEvent creates a new player action event
func NewPlayerActionEvent(roundID string, at time.Time, action Action, card *deck.Card, total int) PlayerActionEvent {
	return PlayerActionEvent{
		eventHeader: eventHeader{roundID: roundID, timestamp: at},
		Action:      action,
		Card:        card,
		Total:       total,
	}
}

// DealerDrawEvent is published for each card the dealer draws on their turn
type DealerDrawEvent struct {
	eventHeader
	Card  deck.Card
	Total int
}

func (e DealerDrawEvent) EventType() EventType { return EventTypeDealerDraw }

// NewDealerDrawEvent creates a new dealer draw event
func NewDealerDrawEvent(roundID string, at time.Time, card deck.Card, total int) DealerDrawEvent {
	return DealerDrawEvent{
		eventHeader: eventHeader{roundID: roundID, timestamp: at},
		Card:        card,
		Total:       total,
	}
}

// RoundResolvedEvent is published when the outcome of a round is known
type RoundResolvedEvent struct {
	eventHeader
	Outcome     Outcome
	Natural     bool
	Bet         int
	PlayerCards []deck.Card
	DealerCards []deck.Card
	PlayerTotal int
	DealerTotal int
}

func (e RoundResolvedEvent) EventType() EventType { return EventTypeRoundResolved }

// PlayerBust reports whether the player lost by exceeding 21
func (e RoundResolvedEvent) PlayerBust() bool { return e.PlayerTotal > BlackjackTotal }

// DealerBust reports whether the dealer exceeded 21
func (e RoundResolvedEvent) DealerBust() bool { return e.DealerTotal > BlackjackTotal }

// SettlementEvent is published when a resolved round is paid out
type SettlementEvent struct {
	eventHeader
	Outcome  Outcome
	Natural  bool
	Bet      int
	Payout   int
	Balance  int
	Duration time.Duration
}

func (e SettlementEvent) EventType() EventType { return EventTypeSettlement }

// Net returns the player's profit or loss for the round
func (e SettlementEvent) Net() int { return e.Payout - e.Bet }

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventSubscriberFunc adapts a function to EventSubscriber
type EventSubscriberFunc func(event GameEvent)

// OnEvent calls f(event)
func (f EventSubscriberFunc) OnEvent(event GameEvent) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus delivers events synchronously, in subscription order
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() *SimpleEventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}

// FormattingOptions controls how events are rendered
type FormattingOptions struct {
	PlayerName string // defaults to "You"
	DealerName string // defaults to "Dealer"
}

// EventFormatter renders events as single log lines. The dealer's hole card
// is never shown before the round resolves.
type EventFormatter struct {
	opts FormattingOptions
}

// NewEventFormatter creates a new event formatter with the given options
func NewEventFormatter(opts FormattingOptions) *EventFormatter {
	if opts.PlayerName == "" {
		opts.PlayerName = "You"
	}
	if opts.DealerName == "" {
		opts.DealerName = "Dealer"
	}
	return &EventFormatter{opts: opts}
}

// Format renders any known event, or "" for unknown ones
func (ef *EventFormatter) Format(event GameEvent) string {
	switch e := event.(type) {
	case BetPlacedEvent:
		return fmt.Sprintf("*** ROUND %d *** %s bet $%d (balance $%d)", e.Round, ef.opts.PlayerName, e.Amount, e.BalanceAfter)
	case CardsDealtEvent:
		up := "?"
		if len(e.DealerCards) > 1 {
			up = e.DealerCards[1].String()
		}
		return fmt.Sprintf("%s: %s (%d) | %s: [??] %s",
			ef.opts.PlayerName, FormatCards(e.PlayerCards), e.PlayerTotal, ef.opts.DealerName, up)
	case PlayerActionEvent:
		if e.Action == Hit && e.Card != nil {
			return fmt.Sprintf("%s: hits, draws %s (%d)", ef.opts.PlayerName, e.Card, e.Total)
		}
		return fmt.Sprintf("%s: stands on %d", ef.opts.PlayerName, e.Total)
	case DealerDrawEvent:
		return fmt.Sprintf("%s: draws %s (%d)", ef.opts.DealerName, e.Card, e.Total)
	case RoundResolvedEvent:
		return ef.formatResolved(e)
	case SettlementEvent:
		return fmt.Sprintf("Paid $%d on $%d bet, balance $%d", e.Payout, e.Bet, e.Balance)
	default:
		return ""
	}
}

func (ef *EventFormatter) formatResolved(e RoundResolvedEvent) string {
	var reason string
	switch {
	case e.Natural:
		reason = "blackjack"
	case e.PlayerBust():
		reason = fmt.Sprintf("%s bust", strings.ToLower(ef.opts.PlayerName))
	case e.DealerBust():
		reason = fmt.Sprintf("%s bust", strings.ToLower(ef.opts.DealerName))
	case e.PlayerTotal == BlackjackTotal && len(e.PlayerCards) == 2:
		reason = "both blackjack"
	case e.DealerTotal == BlackjackTotal && len(e.DealerCards) == 2:
		reason = "dealer blackjack"
	default:
		reason = fmt.Sprintf("%d vs %d", e.PlayerTotal, e.DealerTotal)
	}
	return fmt.Sprintf("%s (%s) %s: %s (%d)",
		e.Outcome.Message(), reason, ef.opts.DealerName, FormatCards(e.DealerCards), e.DealerTotal)
}

// FormatCards renders cards as "[A♠ K♥]"
func FormatCards(cards []deck.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}
