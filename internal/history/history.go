// Package history records played rounds and exports them as a plain-text
// hand history.
package history

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/fileutil"
	"github.com/lox/blackjack/internal/game"
)

// RoundRecord is everything that happened in one round
type RoundRecord struct {
	ID        string
	Number    int
	StartedAt time.Time
	Bet       int

	Actions []string

	PlayerCards []deck.Card
	DealerCards []deck.Card
	PlayerTotal int
	DealerTotal int
	Outcome     game.Outcome
	Natural     bool

	Settled  bool
	Payout   int
	Balance  int
	Duration time.Duration
}

// Recorder subscribes to engine events and keeps a record per round
type Recorder struct {
	player  string
	rounds  []RoundRecord
	current *RoundRecord
}

// NewRecorder creates a recorder; player names the player in the export
func NewRecorder(player string) *Recorder {
	return &Recorder{player: player}
}

// OnEvent implements game.EventSubscriber
func (r *Recorder) OnEvent(event game.GameEvent) {
	switch e := event.(type) {
	case game.BetPlacedEvent:
		r.current = &RoundRecord{
			ID:        e.RoundID(),
			Number:    e.Round,
			StartedAt: e.Timestamp(),
			Bet:       e.Amount,
		}
		return
	}

	if r.current == nil || r.current.ID != event.RoundID() {
		return
	}

	switch e := event.(type) {
	case game.CardsDealtEvent:
		r.current.PlayerCards = e.PlayerCards
		r.current.DealerCards = e.DealerCards
	case game.PlayerActionEvent:
		if e.Action == game.Hit && e.Card != nil {
			r.current.Actions = append(r.current.Actions, fmt.Sprintf("hit %s", e.Card))
		} else {
			r.current.Actions = append(r.current.Actions, "stand")
		}
	case game.DealerDrawEvent:
		r.current.Actions = append(r.current.Actions, fmt.Sprintf("dealer draws %s", e.Card))
	case game.RoundResolvedEvent:
		r.current.PlayerCards = e.PlayerCards
		r.current.DealerCards = e.DealerCards
		r.current.PlayerTotal = e.PlayerTotal
		r.current.DealerTotal = e.DealerTotal
		r.current.Outcome = e.Outcome
		r.current.Natural = e.Natural
	case game.SettlementEvent:
		r.current.Settled = true
		r.current.Payout = e.Payout
		r.current.Balance = e.Balance
		r.current.Duration = e.Duration
		r.rounds = append(r.rounds, *r.current)
		r.current = nil
	}
}

// Rounds returns the settled rounds in play order
func (r *Recorder) Rounds() []RoundRecord {
	out := make([]RoundRecord, len(r.rounds))
	copy(out, r.rounds)
	return out
}

// WriteText writes every settled round, followed by the round in progress
// if there is one
func (r *Recorder) WriteText(w io.Writer) error {
	records := r.Rounds()
	if r.current != nil {
		records = append(records, *r.current)
	}

	for i, rec := range records {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, r.format(rec)); err != nil {
			return err
		}
	}
	return nil
}

// Save writes the history to filename atomically
func (r *Recorder) Save(filename string) error {
	if err := fileutil.WriteAtomic(filename, 0644, r.WriteText); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

func (r *Recorder) format(rec RoundRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Round #%d (%s) %s\n", rec.Number, rec.ID, rec.StartedAt.UTC().Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "  Bet: $%d\n", rec.Bet)
	fmt.Fprintf(&b, "  %s: %s (%d)\n", r.player, game.FormatCards(rec.PlayerCards), game.Score(rec.PlayerCards))
	fmt.Fprintf(&b, "  Dealer: %s (%d)\n", game.FormatCards(rec.DealerCards), game.Score(rec.DealerCards))
	if len(rec.Actions) > 0 {
		fmt.Fprintf(&b, "  Actions: %s\n", strings.Join(rec.Actions, ", "))
	}

	if !rec.Settled {
		b.WriteString("  Result: abandoned\n")
		return b.String()
	}

	result := rec.Outcome.String()
	if rec.Natural {
		result += " (blackjack)"
	}
	fmt.Fprintf(&b, "  Result: %s, paid $%d, balance $%d (%s)\n", result, rec.Payout, rec.Balance, rec.Duration)
	return b.String()
}
