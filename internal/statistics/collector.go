package statistics

import "github.com/lox/blackjack/internal/game"

// Collector builds Statistics from engine events
type Collector struct {
	stats   Statistics
	pending *game.RoundResolvedEvent
}

// NewCollector creates an empty collector
func NewCollector() *Collector {
	return &Collector{}
}

// OnEvent implements game.EventSubscriber. Rounds are counted when they
// are settled.
func (c *Collector) OnEvent(event game.GameEvent) {
	switch e := event.(type) {
	case game.RoundResolvedEvent:
		c.pending = &e
	case game.SettlementEvent:
		result := RoundResult{
			Outcome: e.Outcome,
			Natural: e.Natural,
			Bet:     e.Bet,
			Payout:  e.Payout,
		}
		if c.pending != nil && c.pending.RoundID() == e.RoundID() {
			result.PlayerBust = c.pending.PlayerBust()
			result.DealerBust = c.pending.DealerBust()
		}
		c.pending = nil
		c.stats.Add(result)
	}
}

// Statistics returns the statistics collected so far
func (c *Collector) Statistics() *Statistics {
	return &c.stats
}
