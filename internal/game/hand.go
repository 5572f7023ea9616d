package game

import "github.com/lox/blackjack/internal/deck"

// BlackjackTotal is the best possible hand total
const BlackjackTotal = 21

// Hand is the ordered set of cards held by one participant. The dealer's
// Money is unused.
type Hand struct {
	Name  string
	Money int
	cards []deck.Card
}

// NewHand creates an empty hand
func NewHand(name string, money int) *Hand {
	return &Hand{
		Name:  name,
		Money: money,
		cards: make([]deck.Card, 0, 8),
	}
}

// AddCard appends a card to the hand
func (h *Hand) AddCard(card deck.Card) {
	h.cards = append(h.cards, card)
}

// Cards returns a copy of the cards in the order they were received
func (h *Hand) Cards() []deck.Card {
	out := make([]deck.Card, len(h.cards))
	copy(out, h.cards)
	return out
}

// Len returns the number of cards held
func (h *Hand) Len() int {
	return len(h.cards)
}

// Total returns the blackjack value of the hand. Aces count 11 and are
// demoted to 1, one at a time, while the hand would otherwise bust.
func (h *Hand) Total() int {
	total, _ := score(h.cards)
	return total
}

// IsSoft reports whether at least one Ace is still counted as 11
func (h *Hand) IsSoft() bool {
	_, soft := score(h.cards)
	return soft > 0
}

// IsBust reports whether the hand total exceeds 21
func (h *Hand) IsBust() bool {
	return h.Total() > BlackjackTotal
}

// IsNatural reports whether the hand is a two-card 21
func (h *Hand) IsNatural() bool {
	return len(h.cards) == 2 && h.Total() == BlackjackTotal
}

// ReturnCards moves every card, front to back, into r and empties the hand.
func (h *Hand) ReturnCards(r deck.Receiver) {
	for _, c := range h.cards {
		r.AddCard(c)
	}
	h.cards = h.cards[:0]
}

// Score returns the blackjack total of an arbitrary set of cards
func Score(cards []deck.Card) int {
	total, _ := score(cards)
	return total
}

// score returns the total and the number of Aces still counted high
func score(cards []deck.Card) (int, int) {
	total, aces := 0, 0
	for _, c := range cards {
		total += c.Points()
		if c.IsAce() {
			aces++
		}
	}

	for total > BlackjackTotal && aces > 0 {
		total -= 10
		aces--
	}
	return total, aces
}
