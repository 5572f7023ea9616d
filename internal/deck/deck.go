package deck

import "errors"

// Size is the number of cards in a standard deck
const Size = 52

// ErrEmptyDeck is returned when drawing from a deck with no cards left
var ErrEmptyDeck = errors.New("deck is empty")

// Shuffler permutes n elements using swap. *rand.Rand from math/rand/v2
// satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// NopShuffler leaves the deck order untouched, for replaying stacked decks.
type NopShuffler struct{}

// Shuffle does nothing
func (NopShuffler) Shuffle(int, func(i, j int)) {}

// Receiver accepts dealt cards
type Receiver interface {
	AddCard(card Card)
}

// Deck represents a deck of playing cards. The front of the deck is index 0.
type Deck struct {
	cards []Card
	rng   Shuffler
}

// NewDeck creates a standard 52-card deck in suit-major order. The deck is
// not shuffled until Shuffle is called.
func NewDeck(rng Shuffler) *Deck {
	d := &Deck{
		cards: make([]Card, 0, Size),
		rng:   rng,
	}

	for _, suit := range Suits {
		for rank := Ace; rank <= King; rank++ {
			d.cards = append(d.cards, NewCard(suit, rank))
		}
	}

	return d
}

// NewStackedDeck creates a full deck with the given cards on top, in order,
// followed by the remaining cards in suit-major order. Duplicate top cards
// are ignored after their first appearance.
func NewStackedDeck(rng Shuffler, top ...Card) *Deck {
	d := &Deck{
		cards: make([]Card, 0, Size),
		rng:   rng,
	}

	seen := make(map[Card]bool, Size)
	for _, c := range top {
		if seen[c] {
			continue
		}
		seen[c] = true
		d.cards = append(d.cards, c)
	}

	for _, suit := range Suits {
		for rank := Ace; rank <= King; rank++ {
			c := NewCard(suit, rank)
			if !seen[c] {
				d.cards = append(d.cards, c)
			}
		}
	}

	return d
}

// Shuffle randomizes the order of cards in the deck
func (d *Deck) Shuffle() {
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw removes and returns the front card of the deck
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrEmptyDeck
	}

	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, nil
}

// AddCard appends a card to the back of the deck
func (d *Deck) AddCard(card Card) {
	d.cards = append(d.cards, card)
}

// Deal draws four cards, alternating between a and b starting with a.
func (d *Deck) Deal(a, b Receiver) error {
	for range 2 {
		for _, r := range []Receiver{a, b} {
			card, err := d.Draw()
			if err != nil {
				return err
			}
			r.AddCard(card)
		}
	}
	return nil
}

// CardsRemaining returns the number of cards left in the deck
func (d *Deck) CardsRemaining() int {
	return len(d.cards)
}

// IsEmpty returns true if the deck has no cards left
func (d *Deck) IsEmpty() bool {
	return len(d.cards) == 0
}

// Cards returns a copy of the cards in deck order
func (d *Deck) Cards() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}

// Peek returns the front card without removing it from the deck
func (d *Deck) Peek() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	return d.cards[0], true
}
