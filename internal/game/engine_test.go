package game

import (
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/lox/blackjack/internal/deck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Stacked decks deal player, dealer, player, dealer, then hits in order.

func assertCardsConserved(t *testing.T, e *Engine) {
	t.Helper()
	require.Equal(t, deck.Size, e.CardsInPlay())

	all := append(e.deck.Cards(), e.player.Cards()...)
	all = append(all, e.dealer.Cards()...)
	seen := make(map[deck.Card]bool, deck.Size)
	for _, c := range all {
		require.False(t, seen[c], "card %s held twice", c)
		seen[c] = true
	}
}

func TestEngine_NewEngine(t *testing.T) {
	e := NewTestEngine()

	assert.Equal(t, AwaitingBet, e.State())
	assert.Equal(t, DefaultStartingBalance, e.Balance())
	assert.Equal(t, NoOutcome, e.Outcome())
	assert.False(t, e.IsPlaying())
	assert.True(t, e.CanBet())
	assert.Empty(t, e.PlayerHand())
	assert.Empty(t, e.DealerHand())
	assertCardsConserved(t, e)
}

func TestEngine_PlaceBetRejectsInvalidAmounts(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"zero", "0"},
		{"negative", "-5"},
		{"over balance", "101"},
		{"non-numeric", "abc"},
		{"empty", ""},
		{"decimal", "2.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewTestEngine()
			err := e.PlaceBetInput(tt.input)

			require.ErrorIs(t, err, ErrInvalidBet)
			assert.Equal(t, AwaitingBet, e.State())
			assert.Equal(t, 100, e.Balance())
			assert.Equal(t, 0, e.Bet())
			assert.Equal(t, 0, e.Round())
			assert.Equal(t, deck.Size, e.deck.CardsRemaining())
		})
	}
}

func TestEngine_PlaceBetAcceptsWholeBalance(t *testing.T) {
	e := NewTestEngine(WithCards("KsTcQd8h"))

	require.NoError(t, e.PlaceBetInput(" 100 "))
	assert.Equal(t, 0, e.Balance())
	assert.Equal(t, 100, e.Bet())
	assert.Equal(t, PlayerTurn, e.State())
}

func TestEngine_DealInterleaves(t *testing.T) {
	e := NewTestEngine(WithCards("2s3s4s5s"))

	require.NoError(t, e.PlaceBet(10))

	assert.Equal(t, deck.MustParseCards("2s4s"), e.PlayerHand())
	assert.Equal(t, deck.MustParseCards("3s5s"), e.DealerHand())
	assert.Equal(t, PlayerTurn, e.State())
	assert.True(t, e.IsPlaying())
	assert.True(t, e.DealerHoleHidden())
	assert.Equal(t, "round-1", e.RoundID())
	assertCardsConserved(t, e)
}

func TestEngine_Naturals(t *testing.T) {
	tests := []struct {
		name    string
		cards   string
		outcome Outcome
		natural bool
		payout  int
	}{
		{"player blackjack", "As9cKd8h", Win, true, 25},
		{"both blackjack", "AsAhKdQc", Draw, false, 10},
		{"dealer blackjack", "9sAh8dKc", Lose, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewTestEngine(WithCards(tt.cards))

			require.NoError(t, e.PlaceBet(10))
			assert.Equal(t, Resolved, e.State())
			assert.Equal(t, tt.outcome, e.Outcome())
			assert.Equal(t, tt.natural, e.Natural())
			assert.False(t, e.IsPlaying())
			assert.False(t, e.DealerHoleHidden())

			_, err := e.Hit()
			require.ErrorIs(t, err, ErrWrongState)

			s, err := e.PlayAgain()
			require.NoError(t, err)
			assert.Equal(t, tt.payout, s.Payout)
			assert.Equal(t, 90+tt.payout, s.Balance)
			assert.Equal(t, s.Balance, e.Balance())
			assertCardsConserved(t, e)
		})
	}
}

func TestEngine_StandardWin(t *testing.T) {
	e := NewTestEngine(WithCards("KsTcQd8h"))

	require.NoError(t, e.PlaceBet(10))
	assert.Equal(t, 20, e.PlayerTotal())

	res, err := e.Stand()
	require.NoError(t, err)
	assert.Equal(t, Win, res.Outcome)
	assert.Equal(t, 18, res.DealerTotal)
	assert.Equal(t, deck.MustParseCards("Tc8h"), res.DealerCards)

	s, err := e.PlayAgain()
	require.NoError(t, err)
	assert.Equal(t, Settlement{Payout: 20, Balance: 110}, s)
	assert.Equal(t, AwaitingBet, e.State())
	assert.Empty(t, e.PlayerHand())
	assert.Empty(t, e.DealerHand())
	assert.Equal(t, deck.Size, e.deck.CardsRemaining())
}

func TestEngine_DealerTurn(t *testing.T) {
	tests := []struct {
		name        string
		cards       string
		outcome     Outcome
		dealerTotal int
		dealerCards int
	}{
		{"dealer draws to 21", "KsTc9d6h5s", Lose, 21, 3},
		{"dealer busts", "TsTd2c6hKc", Win, 26, 3},
		{"dealer stands on soft 17", "KsAc9d6h", Win, 17, 2},
		{"dealer draws several", "KsTc7d2h2s3c", Draw, 17, 4},
		{"equal totals draw", "KsQh8d8c", Draw, 18, 2},
		{"dealer higher", "KsQh7dTc", Lose, 20, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewTestEngine(WithCards(tt.cards))
			require.NoError(t, e.PlaceBet(10))
			require.Equal(t, PlayerTurn, e.State())

			res, err := e.Stand()
			require.NoError(t, err)

			assert.Equal(t, tt.outcome, res.Outcome)
			assert.Equal(t, tt.outcome, e.Outcome())
			assert.Equal(t, tt.dealerTotal, e.DealerTotal())
			assert.Len(t, res.DealerCards, tt.dealerCards)
			assert.Equal(t, Resolved, e.State())
			assert.False(t, e.DealerHoleHidden())
			assertCardsConserved(t, e)
		})
	}
}

func TestEngine_HitBelowTwentyOneContinues(t *testing.T) {
	e := NewTestEngine(WithCards("5s9c6d8h2c"))
	require.NoError(t, e.PlaceBet(10))

	res, err := e.Hit()
	require.NoError(t, err)
	assert.Equal(t, HitResult{Card: deck.NewCard(deck.Clubs, deck.Two), Total: 13, Bust: false}, res)
	assert.Equal(t, PlayerTurn, e.State())
	assert.Len(t, e.PlayerHand(), 3)
	assert.True(t, e.DealerHoleHidden())
}

func TestEngine_HitToTwentyOneKeepsTurn(t *testing.T) {
	e := NewTestEngine(WithCards("5s9c6d8hKc"))
	require.NoError(t, e.PlaceBet(10))

	res, err := e.Hit()
	require.NoError(t, err)
	assert.Equal(t, 21, res.Total)
	assert.Equal(t, PlayerTurn, e.State())
}

func TestEngine_PlayerBust(t *testing.T) {
	e := NewTestEngine(WithCards("KsTcQd7h5s"))
	require.NoError(t, e.PlaceBet(10))

	res, err := e.Hit()
	require.NoError(t, err)
	assert.True(t, res.Bust)
	assert.Equal(t, 25, res.Total)
	assert.Equal(t, Resolved, e.State())
	assert.Equal(t, Lose, e.Outcome())
	assert.Len(t, e.DealerHand(), 2, "dealer does not play after a bust")

	_, err = e.Stand()
	require.ErrorIs(t, err, ErrWrongState)

	s, err := e.PlayAgain()
	require.NoError(t, err)
	assert.Equal(t, Settlement{Payout: 0, Balance: 90}, s)
	assertCardsConserved(t, e)
}

func TestEngine_WrongState(t *testing.T) {
	e := NewTestEngine(WithCards("5s9c6d8h"))

	_, err := e.Hit()
	assert.ErrorIs(t, err, ErrWrongState)
	_, err = e.Stand()
	assert.ErrorIs(t, err, ErrWrongState)
	_, err = e.PlayAgain()
	assert.ErrorIs(t, err, ErrWrongState)

	require.NoError(t, e.PlaceBet(10))
	err = e.PlaceBet(10)
	assert.ErrorIs(t, err, ErrWrongState)
	assert.Equal(t, 90, e.Balance())

	_, err = e.PlayAgain()
	assert.ErrorIs(t, err, ErrWrongState)
	assert.Equal(t, PlayerTurn, e.State())
}

func TestEngine_BrokePlayerCannotBet(t *testing.T) {
	e := NewTestEngine(WithBalance(10), WithCards("KsQh7dKc"))
	require.NoError(t, e.PlaceBet(10))

	_, err := e.Stand()
	require.NoError(t, err)
	require.Equal(t, Lose, e.Outcome())

	_, err = e.PlayAgain()
	require.NoError(t, err)
	assert.Equal(t, 0, e.Balance())
	assert.False(t, e.CanBet())
	assert.ErrorIs(t, e.PlaceBet(1), ErrInvalidBet)
}

func TestEngine_StackedRoundsContinueFromDeck(t *testing.T) {
	// Round one uses the first four cards; round two the next four.
	e := NewTestEngine(WithCards("KsTcQd8h" + "As9cKd8d"))

	require.NoError(t, e.PlaceBet(10))
	_, err := e.Stand()
	require.NoError(t, err)
	_, err = e.PlayAgain()
	require.NoError(t, err)

	require.NoError(t, e.PlaceBet(10))
	assert.Equal(t, 2, e.Round())
	assert.Equal(t, "round-2", e.RoundID())
	assert.True(t, e.Natural())
	s, err := e.PlayAgain()
	require.NoError(t, err)
	assert.Equal(t, 110-10+25, s.Balance)
}

func TestEngine_SeededSessionConservesCardsAndBalance(t *testing.T) {
	e := NewTestEngine(WithSeed(1234))
	balance := e.Balance()

	for round := 0; round < 500 && e.CanBet(); round++ {
		require.NoError(t, e.PlaceBet(1))
		assertCardsConserved(t, e)

		for e.State() == PlayerTurn && e.PlayerTotal() < 15 {
			_, err := e.Hit()
			require.NoError(t, err)
			assertCardsConserved(t, e)
		}
		if e.State() == PlayerTurn {
			_, err := e.Stand()
			require.NoError(t, err)
			assert.GreaterOrEqual(t, e.DealerTotal(), DealerStandTotal)
		}
		require.Equal(t, Resolved, e.State())

		outcome, natural := e.Outcome(), e.Natural()
		s, err := e.PlayAgain()
		require.NoError(t, err)
		balance += Payout(outcome, natural, 1) - 1
		require.Equal(t, balance, s.Balance)
		require.Equal(t, deck.Size, e.deck.CardsRemaining())
	}
}

func TestEngine_Events(t *testing.T) {
	clock := quartz.NewMock(t)
	start := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	clock.Set(start)

	bus := NewEventBus()
	var events []GameEvent
	bus.Subscribe(EventSubscriberFunc(func(ev GameEvent) { events = append(events, ev) }))

	e := NewTestEngine(WithCards("KsTc9d6h5s"), WithClock(clock), WithEventBus(bus))

	require.NoError(t, e.PlaceBet(10))
	clock.Advance(5 * time.Second)
	_, err := e.Stand()
	require.NoError(t, err)
	_, err = e.PlayAgain()
	require.NoError(t, err)

	var types []EventType
	for _, ev := range events {
		types = append(types, ev.EventType())
		assert.Equal(t, "round-1", ev.RoundID())
	}
	assert.Equal(t, []EventType{
		EventTypeBetPlaced,
		EventTypeCardsDealt,
		EventTypePlayerAction,
		EventTypeDealerDraw,
		EventTypeRoundResolved,
		EventTypeSettlement,
	}, types)

	assert.Equal(t, start, events[0].Timestamp())

	bet := events[0].(BetPlacedEvent)
	assert.Equal(t, 10, bet.Amount)
	assert.Equal(t, 90, bet.BalanceAfter)

	draw := events[3].(DealerDrawEvent)
	assert.Equal(t, deck.NewCard(deck.Spades, deck.Five), draw.Card)
	assert.Equal(t, 21, draw.Total)

	resolved := events[4].(RoundResolvedEvent)
	assert.Equal(t, Lose, resolved.Outcome)
	assert.Equal(t, 19, resolved.PlayerTotal)
	assert.Equal(t, 21, resolved.DealerTotal)

	settled := events[5].(SettlementEvent)
	assert.Equal(t, 0, settled.Payout)
	assert.Equal(t, -10, settled.Net())
	assert.Equal(t, 5*time.Second, settled.Duration)
}
