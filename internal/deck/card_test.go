package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCards(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Card
		wantErr  bool
	}{
		{
			name:  "blackjack",
			input: "AsKh",
			expected: []Card{
				{Suit: Spades, Rank: Ace},
				{Suit: Hearts, Rank: King},
			},
		},
		{
			name:  "low cards",
			input: "5h4d3c2s",
			expected: []Card{
				{Suit: Hearts, Rank: Five},
				{Suit: Diamonds, Rank: Four},
				{Suit: Clubs, Rank: Three},
				{Suit: Spades, Rank: Two},
			},
		},
		{
			name:  "case insensitive",
			input: "asTHqDjc",
			expected: []Card{
				{Suit: Spades, Rank: Ace},
				{Suit: Hearts, Rank: Ten},
				{Suit: Diamonds, Rank: Queen},
				{Suit: Clubs, Rank: Jack},
			},
		},
		{
			name:    "invalid rank",
			input:   "XsKs",
			wantErr: true,
		},
		{
			name:    "invalid suit",
			input:   "AsKx",
			wantErr: true,
		},
		{
			name:    "odd length",
			input:   "AsK",
			wantErr: true,
		},
		{
			name:     "empty string",
			input:    "",
			expected: []Card{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCards(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestMustParseCardsPanics(t *testing.T) {
	assert.Equal(t, []Card{{Suit: Spades, Rank: Ace}}, MustParseCards("As"))
	assert.Panics(t, func() { MustParseCards("invalid") })
}

func TestCardPoints(t *testing.T) {
	tests := []struct {
		card   string
		points int
	}{
		{"Ac", 11},
		{"2d", 2},
		{"9h", 9},
		{"Ts", 10},
		{"Jc", 10},
		{"Qd", 10},
		{"Kh", 10},
	}

	for _, tt := range tests {
		t.Run(tt.card, func(t *testing.T) {
			c := MustParseCards(tt.card)[0]
			assert.Equal(t, tt.points, c.Points())
		})
	}
}

func TestCardString(t *testing.T) {
	assert.Equal(t, "A♠", NewCard(Spades, Ace).String())
	assert.Equal(t, "T♥", NewCard(Hearts, Ten).String())
	assert.Equal(t, "7♣", NewCard(Clubs, Seven).String())
	assert.True(t, NewCard(Diamonds, King).IsRed())
	assert.False(t, NewCard(Clubs, King).IsRed())
	assert.True(t, NewCard(Clubs, Queen).IsFaceCard())
	assert.False(t, NewCard(Clubs, Ten).IsFaceCard())
	assert.Equal(t, "Diamonds", Diamonds.Name())
}
