package game

// State is the phase of the current round
type State int

const (
	AwaitingBet State = iota
	Dealt
	PlayerTurn
	DealerTurn
	Resolved
)

// String returns the string representation of a state
func (s State) String() string {
	switch s {
	case AwaitingBet:
		return "awaiting_bet"
	case Dealt:
		return "dealt"
	case PlayerTurn:
		return "player_turn"
	case DealerTurn:
		return "dealer_turn"
	case Resolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// Outcome is the result of a round from the player's point of view
type Outcome int

const (
	NoOutcome Outcome = iota
	Win
	Lose
	Draw
)

// String returns the string representation of an outcome
func (o Outcome) String() string {
	switch o {
	case Win:
		return "win"
	case Lose:
		return "lose"
	case Draw:
		return "draw"
	default:
		return "none"
	}
}

// Message returns the banner shown to the player
func (o Outcome) Message() string {
	switch o {
	case Win:
		return "You Win!"
	case Lose:
		return "You Lose!"
	case Draw:
		return "Draw!"
	default:
		return ""
	}
}

// Action is a player decision during their turn
type Action int

const (
	Hit Action = iota
	Stand
)

// String returns the string representation of an action
func (a Action) String() string {
	switch a {
	case Hit:
		return "hit"
	case Stand:
		return "stand"
	default:
		return "unknown"
	}
}

// Payout returns the amount credited back to the player for a settled
// round: 2x on a win, 2.5x on a natural (rounded down), the stake on a draw.
func Payout(outcome Outcome, natural bool, bet int) int {
	switch outcome {
	case Win:
		if natural {
			return bet * 5 / 2
		}
		return bet * 2
	case Draw:
		return bet
	default:
		return 0
	}
}
