package statistics

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/lox/blackjack/internal/game"
)

// RoundResult represents the outcome of a single settled round
type RoundResult struct {
	Outcome    game.Outcome
	Natural    bool
	Bet        int
	Payout     int
	PlayerBust bool
	DealerBust bool
}

// Net returns the player's profit or loss for the round
func (r RoundResult) Net() int {
	return r.Payout - r.Bet
}

// Statistics tracks results across rounds in betting units
type Statistics struct {
	Rounds  int
	SumNet  float64
	SumNet2 float64   // Sum of squares for variance calculation
	Values  []float64 // All per-round nets for median/percentile calculation

	Wins        int
	Losses      int
	Draws       int
	Naturals    int
	PlayerBusts int
	DealerBusts int

	TotalWagered int
	TotalPaid    int

	BiggestWin  int
	BiggestLoss int
}

// Add incorporates a new round result into the statistics
func (s *Statistics) Add(result RoundResult) {
	net := result.Net()
	s.Rounds++
	s.SumNet += float64(net)
	s.SumNet2 += float64(net) * float64(net)
	s.Values = append(s.Values, float64(net))

	switch result.Outcome {
	case game.Win:
		s.Wins++
	case game.Lose:
		s.Losses++
	case game.Draw:
		s.Draws++
	}
	if result.Natural {
		s.Naturals++
	}
	if result.PlayerBust {
		s.PlayerBusts++
	}
	if result.DealerBust {
		s.DealerBusts++
	}

	s.TotalWagered += result.Bet
	s.TotalPaid += result.Payout

	if net > s.BiggestWin {
		s.BiggestWin = net
	}
	if -net > s.BiggestLoss {
		s.BiggestLoss = -net
	}
}

// Merge folds other into s
func (s *Statistics) Merge(other *Statistics) {
	s.Rounds += other.Rounds
	s.SumNet += other.SumNet
	s.SumNet2 += other.SumNet2
	s.Values = append(s.Values, other.Values...)
	s.Wins += other.Wins
	s.Losses += other.Losses
	s.Draws += other.Draws
	s.Naturals += other.Naturals
	s.PlayerBusts += other.PlayerBusts
	s.DealerBusts += other.DealerBusts
	s.TotalWagered += other.TotalWagered
	s.TotalPaid += other.TotalPaid
	s.BiggestWin = max(s.BiggestWin, other.BiggestWin)
	s.BiggestLoss = max(s.BiggestLoss, other.BiggestLoss)
}

// Net returns the total profit or loss across all rounds
func (s *Statistics) Net() int {
	return s.TotalPaid - s.TotalWagered
}

// Mean returns the mean net result per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumNet / float64(s.Rounds)
}

// Variance returns the sample variance of per-round results
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumNet2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation of per-round results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Median returns the median per-round result
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// WinRate returns the fraction of rounds won
func (s *Statistics) WinRate() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Rounds)
}

// ReturnToPlayer returns total paid divided by total wagered
func (s *Statistics) ReturnToPlayer() float64 {
	if s.TotalWagered == 0 {
		return 0
	}
	return float64(s.TotalPaid) / float64(s.TotalWagered)
}

// Validate checks that the counters agree with each other
func (s *Statistics) Validate() error {
	if s.Rounds < 0 {
		return fmt.Errorf("invalid rounds count: %d", s.Rounds)
	}
	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values array length (%d) does not match rounds count (%d)", len(s.Values), s.Rounds)
	}
	if s.Wins+s.Losses+s.Draws != s.Rounds {
		return fmt.Errorf("wins (%d) + losses (%d) + draws (%d) does not match rounds (%d)",
			s.Wins, s.Losses, s.Draws, s.Rounds)
	}
	if s.Naturals > s.Wins {
		return fmt.Errorf("naturals (%d) exceed wins (%d)", s.Naturals, s.Wins)
	}
	if math.Abs(s.SumNet-float64(s.Net())) > 1e-6 {
		return fmt.Errorf("ledger mismatch: sum of nets %.0f, paid-wagered %d", s.SumNet, s.Net())
	}
	return nil
}

// Summary renders a multi-line report
func (s *Statistics) Summary() string {
	var b strings.Builder
	lo, hi := s.ConfidenceInterval95()
	fmt.Fprintf(&b, "Rounds:      %d\n", s.Rounds)
	fmt.Fprintf(&b, "Won/Lost/Drew: %d/%d/%d (win rate %.1f%%)\n", s.Wins, s.Losses, s.Draws, s.WinRate()*100)
	fmt.Fprintf(&b, "Blackjacks:  %d\n", s.Naturals)
	fmt.Fprintf(&b, "Busts:       player %d, dealer %d\n", s.PlayerBusts, s.DealerBusts)
	fmt.Fprintf(&b, "Wagered:     %d, paid %d, net %+d\n", s.TotalWagered, s.TotalPaid, s.Net())
	fmt.Fprintf(&b, "Per round:   mean %+.3f, median %+.1f, stddev %.3f\n", s.Mean(), s.Median(), s.StdDev())
	fmt.Fprintf(&b, "95%% CI:      [%+.3f, %+.3f]\n", lo, hi)
	fmt.Fprintf(&b, "RTP:         %.2f%%\n", s.ReturnToPlayer()*100)
	return b.String()
}
