// Package markov generates sequences from context-sensitive transition
// rules. A rule looks at what has been generated so far and returns the
// weights of the next state; the chain samples one and carries on.
package markov

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
)

var (
	// ErrEmptyDistribution is returned when a rule offers no candidates.
	ErrEmptyDistribution = errors.New("markov: empty distribution")
	// ErrInvalidDistribution is returned for negative, NaN or massless weights.
	ErrInvalidDistribution = errors.New("markov: invalid distribution")
)

// Choice is one weighted outcome.
type Choice[T any] struct {
	Value       T
	Probability float64
}

// Sample draws one value with probability proportional to its weight.
// Weights need not sum to one: when they sum to less, the remaining mass
// draws nothing and ok is false.
func Sample[T any](rng *rand.Rand, choices []Choice[T]) (value T, ok bool, err error) {
	if len(choices) == 0 {
		err = ErrEmptyDistribution
		return
	}
	weights := make([]float64, len(choices))
	for i, c := range choices {
		weights[i] = c.Probability
	}
	i, ok, err := SampleIndex(rng, weights)
	if err != nil || !ok {
		return
	}
	return choices[i].Value, true, nil
}

// SampleIndex draws an index of a dense probability vector.
func SampleIndex(rng *rand.Rand, dist []float64) (index int, ok bool, err error) {
	if len(dist) == 0 {
		return 0, false, ErrEmptyDistribution
	}
	total := 0.0
	for i, p := range dist {
		if p < 0 || math.IsNaN(p) || math.IsInf(p, 0) {
			return 0, false, errors.Wrapf(ErrInvalidDistribution, "weight %d is %v", i, p)
		}
		total += p
	}
	if total == 0 {
		return 0, false, errors.Wrap(ErrInvalidDistribution, "no probability mass")
	}

	r := rng.Float64()
	cumulative := 0.0
	for i, p := range dist {
		if p == 0 {
			continue
		}
		cumulative += p
		if r < cumulative {
			return i, true, nil
		}
	}
	return 0, false, nil
}
