package markov

// Pattern pairs a history predicate with the distribution it selects.
type Pattern struct {
	Match func(history []int) bool
	Dist  []float64
}

// Cascade is an ordered list of patterns. The first pattern that matches
// the history wins, so more specific patterns must come first. Fallback
// is used when nothing matches.
type Cascade struct {
	Patterns []Pattern
	Fallback []float64
}

// Always is the fallback every cascade ends with unless told otherwise:
// state 0 with certainty.
var Always = []float64{1}

// Rule turns the cascade into a StateRule.
func (c Cascade) Rule() StateRule {
	fallback := c.Fallback
	if fallback == nil {
		fallback = Always
	}
	return func(history []int) []float64 {
		for _, p := range c.Patterns {
			if p.Match(history) {
				return p.Dist
			}
		}
		return fallback
	}
}

// Exactly matches a history that is exactly the given states.
func Exactly(states ...int) func([]int) bool {
	return func(history []int) bool {
		return equal(history, states)
	}
}

// EndsWith matches a history whose most recent states are the given ones.
func EndsWith(states ...int) func([]int) bool {
	return func(history []int) bool {
		if len(history) < len(states) {
			return false
		}
		return equal(history[len(history)-len(states):], states)
	}
}

// LenIs matches a history of exactly n states.
func LenIs(n int) func([]int) bool {
	return func(history []int) bool {
		return len(history) == n
	}
}

// LenBelow matches a history shorter than n states.
func LenBelow(n int) func([]int) bool {
	return func(history []int) bool {
		return len(history) < n
	}
}

// Lacks matches a history that never visited state.
func Lacks(state int) func([]int) bool {
	return func(history []int) bool {
		for _, s := range history {
			if s == state {
				return false
			}
		}
		return true
	}
}

// And matches when every predicate matches.
func And(preds ...func([]int) bool) func([]int) bool {
	return func(history []int) bool {
		for _, p := range preds {
			if !p(history) {
				return false
			}
		}
		return true
	}
}

func equal(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
