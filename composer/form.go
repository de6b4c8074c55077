package composer

import "github.com/schollz/songbuilder/markov"

// Section ids of the form. Every form contains SectionC at least once.
const (
	SectionA = iota
	SectionB
	SectionC
)

// formRule builds the form of the song (e.g. AABA). The absorbing
// pattern forces the C section once six sections went by without one.
var formRule = markov.Cascade{
	Patterns: []markov.Pattern{
		{Match: markov.Exactly(), Dist: []float64{1}},
		{Match: markov.Exactly(0), Dist: []float64{0.5, 0.5}},
		{Match: markov.Exactly(0, 0), Dist: []float64{0, 1}},
		{Match: markov.Exactly(0, 1), Dist: []float64{0.9, 0, 0.1}},
		{Match: markov.Exactly(0, 0, 1), Dist: []float64{0.8, 0, 0.2}},
		{Match: markov.Exactly(0, 1, 0), Dist: []float64{0, 0.9, 0.1}},
		{Match: markov.Exactly(0, 1, 2), Dist: []float64{0.8, 0.2, 0}},
		{Match: markov.And(markov.LenIs(6), markov.Lacks(SectionC)), Dist: []float64{0, 0, 1}},
		{Match: markov.LenBelow(2), Dist: []float64{1}},
		{Match: markov.EndsWith(0, 0), Dist: []float64{0, 1}},
		{Match: markov.EndsWith(0, 1), Dist: []float64{0.3, 0, 0.7}},
		{Match: markov.EndsWith(0, 2), Dist: []float64{1}},
		{Match: markov.EndsWith(1, 0), Dist: []float64{0, 0.6, 0.4}},
		{Match: markov.EndsWith(1, 2), Dist: []float64{1}},
		{Match: markov.EndsWith(2, 0), Dist: []float64{0.1, 0.8, 0.1}},
	},
}.Rule()
