package composer

import "github.com/schollz/songbuilder/markov"

// chordRule walks diatonic chords (0=C, 1=Dm, 2=Em, 3=F, 4=G, 5=Am, 6=Bdim).
// Weights follow the hooktheory trends for C major; a progression always
// starts on the tonic.
var chordRule = markov.Cascade{
	Patterns: []markov.Pattern{
		{Match: markov.Exactly(), Dist: []float64{1}},
		{Match: markov.Exactly(0), Dist: []float64{0, 0.09, 0, 0.28, 0.48, 0.15, 0}},
		{Match: markov.Exactly(0, 1), Dist: []float64{0.18, 0, 0.18, 0.20, 0.14, 0.30, 0}},
		{Match: markov.Exactly(0, 1, 0), Dist: []float64{0, 0.54, 0, 0.18, 0.22, 0.06, 0}},
		{Match: markov.Exactly(0, 1, 2), Dist: []float64{0, 0, 0, 0.8, 0, 0.2, 0}},
		{Match: markov.Exactly(0, 1, 3), Dist: []float64{0, 0, 0, 0, 0.67, 0.33, 0}},
		{Match: markov.Exactly(0, 1, 4), Dist: []float64{0.35, 0, 0, 0, 0.45, 0.2, 0}},
		{Match: markov.Exactly(0, 1, 5), Dist: []float64{0.5, 0, 0, 0.2, 0, 0.3, 0}},
		{Match: markov.Exactly(0, 3), Dist: []float64{0.4, 0, 0, 0, 0.4, 0.2, 0}},
		{Match: markov.Exactly(0, 3, 0), Dist: []float64{0, 0, 0, 0.6, 0.4, 0, 0}},
		{Match: markov.Exactly(0, 3, 4), Dist: []float64{0.4, 0, 0, 0.2, 0, 0.4, 0}},
		{Match: markov.Exactly(0, 3, 5), Dist: []float64{0.1, 0, 0, 0.2, 0.7, 0, 0}},
		{Match: markov.Exactly(0, 4), Dist: []float64{0.2, 0.1, 0, 0.3, 0, 0.4, 0}},
		{Match: markov.Exactly(0, 4, 0), Dist: []float64{0, 0, 0, 0.5, 0.5, 0, 0}},
		{Match: markov.Exactly(0, 4, 1), Dist: []float64{0, 0, 0, 0.7, 0, 0.3, 0}},
		{Match: markov.Exactly(0, 4, 3), Dist: []float64{0.5, 0, 0, 0, 0.25, 0.25, 0}},
		{Match: markov.Exactly(0, 4, 5), Dist: []float64{0, 0, 0, 0.8, 0.2, 0, 0}},
		{Match: markov.Exactly(0, 5), Dist: []float64{0.15, 0, 0, 0.45, 0.35, 0, 0}},
		{Match: markov.Exactly(0, 5, 0), Dist: []float64{0, 0, 0, 0.3, 0.1, 0.6, 0}},
		{Match: markov.Exactly(0, 5, 3), Dist: []float64{0.5, 0, 0, 0, 0.5, 0, 0}},
		{Match: markov.Exactly(0, 5, 4), Dist: []float64{0.2, 0.1, 0, 0.7, 0, 0, 0}},
	},
}.Rule()
