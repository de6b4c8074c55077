package composer

import (
	"math"

	"github.com/schollz/songbuilder/markov"
	"github.com/schollz/songbuilder/music"
)

// rhythmCycle is the number of beats after which the rhythm tables repeat.
const rhythmCycle = 4

// step is a candidate rhythm event. A flipping step is a rest when the
// previous event sounded and sounds when the previous event was a rest.
type step struct {
	duration    float64
	flip        bool
	probability float64
}

// rhythmTable maps a position within the cycle to its candidates.
type rhythmTable map[float64][]step

// unmatched is used for positions a table has no entry for.
var unmatched = []step{{duration: 1, probability: 1}}

// rule turns the table into a markov.RhythmRule.
func (t rhythmTable) rule() markov.RhythmRule {
	return func(beat float64, prev music.Rhythm) []markov.Choice[music.Rhythm] {
		steps, ok := t[math.Mod(beat, rhythmCycle)]
		if !ok {
			steps = unmatched
		}
		choices := make([]markov.Choice[music.Rhythm], len(steps))
		for i, s := range steps {
			choices[i] = markov.Choice[music.Rhythm]{
				Value:       music.Rhythm{Duration: s.duration, IsRest: s.flip && !prev.IsRest},
				Probability: s.probability,
			}
		}
		return choices
	}
}

var bassLineRhythms = rhythmTable{
	0: {
		{0.5, false, 0.1},
		{0.5, true, 0.3},
		{1, false, 0.2},
		{1, true, 0.3},
		{1.5, false, 0.1},
	},
	0.5: {
		{0.5, false, 0.4},
		{0.5, true, 0.3},
		{1, false, 0.1},
		{1, true, 0.2},
	},
	1: {
		{0.5, false, 0.4},
		{0.5, true, 0.3},
		{1, false, 0.1},
		{1, true, 0.2},
	},
	1.5: {
		{0.5, false, 0.7},
		{1.5, false, 0.3},
	},
	2: {
		{0.5, false, 0.4},
		{0.5, true, 0.3},
		{1, false, 0.1},
		{1, true, 0.2},
	},
	2.5: {
		{0.5, false, 0.4},
		{0.5, true, 0.3},
		{1, false, 0.1},
		{1, true, 0.2},
	},
	3: {
		{0.5, false, 0.4},
		{0.5, true, 0.3},
		{1, false, 0.1},
		{1, true, 0.2},
	},
	3.5: {
		{0.5, false, 0.5},
		{0.5, true, 0.5},
	},
}

var melodyRhythms = rhythmTable{
	0: {
		{0.5, false, 0.1},
		{0.5, true, 0.3},
		{1, false, 0.1},
		{1, true, 0.3},
		{1.5, false, 0.2},
	},
	// sums to 1.1, the sampler never reaches past the first 1.0
	0.5: {
		{0.5, false, 0.6},
		{0.5, true, 0.2},
		{1, false, 0.2},
		{1, true, 0.1},
	},
	1: {
		{0.5, false, 0.4},
		{0.5, true, 0.3},
		{1, false, 0.1},
		{1, true, 0.2},
	},
	1.5: {
		{0.5, false, 0.5},
		{1, false, 0.2},
		{1.5, false, 0.3},
	},
	2: {
		{0.5, false, 0.4},
		{0.5, true, 0.3},
		{1, false, 0.1},
		{1, true, 0.2},
	},
	2.5: {
		{0.5, false, 0.5},
		{0.5, true, 0.3},
		{1, false, 0.1},
		{1, true, 0.1},
	},
	3: {
		{0.5, false, 0.4},
		{0.5, true, 0.2},
		{1, false, 0.2},
		{1, true, 0.2},
	},
	3.5: {
		{0.5, false, 0.7},
		{0.5, true, 0.3},
	},
}

var (
	bassLineRhythmRule = bassLineRhythms.rule()
	melodyRhythmRule   = melodyRhythms.rule()
)
