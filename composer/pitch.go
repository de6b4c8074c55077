package composer

import (
	"math"

	"github.com/schollz/songbuilder/markov"
)

// Band classifies the previous pitch by its distance above the root of
// the current chord, in scale degrees.
type Band int

const (
	BandRoot    Band = iota // -6 to 1
	BandThird               // 2 and 3
	BandFifth               // 4
	BandSixth               // 5
	BandSeventh             // 6
	BandOther               // anything further away
)

func (b Band) String() string {
	switch b {
	case BandRoot:
		return "root"
	case BandThird:
		return "third"
	case BandFifth:
		return "fifth"
	case BandSixth:
		return "sixth"
	case BandSeventh:
		return "seventh"
	}
	return "other"
}

// Classify returns the band of prevNote relative to chord.
func Classify(prevNote, chord int) Band {
	switch inChord := prevNote - chord; {
	case inChord >= -6 && inChord <= 1:
		return BandRoot
	case inChord == 2 || inChord == 3:
		return BandThird
	case inChord == 4:
		return BandFifth
	case inChord == 5:
		return BandSixth
	case inChord == 6:
		return BandSeventh
	}
	return BandOther
}

// StrongBeat reports whether a beat falls on a strong position of the
// 4 beat cycle. Strong beats favor chord tones.
func StrongBeat(beat float64) bool {
	switch math.Mod(beat, rhythmCycle) {
	case 0, 0.5, 2, 2.5:
		return true
	}
	return false
}

// PitchWeights returns the weights of the next pitch relative to the root
// of the chord (index 0 is the root, 7 the octave).
//
// The third band falls through into the fifth band, so its own weights
// are overwritten and both bands share the fifth's weights.
func PitchWeights(band Band, strong bool) (weights []float64) {
	switch band {
	case BandRoot:
		if strong {
			weights = []float64{0.6, 0, 0.3, 0, 0.1, 0, 0, 0}
		} else {
			weights = []float64{0.3, 0.4, 0.2, 0.1, 0.0, 0.0, 0.0, 0.0}
		}
	case BandThird:
		if strong {
			weights = []float64{0.1, 0, 0.3, 0, 0.6, 0, 0, 0}
		} else {
			weights = []float64{0.0, 0.2, 0.2, 0.2, 0.4, 0.0, 0.0, 0.0}
		}
		fallthrough
	case BandFifth:
		if strong {
			weights = []float64{0.0, 0, 0.2, 0, 0.8, 0, 0, 0}
		} else {
			weights = []float64{0.0, 0.1, 0.2, 0.3, 0.2, 0.2, 0.0, 0.0}
		}
	case BandSixth:
		if strong {
			weights = []float64{0.0, 0, 0, 0, 0.9, 0, 0, 0.1}
		} else {
			weights = []float64{0.0, 0.0, 0.2, 0.3, 0.4, 0.0, 0.1, 0.0}
		}
	case BandSeventh:
		if strong {
			weights = []float64{0, 0, 0, 0, 0.2, 0, 0, 0.8}
		} else {
			weights = []float64{0.0, 0.0, 0.0, 0.0, 0.0, 0.4, 0.1, 0.5}
		}
	default:
		if strong {
			weights = []float64{0.0, 0, 0.0, 0, 0.2, 0, 0, 0.8}
		} else {
			weights = []float64{0.0, 0.0, 0.0, 0.0, 0.1, 0.0, 0.6, 0.3}
		}
	}
	return
}

// pitchRule shifts the chord-relative weights up by the chord so the
// sampled index is the absolute scale degree.
var pitchRule markov.PitchRule = func(prevNote int, beat float64, chord int) []float64 {
	weights := PitchWeights(Classify(prevNote, chord), StrongBeat(beat))
	if chord < 0 {
		chord = 0
	}
	dist := make([]float64, chord, chord+len(weights))
	return append(dist, weights...)
}
