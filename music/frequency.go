package music

import "math"

// frequencies covers C4-B5 of the C major scale, indexed by scale degree.
var frequencies = []float64{261.63, 293.66, 329.63, 349.23, 392.00, 440.00, 493.88, 523.25, 587.33, 659.25, 698.46, 783.99, 880.00, 987.77}

// NotesPerOctave is the number of scale degrees in one octave.
const NotesPerOctave = 7

// FoldOctave folds a note id down into the first octave while it is
// above the octave note, returning how many octaves were removed.
// Note 7 (the octave) is kept as is.
func FoldOctave(note int) (folded, octaveShift int) {
	folded = note
	for folded > NotesPerOctave {
		folded -= NotesPerOctave
		octaveShift++
	}
	return
}

// Frequency returns the frequency in hertz of a scale-degree id. Ids past
// the end of the table are folded down an octave at a time.
func Frequency(note int) float64 {
	if note < 0 {
		note = 0
	}
	for note >= len(frequencies) {
		note -= NotesPerOctave
	}
	return frequencies[note]
}

// BassFrequency is the root of the chord two octaves below the melody.
func BassFrequency(chord int) float64 {
	return Frequency(chord) / 4
}

// Key converts a frequency into the nearest MIDI key number.
func Key(frequency float64) uint8 {
	if frequency <= 0 {
		return 0
	}
	key := math.Round(69 + 12*math.Log2(frequency/440))
	if key < 0 {
		return 0
	}
	if key > 127 {
		return 127
	}
	return uint8(key)
}
