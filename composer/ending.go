package composer

import "github.com/schollz/songbuilder/music"

// EndingBeats is how long the closing chord is held.
const EndingBeats = 8

// EndingNote resolves the last note of the song onto the tonic, the
// fifth or the octave, depending on where it falls within its octave.
func EndingNote(lastNote int) int {
	note, _ := music.FoldOctave(lastNote)
	switch note {
	case 0, 1, 2:
		return 0
	case 3, 4:
		return 4
	}
	return 7
}

// Ending returns the closing segment: a single tonic chord under a
// single held note.
func Ending(lastNote int) music.Segment {
	return music.Segment{
		ChordProgression: []int{0},
		BassLineRhythm:   []music.Rhythm{{Duration: EndingBeats}},
		MelodyRhythm:     []music.Rhythm{{Duration: EndingBeats}},
		Notes:            []int{EndingNote(lastNote)},
	}
}
