package music

// Rhythm is one event of a rhythm track. Durations are in beats.
type Rhythm struct {
	Duration float64 `json:"duration"`
	IsRest   bool    `json:"isRest,omitempty"`
}

// Segment is one section of the song. Notes are absolute scale-degree ids,
// one per MelodyRhythm event.
type Segment struct {
	ChordProgression []int    `json:"chordProgression"`
	BassLineRhythm   []Rhythm `json:"bassLineRhythm"`
	MelodyRhythm     []Rhythm `json:"melodyRhythm"`
	Notes            []int    `json:"notes"`
}

// Song is the complete symbolic artifact produced by a composer.
// It is never modified after it is built.
type Song struct {
	ID       string     `json:"id"`
	Seed     int64      `json:"seed"`
	Form     []int      `json:"form"`
	Segments [3]Segment `json:"segments"`
	Ending   Segment    `json:"ending"`
}

// Duration returns the total number of beats of a rhythm track.
func Duration(rhythm []Rhythm) (beats float64) {
	for _, r := range rhythm {
		beats += r.Duration
	}
	return
}

// LastNote returns the final note of the last performed segment.
func (s *Song) LastNote() (note int, ok bool) {
	if len(s.Form) == 0 {
		return
	}
	last := s.Form[len(s.Form)-1]
	if last < 0 || last >= len(s.Segments) {
		return
	}
	notes := s.Segments[last].Notes
	if len(notes) == 0 {
		return
	}
	return notes[len(notes)-1], true
}
