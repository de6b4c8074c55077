package music

import (
	"encoding/json"
	"os"
	"sort"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Instrument names used by the renderer.
const (
	BassDrum  = "bassdrum"
	SnareDrum = "snare"
	Bass      = "bass"
	Melody    = "melody"
)

// Note is a single trigger of an instrument. Time and Duration are in
// measures; Frequency and Duration are zero for percussion.
type Note struct {
	Instrument string  `json:"instrument"`
	Time       float64 `json:"time"`
	Frequency  float64 `json:"frequency,omitempty"`
	Duration   float64 `json:"duration,omitempty"`
}

// Notes is a structure for sorting the notes based on their time
type Notes []Note

func (p Notes) Len() int {
	return len(p)
}

func (p Notes) Less(i, j int) bool {
	return p[i].Time < p[j].Time
}

func (p Notes) Swap(i, j int) {
	p[i], p[j] = p[j], p[i]
}

// Music stores all the notes that will be played, per instrument.
type Music struct {
	// Notes map: instrument -> notes in the order they were triggered
	Notes map[string][]Note
	sync.RWMutex
}

// New returns a new object
func New() *Music {
	m := new(Music)
	m.Lock()
	m.Notes = make(map[string][]Note)
	m.Unlock()
	return m
}

// Open opens music saved with Save.
func Open(filename string) (*Music, error) {
	bMusic, err := os.ReadFile(filename)
	if err != nil {
		return New(), errors.Wrap(err, "reading music")
	}
	m := New()
	m.Lock()
	err = json.Unmarshal(bMusic, &m.Notes)
	m.Unlock()
	return m, errors.Wrap(err, "decoding music")
}

// AddNote will add a note in a thread-safe way.
func (m *Music) AddNote(n Note) {
	m.Lock()
	defer m.Unlock()
	m.Notes[n.Instrument] = append(m.Notes[n.Instrument], n)
}

// Get returns the notes of one instrument in trigger order.
func (m *Music) Get(instrument string) []Note {
	m.RLock()
	defer m.RUnlock()
	notes := make([]Note, len(m.Notes[instrument]))
	copy(notes, m.Notes[instrument])
	return notes
}

// Count returns how many times an instrument was triggered.
func (m *Music) Count(instrument string) int {
	m.RLock()
	defer m.RUnlock()
	return len(m.Notes[instrument])
}

// GetAll retrieve notes of every instrument sorted by time.
func (m *Music) GetAll() (notes Notes) {
	logger := log.WithFields(log.Fields{
		"function": "Music.GetAll",
	})
	m.RLock()
	defer m.RUnlock()
	notes = Notes{}
	for instrument := range m.Notes {
		notes = append(notes, m.Notes[instrument]...)
	}
	sort.Stable(notes)
	logger.Debugf("Got %d notes", len(notes))
	return
}

// End returns the time at which the last note stops sounding.
func (m *Music) End() (end float64) {
	for _, note := range m.GetAll() {
		if t := note.Time + note.Duration; t > end {
			end = t
		}
	}
	return
}

// Save writes the notes as JSON.
func (m *Music) Save(filename string) (err error) {
	m.RLock()
	defer m.RUnlock()
	bMusic, err := json.Marshal(m.Notes)
	if err != nil {
		return errors.Wrap(err, "encoding music")
	}
	return errors.Wrap(os.WriteFile(filename, bMusic, 0644), "writing music")
}

// Drum returns a percussive part that records into m.
func (m *Music) Drum(instrument string) DrumPart {
	return DrumPart{music: m, instrument: instrument}
}

// Voice returns a pitched part that records into m.
func (m *Music) Voice(instrument string) VoicePart {
	return VoicePart{music: m, instrument: instrument}
}

// DrumPart records untuned hits.
type DrumPart struct {
	music      *Music
	instrument string
}

// Play records a hit at the given time in measures.
func (d DrumPart) Play(at float64) {
	d.music.AddNote(Note{Instrument: d.instrument, Time: at})
}

// VoicePart records pitched notes.
type VoicePart struct {
	music      *Music
	instrument string
}

// Play records a note at the given time, frequency and duration.
func (v VoicePart) Play(at, frequency, duration float64) {
	v.music.AddNote(Note{Instrument: v.instrument, Time: at, Frequency: frequency, Duration: duration})
}
