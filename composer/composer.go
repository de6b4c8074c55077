// Package composer builds songs: the form, then per segment the chord
// progression, bass rhythm, melody rhythm and notes, then the ending.
package composer

import (
	"github.com/pkg/errors"
	"github.com/schollz/songbuilder/markov"
	"github.com/schollz/songbuilder/music"
	log "github.com/sirupsen/logrus"
)

// Config holds the lengths used by each generation pass.
type Config struct {
	// FormLength is the number of sections the body plays
	FormLength int
	// ProgressionLength is the number of chords per segment
	ProgressionLength int
	// BassRhythmBeats is the length of the bass pattern, looped on playback
	BassRhythmBeats float64
	// MelodyRhythmBeats is the length of one melody rhythm unit
	MelodyRhythmBeats float64
	// MelodyRepeats is how many times the unit is repeated per segment
	MelodyRepeats int
	// BeatsPerMeasure sets how long each chord lasts while choosing notes
	BeatsPerMeasure int
}

// DefaultConfig returns the lengths of the stock song.
func DefaultConfig() Config {
	return Config{
		FormLength:        8,
		ProgressionLength: 4,
		BassRhythmBeats:   2,
		MelodyRhythmBeats: 4,
		MelodyRepeats:     4,
		BeatsPerMeasure:   4,
	}
}

// Composer turns a seed into a song.
type Composer struct {
	Config Config
}

// New returns a composer. Zero fields of cfg are taken from DefaultConfig.
func New(cfg Config) *Composer {
	def := DefaultConfig()
	if cfg.FormLength <= 0 {
		cfg.FormLength = def.FormLength
	}
	if cfg.ProgressionLength <= 0 {
		cfg.ProgressionLength = def.ProgressionLength
	}
	if cfg.BassRhythmBeats <= 0 {
		cfg.BassRhythmBeats = def.BassRhythmBeats
	}
	if cfg.MelodyRhythmBeats <= 0 {
		cfg.MelodyRhythmBeats = def.MelodyRhythmBeats
	}
	if cfg.MelodyRepeats <= 0 {
		cfg.MelodyRepeats = def.MelodyRepeats
	}
	if cfg.BeatsPerMeasure <= 0 {
		cfg.BeatsPerMeasure = def.BeatsPerMeasure
	}
	return &Composer{Config: cfg}
}

// Build composes a song. The same seed always gives the same song.
func (c *Composer) Build(seed int64) (song *music.Song, err error) {
	logger := log.WithFields(log.Fields{
		"function": "Composer.Build",
		"seed":     seed,
	})
	chain := markov.NewSeeded(seed)
	song = &music.Song{Seed: seed}

	logger.Debug("Building form")
	song.Form, err = chain.Build(formRule, c.Config.FormLength)
	if err != nil {
		return nil, errors.Wrap(err, "form")
	}

	logger.Debug("Building chord progressions")
	for i := range song.Segments {
		song.Segments[i].ChordProgression, err = chain.Build(chordRule, c.Config.ProgressionLength)
		if err != nil {
			return nil, errors.Wrapf(err, "chord progression of segment %d", i)
		}
	}

	logger.Debug("Building bass lines")
	for i := range song.Segments {
		song.Segments[i].BassLineRhythm, err = chain.BuildRhythm(bassLineRhythmRule, c.Config.BassRhythmBeats)
		if err != nil {
			return nil, errors.Wrapf(err, "bass line of segment %d", i)
		}
	}

	logger.Debug("Building melody rhythms")
	for i := range song.Segments {
		unit, err := chain.BuildRhythm(melodyRhythmRule, c.Config.MelodyRhythmBeats)
		if err != nil {
			return nil, errors.Wrapf(err, "melody rhythm of segment %d", i)
		}
		song.Segments[i].MelodyRhythm = Tile(unit, c.Config.MelodyRepeats)
	}

	logger.Debug("Building notes")
	for i := range song.Segments {
		segment := &song.Segments[i]
		segment.Notes, err = chain.BuildNotes(pitchRule, segment.MelodyRhythm, segment.ChordProgression, float64(c.Config.BeatsPerMeasure))
		if err != nil {
			return nil, errors.Wrapf(err, "notes of segment %d", i)
		}
	}

	lastNote, ok := song.LastNote()
	if !ok {
		return nil, errors.Wrap(markov.ErrEmptyDistribution, "no last note to end on")
	}
	song.Ending = Ending(lastNote)

	logger.WithFields(log.Fields{
		"form":   song.Form,
		"ending": song.Ending.Notes,
	}).Info("Built song")
	return
}

// Tile concatenates n copies of a rhythm unit.
func Tile(unit []music.Rhythm, n int) []music.Rhythm {
	tiled := make([]music.Rhythm, 0, len(unit)*n)
	for i := 0; i < n; i++ {
		tiled = append(tiled, unit...)
	}
	return tiled
}
