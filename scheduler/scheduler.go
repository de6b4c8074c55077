// Package scheduler turns a song into timed instrument triggers.
//
// The song is laid out as an intro, a body that plays the form and an
// ending. Bass lines, chord progressions and drum patterns loop by index
// against a measure counter; the melody of each segment is played once,
// straight through. Trigger times and durations are given in measures.
package scheduler

import (
	"math"

	"github.com/pkg/errors"
	"github.com/schollz/songbuilder/music"
	log "github.com/sirupsen/logrus"
)

// ErrMalformedSong is returned for songs that cannot be laid out in time.
var ErrMalformedSong = errors.New("scheduler: malformed song")

// Drum is an untuned instrument.
type Drum interface {
	Play(at float64)
}

// Voice is a pitched instrument.
type Voice interface {
	Play(at, frequency, duration float64)
}

// Ensemble is the set of instruments a song is rendered onto.
type Ensemble struct {
	BassDrum  Drum
	SnareDrum Drum
	Bass      Voice
	Melody    Voice
}

// Config sets the meter and the length of each part of the song.
type Config struct {
	BeatsPerMeasure int
	// MeasuresPerSegment is how long each form step of the body lasts
	MeasuresPerSegment int
	// IntroBeats is the length of the intro
	IntroBeats int
	// SnareEntryBeat is the intro beat the snare comes in on
	SnareEntryBeat int
}

// DefaultConfig returns 4/4 with four measures per segment, which is the
// length of the stock melody, and an eight measure intro.
//
// Drums and bass always fill exactly MeasuresPerSegment measures per form
// step. A melody unit longer than four beats tiles past its segment and
// pushes every later melody back, so the tail of such a body plays the
// melody with nothing under it. Raise MeasuresPerSegment to cover longer
// melodies.
func DefaultConfig() Config {
	return Config{
		BeatsPerMeasure:    4,
		MeasuresPerSegment: 4,
		IntroBeats:         32,
		SnareEntryBeat:     16,
	}
}

// Region is a part of the timeline, in beats from the start of the song.
type Region struct {
	Start float64
	Beats float64
}

// End is the beat the region stops at.
func (r Region) End() float64 {
	return r.Start + r.Beats
}

// Stats describes a rendered song.
type Stats struct {
	Intro    Region
	Body     Region
	Ending   Region
	Triggers int
}

// Beats is the length of the whole song.
func (s Stats) Beats() float64 {
	return s.Ending.End()
}

// Scheduler renders songs.
type Scheduler struct {
	Config Config
}

// New returns a scheduler for cfg.
func New(cfg Config) *Scheduler {
	return &Scheduler{Config: cfg}
}

// render carries the state of one Render call.
type render struct {
	cfg      Config
	ensemble Ensemble
	stats    Stats
}

func (r *render) measures(beats float64) float64 {
	return beats / float64(r.cfg.BeatsPerMeasure)
}

func (r *render) hit(d Drum, beat float64) {
	d.Play(r.measures(beat))
	r.stats.Triggers++
}

func (r *render) note(v Voice, beat, frequency, duration float64) {
	v.Play(r.measures(beat), frequency, r.measures(duration))
	r.stats.Triggers++
}

// Render triggers every note of the song on the ensemble. Nothing is
// triggered when the song or the configuration is malformed.
func (s *Scheduler) Render(song *music.Song, ensemble Ensemble) (stats Stats, err error) {
	logger := log.WithFields(log.Fields{
		"function": "Scheduler.Render",
	})
	if err = s.validate(song, ensemble); err != nil {
		return
	}
	r := &render{cfg: s.Config, ensemble: ensemble}

	r.stats.Intro = r.intro(song)
	logger.Debugf("Intro: %+v", r.stats.Intro)
	r.stats.Body = r.body(song, r.stats.Intro.End())
	logger.Debugf("Body: %+v", r.stats.Body)
	r.stats.Ending = r.ending(song, r.stats.Body.End())
	logger.Debugf("Ending: %+v", r.stats.Ending)

	logger.Infof("Rendered %d triggers over %v beats", r.stats.Triggers, r.stats.Beats())
	return r.stats, nil
}

// intro plays the kick every other beat, brings the snare in on the
// backbeat from SnareEntryBeat, and loops the bass line of the first
// segment underneath.
func (r *render) intro(song *music.Song) Region {
	beats := r.cfg.IntroBeats
	for i := 0; i < beats; i++ {
		if i%2 == 0 {
			r.hit(r.ensemble.BassDrum, float64(i))
		}
		if i >= r.cfg.SnareEntryBeat && i%r.cfg.BeatsPerMeasure == r.backbeat() {
			r.hit(r.ensemble.SnareDrum, float64(i))
		}
	}
	walked := r.bassLine(song.Segments[0], 0, carry, func(beat float64, _ int) bool {
		return beat < float64(beats)
	})
	// the body waits for the last intro bass note to finish
	return Region{Start: 0, Beats: math.Max(float64(beats), walked)}
}

func (r *render) backbeat() int {
	return r.cfg.BeatsPerMeasure / 2
}

// body plays each step of the form for MeasuresPerSegment measures.
// A melody that runs longer than its segment delays the next melody
// rather than overlapping it.
func (r *render) body(song *music.Song, start float64) Region {
	bpm := float64(r.cfg.BeatsPerMeasure)
	segmentBeats := float64(r.cfg.MeasuresPerSegment) * bpm
	melodyAt := start
	for i, section := range song.Form {
		segment := song.Segments[section]
		segmentStart := start + float64(i)*segmentBeats

		for measure := 0; measure < r.cfg.MeasuresPerSegment; measure++ {
			downbeat := segmentStart + float64(measure)*bpm
			backbeat := downbeat + float64(r.backbeat())
			r.hit(r.ensemble.BassDrum, downbeat)
			r.hit(r.ensemble.BassDrum, backbeat)
			r.hit(r.ensemble.SnareDrum, backbeat)
		}

		r.bassLine(segment, segmentStart, reset, func(_ float64, measure int) bool {
			return measure < r.cfg.MeasuresPerSegment
		})

		if melodyAt < segmentStart {
			melodyAt = segmentStart
		}
		melodyAt += r.melody(segment, melodyAt)
	}

	beats := float64(len(song.Form)) * segmentBeats
	if melodyAt > start+beats {
		beats = melodyAt - start
	}
	return Region{Start: start, Beats: beats}
}

// ending holds the closing note for as long as its melody lasts, with
// the bass and a kick on each downbeat looping underneath.
func (r *render) ending(song *music.Song, start float64) Region {
	bpm := r.cfg.BeatsPerMeasure
	length := r.melody(song.Ending, start)
	for measure := 0; float64(measure*bpm) < length; measure++ {
		r.hit(r.ensemble.BassDrum, start+float64(measure*bpm))
	}
	r.bassLine(song.Ending, start, carry, func(_ float64, measure int) bool {
		return float64(measure*bpm) < length
	})
	return Region{Start: start, Beats: length}
}

// melody walks the rhythm and notes of a segment once and returns the
// beats it took.
func (r *render) melody(segment music.Segment, start float64) (beat float64) {
	for j, rhythm := range segment.MelodyRhythm {
		if !rhythm.IsRest {
			r.note(r.ensemble.Melody, start+beat, music.Frequency(segment.Notes[j]), rhythm.Duration)
		}
		beat += rhythm.Duration
	}
	return
}

// barLine says what happens to the part of a note that crosses a bar line.
type barLine int

const (
	// carry counts the remainder towards the next measure
	carry barLine = iota
	// reset starts the next measure from zero, dropping the remainder
	reset
)

// bassLine plays the root of the current chord on the bass, cycling the
// rhythm by event and the chords by measure, for as long as more holds.
// It returns the beats walked.
func (r *render) bassLine(segment music.Segment, start float64, mode barLine, more func(beat float64, measure int) bool) (beat float64) {
	bpm := float64(r.cfg.BeatsPerMeasure)
	rhythms := segment.BassLineRhythm
	chords := segment.ChordProgression
	measure := 0
	inMeasure := 0.0
	for j := 0; more(beat, measure); j++ {
		rhythm := rhythms[j%len(rhythms)]
		if !rhythm.IsRest {
			chord := chords[measure%len(chords)]
			r.note(r.ensemble.Bass, start+beat, music.BassFrequency(chord), rhythm.Duration)
		}
		beat += rhythm.Duration
		inMeasure += rhythm.Duration
		switch {
		case inMeasure < bpm:
		case mode == reset:
			measure++
			inMeasure = 0
		default:
			for inMeasure >= bpm {
				measure++
				inMeasure -= bpm
			}
		}
	}
	return
}
