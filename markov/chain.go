package markov

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"github.com/schollz/songbuilder/music"
	log "github.com/sirupsen/logrus"
)

// ErrExhausted is returned when every redraw landed in missing mass.
var ErrExhausted = errors.New("markov: no outcome drawn")

// StateRule returns the weights of the next state given every state so far.
type StateRule func(history []int) []float64

// RhythmRule returns the candidate next events given the beat the next
// event starts on and the event before it.
type RhythmRule func(beat float64, prev music.Rhythm) []Choice[music.Rhythm]

// PitchRule returns the weights of the next pitch, indexed by absolute
// scale degree, given the previous pitch, the beat and the active chord.
type PitchRule func(prevNote int, beat float64, chord int) []float64

// Chain draws sequences from rules using its own random source.
type Chain struct {
	// MaxRedraws bounds how often a draw that selected nothing is retried
	MaxRedraws int

	rng *rand.Rand
}

// New returns a chain drawing from rng.
func New(rng *rand.Rand) *Chain {
	return &Chain{MaxRedraws: 16, rng: rng}
}

// NewSeeded returns a chain with a fresh source seeded with seed.
func NewSeeded(seed int64) *Chain {
	return New(rand.New(rand.NewSource(seed)))
}

func (c *Chain) draw(dist []float64) (int, error) {
	for attempt := 0; attempt <= c.MaxRedraws; attempt++ {
		i, ok, err := SampleIndex(c.rng, dist)
		if err != nil {
			return 0, err
		}
		if ok {
			return i, nil
		}
	}
	return 0, ErrExhausted
}

func drawChoice[T any](c *Chain, choices []Choice[T]) (value T, err error) {
	for attempt := 0; attempt <= c.MaxRedraws; attempt++ {
		var ok bool
		value, ok, err = Sample(c.rng, choices)
		if err != nil || ok {
			return
		}
	}
	err = ErrExhausted
	return
}

// Build generates steps states. The rule sees the full history.
func (c *Chain) Build(rule StateRule, steps int) (states []int, err error) {
	states = make([]int, 0, steps)
	for len(states) < steps {
		next, err := c.draw(rule(states))
		if err != nil {
			return nil, errors.Wrapf(err, "state %d", len(states))
		}
		states = append(states, next)
	}
	log.WithFields(log.Fields{
		"function": "Chain.Build",
	}).Debugf("states: %v", states)
	return
}

// BuildRhythm generates whole events until their total duration reaches
// targetBeats. The last event may overshoot the target; it is never split.
func (c *Chain) BuildRhythm(rule RhythmRule, targetBeats float64) (rhythm []music.Rhythm, err error) {
	rhythm = []music.Rhythm{}
	beat := 0.0
	prev := music.Rhythm{}
	for beat < targetBeats {
		next, err := drawChoice(c, rule(beat, prev))
		if err != nil {
			return nil, errors.Wrapf(err, "rhythm at beat %v", beat)
		}
		if next.Duration <= 0 || math.IsNaN(next.Duration) {
			return nil, errors.Wrapf(ErrInvalidDistribution, "rhythm at beat %v has duration %v", beat, next.Duration)
		}
		rhythm = append(rhythm, next)
		beat += next.Duration
		prev = next
	}
	log.WithFields(log.Fields{
		"function": "Chain.BuildRhythm",
	}).Debugf("%d events over %v beats", len(rhythm), beat)
	return
}

// BuildNotes generates one pitch per rhythm event, rests included. The
// chord at a beat is taken from chords, one chord per measure, looping.
func (c *Chain) BuildNotes(rule PitchRule, rhythm []music.Rhythm, chords []int, beatsPerMeasure float64) (notes []int, err error) {
	if len(chords) == 0 {
		return nil, errors.Wrap(ErrEmptyDistribution, "no chords")
	}
	if beatsPerMeasure <= 0 {
		return nil, errors.Wrapf(ErrInvalidDistribution, "%v beats per measure", beatsPerMeasure)
	}
	notes = make([]int, 0, len(rhythm))
	beat := 0.0
	prev := 0
	for i, r := range rhythm {
		measure := int(math.Floor(beat / beatsPerMeasure))
		chord := chords[measure%len(chords)]
		note, err := c.draw(rule(prev, beat, chord))
		if err != nil {
			return nil, errors.Wrapf(err, "note %d", i)
		}
		notes = append(notes, note)
		prev = note
		beat += r.Duration
	}
	return
}
