package music

import "sort"

// DrumLength is how long, in measures, a percussion hit is held.
const DrumLength = 1.0 / 16

// Voicing maps an instrument onto a MIDI channel. Key is fixed for
// percussion and zero for pitched instruments.
type Voicing struct {
	Channel  uint8
	Key      uint8
	Velocity uint8
}

// Voicings used for MIDI output. Channel 9 is the General MIDI drum channel.
var Voicings = map[string]Voicing{
	BassDrum:  {Channel: 9, Key: 36, Velocity: 110},
	SnareDrum: {Channel: 9, Key: 38, Velocity: 100},
	Bass:      {Channel: 1, Velocity: 90},
	Melody:    {Channel: 0, Velocity: 100},
}

// Event is a MIDI note on or note off at a time in measures.
type Event struct {
	Time     float64
	Channel  uint8
	Key      uint8
	Velocity uint8
	On       bool
}

// Events sorts by time, note offs before note ons at the same instant
// so repeated keys retrigger.
type Events []Event

func (e Events) Len() int      { return len(e) }
func (e Events) Swap(i, j int) { e[i], e[j] = e[j], e[i] }
func (e Events) Less(i, j int) bool {
	if e[i].Time != e[j].Time {
		return e[i].Time < e[j].Time
	}
	return !e[i].On && e[j].On
}

// Events converts every recorded note into note on/off pairs. Notes of
// unknown instruments are skipped.
func (m *Music) Events() Events {
	events := Events{}
	for _, note := range m.GetAll() {
		voicing, ok := Voicings[note.Instrument]
		if !ok {
			continue
		}
		key := voicing.Key
		duration := note.Duration
		if note.Frequency > 0 {
			key = Key(note.Frequency)
		}
		if duration <= 0 {
			duration = DrumLength
		}
		events = append(events,
			Event{Time: note.Time, Channel: voicing.Channel, Key: key, Velocity: voicing.Velocity, On: true},
			Event{Time: note.Time + duration, Channel: voicing.Channel, Key: key},
		)
	}
	sort.Stable(events)
	return events
}
