// Package midifile writes rendered songs as standard MIDI files.
package midifile

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"github.com/schollz/songbuilder/music"
	log "github.com/sirupsen/logrus"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// TicksPerBeat is the resolution of written files.
const TicksPerBeat = 960

// Encode builds a format 1 file: a tempo track followed by one track per
// MIDI channel used.
func Encode(m *music.Music, bpm, beatsPerMeasure int) (s *smf.SMF, err error) {
	if bpm <= 0 || beatsPerMeasure <= 0 {
		return nil, errors.Errorf("bad meter %d bpm, %d beats per measure", bpm, beatsPerMeasure)
	}
	s = smf.New()
	s.TimeFormat = smf.MetricTicks(TicksPerBeat)

	var tempo smf.Track
	tempo.Add(0, smf.MetaMeter(uint8(beatsPerMeasure), 4))
	tempo.Add(0, smf.MetaTempo(float64(bpm)))
	tempo.Close(0)
	if err = s.Add(tempo); err != nil {
		return nil, errors.Wrap(err, "adding tempo track")
	}

	byChannel := map[uint8]music.Events{}
	for _, e := range m.Events() {
		byChannel[e.Channel] = append(byChannel[e.Channel], e)
	}
	channels := make([]int, 0, len(byChannel))
	for ch := range byChannel {
		channels = append(channels, int(ch))
	}
	sort.Ints(channels)

	for _, ch := range channels {
		var track smf.Track
		var last uint32
		for _, e := range byChannel[uint8(ch)] {
			at := ticks(e.Time, beatsPerMeasure)
			if at < last {
				at = last
			}
			if e.On {
				track.Add(at-last, midi.NoteOn(e.Channel, e.Key, e.Velocity))
			} else {
				track.Add(at-last, midi.NoteOff(e.Channel, e.Key))
			}
			last = at
		}
		track.Close(0)
		if err = s.Add(track); err != nil {
			return nil, errors.Wrapf(err, "adding channel %d", ch)
		}
	}
	return
}

// Write encodes m and writes it to filename.
func Write(filename string, m *music.Music, bpm, beatsPerMeasure int) (err error) {
	s, err := Encode(m, bpm, beatsPerMeasure)
	if err != nil {
		return
	}
	log.WithFields(log.Fields{
		"function": "midifile.Write",
	}).Infof("Writing %d tracks to %s", len(s.Tracks), filename)
	return errors.Wrapf(s.WriteFile(filename), "writing %s", filename)
}

func ticks(measures float64, beatsPerMeasure int) uint32 {
	return uint32(math.Round(measures * float64(beatsPerMeasure) * TicksPerBeat))
}
