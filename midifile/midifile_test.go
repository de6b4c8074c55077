package midifile

import (
	"path/filepath"
	"testing"

	"github.com/schollz/songbuilder/music"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2/smf"
)

func TestWrite(t *testing.T) {
	m := music.New()
	m.Drum(music.BassDrum).Play(0)
	m.Drum(music.SnareDrum).Play(0.5)
	m.Voice(music.Melody).Play(0, music.Frequency(0), 0.25)
	m.Voice(music.Melody).Play(1, music.Frequency(4), 0.5)
	m.Voice(music.Bass).Play(0, music.BassFrequency(0), 1)

	filename := filepath.Join(t.TempDir(), "song.mid")
	require.NoError(t, Write(filename, m, 120, 4))

	s, err := smf.ReadFile(filename)
	require.NoError(t, err)
	// tempo track plus channels 0, 1 and 9
	require.Len(t, s.Tracks, 4)

	type on struct {
		channel, key uint8
		micros       int64
	}
	var ons []on
	offs := 0
	for _, track := range s.Tracks {
		var absTicks int64
		for _, event := range track {
			absTicks += int64(event.Delta)
			var channel, key, velocity uint8
			switch {
			case event.Message.GetNoteOn(&channel, &key, &velocity):
				ons = append(ons, on{channel, key, s.TimeAt(absTicks)})
			case event.Message.GetNoteOff(&channel, &key, &velocity):
				offs++
			}
		}
	}
	assert.Len(t, ons, 5)
	assert.Equal(t, 5, offs)
	// one measure of 4/4 at 120 bpm is two seconds
	assert.Contains(t, ons, on{0, music.Key(music.Frequency(4)), 2000000})
	assert.Contains(t, ons, on{9, 38, 1000000})
	assert.Contains(t, ons, on{9, 36, 0})
}

func TestEncodeBadMeter(t *testing.T) {
	_, err := Encode(music.New(), 0, 4)
	assert.Error(t, err)
	_, err = Encode(music.New(), 120, 0)
	assert.Error(t, err)
}
