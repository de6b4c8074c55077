package music

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFoldOctave(t *testing.T) {
	tests := []struct {
		note, folded, shift int
	}{
		{2, 2, 0},
		{7, 7, 0},
		{8, 1, 1},
		{10, 3, 1},
		{15, 1, 2},
	}
	for _, tt := range tests {
		folded, shift := FoldOctave(tt.note)
		assert.Equal(t, tt.folded, folded, "note %d", tt.note)
		assert.Equal(t, tt.shift, shift, "note %d", tt.note)
	}
}

func TestFrequency(t *testing.T) {
	assert.Equal(t, 261.63, Frequency(0))
	assert.Equal(t, 987.77, Frequency(13))
	// past the table folds down an octave
	assert.Equal(t, Frequency(7), Frequency(14))
	assert.Equal(t, 261.63/4, BassFrequency(0))
}

func TestKey(t *testing.T) {
	assert.Equal(t, uint8(60), Key(261.63))
	assert.Equal(t, uint8(69), Key(440))
	assert.Equal(t, uint8(36), Key(BassFrequency(0)))
	assert.Equal(t, uint8(0), Key(0))
}

func TestMusicParts(t *testing.T) {
	m := New()
	m.Voice(Melody).Play(1, 440, 0.25)
	m.Drum(BassDrum).Play(0)
	m.Drum(BassDrum).Play(0.5)

	assert.Equal(t, 2, m.Count(BassDrum))
	assert.Equal(t, 1, m.Count(Melody))
	all := m.GetAll()
	require.Len(t, all, 3)
	assert.Equal(t, 0.0, all[0].Time)
	assert.Equal(t, Melody, all[2].Instrument)
	assert.Equal(t, 1.25, m.End())
}

func TestEvents(t *testing.T) {
	m := New()
	m.Voice(Melody).Play(0, 440, 0.25)
	m.Voice(Melody).Play(0.25, 440, 0.25)
	m.Drum(SnareDrum).Play(0)

	events := m.Events()
	require.Len(t, events, 6)
	// the first melody note releases before the repeated key strikes again
	for i, e := range events {
		if e.Time == 0.25 && e.Channel == 0 {
			assert.False(t, e.On)
			assert.True(t, events[i+1].On)
			break
		}
	}
	var snare int
	for _, e := range events {
		if e.Channel == 9 && e.Key == 38 && e.On {
			snare++
		}
	}
	assert.Equal(t, 1, snare)
}

func TestSaveOpen(t *testing.T) {
	m := New()
	m.Voice(Bass).Play(0, BassFrequency(3), 0.5)
	filename := filepath.Join(t.TempDir(), "music.json")
	require.NoError(t, m.Save(filename))

	m2, err := Open(filename)
	require.NoError(t, err)
	assert.Equal(t, m.Get(Bass), m2.Get(Bass))

	_, err = Open(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLastNote(t *testing.T) {
	s := Song{Form: []int{0, 2}}
	s.Segments[2].Notes = []int{1, 5, 9}
	note, ok := s.LastNote()
	assert.True(t, ok)
	assert.Equal(t, 9, note)

	_, ok = (&Song{}).LastNote()
	assert.False(t, ok)
}
