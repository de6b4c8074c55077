package composer

import (
	"math"
	"testing"

	"github.com/schollz/songbuilder/music"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSongs(t *testing.T, n int) []*music.Song {
	t.Helper()
	c := New(DefaultConfig())
	songs := make([]*music.Song, n)
	for i := range songs {
		song, err := c.Build(int64(i))
		require.NoError(t, err)
		songs[i] = song
	}
	return songs
}

func TestFormHasCSection(t *testing.T) {
	for _, song := range buildSongs(t, 200) {
		require.Len(t, song.Form, 8)
		assert.Contains(t, song.Form, SectionC, "seed %d", song.Seed)
		assert.Equal(t, SectionA, song.Form[0])
		for _, section := range song.Form {
			assert.True(t, section >= SectionA && section <= SectionC)
		}
	}
}

func TestFormRuleAbsorbs(t *testing.T) {
	assert.Equal(t, []float64{0, 0, 1}, formRule([]int{0, 1, 0, 1, 0, 1}))
	// the exact prefixes win over the windows
	assert.Equal(t, []float64{0.9, 0, 0.1}, formRule([]int{0, 1}))
	assert.Equal(t, []float64{0.3, 0, 0.7}, formRule([]int{0, 2, 0, 1}))
	assert.Equal(t, []float64{1}, formRule([]int{1}))
	assert.Equal(t, []float64{1}, formRule([]int{0, 1, 1}))
}

func TestChordProgressions(t *testing.T) {
	for _, song := range buildSongs(t, 100) {
		for _, segment := range song.Segments {
			require.Len(t, segment.ChordProgression, 4)
			assert.Equal(t, 0, segment.ChordProgression[0])
			for _, chord := range segment.ChordProgression {
				assert.True(t, chord >= 0 && chord <= 6)
			}
		}
	}
}

func TestRhythmLengths(t *testing.T) {
	cfg := DefaultConfig()
	for _, song := range buildSongs(t, 100) {
		for _, segment := range song.Segments {
			bass := music.Duration(segment.BassLineRhythm)
			assert.GreaterOrEqual(t, bass, cfg.BassRhythmBeats)
			assert.Less(t, bass, cfg.BassRhythmBeats+1.5)

			unit := music.Duration(segment.MelodyRhythm) / float64(cfg.MelodyRepeats)
			assert.GreaterOrEqual(t, unit, cfg.MelodyRhythmBeats)
			assert.Less(t, unit, cfg.MelodyRhythmBeats+1.5)
			for _, r := range segment.MelodyRhythm {
				assert.Equal(t, 0.0, math.Mod(r.Duration, 0.5))
			}
		}
	}
}

func TestMelodyTiling(t *testing.T) {
	for _, song := range buildSongs(t, 50) {
		for _, segment := range song.Segments {
			rhythm := segment.MelodyRhythm
			require.Equal(t, 0, len(rhythm)%4)
			n := len(rhythm) / 4
			for k := 1; k < 4; k++ {
				assert.Equal(t, rhythm[:n], rhythm[k*n:(k+1)*n])
			}
		}
	}
}

func TestTile(t *testing.T) {
	unit := []music.Rhythm{{Duration: 1}, {Duration: 0.5, IsRest: true}}
	assert.Equal(t, append(append([]music.Rhythm{}, unit...), unit...), Tile(unit, 2))
	assert.Empty(t, Tile(unit, 0))
}

func TestNotesStayWithinChord(t *testing.T) {
	cfg := DefaultConfig()
	for _, song := range buildSongs(t, 100) {
		for _, segment := range song.Segments {
			require.Len(t, segment.Notes, len(segment.MelodyRhythm))
			beat := 0.0
			for i, note := range segment.Notes {
				measure := int(beat / float64(cfg.BeatsPerMeasure))
				chord := segment.ChordProgression[measure%len(segment.ChordProgression)]
				inChord := note - chord
				assert.True(t, inChord >= 0 && inChord <= 7, "note %d chord %d", note, chord)
				if StrongBeat(beat) {
					// strong beats never land on a second, fourth or sixth
					assert.NotContains(t, []int{1, 3, 5}, inChord, "event %d", i)
				}
				beat += segment.MelodyRhythm[i].Duration
			}
		}
	}
}

func TestPitchRuleOffsetsByChord(t *testing.T) {
	for chord := 0; chord <= 6; chord++ {
		for prev := 0; prev <= 13; prev++ {
			dist := pitchRule(prev, 1, chord)
			require.Len(t, dist, chord+8)
			for i := 0; i < chord; i++ {
				assert.Zero(t, dist[i])
			}
			assert.Equal(t, PitchWeights(Classify(prev, chord), false), dist[chord:])
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		prev, chord int
		band        Band
	}{
		{0, 0, BandRoot},
		{0, 6, BandRoot},
		{1, 0, BandRoot},
		{2, 0, BandThird},
		{6, 3, BandThird},
		{4, 0, BandFifth},
		{5, 0, BandSixth},
		{6, 0, BandSeventh},
		{7, 0, BandOther},
		{13, 2, BandOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.band, Classify(tt.prev, tt.chord), "prev %d chord %d", tt.prev, tt.chord)
	}
}

func TestThirdBandSharesFifthWeights(t *testing.T) {
	for _, strong := range []bool{true, false} {
		assert.Equal(t, PitchWeights(BandFifth, strong), PitchWeights(BandThird, strong))
	}
	assert.NotEqual(t, PitchWeights(BandRoot, true), PitchWeights(BandFifth, true))
}

func TestStrongBeat(t *testing.T) {
	for _, beat := range []float64{0, 0.5, 2, 2.5, 4, 6.5} {
		assert.True(t, StrongBeat(beat), "beat %v", beat)
	}
	for _, beat := range []float64{1, 1.5, 3, 3.5, 5} {
		assert.False(t, StrongBeat(beat), "beat %v", beat)
	}
}

func TestRhythmRuleFlipsRest(t *testing.T) {
	choices := bassLineRhythmRule(0, music.Rhythm{Duration: 1, IsRest: true})
	require.Len(t, choices, 5)
	for _, c := range choices {
		assert.False(t, c.Value.IsRest)
	}
	choices = bassLineRhythmRule(4, music.Rhythm{Duration: 1})
	assert.True(t, choices[1].Value.IsRest)
	assert.False(t, choices[0].Value.IsRest)

	// positions off the half beat grid fall back to a single beat
	choices = melodyRhythmRule(0.25, music.Rhythm{})
	assert.Equal(t, 1.0, choices[0].Value.Duration)
	assert.Len(t, choices, 1)
}

func TestEnding(t *testing.T) {
	tests := []struct {
		last, ending int
	}{
		{2, 0},
		{0, 0},
		{10, 4},
		{3, 4},
		{6, 7},
		{7, 7},
		{13, 7},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.ending, EndingNote(tt.last), "last note %d", tt.last)
	}

	ending := Ending(10)
	assert.Equal(t, []int{0}, ending.ChordProgression)
	assert.Equal(t, []int{4}, ending.Notes)
	assert.Equal(t, []music.Rhythm{{Duration: 8}}, ending.MelodyRhythm)
	assert.Equal(t, []music.Rhythm{{Duration: 8}}, ending.BassLineRhythm)
}

func TestSongEndingFollowsLastNote(t *testing.T) {
	for _, song := range buildSongs(t, 50) {
		last, ok := song.LastNote()
		require.True(t, ok)
		assert.Equal(t, []int{EndingNote(last)}, song.Ending.Notes)
	}
}

func TestBuildDeterministic(t *testing.T) {
	c := New(Config{})
	a, err := c.Build(42)
	require.NoError(t, err)
	b, err := c.Build(42)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestNewFillsDefaults(t *testing.T) {
	c := New(Config{FormLength: 12})
	assert.Equal(t, 12, c.Config.FormLength)
	assert.Equal(t, 4, c.Config.ProgressionLength)

	song, err := c.Build(9)
	require.NoError(t, err)
	assert.Len(t, song.Form, 12)
	assert.Contains(t, song.Form, SectionC)
}
