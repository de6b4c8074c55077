package library

import (
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/schollz/songbuilder/music"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSongID(t *testing.T) {
	for _, seed := range []int64{0, 1, 42, -7, 1 << 40, -1 << 62} {
		id, err := SongID(seed)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(id), 8)

		again, err := SongID(seed)
		require.NoError(t, err)
		assert.Equal(t, id, again)

		back, err := Seed(id)
		require.NoError(t, err)
		assert.Equal(t, seed, back)
	}
	a, _ := SongID(1)
	b, _ := SongID(2)
	assert.NotEqual(t, a, b)
}

func TestSaveGet(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "songs.json")
	l := Open(filename)
	assert.Empty(t, l.IDs())

	song := &music.Song{Seed: 3, Form: []int{0, 1, 2}}
	song.Segments[1].MelodyRhythm = []music.Rhythm{{Duration: 0.5, IsRest: true}, {Duration: 1.5}}
	song.Ending.Notes = []int{7}
	require.NoError(t, l.Save(song))
	require.NotEmpty(t, song.ID)

	reopened := Open(filename)
	assert.Equal(t, []string{song.ID}, reopened.IDs())
	got, err := reopened.Get(song.ID)
	require.NoError(t, err)
	assert.Equal(t, song, got)

	_, err = reopened.Get("nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}
