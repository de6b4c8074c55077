// Package library keeps built songs on disk so they can be played again.
package library

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/schollz/jsonstore"
	"github.com/schollz/songbuilder/music"
	log "github.com/sirupsen/logrus"
	hashids "github.com/speps/go-hashids/v2"
)

// ErrNotFound is returned for ids that are not in the library.
var ErrNotFound = errors.New("library: song not found")

func hasher() (*hashids.HashID, error) {
	hd := hashids.NewData()
	hd.Salt = "songbuilder"
	hd.MinLength = 8
	h, err := hashids.NewWithData(hd)
	return h, errors.Wrap(err, "hashids")
}

// SongID returns the short id of the song built from seed.
func SongID(seed int64) (string, error) {
	h, err := hasher()
	if err != nil {
		return "", err
	}
	// hashids only takes non-negative numbers, so encode both halves
	u := uint64(seed)
	id, err := h.EncodeInt64([]int64{int64(u >> 32), int64(u & 0xffffffff)})
	return id, errors.Wrapf(err, "encoding seed %d", seed)
}

// Seed recovers the seed a song id was made from.
func Seed(id string) (int64, error) {
	h, err := hasher()
	if err != nil {
		return 0, err
	}
	halves, err := h.DecodeInt64WithError(id)
	if err != nil || len(halves) != 2 {
		return 0, errors.Wrapf(ErrNotFound, "bad song id %q", id)
	}
	return int64(uint64(halves[0])<<32 | uint64(halves[1])), nil
}

// Library is a JSON file of songs keyed by id.
type Library struct {
	filename string
	store    *jsonstore.JSONStore
}

// Open loads the library, starting an empty one when the file cannot
// be read.
func Open(filename string) (l *Library) {
	logger := log.WithFields(log.Fields{
		"function": "Library.Open",
	})
	l = &Library{filename: filename}
	var err error
	l.store, err = jsonstore.Open(filename)
	if err != nil {
		logger.WithFields(log.Fields{
			"msg": "could not open library, making new",
		}).Warn(err.Error())
		l.store = new(jsonstore.JSONStore)
	} else {
		logger.Infof("Loaded %d songs from %s", len(l.store.Keys()), filename)
	}
	return
}

// Save stores the song and writes the library to disk.
func (l *Library) Save(song *music.Song) (err error) {
	if song.ID == "" {
		song.ID, err = SongID(song.Seed)
		if err != nil {
			return
		}
	}
	if err = l.store.Set(song.ID, song); err != nil {
		return errors.Wrapf(err, "storing song %s", song.ID)
	}
	log.WithFields(log.Fields{
		"function": "Library.Save",
	}).Debugf("Saving %s to %s", song.ID, l.filename)
	return errors.Wrap(jsonstore.Save(l.store, l.filename), "saving library")
}

// Get returns a stored song.
func (l *Library) Get(id string) (song *music.Song, err error) {
	if !l.Has(id) {
		return nil, errors.Wrap(ErrNotFound, id)
	}
	song = new(music.Song)
	if err = l.store.Get(id, song); err != nil {
		return nil, errors.Wrapf(err, "decoding song %s", id)
	}
	return
}

// Has reports whether the song is stored.
func (l *Library) Has(id string) bool {
	for _, key := range l.store.Keys() {
		if key == id {
			return true
		}
	}
	return false
}

// IDs lists the stored songs.
func (l *Library) IDs() []string {
	ids := l.store.Keys()
	sort.Strings(ids)
	return ids
}
