package scheduler

import (
	"math"

	"github.com/pkg/errors"
	"github.com/schollz/songbuilder/music"
)

func (s *Scheduler) validate(song *music.Song, ensemble Ensemble) error {
	cfg := s.Config
	if cfg.BeatsPerMeasure <= 0 || cfg.MeasuresPerSegment <= 0 || cfg.IntroBeats < 0 {
		return errors.Errorf("scheduler: bad config %+v", cfg)
	}
	if ensemble.BassDrum == nil || ensemble.SnareDrum == nil || ensemble.Bass == nil || ensemble.Melody == nil {
		return errors.New("scheduler: incomplete ensemble")
	}
	if song == nil {
		return errors.Wrap(ErrMalformedSong, "no song")
	}
	if len(song.Form) == 0 {
		return errors.Wrap(ErrMalformedSong, "empty form")
	}
	for i, section := range song.Form {
		if section < 0 || section >= len(song.Segments) {
			return errors.Wrapf(ErrMalformedSong, "form step %d plays unknown segment %d", i, section)
		}
	}
	for i, segment := range song.Segments {
		if err := checkSegment(segment); err != nil {
			return errors.Wrapf(err, "segment %d", i)
		}
	}
	return errors.Wrap(checkSegment(song.Ending), "ending")
}

func checkSegment(segment music.Segment) error {
	if len(segment.ChordProgression) == 0 {
		return errors.Wrap(ErrMalformedSong, "no chords")
	}
	if len(segment.BassLineRhythm) == 0 {
		return errors.Wrap(ErrMalformedSong, "no bass line")
	}
	if len(segment.Notes) != len(segment.MelodyRhythm) {
		return errors.Wrapf(ErrMalformedSong, "%d notes for %d melody events", len(segment.Notes), len(segment.MelodyRhythm))
	}
	for _, rhythms := range [][]music.Rhythm{segment.BassLineRhythm, segment.MelodyRhythm} {
		for _, r := range rhythms {
			if !(r.Duration > 0) || math.IsInf(r.Duration, 0) {
				return errors.Wrapf(ErrMalformedSong, "duration %v", r.Duration)
			}
		}
	}
	return nil
}
