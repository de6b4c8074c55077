package player

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/songbuilder/music"
	"github.com/schollz/songbuilder/scheduler"
	log "github.com/sirupsen/logrus"
)

// Output is the device a session performs on.
type Output interface {
	NoteOn(channel, key, velocity uint8) error
	NoteOff(channel, key uint8) error
	Close() error
}

// OpenFunc opens an output for a new session.
type OpenFunc func() (Output, error)

type sounding struct {
	channel, key uint8
}

// Session performs one rendered song on one output. Events are sent as
// they fall due; closing the session abandons the rest.
type Session struct {
	ID string
	// Music holds every trigger of the song
	Music *music.Music
	// Stats describes the layout of the song
	Stats scheduler.Stats

	output          Output
	events          music.Events
	tickTime        time.Duration
	beatsPerMeasure int
	bpm             int
	sounding        map[sounding]bool

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

func newSession(output Output, m *music.Music, stats scheduler.Stats, bpm, beatsPerMeasure int, tickTime time.Duration) *Session {
	return &Session{
		ID:              uuid.NewString(),
		Music:           m,
		Stats:           stats,
		output:          output,
		events:          m.Events(),
		tickTime:        tickTime,
		beatsPerMeasure: beatsPerMeasure,
		bpm:             bpm,
		sounding:        make(map[sounding]bool),
		stop:            make(chan struct{}),
		done:            make(chan struct{}),
	}
}

// Done is closed once the last event was sent or the session was closed.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Length is how long the song takes to play.
func (s *Session) Length() time.Duration {
	return s.timeOf(s.Stats.Beats() / float64(s.beatsPerMeasure))
}

func (s *Session) timeOf(measures float64) time.Duration {
	beats := measures * float64(s.beatsPerMeasure)
	return time.Duration(beats * float64(time.Minute) / float64(s.bpm))
}

func (s *Session) measuresAt(elapsed time.Duration) float64 {
	return elapsed.Minutes() * float64(s.bpm) / float64(s.beatsPerMeasure)
}

// run sends each event once its time has come. It is the only goroutine
// touching the output until it returns.
func (s *Session) run() {
	defer close(s.done)
	logger := log.WithFields(log.Fields{
		"function": "Session.run",
		"session":  s.ID,
	})
	logger.Infof("Playing %d events over %s", len(s.events), s.Length())

	ticker := time.NewTicker(s.tickTime)
	defer ticker.Stop()
	start := time.Now()
	next := 0
	for next < len(s.events) {
		select {
		case <-s.stop:
			logger.Debugf("Stopped with %d events left", len(s.events)-next)
			return
		case <-ticker.C:
			now := s.measuresAt(time.Since(start))
			for next < len(s.events) && s.events[next].Time <= now {
				s.emit(s.events[next])
				next++
			}
		}
	}
	logger.Info("Finished playing")
}

func (s *Session) emit(e music.Event) {
	logger := log.WithFields(log.Fields{
		"function": "Session.emit",
		"ch":       e.Channel,
		"k":        e.Key,
	})
	var err error
	key := sounding{e.Channel, e.Key}
	if e.On {
		logger.Debugf("on, measure %2.3f", e.Time)
		err = s.output.NoteOn(e.Channel, e.Key, e.Velocity)
		s.sounding[key] = true
	} else {
		logger.Debugf("off, measure %2.3f", e.Time)
		err = s.output.NoteOff(e.Channel, e.Key)
		delete(s.sounding, key)
	}
	if err != nil {
		logger.Error(err.Error())
	}
}

// Close stops the session, silences whatever is still sounding and
// closes the output. Closing twice is a no-op.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		logger := log.WithFields(log.Fields{
			"function": "Session.Close",
			"session":  s.ID,
		})
		close(s.stop)
		<-s.done
		for key := range s.sounding {
			if err := s.output.NoteOff(key.channel, key.key); err != nil {
				logger.Warn(err.Error())
			}
		}
		logger.Debug("Closing output")
		s.closeErr = s.output.Close()
	})
	return s.closeErr
}
