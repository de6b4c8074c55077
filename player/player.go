// Package player builds songs and plays them, one at a time.
package player

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/schollz/songbuilder/composer"
	"github.com/schollz/songbuilder/library"
	"github.com/schollz/songbuilder/music"
	"github.com/schollz/songbuilder/scheduler"
	log "github.com/sirupsen/logrus"
)

var (
	// ErrNoSong is returned when playing before anything was built.
	ErrNoSong = errors.New("player: no song to play")
	// ErrOpenSession is returned when the output cannot be opened.
	ErrOpenSession = errors.New("player: could not open session")
)

// Options configure a Player.
type Options struct {
	Composer  composer.Config
	Scheduler scheduler.Config
	// BPM is the beats per minute
	BPM int
	// ListeningRateHertz is how often the session checks for due events
	ListeningRateHertz int
	// Open opens the output of each new session
	Open OpenFunc
	// Seed returns the seed of the next song, the clock when nil
	Seed func() int64
}

// Player is the main structure which facilitates composing and playing.
// It keeps the last built song and the session currently playing; both
// are replaced wholesale by Build, Play and Stop.
type Player struct {
	// BPM is the beats per minute
	BPM int
	// ListeningRateHertz sets the tick size of sessions
	ListeningRateHertz int

	Composer  *composer.Composer
	Scheduler *scheduler.Scheduler

	open    OpenFunc
	seed    func() int64
	song    *music.Song
	session *Session
	sync.Mutex
}

// New initializes the composer and scheduler.
func New(opts Options) (p *Player) {
	p = new(Player)
	p.BPM = opts.BPM
	if p.BPM <= 0 {
		p.BPM = 120
	}
	p.ListeningRateHertz = opts.ListeningRateHertz
	if p.ListeningRateHertz <= 0 {
		p.ListeningRateHertz = 500
	}
	p.Composer = composer.New(opts.Composer)
	if opts.Scheduler == (scheduler.Config{}) {
		opts.Scheduler = scheduler.DefaultConfig()
	}
	p.Scheduler = scheduler.New(opts.Scheduler)
	p.open = opts.Open
	p.seed = opts.Seed
	if p.seed == nil {
		p.seed = func() int64 { return time.Now().UnixNano() }
	}
	return
}

// Build composes a new song and makes it the current one.
func (p *Player) Build() (song *music.Song, err error) {
	p.Lock()
	defer p.Unlock()
	return p.build()
}

func (p *Player) build() (song *music.Song, err error) {
	seed := p.seed()
	logger := log.WithFields(log.Fields{
		"function": "Player.Build",
		"seed":     seed,
	})
	song, err = p.Composer.Build(seed)
	if err != nil {
		return nil, errors.Wrap(err, "building song")
	}
	song.ID, err = library.SongID(seed)
	if err != nil {
		return nil, err
	}
	logger.Infof("Built song %s", song.ID)
	p.song = song
	return
}

// Current returns the last song built or played.
func (p *Player) Current() *music.Song {
	p.Lock()
	defer p.Unlock()
	return p.song
}

// Play stops whatever is playing and plays song, or the current song
// when song is nil.
func (p *Player) Play(song *music.Song) (err error) {
	p.Lock()
	defer p.Unlock()
	return p.play(song)
}

func (p *Player) play(song *music.Song) (err error) {
	logger := log.WithFields(log.Fields{
		"function": "Player.Play",
	})
	if song == nil {
		song = p.song
	}
	if song == nil {
		return ErrNoSong
	}
	if err = p.stop(); err != nil {
		logger.Warn(err.Error())
	}

	m, stats, err := p.Render(song)
	if err != nil {
		return
	}

	if p.open == nil {
		return errors.Wrap(ErrOpenSession, "no output configured")
	}
	output, err := p.open()
	if err != nil {
		return errors.Wrap(ErrOpenSession, err.Error())
	}

	tickTime := time.Second / time.Duration(p.ListeningRateHertz)
	p.session = newSession(output, m, stats, p.BPM, p.Scheduler.Config.BeatsPerMeasure, tickTime)
	p.song = song
	logger.WithFields(log.Fields{
		"song":    song.ID,
		"session": p.session.ID,
	}).Infof("BPM: %d, tick size: %s", p.BPM, tickTime)
	go p.session.run()
	return
}

// Render lays the song out in time without playing it.
func (p *Player) Render(song *music.Song) (m *music.Music, stats scheduler.Stats, err error) {
	m = music.New()
	stats, err = p.Scheduler.Render(song, scheduler.Ensemble{
		BassDrum:  m.Drum(music.BassDrum),
		SnareDrum: m.Drum(music.SnareDrum),
		Bass:      m.Voice(music.Bass),
		Melody:    m.Voice(music.Melody),
	})
	if err != nil {
		return nil, stats, errors.Wrapf(err, "rendering song %s", song.ID)
	}
	return
}

// Load rebuilds a song from its id, which encodes the seed.
func (p *Player) Load(id string) (song *music.Song, err error) {
	seed, err := library.Seed(id)
	if err != nil {
		return
	}
	song, err = p.Composer.Build(seed)
	if err != nil {
		return nil, errors.Wrapf(err, "rebuilding song %s", id)
	}
	song.ID = id
	p.Lock()
	p.song = song
	p.Unlock()
	return
}

// BuildAndPlay builds a new song and plays it.
func (p *Player) BuildAndPlay() (err error) {
	p.Lock()
	defer p.Unlock()
	song, err := p.build()
	if err != nil {
		return
	}
	return p.play(song)
}

// Stop abandons the current session. Stopping with nothing playing is a
// no-op.
func (p *Player) Stop() error {
	p.Lock()
	defer p.Unlock()
	return p.stop()
}

func (p *Player) stop() (err error) {
	if p.session == nil {
		return
	}
	log.WithFields(log.Fields{
		"function": "Player.Stop",
		"session":  p.session.ID,
	}).Debug("Closing session")
	err = p.session.Close()
	p.session = nil
	return errors.Wrap(err, "closing session")
}

// Done is closed when the current session finishes or is stopped. With
// no session it is already closed.
func (p *Player) Done() <-chan struct{} {
	p.Lock()
	defer p.Unlock()
	if p.session == nil {
		done := make(chan struct{})
		close(done)
		return done
	}
	return p.session.Done()
}

// Session returns the session currently playing, if any.
func (p *Player) Session() *Session {
	p.Lock()
	defer p.Unlock()
	return p.session
}
