package player

import (
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOutput struct {
	ons, offs int
	closed    bool
	*fakeDevice
}

// fakeDevice counts the outputs that are open at once.
type fakeDevice struct {
	open, opened, maxOpen int
	outputs               []*fakeOutput
	fail                  error
	sync.Mutex
}

func (d *fakeDevice) Open() (Output, error) {
	d.Lock()
	defer d.Unlock()
	if d.fail != nil {
		return nil, d.fail
	}
	d.open++
	d.opened++
	if d.open > d.maxOpen {
		d.maxOpen = d.open
	}
	o := &fakeOutput{fakeDevice: d}
	d.outputs = append(d.outputs, o)
	return o, nil
}

func (o *fakeOutput) NoteOn(channel, key, velocity uint8) error {
	o.Lock()
	defer o.Unlock()
	o.ons++
	return nil
}

func (o *fakeOutput) NoteOff(channel, key uint8) error {
	o.Lock()
	defer o.Unlock()
	o.offs++
	return nil
}

func (o *fakeOutput) Close() error {
	o.Lock()
	defer o.Unlock()
	if !o.closed {
		o.closed = true
		o.open--
	}
	return nil
}

func seeds(start int64) func() int64 {
	next := start
	return func() int64 {
		next++
		return next
	}
}

func TestPlayReplacesSession(t *testing.T) {
	d := new(fakeDevice)
	p := New(Options{Open: d.Open, Seed: seeds(0)})

	require.NoError(t, p.BuildAndPlay())
	first := p.Session()
	require.NotNil(t, first)
	require.NoError(t, p.BuildAndPlay())
	second := p.Session()
	require.NotNil(t, second)
	assert.NotEqual(t, first.ID, second.ID)

	select {
	case <-first.Done():
	default:
		t.Fatal("first session still running")
	}

	require.NoError(t, p.Stop())
	require.NoError(t, p.Stop())
	assert.Nil(t, p.Session())

	d.Lock()
	defer d.Unlock()
	assert.Equal(t, 2, d.opened)
	assert.Equal(t, 1, d.maxOpen)
	assert.Equal(t, 0, d.open)
}

func TestStopSilences(t *testing.T) {
	d := new(fakeDevice)
	p := New(Options{BPM: 1, Open: d.Open, Seed: seeds(3)})
	require.NoError(t, p.BuildAndPlay())
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, p.Stop())

	d.Lock()
	defer d.Unlock()
	o := d.outputs[0]
	assert.True(t, o.closed)
	// everything turned on was turned off again
	assert.Equal(t, o.ons, o.offs)
}

func TestPlayWithoutSong(t *testing.T) {
	p := New(Options{Open: new(fakeDevice).Open})
	err := p.Play(nil)
	assert.True(t, errors.Is(err, ErrNoSong))
	assert.Nil(t, p.Session())
	select {
	case <-p.Done():
	default:
		t.Fatal("idle player is not done")
	}
}

func TestOpenFailure(t *testing.T) {
	d := &fakeDevice{fail: errors.New("no device")}
	p := New(Options{Open: d.Open, Seed: seeds(0)})
	_, err := p.Build()
	require.NoError(t, err)
	err = p.Play(nil)
	assert.True(t, errors.Is(err, ErrOpenSession))
	assert.Contains(t, err.Error(), "no device")
	assert.Nil(t, p.Session())

	p = New(Options{Seed: seeds(0)})
	_, err = p.Build()
	require.NoError(t, err)
	assert.True(t, errors.Is(p.Play(nil), ErrOpenSession))
}

func TestPlayToEnd(t *testing.T) {
	d := new(fakeDevice)
	p := New(Options{BPM: 60000, Open: d.Open, Seed: seeds(7)})
	require.NoError(t, p.BuildAndPlay())
	s := p.Session()
	require.NotNil(t, s)
	assert.Less(t, s.Length(), time.Second)

	select {
	case <-p.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("session did not finish")
	}

	ons := 0
	for _, e := range s.events {
		if e.On {
			ons++
		}
	}
	assert.Equal(t, len(s.Music.GetAll()), ons)

	d.Lock()
	o := d.outputs[0]
	assert.Equal(t, ons, o.ons)
	assert.Equal(t, ons, o.offs)
	d.Unlock()

	require.NoError(t, p.Stop())
}

func TestBuildIsDeterministic(t *testing.T) {
	a := New(Options{Seed: seeds(41)})
	b := New(Options{Seed: seeds(41)})
	songA, err := a.Build()
	require.NoError(t, err)
	songB, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, songA, songB)
	assert.Equal(t, int64(42), songA.Seed)
	assert.NotEmpty(t, songA.ID)
	assert.Equal(t, songA, a.Current())
}

func TestLoadRebuildsFromID(t *testing.T) {
	p := New(Options{Seed: seeds(99)})
	built, err := p.Build()
	require.NoError(t, err)

	other := New(Options{})
	loaded, err := other.Load(built.ID)
	require.NoError(t, err)
	assert.Equal(t, built, loaded)
	assert.Equal(t, loaded, other.Current())

	_, err = other.Load("!!")
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	p := New(Options{Seed: seeds(5)})
	song, err := p.Build()
	require.NoError(t, err)
	m, stats, err := p.Render(song)
	require.NoError(t, err)
	assert.Equal(t, stats.Triggers, len(m.GetAll()))
	assert.GreaterOrEqual(t, stats.Intro.Beats, float64(32))
	assert.Equal(t, stats.Body.Start, stats.Intro.End())
	assert.Equal(t, stats.Ending.Start, stats.Body.End())
}
