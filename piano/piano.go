// Package piano sends note events to a MIDI output device through portmidi.
package piano

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/rakyll/portmidi"
	"github.com/schollz/songbuilder/player"
	log "github.com/sirupsen/logrus"
)

const (
	noteOn  = 0x90
	noteOff = 0x80
)

// Piano is an open portmidi output stream.
type Piano struct {
	OutputDevice portmidi.DeviceID
	outputStream *portmidi.Stream
	closed       bool
	sync.Mutex
}

// Open initializes portmidi and opens an output stream. The last
// output-capable device is used unless a port is given.
func Open(ports ...int) (p *Piano, err error) {
	p = new(Piano)
	logger := log.WithFields(log.Fields{
		"function": "Piano.Open",
	})
	logger.Debug("Initializing portmidi...")
	if err = portmidi.Initialize(); err != nil {
		return nil, errors.Wrap(err, "initializing portmidi")
	}
	numDevices := portmidi.CountDevices()
	logger.Debugf("Found %d devices", numDevices)
	found := false
	for i := 0; i < numDevices; i++ {
		deviceInfo := portmidi.Info(portmidi.DeviceID(i))
		inputOutput := "input"
		if deviceInfo.IsOutputAvailable {
			inputOutput = "output"
			p.OutputDevice = portmidi.DeviceID(i)
			found = true
		}
		logger.Debugf("%d) %s %s %s", i, deviceInfo.Interface, deviceInfo.Name, inputOutput)
	}
	if len(ports) > 0 {
		p.OutputDevice = portmidi.DeviceID(ports[0])
		found = true
	}
	if !found {
		portmidi.Terminate()
		return nil, errors.New("no midi output device")
	}
	logger.Infof("Using output device %d", p.OutputDevice)

	p.outputStream, err = portmidi.NewOutputStream(p.OutputDevice, 1024, 0)
	if err != nil {
		portmidi.Terminate()
		return nil, errors.Wrapf(err, "opening output stream on device %d", p.OutputDevice)
	}
	return
}

// Opener adapts Open for the player.
func Opener(ports ...int) player.OpenFunc {
	return func() (player.Output, error) {
		return Open(ports...)
	}
}

// NoteOn starts a note.
func (p *Piano) NoteOn(channel, key, velocity uint8) error {
	return p.write(noteOn, channel, key, velocity)
}

// NoteOff stops a note.
func (p *Piano) NoteOff(channel, key uint8) error {
	return p.write(noteOff, channel, key, 0)
}

func (p *Piano) write(status, channel, key, velocity uint8) (err error) {
	p.Lock()
	defer p.Unlock()
	if p.closed {
		return errors.New("piano is closed")
	}
	err = p.outputStream.WriteShort(int64(status|channel&0x0f), int64(key), int64(velocity))
	if err != nil {
		log.WithFields(log.Fields{
			"function": "Piano.write",
			"status":   status,
			"k":        key,
			"v":        velocity,
		}).Error(err.Error())
	}
	return
}

// Close shuts the stream and terminates portmidi. Closing twice is a no-op.
func (p *Piano) Close() (err error) {
	p.Lock()
	defer p.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	logger := log.WithFields(log.Fields{
		"function": "Piano.Close",
	})
	logger.Debug("Closing output stream")
	err = p.outputStream.Close()
	logger.Debug("Terminating portmidi")
	if terr := portmidi.Terminate(); err == nil {
		err = terr
	}
	return errors.Wrap(err, "closing piano")
}
