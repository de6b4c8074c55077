package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/schollz/songbuilder/composer"
	"github.com/schollz/songbuilder/library"
	"github.com/schollz/songbuilder/midifile"
	"github.com/schollz/songbuilder/music"
	"github.com/schollz/songbuilder/piano"
	"github.com/schollz/songbuilder/player"
	"github.com/schollz/songbuilder/scheduler"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

var version string

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debugf("no .env loaded: %s", err)
	}

	app := cli.NewApp()
	app.Version = version
	app.Compiled = time.Now()
	app.Name = "songbuilder"
	app.Usage = "compose songs from markov chains and play them over MIDI"
	app.Flags = []cli.Flag{
		cli.IntFlag{
			Name:   "bpm",
			Value:  120,
			Usage:  "BPM to use",
			EnvVar: "SONGBUILDER_BPM",
		},
		cli.IntFlag{
			Name:   "tick",
			Value:  500,
			Usage:  "tick frequency in hertz",
			EnvVar: "SONGBUILDER_TICK",
		},
		cli.Int64Flag{
			Name:   "seed",
			Usage:  "seed of the song, random when 0",
			EnvVar: "SONGBUILDER_SEED",
		},
		cli.IntFlag{
			Name:   "form",
			Value:  composer.DefaultConfig().FormLength,
			Usage:  "number of sections in the body",
			EnvVar: "SONGBUILDER_FORM",
		},
		cli.IntFlag{
			Name:   "measures",
			Value:  scheduler.DefaultConfig().MeasuresPerSegment,
			Usage:  "measures each section of the body lasts",
			EnvVar: "SONGBUILDER_MEASURES",
		},
		cli.IntFlag{
			Name:   "port",
			Value:  -1,
			Usage:  "MIDI output device, the last one found when negative",
			EnvVar: "SONGBUILDER_PORT",
		},
		cli.StringFlag{
			Name:   "file,f",
			Value:  "songs.json",
			Usage:  "library to save songs to and load them from",
			EnvVar: "SONGBUILDER_FILE",
		},
		cli.BoolFlag{
			Name:   "debug",
			Usage:  "debug logging",
			EnvVar: "SONGBUILDER_DEBUG",
		},
	}
	app.Before = func(c *cli.Context) error {
		if c.GlobalBool("debug") {
			log.SetLevel(log.DebugLevel)
		}
		return nil
	}
	app.Commands = []cli.Command{
		{
			Name:   "build",
			Usage:  "compose a song and save it to the library",
			Action: build,
		},
		{
			Name:      "play",
			Usage:     "play a song, a new one when no id is given",
			ArgsUsage: "[id]",
			Action:    play,
		},
		{
			Name:      "export",
			Usage:     "write a song as a MIDI file",
			ArgsUsage: "[id]",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "out,o",
					Value: "song.mid",
					Usage: "MIDI file to write",
				},
				cli.StringFlag{
					Name:  "notes",
					Usage: "also write the rendered notes as JSON",
				},
			},
			Action: export,
		},
		{
			Name:   "list",
			Usage:  "list the songs in the library",
			Action: list,
		},
	}
	app.Action = play

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newPlayer(c *cli.Context) *player.Player {
	opts := player.Options{
		BPM:                c.GlobalInt("bpm"),
		ListeningRateHertz: c.GlobalInt("tick"),
		Composer:           composer.DefaultConfig(),
		Scheduler:          scheduler.DefaultConfig(),
		Open:               piano.Opener(),
	}
	opts.Composer.FormLength = c.GlobalInt("form")
	opts.Scheduler.MeasuresPerSegment = c.GlobalInt("measures")
	if port := c.GlobalInt("port"); port >= 0 {
		opts.Open = piano.Opener(port)
	}
	if seed := c.GlobalInt64("seed"); seed != 0 {
		opts.Seed = func() int64 { return seed }
	}
	return player.New(opts)
}

// song loads the song named by the first argument, from the library when
// it is there, or builds a new one and saves it.
func song(c *cli.Context, p *player.Player, lib *library.Library) (s *music.Song, err error) {
	id := c.Args().First()
	switch {
	case id == "":
		if s, err = p.Build(); err != nil {
			return
		}
		err = lib.Save(s)
	case lib.Has(id):
		s, err = lib.Get(id)
	default:
		s, err = p.Load(id)
	}
	return
}

func build(c *cli.Context) (err error) {
	p := newPlayer(c)
	lib := library.Open(c.GlobalString("file"))
	s, err := p.Build()
	if err != nil {
		return
	}
	if err = lib.Save(s); err != nil {
		return
	}
	fmt.Println(s.ID)
	return
}

func play(c *cli.Context) (err error) {
	p := newPlayer(c)
	lib := library.Open(c.GlobalString("file"))
	s, err := song(c, p, lib)
	if err != nil {
		return
	}
	if err = p.Play(s); err != nil {
		return
	}
	fmt.Printf("Playing %s (%s)\n", s.ID, p.Session().Length().Round(time.Second))

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	select {
	case <-p.Done():
	case <-interrupt:
		log.Info("Interrupted")
	}
	return p.Stop()
}

func export(c *cli.Context) (err error) {
	p := newPlayer(c)
	lib := library.Open(c.GlobalString("file"))
	s, err := song(c, p, lib)
	if err != nil {
		return
	}
	m, _, err := p.Render(s)
	if err != nil {
		return
	}
	if err = midifile.Write(c.String("out"), m, p.BPM, p.Scheduler.Config.BeatsPerMeasure); err != nil {
		return
	}
	if notes := c.String("notes"); notes != "" {
		if err = m.Save(notes); err != nil {
			return errors.Wrap(err, "saving notes")
		}
	}
	fmt.Printf("Wrote %s to %s\n", s.ID, c.String("out"))
	return
}

func list(c *cli.Context) error {
	lib := library.Open(c.GlobalString("file"))
	for _, id := range lib.IDs() {
		s, err := lib.Get(id)
		if err != nil {
			log.Warn(err.Error())
			continue
		}
		fmt.Printf("%s\tseed %d\tform %v\n", s.ID, s.Seed, s.Form)
	}
	return nil
}
