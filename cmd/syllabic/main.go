package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/sirupsen/logrus"

	wav "github.com/zrdimetc/go-wav-syllable"
	"github.com/zrdimetc/go-wav-syllable/internal/config"
	"github.com/zrdimetc/go-wav-syllable/internal/studio"
)

const usage = `usage: syllabic <command> [flags]

commands:
  add                          append an empty syllable and select it
  select -slot N               select syllable N (1-based)
  load -instrument NAME        load a sound from the sounds directory
  load -file PATH              load a WAV recording
  pitch -semitones X           set the preview pitch
  list                         show syllables
  export [-o FILE]             write all syllables as one WAV file
  preview [-o FILE]            write the syllables as played at the pitch
`

func main() {
	// Setup logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}
	logger.SetLevel(cfg.LogLevel)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	s, err := studio.Open(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open session")
	}

	if err := run(s, os.Args[1], os.Args[2:], os.Stdout); err != nil {
		logger.WithError(err).WithField("command", os.Args[1]).Fatal("Command failed")
	}
}

func run(s *studio.Studio, command string, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet(command, flag.ContinueOnError)

	switch command {
	case "add":
		if err := fs.Parse(args); err != nil {
			return err
		}
		index, err := s.AddSlot()
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "added syllable %d\n", index+1)
		return nil

	case "select":
		slot := fs.Int("slot", 0, "syllable number, starting at 1")
		if err := fs.Parse(args); err != nil {
			return err
		}
		return s.Select(*slot - 1)

	case "load":
		instrument := fs.String("instrument", "", "sound file name in the sounds directory")
		file := fs.String("file", "", "path of a WAV file")
		if err := fs.Parse(args); err != nil {
			return err
		}
		switch {
		case *instrument != "" && *file != "":
			return fmt.Errorf("load takes -instrument or -file, not both")
		case *instrument != "":
			return s.LoadInstrument(*instrument)
		case *file != "":
			return s.LoadFile(*file)
		}
		return fmt.Errorf("load needs -instrument or -file")

	case "pitch":
		semitones := fs.Float64("semitones", 0, "pitch offset in semitones")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if err := s.SetPitch(*semitones); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "pitch %+g semitones, playback rate %.4f\n", *semitones, wav.RateForSemitones(*semitones))
		return nil

	case "list":
		if err := fs.Parse(args); err != nil {
			return err
		}
		return list(s, stdout)

	case "export", "preview":
		out := fs.String("o", "", "output WAV file")
		if err := fs.Parse(args); err != nil {
			return err
		}
		write := s.Export
		if command == "preview" {
			write = s.Preview
		}
		path, err := write(*out)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, path)
		return nil
	}

	return fmt.Errorf("unknown command %q\n%s", command, usage)
}

func list(s *studio.Studio, stdout io.Writer) error {
	settings := s.Settings()
	fmt.Fprintf(stdout, "instrument: %s\npitch: %+g semitones (rate %.4f)\n\n",
		settings.Instrument, s.Pitch(), wav.RateForSemitones(s.Pitch()))

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tSLOT\tCHANNELS\tRATE\tFRAMES\tDURATION")
	for _, slot := range s.Slots() {
		marker := ""
		if slot.Selected {
			marker = "*"
		}
		if !slot.Loaded {
			fmt.Fprintf(tw, "%s\t%s\t-\t-\t-\t-\n", marker, slot.Name)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\n",
			marker, slot.Name, slot.Channels, slot.SampleRate, slot.Frames, slot.Duration)
	}
	return tw.Flush()
}
