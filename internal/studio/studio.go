// Package studio is the syllable editor behind the command line. It owns a
// syllable store plus the UI settings and keeps both in the session file.
package studio

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	wav "github.com/zrdimetc/go-wav-syllable"
	"github.com/zrdimetc/go-wav-syllable/internal/config"
	"github.com/zrdimetc/go-wav-syllable/internal/playback"
	"github.com/zrdimetc/go-wav-syllable/internal/session"
	"github.com/zrdimetc/go-wav-syllable/syllable"
)

// ErrCompressed is returned for sound files that need a compressed-audio codec.
var ErrCompressed = errors.New("compressed audio is not supported, convert to WAV first")

var compressedExts = map[string]bool{
	".mp3":  true,
	".ogg":  true,
	".oga":  true,
	".opus": true,
	".m4a":  true,
	".aac":  true,
	".flac": true,
}

// SlotInfo describes one slot for listing.
type SlotInfo struct {
	Index      int
	Name       string
	Selected   bool
	Loaded     bool
	Channels   int
	SampleRate int
	Frames     int
	Duration   time.Duration
}

// Studio holds one editing session.
type Studio struct {
	cfg      *config.Config
	logger   *logrus.Logger
	file     *session.File
	store    *syllable.Store
	settings session.Settings
}

// Open loads the session named by cfg, or starts an empty one.
func Open(cfg *config.Config, logger *logrus.Logger) (*Studio, error) {
	file := session.Open(cfg.SessionPath)
	state, err := file.Load()
	if err != nil {
		return nil, err
	}

	store := syllable.NewStore()
	if err := store.RestoreAll(state.Buffers); err != nil {
		return nil, fmt.Errorf("restoring %s: %w", file.Path(), err)
	}

	logger.WithFields(logrus.Fields{
		"session": file.Path(),
		"slots":   store.Len(),
	}).Debug("Session loaded")

	return &Studio{
		cfg:      cfg,
		logger:   logger,
		file:     file,
		store:    store,
		settings: state.Settings,
	}, nil
}

// Settings returns the persisted UI settings.
func (s *Studio) Settings() session.Settings {
	return s.settings
}

func (s *Studio) Len() int {
	return s.store.Len()
}

// Buffer returns the audio in slot index, or nil.
func (s *Studio) Buffer(index int) *wav.Buffer {
	return s.store.Get(index)
}

// Selected returns the selected slot index. Without a valid selection the
// first slot is selected.
func (s *Studio) Selected() int {
	if s.settings.Syllable == "" {
		return 0
	}
	index, err := syllable.ParseSlotName(s.settings.Syllable)
	if err != nil {
		s.logger.WithError(err).Warn("Ignoring saved slot selection")
		return 0
	}
	return index
}

// Pitch returns the saved semitone offset, 0 when unset.
func (s *Studio) Pitch() float64 {
	if s.settings.Pitch == "" {
		return 0
	}
	pitch, err := strconv.ParseFloat(s.settings.Pitch, 64)
	if err != nil {
		s.logger.WithError(err).Warn("Ignoring saved pitch")
		return 0
	}
	return pitch
}

// AddSlot appends an empty slot and selects it.
func (s *Studio) AddSlot() (int, error) {
	index := s.store.AddSlot()
	s.settings.Syllable = syllable.SlotName(index)

	s.logger.WithField("slot", s.settings.Syllable).Info("Added syllable")
	return index, s.save()
}

// Select makes index the slot that loads write into.
func (s *Studio) Select(index int) error {
	if index < 0 || index >= s.store.Len() {
		return &syllable.IndexError{Index: index, Len: s.store.Len()}
	}
	s.settings.Syllable = syllable.SlotName(index)

	s.logger.WithField("slot", s.settings.Syllable).Info("Selected syllable")
	return s.save()
}

// LoadInstrument decodes a sound from the sounds directory into the selected
// slot and remembers the instrument.
func (s *Studio) LoadInstrument(name string) error {
	if name != filepath.Base(name) {
		return fmt.Errorf("instrument %q must be a file name inside %s", name, s.cfg.SoundsDir)
	}
	if err := s.loadSound(filepath.Join(s.cfg.SoundsDir, name)); err != nil {
		return err
	}
	s.settings.Instrument = name
	return s.save()
}

// LoadFile decodes a WAV file, such as a recording, into the selected slot.
func (s *Studio) LoadFile(path string) error {
	if err := s.loadSound(path); err != nil {
		return err
	}
	return s.save()
}

func (s *Studio) loadSound(path string) error {
	if compressedExts[strings.ToLower(filepath.Ext(path))] {
		return fmt.Errorf("%s: %w", path, ErrCompressed)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading sound: %w", err)
	}
	b, err := wav.Import(data)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	index := s.Selected()
	if err := s.store.Set(index, b); err != nil {
		return err
	}
	if s.settings.Syllable == "" {
		s.settings.Syllable = syllable.SlotName(index)
	}

	s.logger.WithFields(logrus.Fields{
		"slot":        syllable.SlotName(index),
		"file":        path,
		"channels":    b.Channels(),
		"sample_rate": b.SampleRate(),
		"frames":      b.Frames(),
	}).Info("Loaded sound")
	return nil
}

// SetPitch stores the semitone offset used for previews.
func (s *Studio) SetPitch(semitones float64) error {
	if math.IsNaN(semitones) || math.Abs(semitones) > s.cfg.PitchLimit {
		return fmt.Errorf("pitch %v is outside -%v..%v semitones", semitones, s.cfg.PitchLimit, s.cfg.PitchLimit)
	}
	s.settings.Pitch = strconv.FormatFloat(semitones, 'f', -1, 64)

	s.logger.WithFields(logrus.Fields{
		"semitones": semitones,
		"rate":      wav.RateForSemitones(semitones),
	}).Info("Pitch set")
	return s.save()
}

// Slots describes every slot in order.
func (s *Studio) Slots() []SlotInfo {
	selected := s.Selected()
	infos := make([]SlotInfo, s.store.Len())
	for i := range infos {
		info := SlotInfo{Index: i, Name: syllable.SlotName(i), Selected: i == selected}
		if b := s.store.Get(i); b != nil {
			info.Loaded = true
			info.Channels = b.Channels()
			info.SampleRate = b.SampleRate()
			info.Frames = b.Frames()
			info.Duration = b.Duration()
		}
		infos[i] = info
	}
	return infos
}

// Export writes the loaded syllables, merged in order, as one WAV file.
// An empty path uses the configured export name.
func (s *Studio) Export(path string) (string, error) {
	if path == "" {
		path = s.cfg.ExportName
	}
	data, err := s.store.ExportMerged()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"file":  path,
		"bytes": len(data),
	}).Info("Exported syllables")
	return path, nil
}

// Preview writes the syllables as they play back at the saved pitch.
func (s *Studio) Preview(path string) (string, error) {
	if path == "" {
		path = "preview_" + filepath.Base(s.cfg.ExportName)
	}
	rate := wav.RateForSemitones(s.Pitch())

	rendered, err := playback.Render(s.store.Present(), rate)
	if err != nil {
		return "", err
	}
	data, err := wav.Encode(rendered)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing preview: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"file":   path,
		"rate":   rate,
		"frames": rendered.Frames(),
	}).Info("Rendered preview")
	return path, nil
}

func (s *Studio) save() error {
	buffers, err := s.store.SerializeAll()
	if err != nil {
		return err
	}
	if err := s.file.Save(&session.State{Settings: s.settings, Buffers: buffers}); err != nil {
		return err
	}
	s.logger.WithField("session", s.file.Path()).Debug("Session saved")
	return nil
}
