package studio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wav "github.com/zrdimetc/go-wav-syllable"
	"github.com/zrdimetc/go-wav-syllable/internal/config"
	"github.com/zrdimetc/go-wav-syllable/syllable"
)

type fixture struct {
	cfg  *config.Config
	hook *test.Hook
	dir  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	sounds := filepath.Join(dir, "sounds")
	require.NoError(t, os.Mkdir(sounds, 0o755))

	writeSound(t, filepath.Join(sounds, "kick.wav"), 8000, 0.5, 0.25, 0)
	writeSound(t, filepath.Join(sounds, "snare.wav"), 8000, -0.5, -0.25)

	_, hook := test.NewNullLogger()
	return &fixture{
		cfg: &config.Config{
			SessionPath: filepath.Join(dir, "session.yaml"),
			SoundsDir:   sounds,
			ExportName:  filepath.Join(dir, "edited_sound.wav"),
			LogLevel:    logrus.InfoLevel,
			PitchLimit:  12,
		},
		hook: hook,
		dir:  dir,
	}
}

func (f *fixture) open(t *testing.T) *Studio {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	f.hook = hook

	s, err := Open(f.cfg, logger)
	require.NoError(t, err)
	return s
}

func messages(hook *test.Hook) []string {
	var out []string
	for _, entry := range hook.AllEntries() {
		out = append(out, entry.Message)
	}
	return out
}

func writeSound(t *testing.T, path string, rate int, samples ...float64) {
	t.Helper()
	b, err := wav.NewBuffer(rate, [][]float64{samples})
	require.NoError(t, err)
	data, err := wav.Encode(b)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestOpenEmptySession(t *testing.T) {
	f := newFixture(t)
	s := f.open(t)

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, s.Selected())
	assert.Equal(t, 0.0, s.Pitch())
	assert.Empty(t, s.Slots())
}

func TestLoadInstrumentIntoFirstSlot(t *testing.T) {
	f := newFixture(t)
	s := f.open(t)

	require.NoError(t, s.LoadInstrument("kick.wav"))
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, "kick.wav", s.Settings().Instrument)
	assert.Equal(t, "syllable1", s.Settings().Syllable)
	assert.Contains(t, messages(f.hook), "Loaded sound")
	assert.Equal(t, "Session saved", f.hook.LastEntry().Message)

	reopened := f.open(t)
	require.Equal(t, 1, reopened.Len())
	assert.Equal(t, []float64{0.5, 0.25, 0}, reopened.Buffer(0).Channel(0))
	assert.Equal(t, "kick.wav", reopened.Settings().Instrument)
}

func TestAddSelectAndExport(t *testing.T) {
	f := newFixture(t)
	s := f.open(t)

	require.NoError(t, s.LoadInstrument("kick.wav"))
	idx, err := s.AddSlot()
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Equal(t, 1, s.Selected())

	_, err = s.AddSlot()
	require.NoError(t, err)
	require.NoError(t, s.Select(1))
	require.NoError(t, s.LoadInstrument("snare.wav"))

	slots := s.Slots()
	require.Len(t, slots, 3)
	assert.True(t, slots[0].Loaded)
	assert.True(t, slots[1].Loaded)
	assert.True(t, slots[1].Selected)
	assert.False(t, slots[2].Loaded)
	assert.Equal(t, "syllable3", slots[2].Name)

	path, err := s.Export("")
	require.NoError(t, err)
	assert.Equal(t, f.cfg.ExportName, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	merged, err := wav.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.25, 0, -0.5, -0.25}, merged.Channel(0))
}

func TestSelectOutOfRange(t *testing.T) {
	f := newFixture(t)
	s := f.open(t)

	err := s.Select(0)
	var indexErr *syllable.IndexError
	assert.True(t, errors.As(err, &indexErr))
}

func TestExportEmpty(t *testing.T) {
	f := newFixture(t)
	s := f.open(t)
	_, err := s.AddSlot()
	require.NoError(t, err)

	_, err = s.Export("")
	assert.ErrorIs(t, err, wav.ErrEmptyInput)
	assert.NoFileExists(t, f.cfg.ExportName)
}

func TestLoadRejectsCompressed(t *testing.T) {
	f := newFixture(t)
	s := f.open(t)

	err := s.LoadInstrument("song.mp3")
	assert.ErrorIs(t, err, ErrCompressed)

	err = s.LoadInstrument("../kick.wav")
	assert.Error(t, err)
}

func TestLoadFileRejectsGarbage(t *testing.T) {
	f := newFixture(t)
	s := f.open(t)

	path := filepath.Join(f.dir, "garbage.wav")
	require.NoError(t, os.WriteFile(path, []byte("not a wave file at all"), 0o644))

	err := s.LoadFile(path)
	var formatErr *wav.FormatError
	assert.True(t, errors.As(err, &formatErr))
	assert.Equal(t, 0, s.Len())
}

func TestPitch(t *testing.T) {
	f := newFixture(t)
	s := f.open(t)

	require.NoError(t, s.SetPitch(-7.5))
	assert.Equal(t, "-7.5", s.Settings().Pitch)
	assert.Equal(t, -7.5, f.open(t).Pitch())

	assert.Error(t, s.SetPitch(13))
	assert.Equal(t, -7.5, s.Pitch())
}

func TestPreview(t *testing.T) {
	f := newFixture(t)
	s := f.open(t)
	require.NoError(t, s.LoadInstrument("kick.wav"))

	path, err := s.Preview(filepath.Join(f.dir, "preview.wav"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	b, err := wav.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.25, 0}, b.Channel(0))
}

func TestCorruptSavedSettingsFallBack(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(f.cfg.SessionPath, []byte("syllable: track9\npitch: high\n"), 0o644))

	s := f.open(t)
	assert.Equal(t, 0, s.Selected())
	assert.Equal(t, 0.0, s.Pitch())
	assert.Equal(t, logrus.WarnLevel, f.hook.LastEntry().Level)
}

func TestOpenRejectsCorruptBuffers(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(f.cfg.SessionPath, []byte("syllable_buffers:\n  - SlVOSw==\n"), 0o644))

	_, err := Open(f.cfg, logrus.New())
	var formatErr *wav.FormatError
	assert.True(t, errors.As(err, &formatErr))
}
