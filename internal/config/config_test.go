package config

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SYLLABIC_SESSION",
		"SYLLABIC_SOUNDS_DIR",
		"SYLLABIC_EXPORT_NAME",
		"SYLLABIC_LOG_LEVEL",
		"SYLLABIC_PITCH_LIMIT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "syllabic.yaml", cfg.SessionPath)
	assert.Equal(t, "sounds", cfg.SoundsDir)
	assert.Equal(t, "edited_sound.wav", cfg.ExportName)
	assert.Equal(t, logrus.InfoLevel, cfg.LogLevel)
	assert.Equal(t, 12.0, cfg.PitchLimit)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SYLLABIC_SESSION", "/tmp/s.yaml")
	t.Setenv("SYLLABIC_SOUNDS_DIR", "/srv/sounds")
	t.Setenv("SYLLABIC_EXPORT_NAME", "song.wav")
	t.Setenv("SYLLABIC_LOG_LEVEL", "debug")
	t.Setenv("SYLLABIC_PITCH_LIMIT", "24")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/s.yaml", cfg.SessionPath)
	assert.Equal(t, "/srv/sounds", cfg.SoundsDir)
	assert.Equal(t, "song.wav", cfg.ExportName)
	assert.Equal(t, logrus.DebugLevel, cfg.LogLevel)
	assert.Equal(t, 24.0, cfg.PitchLimit)
}

func TestLoadInvalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("SYLLABIC_LOG_LEVEL", "loud")
	_, err := Load()
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv("SYLLABIC_PITCH_LIMIT", "-3")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("SYLLABIC_PITCH_LIMIT", "many")
	_, err = Load()
	assert.Error(t, err)
}
