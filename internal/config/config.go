package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds all configuration for the syllable editor
type Config struct {
	SessionPath string
	SoundsDir   string
	ExportName  string
	LogLevel    logrus.Level
	// PitchLimit bounds the semitone setting in both directions
	PitchLimit float64
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	level, err := logrus.ParseLevel(envStr("SYLLABIC_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("SYLLABIC_LOG_LEVEL: %w", err)
	}

	pitchLimit := 12.0
	if v := os.Getenv("SYLLABIC_PITCH_LIMIT"); v != "" {
		pitchLimit, err = strconv.ParseFloat(v, 64)
		if err != nil || pitchLimit <= 0 {
			return nil, fmt.Errorf("SYLLABIC_PITCH_LIMIT must be a positive number, got %q", v)
		}
	}

	return &Config{
		SessionPath: envStr("SYLLABIC_SESSION", "syllabic.yaml"),
		SoundsDir:   envStr("SYLLABIC_SOUNDS_DIR", "sounds"),
		ExportName:  envStr("SYLLABIC_EXPORT_NAME", "edited_sound.wav"),
		LogLevel:    level,
		PitchLimit:  pitchLimit,
	}, nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
