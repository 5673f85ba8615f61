// Package session persists the editor state between runs: the three UI
// settings and one WAV blob per syllable slot.
package session

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Settings are opaque strings owned by the UI layer.
type Settings struct {
	Instrument string `yaml:"instrument"`
	Syllable   string `yaml:"syllable"`
	Pitch      string `yaml:"pitch"`
}

// State is everything a session file holds. Buffers has one entry per slot;
// nil marks a slot without audio.
type State struct {
	Settings
	Buffers [][]byte
}

type document struct {
	Settings `yaml:",inline"`
	// Base64 text, or null for an empty slot.
	Buffers []*string `yaml:"syllable_buffers"`
}

// File is a session stored as YAML at a fixed path.
type File struct {
	path string
}

func Open(path string) *File {
	return &File{path: path}
}

func (f *File) Path() string {
	return f.path
}

// Load reads the session. A missing file is an empty session.
func (f *File) Load() (*State, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &State{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}

	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing session %s: %w", f.path, err)
	}

	state := &State{Settings: doc.Settings, Buffers: make([][]byte, len(doc.Buffers))}
	for i, encoded := range doc.Buffers {
		if encoded == nil {
			continue
		}
		data, err := base64.StdEncoding.DecodeString(*encoded)
		if err != nil {
			return nil, fmt.Errorf("session slot %d: %w", i, err)
		}
		state.Buffers[i] = data
	}
	return state, nil
}

// Save replaces the session file. The new content is written next to it and
// renamed into place.
func (f *File) Save(state *State) error {
	doc := document{Settings: state.Settings, Buffers: make([]*string, len(state.Buffers))}
	for i, data := range state.Buffers {
		if data == nil {
			continue
		}
		encoded := base64.StdEncoding.EncodeToString(data)
		doc.Buffers[i] = &encoded
	}

	raw, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), "."+filepath.Base(f.path)+".*")
	if err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("writing session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replacing session: %w", err)
	}
	return nil
}
