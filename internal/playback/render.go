// Package playback renders what sequential playback of the syllables sounds
// like at a given playback rate, for offline preview.
package playback

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/nakat-t/sonic-go"

	wav "github.com/zrdimetc/go-wav-syllable"
)

// Render plays the non-nil buffers back to back, without gaps, at rate
// (as produced by wav.RateForSemitones) and returns the result. Speed and
// pitch both scale by rate, like a sped-up tape.
func Render(buffers []*wav.Buffer, rate float64) (*wav.Buffer, error) {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
		return nil, fmt.Errorf("playback: invalid rate %v", rate)
	}

	rendered := make([]*wav.Buffer, 0, len(buffers))
	for i, b := range buffers {
		if b == nil {
			continue
		}
		if rate == 1 {
			rendered = append(rendered, b)
			continue
		}
		r, err := transform(b, rate)
		if err != nil {
			return nil, fmt.Errorf("playback: slot %d: %w", i, err)
		}
		rendered = append(rendered, r)
	}
	return wav.Concatenate(rendered)
}

// transform runs each channel through its own mono sonic stream.
func transform(b *wav.Buffer, rate float64) (*wav.Buffer, error) {
	channels := make([][]float64, b.Channels())
	frames := -1
	for ch := range channels {
		out, err := transformChannel(b.Channel(ch), b.SampleRate(), rate)
		if err != nil {
			return nil, err
		}
		if frames < 0 || len(out) < frames {
			frames = len(out)
		}
		channels[ch] = out
	}
	// Streams may flush a few samples apart; trim to the shortest.
	for ch := range channels {
		channels[ch] = channels[ch][:frames]
	}
	return wav.NewBuffer(b.SampleRate(), channels)
}

func transformChannel(samples []float64, sampleRate int, rate float64) ([]float64, error) {
	mono, err := wav.NewBuffer(sampleRate, [][]float64{samples})
	if err != nil {
		return nil, err
	}
	encoded, err := wav.Encode(mono)
	if err != nil {
		return nil, err
	}

	out := new(bytes.Buffer)
	transformer, err := sonic.NewTransformer(out, sampleRate, sonic.AudioFormatPCM,
		sonic.WithSpeed(rate),
		sonic.WithPitch(rate),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sonic transformer: %w", err)
	}
	if _, err := transformer.Write(encoded[wav.HeaderSize:]); err != nil {
		return nil, fmt.Errorf("sonic write: %w", err)
	}
	transformer.Flush()

	pcm := out.Bytes()
	result := make([]float64, len(pcm)/2)
	for i := range result {
		result[i] = float64(int16(binary.LittleEndian.Uint16(pcm[i*2:]))) / 32768.0
	}
	return result, nil
}
