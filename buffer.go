package wav

import (
	"errors"
	"fmt"
	"time"
)

// Buffer holds decoded audio as per-channel float samples, nominally in
// [-1, 1]. A Buffer is treated as an immutable value once constructed.
type Buffer struct {
	sampleRate int
	channels   [][]float64
}

// NewBuffer copies channels into a new Buffer. Every channel must have the
// same length.
func NewBuffer(sampleRate int, channels [][]float64) (*Buffer, error) {
	if len(channels) == 0 {
		return nil, errors.New("wav: buffer needs at least one channel")
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("wav: sample rate must be positive, got %d", sampleRate)
	}

	frames := len(channels[0])
	data := make([][]float64, len(channels))
	for i, ch := range channels {
		if len(ch) != frames {
			return nil, fmt.Errorf("wav: channel %d has %d frames, channel 0 has %d", i, len(ch), frames)
		}
		data[i] = append([]float64(nil), ch...)
	}

	return &Buffer{sampleRate: sampleRate, channels: data}, nil
}

// NewSilence returns a zero-filled buffer.
func NewSilence(numChannels, sampleRate, frames int) (*Buffer, error) {
	if numChannels < 1 {
		return nil, errors.New("wav: buffer needs at least one channel")
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("wav: sample rate must be positive, got %d", sampleRate)
	}
	if frames < 0 {
		return nil, fmt.Errorf("wav: negative frame count %d", frames)
	}
	return newBuffer(numChannels, sampleRate, frames), nil
}

// newBuffer allocates without validation; callers own the arguments.
func newBuffer(numChannels, sampleRate, frames int) *Buffer {
	data := make([][]float64, numChannels)
	for i := range data {
		data[i] = make([]float64, frames)
	}
	return &Buffer{sampleRate: sampleRate, channels: data}
}

func (b *Buffer) Channels() int {
	return len(b.channels)
}

func (b *Buffer) SampleRate() int {
	return b.sampleRate
}

// Frames returns the number of samples in each channel.
func (b *Buffer) Frames() int {
	if len(b.channels) == 0 {
		return 0
	}
	return len(b.channels[0])
}

// Channel returns a copy of the samples of channel ch.
func (b *Buffer) Channel(ch int) []float64 {
	return append([]float64(nil), b.channels[ch]...)
}

func (b *Buffer) Sample(ch, frame int) float64 {
	return b.channels[ch][frame]
}

// Duration is the play time of the buffer at its own sample rate.
func (b *Buffer) Duration() time.Duration {
	return time.Duration(float64(b.Frames()) / float64(b.sampleRate) * float64(time.Second))
}
