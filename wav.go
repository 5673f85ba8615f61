package wav

import (
	"errors"
	"fmt"
)

const (
	AudioFormatPCM       = 1
	AudioFormatIEEEFloat = 3
	AudioFormatALaw      = 6
	AudioFormatMULaw     = 7
)

const (
	// HeaderSize is the length of the canonical header written by Encode.
	HeaderSize = 44

	bitsPerSample  = 16
	bytesPerSample = bitsPerSample / 8
	fmtChunkSize   = 16
)

// WavFormat mirrors the 16-byte PCM fmt chunk field for field.
type WavFormat struct {
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
}

// ErrEmptyInput is returned when there is no buffer to concatenate or export.
var ErrEmptyInput = errors.New("no audio buffers to concatenate")

// FormatError reports WAV input that is malformed or not supported.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("wav: %s: %v", e.Reason, e.Err)
	}
	return "wav: " + e.Reason
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func formatErrorf(format string, args ...interface{}) error {
	return &FormatError{Reason: fmt.Sprintf(format, args...)}
}
