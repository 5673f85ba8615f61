package wav

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/youpy/go-riff"
)

// Encode renders b as a canonical 16-bit PCM WAV file: a RIFF header, a
// 16-byte fmt chunk and a data chunk of interleaved little-endian samples.
// Samples outside [-1, 1] are clamped.
func Encode(b *Buffer) ([]byte, error) {
	numChannels := b.Channels()
	if numChannels < 1 || numChannels > math.MaxUint16/bytesPerSample {
		return nil, fmt.Errorf("wav: cannot encode %d channels", numChannels)
	}
	if b.sampleRate <= 0 {
		return nil, fmt.Errorf("wav: cannot encode sample rate %d", b.sampleRate)
	}

	blockAlign := uint64(numChannels * bytesPerSample)
	dataSize := uint64(b.Frames()) * blockAlign
	byteRate := uint64(b.sampleRate) * blockAlign
	if dataSize+HeaderSize-8 > math.MaxUint32 || byteRate > math.MaxUint32 {
		return nil, fmt.Errorf("wav: %d frames at %d Hz do not fit a RIFF file", b.Frames(), b.sampleRate)
	}

	format := &WavFormat{
		AudioFormat:   AudioFormatPCM,
		NumChannels:   uint16(numChannels),
		SampleRate:    uint32(b.sampleRate),
		ByteRate:      uint32(byteRate),
		BlockAlign:    uint16(blockAlign),
		BitsPerSample: bitsPerSample,
	}

	out := bytes.NewBuffer(make([]byte, 0, HeaderSize+int(dataSize)))
	w := riff.NewWriter(out, []byte("WAVE"), uint32(dataSize+HeaderSize-8))
	w.WriteChunk([]byte("fmt "), fmtChunkSize, func(cw io.Writer) {
		binary.Write(cw, binary.LittleEndian, format)
	})
	w.WriteChunk([]byte("data"), uint32(dataSize), func(cw io.Writer) {
		cw.Write(interleave(b))
	})

	if out.Len() != HeaderSize+int(dataSize) {
		return nil, fmt.Errorf("wav: wrote %d bytes, expected %d", out.Len(), HeaderSize+int(dataSize))
	}
	return out.Bytes(), nil
}

// interleave packs the samples frame by frame, channel by channel.
func interleave(b *Buffer) []byte {
	numChannels := b.Channels()
	pcm := make([]byte, b.Frames()*numChannels*bytesPerSample)
	pos := 0
	for i := 0; i < b.Frames(); i++ {
		for ch := 0; ch < numChannels; ch++ {
			binary.LittleEndian.PutUint16(pcm[pos:], uint16(quantize(b.channels[ch][i])))
			pos += bytesPerSample
		}
	}
	return pcm
}

// quantize maps a float sample onto [-32767, 32767]. NaN becomes silence.
func quantize(s float64) int16 {
	switch {
	case math.IsNaN(s):
		return 0
	case s > 1:
		s = 1
	case s < -1:
		s = -1
	}
	return int16(math.Round(s * math.MaxInt16))
}
