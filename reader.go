package wav

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"github.com/youpy/go-riff"
	"github.com/zaf/g711"
)

// AudioFormatExtensible defers the real format tag to the fmt extension.
const AudioFormatExtensible = 0xFFFE

// container is the parsed skeleton of a WAV file.
type container struct {
	format *WavFormat
	// fmtChunk is the whole fmt chunk, including any extension.
	fmtChunk []byte
	data     []byte
}

// Decode parses a 16-bit linear PCM WAV file, the format Encode writes.
// Samples are scaled by 1/32768. Anything else yields a *FormatError.
func Decode(data []byte) (*Buffer, error) {
	c, err := readContainer(data)
	if err != nil {
		return nil, err
	}

	format := c.format
	if format.AudioFormat != AudioFormatPCM {
		return nil, formatErrorf("unsupported audio format %d, only PCM is supported", format.AudioFormat)
	}
	if format.BitsPerSample != bitsPerSample {
		return nil, formatErrorf("unsupported bit depth %d, only 16-bit is supported", format.BitsPerSample)
	}

	return deinterleave(c, bytesPerSample, func(b []byte) float64 {
		return float64(int16(binary.LittleEndian.Uint16(b))) / 32768.0
	}), nil
}

// Import parses the WAV variants instruments and recordings arrive in:
// integer PCM at 8, 16, 24 or 32 bits, IEEE float at 32 or 64 bits and
// G.711 A-law or mu-law.
func Import(data []byte) (*Buffer, error) {
	c, err := readContainer(data)
	if err != nil {
		return nil, err
	}

	audioFormat := c.format.AudioFormat
	if audioFormat == AudioFormatExtensible {
		// cbSize, valid bits and channel mask precede the sub-format GUID.
		if len(c.fmtChunk) < fmtChunkSize+10 {
			return nil, formatErrorf("extensible fmt chunk is %d bytes", len(c.fmtChunk))
		}
		audioFormat = binary.LittleEndian.Uint16(c.fmtChunk[fmtChunkSize+8:])
	}

	width, decodeSample, err := sampleDecoder(audioFormat, int(c.format.BitsPerSample))
	if err != nil {
		return nil, err
	}
	return deinterleave(c, width, decodeSample), nil
}

func sampleDecoder(audioFormat uint16, bits int) (int, func([]byte) float64, error) {
	switch audioFormat {
	case AudioFormatIEEEFloat:
		switch bits {
		case 32:
			return 4, func(b []byte) float64 {
				return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
			}, nil
		case 64:
			return 8, func(b []byte) float64 {
				return math.Float64frombits(binary.LittleEndian.Uint64(b))
			}, nil
		}

	case AudioFormatALaw:
		if bits == 8 {
			return 1, func(b []byte) float64 {
				return float64(g711.DecodeAlawFrame(b[0])) / 32768.0
			}, nil
		}

	case AudioFormatMULaw:
		if bits == 8 {
			return 1, func(b []byte) float64 {
				return float64(g711.DecodeUlawFrame(b[0])) / 32768.0
			}, nil
		}

	case AudioFormatPCM:
		switch bits {
		case 8:
			// 8-bit PCM is unsigned with silence at 128.
			return 1, func(b []byte) float64 {
				return (float64(b[0]) - 128) / 128
			}, nil
		case 16, 24, 32:
			width := bits / 8
			scale := math.Pow(2, float64(bits-1))
			return width, func(b []byte) float64 {
				var val uint
				for i := 0; i < width; i++ {
					val += uint(b[i]) << uint(i*8)
				}
				return float64(toInt(val, bits)) / scale
			}, nil
		}

	default:
		return 0, nil, formatErrorf("unsupported audio format %d", audioFormat)
	}

	return 0, nil, formatErrorf("unsupported bit depth %d for audio format %d", bits, audioFormat)
}

// deinterleave splits the data chunk into channels. A trailing partial
// frame is dropped.
func deinterleave(c *container, width int, decodeSample func([]byte) float64) *Buffer {
	numChannels := int(c.format.NumChannels)
	blockAlign := numChannels * width
	frames := len(c.data) / blockAlign

	buf := newBuffer(numChannels, int(c.format.SampleRate), frames)
	offset := 0
	for i := 0; i < frames; i++ {
		for ch := 0; ch < numChannels; ch++ {
			buf.channels[ch][i] = decodeSample(c.data[offset+ch*width:])
		}
		offset += blockAlign
	}
	return buf
}

func readContainer(data []byte) (*container, error) {
	if len(data) < 12 {
		return nil, formatErrorf("%d bytes is too short for a RIFF header", len(data))
	}
	if string(data[0:4]) != "RIFF" {
		return nil, formatErrorf("missing RIFF header")
	}
	if string(data[8:12]) != "WAVE" {
		return nil, formatErrorf("RIFF type is %q, not WAVE", data[8:12])
	}

	if err := checkChunkHeaders(data); err != nil {
		return nil, err
	}
	riffChunk, err := readRIFF(data)
	if err != nil {
		return nil, err
	}

	fmtChunk := findChunk(riffChunk, "fmt ")
	if fmtChunk == nil {
		return nil, formatErrorf("format chunk is not found")
	}
	fmtBytes, err := readChunk(fmtChunk, data)
	if err != nil {
		return nil, err
	}
	if len(fmtBytes) < fmtChunkSize {
		return nil, formatErrorf("format chunk is %d bytes, need %d", len(fmtBytes), fmtChunkSize)
	}

	format := new(WavFormat)
	if err := binary.Read(bytes.NewReader(fmtBytes), binary.LittleEndian, format); err != nil {
		return nil, &FormatError{Reason: "reading format chunk", Err: err}
	}
	if format.NumChannels == 0 {
		return nil, formatErrorf("format declares no channels")
	}
	if format.SampleRate == 0 {
		return nil, formatErrorf("format declares a zero sample rate")
	}
	if format.BitsPerSample == 0 {
		return nil, formatErrorf("BitsPerSample is 0, which is invalid for audio format")
	}

	dataChunk := findChunk(riffChunk, "data")
	if dataChunk == nil {
		return nil, formatErrorf("data chunk is not found")
	}
	pcm, err := readChunk(dataChunk, data)
	if err != nil {
		return nil, err
	}

	return &container{format: format, fmtChunk: fmtBytes, data: pcm}, nil
}

// checkChunkHeaders walks the chunk headers the RIFF size covers and fails
// if the file ends inside one. go-riff panics on such input.
func checkChunkHeaders(data []byte) error {
	end := uint64(binary.LittleEndian.Uint32(data[4:])) + 8
	if end > uint64(len(data)) {
		end = uint64(len(data))
	}
	for offset := uint64(12); offset < end; {
		if offset+8 > uint64(len(data)) {
			return formatErrorf("truncated chunk header at offset %d", offset)
		}
		size := uint64(binary.LittleEndian.Uint32(data[offset+4:]))
		offset += 8 + size + size&1
	}
	return nil
}

func readRIFF(data []byte) (riffChunk *riff.RIFFChunk, err error) {
	defer func() {
		if r := recover(); r != nil {
			riffChunk, err = nil, formatErrorf("reading RIFF chunks: %v", r)
		}
	}()

	riffChunk, err = riff.NewReader(bytes.NewReader(data)).Read()
	if err != nil {
		return nil, &FormatError{Reason: "reading RIFF chunks", Err: err}
	}
	return riffChunk, nil
}

// readChunk returns the chunk body at its declared size. go-riff's
// ChunkSize includes the pad byte of odd-sized chunks, so the size is read
// from the chunk header instead. A missing final pad byte is accepted.
func readChunk(ch *riff.Chunk, data []byte) ([]byte, error) {
	id := string(ch.ChunkID[:])
	section, ok := ch.RIFFReader.(*io.SectionReader)
	if !ok {
		return nil, formatErrorf("cannot locate %q chunk", id)
	}
	_, offset, _ := section.Outer()
	if offset < 8 || offset > int64(len(data)) {
		return nil, formatErrorf("%q chunk at invalid offset %d", id, offset)
	}

	size := int64(binary.LittleEndian.Uint32(data[offset-4:]))
	if offset+size > int64(len(data)) {
		return nil, formatErrorf("truncated %s chunk: declares %d bytes, %d present", id, size, int64(len(data))-offset)
	}
	return data[offset : offset+size], nil
}

func findChunk(riffChunk *riff.RIFFChunk, id string) (chunk *riff.Chunk) {
	for _, ch := range riffChunk.Chunks {
		if string(ch.ChunkID[:]) == id {
			chunk = ch
			break
		}
	}

	return
}

func toInt(value uint, bits int) int {
	var result int

	switch bits {
	case 32:
		result = int(int32(value))
	case 16:
		result = int(int16(value))
	case 8:
		result = int(int8(value))
	default:
		msb := uint(1 << (uint(bits) - 1))

		if value >= msb {
			result = -int((1 << uint(bits)) - value)
		} else {
			result = int(value)
		}
	}

	return result
}
