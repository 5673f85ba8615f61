package wav

// Concatenate joins the non-nil buffers end to end in order. The result
// takes its sample rate and channel count from the first non-nil buffer.
//
// Later buffers are not converted: samples are copied at their own rate,
// only the first min(result, source) channels of each source are copied,
// and result channels a source lacks stay silent for that stretch.
func Concatenate(buffers []*Buffer) (*Buffer, error) {
	var first *Buffer
	frames := 0
	for _, b := range buffers {
		if b == nil {
			continue
		}
		if first == nil {
			first = b
		}
		frames += b.Frames()
	}
	if first == nil {
		return nil, ErrEmptyInput
	}

	out := newBuffer(first.Channels(), first.sampleRate, frames)
	offset := 0
	for _, b := range buffers {
		if b == nil {
			continue
		}
		n := b.Channels()
		if n > out.Channels() {
			n = out.Channels()
		}
		for ch := 0; ch < n; ch++ {
			copy(out.channels[ch][offset:], b.channels[ch])
		}
		offset += b.Frames()
	}
	return out, nil
}
