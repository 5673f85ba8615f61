package wav

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBufferValidates(t *testing.T) {
	_, err := NewBuffer(44100, nil)
	assert.Error(t, err)

	_, err = NewBuffer(0, [][]float64{{0}})
	assert.Error(t, err)

	_, err = NewBuffer(44100, [][]float64{{0, 0}, {0}})
	assert.Error(t, err)

	_, err = NewSilence(0, 44100, 10)
	assert.Error(t, err)

	_, err = NewSilence(1, 44100, -1)
	assert.Error(t, err)
}

func TestNewBufferCopiesInput(t *testing.T) {
	samples := []float64{0.1, 0.2}
	b, err := NewBuffer(8000, [][]float64{samples})
	require.NoError(t, err)

	samples[0] = 0.9
	assert.Equal(t, 0.1, b.Sample(0, 0))

	ch := b.Channel(0)
	ch[1] = 0.9
	assert.Equal(t, 0.2, b.Sample(0, 1))
}

func TestBufferDuration(t *testing.T) {
	b, err := NewSilence(2, 8000, 4000)
	require.NoError(t, err)

	assert.Equal(t, 2, b.Channels())
	assert.Equal(t, 4000, b.Frames())
	assert.Equal(t, 500*time.Millisecond, b.Duration())
}
