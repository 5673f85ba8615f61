package wav

import "math"

// RateForSemitones converts a pitch offset in semitones into the playback
// rate multiplier that produces it: 2^(offset/12).
func RateForSemitones(offset float64) float64 {
	return math.Pow(2, offset/12)
}
