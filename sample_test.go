package ffmml

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSample_Clamp(t *testing.T) {
	assert.Equal(t, SampleMax, Sample(1.5).Clamp())
	assert.Equal(t, SampleMin, Sample(-1.5).Clamp())
	assert.Equal(t, Sample(0.25), Sample(0.25).Clamp())
}

func TestSample_PCM16_Endpoints(t *testing.T) {
	assert.Equal(t, int16(32767), SampleMax.PCM16())
	assert.Equal(t, int16(-32768), SampleMin.PCM16())
	assert.Equal(t, int16(0), SampleZero.PCM16())
}

func TestSample_PCM16_AsymmetricScale(t *testing.T) {
	// Positive and negative halves scale against different magnitudes
	// (32767 vs 32768), so a symmetric input produces an asymmetric output.
	pos := Sample(0.5).PCM16()
	neg := Sample(-0.5).PCM16()
	assert.Equal(t, int16(16383), pos)
	assert.Equal(t, int16(-16384), neg)
}
