package ffmml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_EffectiveFraction_QuarterAtTempo120(t *testing.T) {
	d := Duration{Denom: 4, HasDenom: true}
	r, err := d.effectiveFraction(4, 120)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, float64(r.num)/float64(r.den), 1e-9)
}

func TestDuration_EffectiveFraction_UsesDefaultDenomWhenMissing(t *testing.T) {
	withDenom := Duration{Denom: 8, HasDenom: true}
	implicit := Duration{}
	r1, err := withDenom.effectiveFraction(8, 120)
	require.NoError(t, err)
	r2, err := implicit.effectiveFraction(8, 120)
	require.NoError(t, err)
	assert.Equal(t, r1, r2)
}

func TestDuration_EffectiveFraction_DotsHalveAndSum(t *testing.T) {
	plain := Duration{Denom: 4, HasDenom: true}
	dotted := Duration{Denom: 4, HasDenom: true, Dots: 1}
	r1, err := plain.effectiveFraction(4, 120)
	require.NoError(t, err)
	r2, err := dotted.effectiveFraction(4, 120)
	require.NoError(t, err)
	assert.InDelta(t, 1.5*(float64(r1.num)/float64(r1.den)), float64(r2.num)/float64(r2.den), 1e-9)
}

func TestDuration_EffectiveFraction_DotsCapAt16(t *testing.T) {
	atCap := Duration{Denom: 4, HasDenom: true, Dots: 16}
	overCap := Duration{Denom: 4, HasDenom: true, Dots: 200}
	r1, err := atCap.effectiveFraction(4, 120)
	require.NoError(t, err)
	r2, err := overCap.effectiveFraction(4, 120)
	require.NoError(t, err)
	assert.Equal(t, r1, r2)
}

func TestDuration_EffectiveFraction_OverflowIsReported(t *testing.T) {
	// Worst-case inputs: maximum denom/tempo and the full 16-dot run, whose
	// denominators multiply together across terms rather than cancelling.
	huge := Duration{Denom: 255, HasDenom: true, Dots: 16}
	_, err := huge.effectiveFraction(255, 255)
	require.Error(t, err)
	assert.ErrorIs(t, err, errDurationOverflow)
}
