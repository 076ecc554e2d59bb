package ffmml

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// S1 (smoke): script `A c4`, sample rate 8000. The player emits exactly
// 4000 samples for `c4` at tempo 120 (one quarter = 0.5 s), then ends.
func TestMusicPlayer_Smoke_QuarterNoteSampleCount(t *testing.T) {
	m, err := Parse("A c4")
	require.NoError(t, err)

	mp := NewMusicPlayer(m, 8000)
	count := 0
	for {
		_, ok := mp.NextSample()
		if !ok {
			break
		}
		count++
	}
	assert.Equal(t, 4000, count)
	assert.NoError(t, mp.Err())
}

// S3 (repeat): `A [c4 d4]3` yields the same total note_clock as
// `A c4 d4 c4 d4 c4 d4`.
func TestMusicPlayer_Repeat_MatchesUnrolledSampleCount(t *testing.T) {
	repeated, err := Parse("A [c4 d4]3")
	require.NoError(t, err)
	unrolled, err := Parse("A c4 d4 c4 d4 c4 d4")
	require.NoError(t, err)

	countSamples := func(m *Music) int {
		mp := NewMusicPlayer(m, 8000)
		n := 0
		for {
			_, ok := mp.NextSample()
			if !ok {
				break
			}
			n++
		}
		return n
	}

	assert.Equal(t, countSamples(unrolled), countSamples(repeated))
}

// Property 8: `c4^4` plays c for two quarters' worth of time,
// re-triggering only on the first note.
func TestMusicPlayer_Tie_SumsDurationsWithoutRetrigger(t *testing.T) {
	tied, err := Parse("A c4^4")
	require.NoError(t, err)
	plain, err := Parse("A c2")
	require.NoError(t, err)

	countSamples := func(m *Music) int {
		mp := NewMusicPlayer(m, 8000)
		n := 0
		for {
			_, ok := mp.NextSample()
			if !ok {
				break
			}
			n++
		}
		return n
	}

	assert.Equal(t, countSamples(plain), countSamples(tied))
}

// `c4&d4` is a play error: slur requires identical pitches either side.
func TestMusicPlayer_Slur_MismatchedPitchIsPlayError(t *testing.T) {
	m, err := Parse("A c4&d4")
	require.NoError(t, err)
	mp := NewMusicPlayer(m, 8000)
	for {
		_, ok := mp.NextSample()
		if !ok {
			break
		}
	}
	require.Error(t, mp.Err())
	var pe *PlayError
	require.ErrorAs(t, mp.Err(), &pe)
	assert.Contains(t, pe.Reason, "identical")
}

// `c4&c4` behaves like the tie case: one retrigger, summed duration.
func TestMusicPlayer_Slur_MatchingPitchSumsDuration(t *testing.T) {
	slurred, err := Parse("A c4&c4")
	require.NoError(t, err)
	plain, err := Parse("A c2")
	require.NoError(t, err)

	countSamples := func(m *Music) int {
		mp := NewMusicPlayer(m, 8000)
		n := 0
		for {
			_, ok := mp.NextSample()
			if !ok {
				break
			}
			n++
		}
		return n
	}

	assert.Equal(t, countSamples(plain), countSamples(slurred))
}

func TestMusicPlayer_Tie_WithoutPrecedingNoteIsPlayError(t *testing.T) {
	m, err := Parse("A r4^4")
	require.NoError(t, err)
	mp := NewMusicPlayer(m, 8000)
	for {
		_, ok := mp.NextSample()
		if !ok {
			break
		}
	}
	require.Error(t, mp.Err())
	var pe *PlayError
	require.ErrorAs(t, mp.Err(), &pe)
	assert.Contains(t, pe.Reason, "'^'")
}

func TestMusicPlayer_VolumeUp_OverflowIsPlayError(t *testing.T) {
	m, err := Parse("A v15 v+1 c4")
	require.NoError(t, err)
	mp := NewMusicPlayer(m, 8000)
	for {
		_, ok := mp.NextSample()
		if !ok {
			break
		}
	}
	require.Error(t, mp.Err())
	var pe *PlayError
	require.ErrorAs(t, mp.Err(), &pe)
	assert.Contains(t, pe.Reason, "volume overflow")
}

func TestMusicPlayer_OctaveUp_OverflowIsPlayError(t *testing.T) {
	m, err := Parse("A o7 > c4")
	require.NoError(t, err)
	mp := NewMusicPlayer(m, 8000)
	for {
		_, ok := mp.NextSample()
		if !ok {
			break
		}
	}
	require.Error(t, mp.Err())
	var pe *PlayError
	require.ErrorAs(t, mp.Err(), &pe)
	assert.Contains(t, pe.Reason, "octave overflow")
}

// S2 (volume ramp): `@v0={15,12,9,6,3,0}\nA @v0 c1` at 48 kHz produces six
// equal-length (800-sample) volume plateaus in order 15,12,9,6,3,0, then
// holds the last value for the remainder of the note. Channel A is the
// only non-silent channel, so every mixed sample is channel A's own
// sample divided by the four declared channels.
func TestMusicPlayer_VolumeRamp_ProducesOrderedPlateaus(t *testing.T) {
	const sampleRate = 48000
	const plateauLen = sampleRate / 60 // 800

	m, err := Parse("@v0={15,12,9,6,3,0}\nA @v0 c1")
	require.NoError(t, err)

	mp := NewMusicPlayer(m, sampleRate)
	var samples []Sample
	for {
		s, ok := mp.NextSample()
		if !ok {
			break
		}
		samples = append(samples, s)
	}
	require.NoError(t, mp.Err())
	require.GreaterOrEqual(t, len(samples), plateauLen*6)

	expectedVol := []int{15, 12, 9, 6, 3, 0}
	for i, vol := range expectedVol {
		start := i * plateauLen
		end := start + plateauLen
		wantMag := float64(vol) / 15.0 / 4.0 // /4: 3 of 4 declared channels are silent
		for j := start; j < end; j++ {
			assert.InDelta(t, wantMag, math.Abs(float64(samples[j])), 1e-9)
		}
	}

	// The sixth (zero-volume) plateau holds for the rest of the note.
	for j := 6 * plateauLen; j < len(samples); j++ {
		assert.Equal(t, SampleZero, samples[j])
	}
}

// A play error on one channel must not silence its siblings: channel A
// errors when its first quarter note ends (mismatched slur pitch) while
// channel B's whole note still has 1.5 s of legitimate audio left.
func TestMusicPlayer_ChannelError_DoesNotSilenceSiblings(t *testing.T) {
	m, err := Parse("A c4&d4\nB c1")
	require.NoError(t, err)

	mp := NewMusicPlayer(m, 8000)
	aloneErrored := false
	sawNonSilentAfterError := false
	for {
		s, ok := mp.NextSample()
		if !ok {
			break
		}
		if mp.players['A'].Err() != nil {
			aloneErrored = true
			if s != SampleZero {
				sawNonSilentAfterError = true
			}
		}
	}
	require.True(t, aloneErrored, "expected channel A to have errored before the mix ended")
	assert.True(t, sawNonSilentAfterError, "channel B's audio must continue after channel A errors")
	require.Error(t, mp.Err())
}

func TestMusicPlayer_DeterministicSynthesis_TwoPlayersMatch(t *testing.T) {
	m, err := Parse("@v0={15,12,9,6,3,0}\nA @v0 c1")
	require.NoError(t, err)

	run := func() []Sample {
		mp := NewMusicPlayer(m, 8000)
		var out []Sample
		for {
			s, ok := mp.NextSample()
			if !ok {
				break
			}
			out = append(out, s)
		}
		return out
	}

	a := run()
	b := run()
	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i], b[i])
	}
}
