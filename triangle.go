package ffmml

import "math"

// triangleWaveform is the NES APU's 32-step piecewise-linear triangle, falling
// from +1 to -1 and rising back, the default channel C voice.
var triangleWaveform = [32]float64{
	1.0, 0.8666667, 0.73333335, 0.6, 0.46666667, 0.33333334, 0.2, 0.06666667,
	-0.06666667, -0.2, -0.33333334, -0.46666667, -0.6, -0.73333335, -0.8666667, -1.0,
	-1.0, -0.8666667, -0.73333335, -0.6, -0.46666667, -0.33333334, -0.2, -0.06666667,
	0.06666667, 0.2, 0.33333334, 0.46666667, 0.6, 0.73333335, 0.8666667, 1.0,
}

type triangleMuteState int

const (
	triangleMuteOff triangleMuteState = iota
	triangleMuteSwitching
	triangleMuteOn
)

// triangleWave is one octave lower than pulseWave for the same note/octave
// pair, only accepts Timbre 0, and defers muting to the next zero-crossing
// of its own output to suppress the audible click a hard cut would cause.
type triangleWave struct {
	frequency float64
	phase     float64
	muteState triangleMuteState
	prev      Sample

	// switchingPhase accumulates phase advance while waiting for a
	// zero-crossing to release; capped at one full waveform period of phase,
	// so muting never waits longer than one period of the current frequency.
	switchingPhase float64
}

func newTriangleWave() *triangleWave {
	return &triangleWave{}
}

func (o *triangleWave) sample(sampleRate int, lfo *pitchLFO) Sample {
	if o.muteState == triangleMuteOn {
		return SampleZero
	}

	frequency := o.frequency
	if lfo != nil {
		d := lfo.sample(sampleRate)
		frequency = registerToFrequency(frequencyToRegister(o.frequency) - d)
	}
	step := frequency / float64(sampleRate)
	o.phase += step
	o.phase -= math.Floor(o.phase)
	i := int(math.Floor(o.phase * float64(len(triangleWaveform))))
	if i >= len(triangleWaveform) {
		i = len(triangleWaveform) - 1
	}
	s := Sample(triangleWaveform[i])

	if o.muteState == triangleMuteSwitching {
		o.switchingPhase += step
		if signPositive(o.prev) != signPositive(s) || o.switchingPhase >= 1.0 {
			o.muteState = triangleMuteOn
			return SampleZero
		}
	}
	o.prev = s
	return s
}

func signPositive(s Sample) bool {
	return s >= 0
}

// mute arms the click-suppression state machine rather than cutting output
// immediately: actual silence starts at the next zero-crossing (see sample).
func (o *triangleWave) mute(mute bool) {
	if !mute {
		o.muteState = triangleMuteOff
		return
	}
	if o.muteState == triangleMuteOff {
		o.muteState = triangleMuteSwitching
		o.switchingPhase = 0
	}
}

func (o *triangleWave) setFrequency(note Note, octave, detune int) {
	f := baseFrequency(note, octave-1)
	o.frequency = applyDetune(f, detune)
}

func (o *triangleWave) sweepFrequency(depth int) {
	o.frequency = applySweep(o.frequency, depth)
}

// setTimbre only ever accepts 0: triangle has no duty-cycle concept.
func (o *triangleWave) setTimbre(timbre int) bool {
	return timbre == 0
}
