package ffmml

import "math"

// pulseWave is a phase-accumulator square oscillator with a selectable duty
// cycle, the A/B default channel voice.
type pulseWave struct {
	frequency float64
	dutyCycle float64
	phase     float64
	muted     bool
}

func newPulseWave() *pulseWave {
	return &pulseWave{dutyCycle: 0.125}
}

func (o *pulseWave) sample(sampleRate int, lfo *pitchLFO) Sample {
	frequency := o.frequency
	if lfo != nil {
		d := lfo.sample(sampleRate)
		frequency = registerToFrequency(frequencyToRegister(o.frequency) - d)
	}
	o.phase += frequency / float64(sampleRate)
	o.phase -= math.Floor(o.phase)
	if o.muted {
		return SampleZero
	}
	if o.phase > o.dutyCycle {
		return SampleMax
	}
	return SampleMin
}

// mute silences the channel outright: unlike the triangle wave there is no
// duty-cycle edge that would click audibly, so no zero-crossing wait is
// needed.
func (o *pulseWave) mute(mute bool) {
	o.muted = mute
}

func (o *pulseWave) setFrequency(note Note, octave, detune int) {
	f := baseFrequency(note, octave)
	o.frequency = applyDetune(f, detune)
}

func (o *pulseWave) sweepFrequency(depth int) {
	o.frequency = applySweep(o.frequency, depth)
}

// setTimbre maps Timbre 0..3 to the four NES duty-cycle options; any other
// value is rejected (an unsupported-timbre play error upstream).
func (o *pulseWave) setTimbre(timbre int) bool {
	switch timbre {
	case 0:
		o.dutyCycle = 0.125
	case 1:
		o.dutyCycle = 0.250
	case 2:
		o.dutyCycle = 0.500
	case 3:
		o.dutyCycle = 0.750
	default:
		return false
	}
	return true
}
