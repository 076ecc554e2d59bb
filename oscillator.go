package ffmml

import "math"

// masterClockHz is the NES/Famicom master crystal frequency; systemClockHz
// is the APU's divided-down tick rate that all register-domain frequency
// math is expressed in terms of.
const (
	masterClockHz = 21477272.7272
	systemClockHz = masterClockHz / 12.0
)

// frequencyRatioTable holds the twelve equal-temperament ratios from A,
// indexed by Note.offsetFromA().
var frequencyRatioTable = [12]float64{
	1.000000, 1.059463, 1.122462, 1.189207, 1.259921, 1.334840, 1.414214, 1.498307, 1.587401,
	1.681793, 1.781797, 1.887749,
}

// frequencyToRegister and registerToFrequency convert between an audible
// frequency in Hz and the APU's integer-like "register" domain, in which
// detune and pitch sweep are naturally additive/divisive.
func frequencyToRegister(frequency float64) float64 {
	return systemClockHz / frequency / 16.0
}

func registerToFrequency(register float64) float64 {
	return systemClockHz / 16.0 / register
}

// oscillator is the small capability set every NES-style waveform generator
// implements: one variant per concrete type (pulseWave, triangleWave,
// noise), dispatched through the interface rather than a hand-rolled tag
// switch, since each carries materially different internal state (a
// duty-cycle phase accumulator, a click-suppression state machine, an
// LFSR register).
type oscillator interface {
	sample(sampleRate int, lfo *pitchLFO) Sample
	setFrequency(note Note, octave, detune int)
	sweepFrequency(depth int)
	setTimbre(timbre int) bool
	mute(mute bool)
}

func newOscillator(kind OscillatorKind) oscillator {
	switch kind {
	case OscTriangle:
		return newTriangleWave()
	case OscNoise:
		return newNoise()
	default:
		return newPulseWave()
	}
}

// octaveOffset returns the octave adjustment the grammar applies to every
// note letter except A and B, which sit at the top of their nominal octave
// in this tuning (27.5 Hz being A0).
func octaveOffset(note Note) int {
	if note.Letter == LetterA || note.Letter == LetterB {
		return 0
	}
	return -1
}

func baseFrequency(note Note, octave int) float64 {
	o := octave + octaveOffset(note)
	ratio := frequencyRatioTable[note.offsetFromA()]
	return 27.5 * math.Pow(2, float64(o)) * ratio
}

func applyDetune(frequency float64, detune int) float64 {
	if detune == 0 {
		return frequency
	}
	return registerToFrequency(frequencyToRegister(frequency) - float64(detune))
}

func applySweep(frequency float64, depth int) float64 {
	register := frequencyToRegister(frequency)
	if depth >= 0 {
		register -= register / math.Pow(2, float64(depth))
	} else {
		register += register / math.Pow(2, float64(-depth))
	}
	return registerToFrequency(register)
}
