package ffmml

// noiseFrequencyTable maps a note letter's offset from C (0..11) to an APU
// noise-period-like value; the noise channel never actually tunes off pitch
// letters in hardware, but this grammar reuses note syntax for it anyway.
var noiseFrequencyTable = [12]float64{
	4, 8, 16, 32, 64, 96, 128, 160, 202, 254, 380, 508,
}

// noise is a 15-bit LFSR noise source, the default channel D voice.
type noise struct {
	register    uint16
	frequency   float64
	loopedNoise bool
	residual    float64
	muted       bool
}

func newNoise() *noise {
	return &noise{register: 1, frequency: 4}
}

func (o *noise) sample(sampleRate int, _ *pitchLFO) Sample {
	n := o.residual + systemClockHz/float64(sampleRate)
	for n >= o.frequency {
		var b uint16
		if o.loopedNoise {
			b = (o.register & 1) ^ ((o.register >> 6) & 1)
		} else {
			b = (o.register & 1) ^ ((o.register >> 1) & 1)
		}
		o.register >>= 1
		o.register |= b << 14
		n -= o.frequency
	}
	o.residual = n
	if o.muted {
		return SampleZero
	}
	if o.register&1 == 0 {
		return SampleMax
	}
	return SampleZero
}

// mute silences the channel outright: noise has no waveform edge worth
// protecting against clicks, so it cuts immediately like pulseWave.
func (o *noise) mute(mute bool) {
	o.muted = mute
}

func (o *noise) setFrequency(note Note, _, _ int) {
	o.frequency = noiseFrequencyTable[note.offsetFromC()]
}

func (o *noise) sweepFrequency(int) {}

// setTimbre 0 selects normal noise, 1 selects the looped (short) period.
func (o *noise) setTimbre(timbre int) bool {
	switch timbre {
	case 0:
		o.loopedNoise = false
	case 1:
		o.loopedNoise = true
	default:
		return false
	}
	return true
}
