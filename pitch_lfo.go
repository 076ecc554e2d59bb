package ffmml

import "math"

// pitchLFO is a vibrato generator: a delayed sine wave whose output is read
// in the APU register domain and subtracted from an oscillator's frequency
// each sample (see pulseWave.sample / triangleWave.sample).
type pitchLFO struct {
	now      Clock
	start    Clock
	sineWave *sineWave
	depth    int
}

func newPitchLFO(delay, speed, depth int) *pitchLFO {
	frequency := 20.0 / float64(speed)
	start := Clock{r: newRational(int64(delay), 60)}
	now := Clock{r: newRational(0, 1)}
	return &pitchLFO{now: now, start: start, sineWave: newSineWave(frequency), depth: depth}
}

func (l *pitchLFO) sample(sampleRate int) float64 {
	l.now.r = l.now.r.addR(newRational(1, int64(sampleRate)))
	if l.now.Less(l.start) {
		return 0
	}
	return float64(l.depth) * float64(l.sineWave.sample(sampleRate))
}

// resetTimer re-arms the delay countdown; called whenever a new note/rest
// begins so vibrato restarts its delay on every attack.
func (l *pitchLFO) resetTimer() {
	l.now = Clock{r: newRational(0, 1)}
}

type sineWave struct {
	frequency float64
	phase     float64
}

func newSineWave(frequency float64) *sineWave {
	return &sineWave{frequency: frequency}
}

func (w *sineWave) sample(sampleRate int) Sample {
	w.phase += w.frequency / float64(sampleRate)
	w.phase -= math.Floor(w.phase)
	return Sample(math.Sin(w.phase * 2 * math.Pi))
}
