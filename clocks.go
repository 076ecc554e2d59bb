package ffmml

import (
	"fmt"
	"time"
)

// Clock is one rational-time counter: an exact count of elapsed seconds.
type Clock struct {
	r rational
}

func (c Clock) Less(o Clock) bool {
	return c.r.less(o.r)
}

func (c Clock) LessOrEqual(o Clock) bool {
	return c.r.lessOrEqual(o.r)
}

// Now converts the clock to a wall-clock duration, for reporting only; the
// player itself never compares durations, only clocks.
func (c Clock) Now() time.Duration {
	return c.r.seconds()
}

// Clocks bundles the three orthogonal per-channel time counters (sample,
// note, frame) plus the quantize clock and tempo/duration/quantize/tuplet
// configuration that governs how note_clock advances. One instance lives
// inside each channel player; never shared.
type Clocks struct {
	SampleClock   Clock
	NoteClock     Clock
	FrameClock    Clock
	QuantizeClock Clock
	FrameIndex    int

	sampleRate          int
	tempo               int
	defaultNoteDuration int

	quantize          int // 1..8, gate fraction in eighths of a note
	quantizeFrame     int // 0..255, frame-based gate
	quantizeFrameMode bool

	tupletActive    bool
	tupletFraction  rational
	tupletRemaining int
}

func newClocks(sampleRate int) *Clocks {
	zero := Clock{r: newRational(0, 1)}
	return &Clocks{
		SampleClock:   zero,
		NoteClock:     zero,
		FrameClock:    zero,
		QuantizeClock: zero,

		sampleRate:          sampleRate,
		tempo:               120,
		defaultNoteDuration: 4,
		quantize:            8,
	}
}

// TickSampleClock advances the sample clock by exactly one output sample.
func (c *Clocks) TickSampleClock() {
	c.SampleClock.r = c.SampleClock.r.addR(newRational(1, int64(c.sampleRate)))
}

// TickFrameClockIfNeeded advances the frame clock by 1/60 s once the sample
// clock has reached that boundary, bumping FrameIndex on every such
// advance. Returns whether a frame boundary was just crossed.
func (c *Clocks) TickFrameClockIfNeeded() bool {
	next := Clock{r: c.FrameClock.r.addR(newRational(1, 60))}
	if c.SampleClock.Less(next) {
		return false
	}
	c.FrameClock = next
	c.FrameIndex++
	return true
}

// ComputeAdvance returns the note_clock advance a duration represents:
// while a tuplet is active, its precomputed per-member fraction is used
// instead of the duration's own effective fraction.
func (c *Clocks) ComputeAdvance(d Duration) (rational, error) {
	if c.tupletActive {
		return c.tupletFraction, nil
	}
	return d.effectiveFraction(c.defaultNoteDuration, c.tempo)
}

// AdvanceNoteClock adds advance to note_clock and, while a tuplet is
// active, counts down its remaining member notes. Every note-consuming
// command (note, rest, wait, tie, slur) calls this.
func (c *Clocks) AdvanceNoteClock(advance rational) error {
	sum, overflow := c.NoteClock.r.add(advance.num, advance.den)
	if overflow {
		return errDurationOverflow
	}
	c.NoteClock.r = sum

	if c.tupletActive {
		c.tupletRemaining--
		if c.tupletRemaining <= 0 {
			c.tupletActive = false
		}
	}
	return nil
}

// BeginAttack snapshots the quantize clock from the pre-advance note clock,
// scaled by the current gate policy, and resets the frame clock/index to
// the start of the new note. Only Note and Rest commands trigger this (a
// fresh attack); Wait/Tie/Slur sustain the previous attack's frame/gate
// state (§4.6).
func (c *Clocks) BeginAttack(advance rational) {
	var gate rational
	if c.quantizeFrameMode {
		qf := newRational(int64(c.quantizeFrame), 60)
		gate = advance.saturatingSub(qf)
	} else {
		gate = advance.mulR(newRational(int64(c.quantize), 8))
	}
	c.QuantizeClock = Clock{r: c.NoteClock.r.addR(gate)}
	c.FrameClock = c.SampleClock
	c.FrameIndex = 0
}

func (c *Clocks) SetTempo(tempo int) {
	c.tempo = tempo
}

func (c *Clocks) SetDefaultNoteDuration(denom int) {
	c.defaultNoteDuration = denom
}

func (c *Clocks) SetQuantize(q int) {
	c.quantize = q
	c.quantizeFrameMode = false
}

func (c *Clocks) SetQuantizeFrame(qf int) {
	c.quantizeFrame = qf
	c.quantizeFrameMode = true
}

// SetTuplet precomputes the per-member duration fraction for a `{ ... }dur`
// group so that the total advance over noteCount members is exactly dur's
// effective fraction, regardless of member count (§8 property 7).
func (c *Clocks) SetTuplet(noteCount int, d Duration) error {
	if noteCount <= 0 {
		return fmt.Errorf("tuplet has no member notes")
	}
	total, err := d.effectiveFraction(c.defaultNoteDuration, c.tempo)
	if err != nil {
		return err
	}
	c.tupletFraction = total.divInt(int64(noteCount))
	c.tupletRemaining = noteCount
	c.tupletActive = true
	return nil
}
