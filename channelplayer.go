package ffmml

// repeatFrame is one entry of the `[ ... ]N` repeat stack: the command
// index to rewind to and how many iterations have completed so far.
type repeatFrame struct {
	startIndex int
	count      int
}

// pitchSweepSpec holds a decoded `s<speed>,<depth>` command: sweepFrequency
// is invoked on the oscillator every speed-th frame.
type pitchSweepSpec struct {
	speed        int
	depth        int
	sinceTrigger int
}

// channelPlayer is the per-channel state machine described by the iterator
// contract: it owns one oscillator and walks one channel's command list,
// yielding samples one at a time. All fields are exclusive to this
// instance; nothing here is shared across channel players.
type channelPlayer struct {
	name       byte
	osc        oscillator
	clocks     *Clocks
	sampleRate int
	macros     MacroTable

	octave  int
	volume  LoopList[int]
	detune  LoopList[int]
	timbre  LoopList[int]

	hasArpeggio bool
	arpeggio    LoopList[int]

	hasVibrato bool
	lfo        *pitchLFO

	hasSweep bool
	sweep    *pitchSweepSpec

	note    Note
	hasNote bool

	commands []Command
	index    int

	hasLoopPoint bool
	loopPoint    int

	repeatStack []repeatFrame

	prevKind CommandKind
	havePrev bool

	lastSpan Span
	err      error
	eos      bool
}

func newChannelPlayer(ch *Channel, macros MacroTable, sampleRate int) *channelPlayer {
	return &channelPlayer{
		name:       ch.Name,
		osc:        newOscillator(ch.Oscillator),
		clocks:     newClocks(sampleRate),
		sampleRate: sampleRate,
		macros:     macros,
		octave:     4,
		volume:     Constant(10),
		detune:     Constant(0),
		timbre:     Constant(0),
		commands:   ch.Commands,
	}
}

// Err returns the play error that ended this channel, if any.
func (p *channelPlayer) Err() error {
	return p.err
}

func (p *channelPlayer) fail(err error) {
	p.err = err
	p.eos = true
}

// wrapErr adapts a bare error (duration overflow, tuplet fraction error)
// into a PlayError tied to the offending command's span; a PlayError
// already carrying a span passes through unchanged.
func (p *channelPlayer) wrapErr(span Span, err error) error {
	if pe, ok := err.(*PlayError); ok {
		return pe
	}
	return newPlayError(p.name, span, "%s", err.Error())
}

// nextCommand fetches and advances past the next command in program order,
// with no wraparound; looping is handled by the caller via loopPoint.
func (p *channelPlayer) nextCommand() (Command, bool) {
	if p.index >= len(p.commands) {
		return Command{}, false
	}
	cmd := p.commands[p.index]
	p.index++
	return cmd, true
}

// nextSample implements the channel iterator contract (§4.6): advance the
// frame clock if due, then either emit one oscillator sample or dispatch
// the next command, repeating until a sample is produced or the channel
// ends.
func (p *channelPlayer) nextSample() (Sample, bool) {
	for {
		if p.eos {
			return SampleZero, false
		}

		if p.clocks.TickFrameClockIfNeeded() {
			if err := p.handleFrame(); err != nil {
				p.fail(err)
				return SampleZero, false
			}
		}

		if p.clocks.SampleClock.Less(p.clocks.NoteClock) {
			p.clocks.TickSampleClock()
			s := p.osc.sample(p.sampleRate, p.currentLFO())
			vol := p.volume.NthFrameItem(p.clocks.FrameIndex)
			out := s * Sample(float64(vol)/15.0)
			if !p.clocks.SampleClock.Less(p.clocks.QuantizeClock) {
				p.osc.mute(true)
			}
			return out, true
		}

		cmd, ok := p.nextCommand()
		if !ok {
			if p.hasLoopPoint {
				p.index = p.loopPoint
				continue
			}
			p.eos = true
			return SampleZero, false
		}
		if err := p.dispatch(cmd); err != nil {
			p.fail(err)
			return SampleZero, false
		}
	}
}

func (p *channelPlayer) currentLFO() *pitchLFO {
	if !p.hasVibrato {
		return nil
	}
	return p.lfo
}

// handleFrame writes the current timbre to the oscillator and recomputes
// its frequency from the sounding note plus arpeggio/detune/sweep.
func (p *channelPlayer) handleFrame() error {
	timbre := p.timbre.NthFrameItem(p.clocks.FrameIndex)
	if !p.osc.setTimbre(timbre) {
		return newPlayError(p.name, p.lastSpan, "timbre %d is not supported on this oscillator", timbre)
	}
	if !p.hasNote {
		return nil
	}

	note := p.note
	octave := p.octave
	if p.hasArpeggio {
		delta := arpeggioDeltaAt(p.arpeggio, p.clocks.FrameIndex)
		var octaveDelta int
		note, octaveDelta = applyNoteNumberDelta(note, delta)
		octave += octaveDelta
	}
	detune := p.detune.NthFrameItem(p.clocks.FrameIndex)
	p.osc.setFrequency(note, octave, detune)

	if p.hasSweep {
		p.sweep.sinceTrigger++
		if p.sweep.sinceTrigger >= p.sweep.speed {
			p.sweep.sinceTrigger = 0
			p.osc.sweepFrequency(p.sweep.depth)
		}
	}
	return nil
}

func (p *channelPlayer) dispatch(cmd Command) error {
	p.lastSpan = cmd.Span

	if cmd.Kind == CmdSlur {
		return p.playSlur(cmd)
	}

	var err error
	switch cmd.Kind {
	case CmdNote:
		err = p.playNote(cmd)
	case CmdRest:
		err = p.playRest(cmd)
	case CmdWait:
		err = p.playWait(cmd)
	case CmdTie:
		err = p.playTie(cmd)
	case CmdVolume:
		p.volume = Constant(cmd.Int)
	case CmdVolumeUp:
		err = p.adjustVolume(cmd, cmd.Int)
	case CmdVolumeDown:
		err = p.adjustVolume(cmd, -cmd.Int)
	case CmdVolumeEnvelope:
		var m Macro
		if m, err = p.lookupMacro(cmd, MacroVolume); err == nil {
			p.volume = m.Volume
		}
	case CmdOctave:
		p.octave = cmd.Int
	case CmdOctaveUp:
		p.octave++
		if p.octave > 7 {
			err = newPlayError(p.name, cmd.Span, "octave overflow")
		}
	case CmdOctaveDown:
		p.octave--
		if p.octave < 2 {
			err = newPlayError(p.name, cmd.Span, "octave underflow")
		}
	case CmdDetune:
		if cmd.HasMacro {
			p.detune = Constant(cmd.Int)
		} else {
			p.detune = Constant(0)
		}
	case CmdPitchEnvelope:
		if cmd.HasMacro {
			var m Macro
			if m, err = p.lookupMacro(cmd, MacroPitch); err == nil {
				p.detune = m.Pitch
			}
		} else {
			p.detune = Constant(0)
		}
	case CmdPitchSweep:
		p.installSweep(cmd)
	case CmdVibrato:
		err = p.installVibrato(cmd)
	case CmdArpeggio:
		if cmd.HasMacro {
			var m Macro
			if m, err = p.lookupMacro(cmd, MacroArpeggio); err == nil {
				p.arpeggio = m.Arpeggio
				p.hasArpeggio = true
			}
		} else {
			p.hasArpeggio = false
		}
	case CmdTimbre:
		p.timbre = Constant(cmd.Int)
	case CmdTimbres:
		var m Macro
		if m, err = p.lookupMacro(cmd, MacroTimbre); err == nil {
			p.timbre = m.Timbre
		}
	case CmdDefaultNoteDuration:
		p.clocks.SetDefaultNoteDuration(cmd.Int)
	case CmdTempo:
		p.clocks.SetTempo(cmd.Int)
	case CmdQuantize:
		p.clocks.SetQuantize(cmd.Int)
	case CmdQuantizeFrame:
		p.clocks.SetQuantizeFrame(cmd.Int)
	case CmdDataSkip:
		p.index = len(p.commands)
	case CmdTrackLoop:
		p.hasLoopPoint = true
		p.loopPoint = p.index
	case CmdRepeatStart:
		if err = p.validateRepeatAhead(cmd); err == nil {
			p.repeatStack = append(p.repeatStack, repeatFrame{startIndex: p.index})
		}
	case CmdRepeatEnd:
		err = p.endRepeat(cmd)
	case CmdTupletStart:
		err = p.startTuplet(cmd)
	case CmdTupletEnd:
		if !p.findMatchingTupletStart(p.index - 1) {
			err = newPlayError(p.name, cmd.Span, "unmatched '}'")
		}
	}

	if err != nil {
		return err
	}
	p.prevKind = cmd.Kind
	p.havePrev = true
	return nil
}

func (p *channelPlayer) lookupMacro(cmd Command, kind MacroKind) (Macro, error) {
	m, ok := p.macros[cmd.MacroNumber]
	if !ok {
		return Macro{}, newPlayError(p.name, cmd.Span, "undefined macro number %d", cmd.MacroNumber)
	}
	if m.Kind != kind {
		return Macro{}, newPlayError(p.name, cmd.Span, "macro %d is not the expected kind", cmd.MacroNumber)
	}
	return m, nil
}

func (p *channelPlayer) playNote(cmd Command) error {
	advance, err := p.clocks.ComputeAdvance(cmd.Duration)
	if err != nil {
		return p.wrapErr(cmd.Span, err)
	}
	p.clocks.BeginAttack(advance)
	if err := p.clocks.AdvanceNoteClock(advance); err != nil {
		return p.wrapErr(cmd.Span, err)
	}
	p.note = cmd.Note
	p.hasNote = true
	p.osc.mute(false)
	if p.hasVibrato {
		p.lfo.resetTimer()
	}
	return nil
}

func (p *channelPlayer) playRest(cmd Command) error {
	advance, err := p.clocks.ComputeAdvance(cmd.Duration)
	if err != nil {
		return p.wrapErr(cmd.Span, err)
	}
	p.clocks.BeginAttack(advance)
	if err := p.clocks.AdvanceNoteClock(advance); err != nil {
		return p.wrapErr(cmd.Span, err)
	}
	p.hasNote = false
	p.osc.mute(true)
	if p.hasVibrato {
		p.lfo.resetTimer()
	}
	return nil
}

func (p *channelPlayer) playWait(cmd Command) error {
	advance, err := p.clocks.ComputeAdvance(cmd.Duration)
	if err != nil {
		return p.wrapErr(cmd.Span, err)
	}
	return p.wrapErr(cmd.Span, p.clocks.AdvanceNoteClock(advance))
}

// playTie requires the command immediately before it to be a note (not
// another tie: chaining is rejected, matching the literal "immediately
// preceding command" wording rather than the looser "same sustained note"
// reading some MML dialects use — see DESIGN.md).
func (p *channelPlayer) playTie(cmd Command) error {
	if !p.havePrev || p.prevKind != CmdNote {
		return newPlayError(p.name, cmd.Span, "'^' must follow a note")
	}
	advance, err := p.clocks.ComputeAdvance(cmd.Duration)
	if err != nil {
		return p.wrapErr(cmd.Span, err)
	}
	return p.wrapErr(cmd.Span, p.clocks.AdvanceNoteClock(advance))
}

// playSlur requires a note before and an identical-pitch note immediately
// after, consuming that next command itself rather than leaving it for the
// main dispatch loop.
func (p *channelPlayer) playSlur(cmd Command) error {
	p.lastSpan = cmd.Span
	if !p.havePrev || p.prevKind != CmdNote || !p.hasNote {
		return newPlayError(p.name, cmd.Span, "'&' must follow a note")
	}
	next, ok := p.nextCommand()
	if !ok || next.Kind != CmdNote {
		return newPlayError(p.name, cmd.Span, "'&' must be followed by a note")
	}
	prevLetter, prevSharp := p.note.normalize()
	nextLetter, nextSharp := next.Note.normalize()
	if prevLetter != nextLetter || prevSharp != nextSharp {
		return newPlayError(p.name, next.Span, "'&' must join identical notes")
	}

	advance, err := p.clocks.ComputeAdvance(next.Duration)
	if err != nil {
		return p.wrapErr(next.Span, err)
	}
	if err := p.clocks.AdvanceNoteClock(advance); err != nil {
		return p.wrapErr(next.Span, err)
	}
	p.note = next.Note
	p.hasNote = true
	p.prevKind = CmdNote
	p.havePrev = true
	return nil
}

// adjustVolume implements v+/v-: both require the current volume to be a
// constant (not macro-driven), per §7's "`v+`/`v-` used while a
// non-constant volume envelope is active" error.
func (p *channelPlayer) adjustVolume(cmd Command, delta int) error {
	if !p.volume.IsConstant() {
		return newPlayError(p.name, cmd.Span, "'v+'/'v-' require a constant volume")
	}
	v := p.volume.NthFrameItem(0) + delta
	if v > 15 {
		return newPlayError(p.name, cmd.Span, "volume overflow")
	}
	if v < 0 {
		return newPlayError(p.name, cmd.Span, "volume underflow")
	}
	p.volume = Constant(v)
	return nil
}

func (p *channelPlayer) installSweep(cmd Command) {
	speed, speedOK := cmd.PitchSweepSpeed()
	depth, depthOK := cmd.PitchSweepDepth()
	if !speedOK || !depthOK {
		p.hasSweep = false
		p.sweep = nil
		return
	}
	p.hasSweep = true
	p.sweep = &pitchSweepSpec{speed: speed, depth: depth}
}

func (p *channelPlayer) installVibrato(cmd Command) error {
	if !cmd.HasMacro {
		p.hasVibrato = false
		p.lfo = nil
		return nil
	}
	m, err := p.lookupMacro(cmd, MacroVibrato)
	if err != nil {
		return err
	}
	p.lfo = newPitchLFO(m.Vibrato.Delay, m.Vibrato.Speed, m.Vibrato.Depth)
	p.hasVibrato = true
	return nil
}

// validateRepeatAhead confirms a matching ']' exists ahead of a '[' before
// any '!' at the same nesting depth, per §4.6.
func (p *channelPlayer) validateRepeatAhead(cmd Command) error {
	balance := 0
	for i := p.index; i < len(p.commands); i++ {
		switch p.commands[i].Kind {
		case CmdRepeatStart:
			balance++
		case CmdDataSkip:
			if balance == 0 {
				return newPlayError(p.name, cmd.Span, "'[' has no matching ']'")
			}
		case CmdRepeatEnd:
			if balance == 0 {
				return nil
			}
			balance--
		}
	}
	return newPlayError(p.name, cmd.Span, "'[' has no matching ']'")
}

func (p *channelPlayer) endRepeat(cmd Command) error {
	if len(p.repeatStack) == 0 {
		return newPlayError(p.name, cmd.Span, "unmatched ']'")
	}
	top := &p.repeatStack[len(p.repeatStack)-1]
	top.count++
	if top.count < cmd.Int {
		p.index = top.startIndex
		return nil
	}
	p.repeatStack = p.repeatStack[:len(p.repeatStack)-1]
	return nil
}

// startTuplet scans ahead from the command right after '{' for the
// matching '}duration', counting note-like commands along the way, and
// sets the clocks' tuplet state from the result. A nested '{' or a
// DataSkip/RepeatStart/RepeatEnd crossing the scan is rejected.
func (p *channelPlayer) startTuplet(cmd Command) error {
	count := 0
	for i := p.index; i < len(p.commands); i++ {
		switch p.commands[i].Kind {
		case CmdTupletStart:
			return newPlayError(p.name, cmd.Span, "nested tuplets are not allowed")
		case CmdDataSkip, CmdRepeatStart, CmdRepeatEnd:
			return newPlayError(p.name, cmd.Span, "unterminated tuplet")
		case CmdTupletEnd:
			return p.wrapErr(cmd.Span, p.clocks.SetTuplet(count, p.commands[i].Duration))
		case CmdNote, CmdRest, CmdWait, CmdTie, CmdSlur:
			count++
		}
	}
	return newPlayError(p.name, cmd.Span, "unterminated tuplet")
}

// findMatchingTupletStart walks backward from a '}' looking for its
// opening '{', respecting nesting even though startTuplet never allows a
// tuplet to actually be nested at parse/scan time.
func (p *channelPlayer) findMatchingTupletStart(endIndex int) bool {
	balance := 0
	for j := endIndex - 1; j >= 0; j-- {
		switch p.commands[j].Kind {
		case CmdTupletEnd:
			balance++
		case CmdTupletStart:
			if balance == 0 {
				return true
			}
			balance--
		}
	}
	return false
}
