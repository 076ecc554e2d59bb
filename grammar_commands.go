package ffmml

// parseMacroNumber parses a macro table index, 0..127.
func parseMacroNumber(p *parser) (int, Span, bool) {
	return parseUint(p, 127)
}

// parseMacroOrOff parses `<macro-number>` or the off sentinel (`255` or
// `OF`), used by EN/EP/MP commands.
func parseMacroOrOff(p *parser) (macroNumber int, hasMacro bool, span Span, ok bool) {
	start := p.currentPosition()
	if n, sp, matched := parseMacroNumber(p); matched {
		return n, true, sp, true
	}
	if p.str("255") || p.str("OF") {
		return 0, false, Span{Start: start, End: p.currentPosition()}, true
	}
	p.fail("expected a macro number or OFF")
	return 0, false, Span{}, false
}

// parseCommand attempts every command kind in turn, fully backtracking
// between attempts; order does not affect which alternative ultimately
// matches, only which "expected ..." reason contributes to the
// farthest-reach diagnostic along the way.
func parseCommand(p *parser) (Command, bool) {
	type attempt = func(*parser) (Command, bool)
	attempts := []attempt{
		parseNoteCommand,
		parseRestCommand,
		parseWaitCommand,
		parseTieCommand,
		parseSlurCommand,
		parseVolumeEnvelopeCommand,
		parseVolumeUpCommand,
		parseVolumeDownCommand,
		parseVolumeCommand,
		parseOctaveUpCommand,
		parseOctaveDownCommand,
		parseOctaveCommand,
		parseDetuneCommand,
		parsePitchEnvelopeCommand,
		parsePitchSweepCommand,
		parseVibratoCommand,
		parseArpeggioCommand,
		parseTimbresCommand,
		parseTimbreCommand,
		parseDefaultNoteDurationCommand,
		parseTempoCommand,
		parseDataSkipCommand,
		parseTrackLoopCommand,
		parseRepeatStartCommand,
		parseRepeatEndCommand,
		parseTupletStartCommand,
		parseTupletEndCommand,
		parseQuantizeFrameCommand,
		parseQuantizeCommand,
	}
	for _, try := range attempts {
		mark := p.pos
		if cmd, ok := try(p); ok {
			return cmd, true
		}
		p.pos = mark
	}
	p.fail("expected a command")
	return Command{}, false
}

func parseNoteCommand(p *parser) (Command, bool) {
	start := p.currentPosition()
	note, ok := parseNote(p)
	if !ok {
		return Command{}, false
	}
	dur, _ := parseDuration(p)
	return Command{Kind: CmdNote, Span: Span{Start: start, End: p.currentPosition()}, Note: note, Duration: dur}, true
}

func parseRestCommand(p *parser) (Command, bool) {
	start := p.currentPosition()
	if !p.char('r') {
		return Command{}, false
	}
	dur, _ := parseDuration(p)
	return Command{Kind: CmdRest, Span: Span{Start: start, End: p.currentPosition()}, Duration: dur}, true
}

func parseWaitCommand(p *parser) (Command, bool) {
	start := p.currentPosition()
	if !p.char('w') {
		return Command{}, false
	}
	dur, _ := parseDuration(p)
	return Command{Kind: CmdWait, Span: Span{Start: start, End: p.currentPosition()}, Duration: dur}, true
}

func parseTieCommand(p *parser) (Command, bool) {
	start := p.currentPosition()
	if !p.char('^') {
		return Command{}, false
	}
	dur, ok := parseDuration(p)
	if !ok || (dur.Span.Start == dur.Span.End) {
		p.pos = start
		p.fail("expected a duration after '^'")
		return Command{}, false
	}
	return Command{Kind: CmdTie, Span: Span{Start: start, End: p.currentPosition()}, Duration: dur}, true
}

func parseSlurCommand(p *parser) (Command, bool) {
	start := p.currentPosition()
	if !p.char('&') {
		return Command{}, false
	}
	return Command{Kind: CmdSlur, Span: Span{Start: start, End: p.currentPosition()}}, true
}

func parseVolumeCommand(p *parser) (Command, bool) {
	start := p.currentPosition()
	if !p.char('v') {
		return Command{}, false
	}
	v, _, ok := parseUint(p, 15)
	if !ok {
		p.pos = start
		return Command{}, false
	}
	return Command{Kind: CmdVolume, Span: Span{Start: start, End: p.currentPosition()}, Int: v}, true
}

func parseVolumeUpCommand(p *parser) (Command, bool) {
	start := p.currentPosition()
	if !p.str("v+") {
		return Command{}, false
	}
	count, _, matched := parseUint(p, 15)
	if matched && count == 0 {
		// A literal zero digit is a hard failure, not an absent count:
		// Either<Int<1,15>, Not<Digit>> only defaults when no digit is given.
		p.pos = start
		p.fail("volume-up count out of range")
		return Command{}, false
	}
	if !matched {
		count = 1
		if b, ok := p.peekByte(); ok && b >= '0' && b <= '9' {
			p.pos = start
			p.fail("volume-up count out of range")
			return Command{}, false
		}
	}
	return Command{Kind: CmdVolumeUp, Span: Span{Start: start, End: p.currentPosition()}, Int: count}, true
}

func parseVolumeDownCommand(p *parser) (Command, bool) {
	start := p.currentPosition()
	if !p.str("v-") {
		return Command{}, false
	}
	count, _, matched := parseUint(p, 15)
	if matched && count == 0 {
		p.pos = start
		p.fail("volume-down count out of range")
		return Command{}, false
	}
	if !matched {
		count = 1
		if b, ok := p.peekByte(); ok && b >= '0' && b <= '9' {
			p.pos = start
			p.fail("volume-down count out of range")
			return Command{}, false
		}
	}
	return Command{Kind: CmdVolumeDown, Span: Span{Start: start, End: p.currentPosition()}, Int: count}, true
}

func parseVolumeEnvelopeCommand(p *parser) (Command, bool) {
	start := p.currentPosition()
	if !p.str("@v") {
		return Command{}, false
	}
	n, _, ok := parseMacroNumber(p)
	if !ok {
		p.pos = start
		return Command{}, false
	}
	return Command{Kind: CmdVolumeEnvelope, Span: Span{Start: start, End: p.currentPosition()}, MacroNumber: n, HasMacro: true}, true
}

func parseOctaveCommand(p *parser) (Command, bool) {
	start := p.currentPosition()
	if !p.char('o') {
		return Command{}, false
	}
	o, _, ok := parseUint(p, 7)
	if !ok || o < 2 {
		p.pos = start
		p.fail("expected an octave between 2 and 7")
		return Command{}, false
	}
	return Command{Kind: CmdOctave, Span: Span{Start: start, End: p.currentPosition()}, Int: o}, true
}

func parseOctaveUpCommand(p *parser) (Command, bool) {
	start := p.currentPosition()
	if !p.char('>') {
		return Command{}, false
	}
	return Command{Kind: CmdOctaveUp, Span: Span{Start: start, End: p.currentPosition()}}, true
}

func parseOctaveDownCommand(p *parser) (Command, bool) {
	start := p.currentPosition()
	if !p.char('<') {
		return Command{}, false
	}
	return Command{Kind: CmdOctaveDown, Span: Span{Start: start, End: p.currentPosition()}}, true
}

func parseDetuneCommand(p *parser) (Command, bool) {
	start := p.currentPosition()
	if !p.char('D') {
		return Command{}, false
	}
	if p.str("255") {
		return Command{Kind: CmdDetune, Span: Span{Start: start, End: p.currentPosition()}, HasMacro: false, Int: 0}, true
	}
	v, _, ok := parseInt(p, -128, 127)
	if !ok {
		p.pos = start
		p.fail("expected a detune value or 255")
		return Command{}, false
	}
	return Command{Kind: CmdDetune, Span: Span{Start: start, End: p.currentPosition()}, HasMacro: true, Int: v}, true
}

func parsePitchEnvelopeCommand(p *parser) (Command, bool) {
	start := p.currentPosition()
	if !p.str("EP") {
		return Command{}, false
	}
	n, has, _, ok := parseMacroOrOff(p)
	if !ok {
		p.pos = start
		return Command{}, false
	}
	return Command{Kind: CmdPitchEnvelope, Span: Span{Start: start, End: p.currentPosition()}, MacroNumber: n, HasMacro: has}, true
}

func parsePitchSweepCommand(p *parser) (Command, bool) {
	start := p.currentPosition()
	if !p.char('s') {
		return Command{}, false
	}
	speed, _, ok := parseUint(p, 15)
	if !ok {
		p.pos = start
		return Command{}, false
	}
	skipCommentsAndWhitespace(p)
	if !p.char(',') {
		p.pos = start
		return Command{}, false
	}
	skipCommentsAndWhitespace(p)
	depth, _, ok := parseUint(p, 15)
	if !ok {
		p.pos = start
		return Command{}, false
	}
	return Command{
		Kind: CmdPitchSweep, Span: Span{Start: start, End: p.currentPosition()},
		SweepSpeedRaw: speed, SweepDepthRaw: depth,
	}, true
}

func parseVibratoCommand(p *parser) (Command, bool) {
	start := p.currentPosition()
	if !p.str("MP") {
		return Command{}, false
	}
	n, has, _, ok := parseMacroOrOff(p)
	if !ok {
		p.pos = start
		return Command{}, false
	}
	return Command{Kind: CmdVibrato, Span: Span{Start: start, End: p.currentPosition()}, MacroNumber: n, HasMacro: has}, true
}

func parseArpeggioCommand(p *parser) (Command, bool) {
	start := p.currentPosition()
	if !p.str("EN") {
		return Command{}, false
	}
	n, has, _, ok := parseMacroOrOff(p)
	if !ok {
		p.pos = start
		return Command{}, false
	}
	return Command{Kind: CmdArpeggio, Span: Span{Start: start, End: p.currentPosition()}, MacroNumber: n, HasMacro: has}, true
}

func parseTimbreCommand(p *parser) (Command, bool) {
	start := p.currentPosition()
	if !p.char('@') {
		return Command{}, false
	}
	v, _, ok := parseUint(p, 255)
	if !ok {
		p.pos = start
		return Command{}, false
	}
	return Command{Kind: CmdTimbre, Span: Span{Start: start, End: p.currentPosition()}, Int: v}, true
}

func parseTimbresCommand(p *parser) (Command, bool) {
	start := p.currentPosition()
	if !p.str("@@") {
		return Command{}, false
	}
	n, _, ok := parseMacroNumber(p)
	if !ok {
		p.pos = start
		return Command{}, false
	}
	return Command{Kind: CmdTimbres, Span: Span{Start: start, End: p.currentPosition()}, MacroNumber: n, HasMacro: true}, true
}

func parseDefaultNoteDurationCommand(p *parser) (Command, bool) {
	start := p.currentPosition()
	if !p.char('l') {
		return Command{}, false
	}
	v, _, ok := parseUint(p, 255)
	if !ok || v == 0 {
		p.pos = start
		p.fail("expected a default note duration between 1 and 255")
		return Command{}, false
	}
	return Command{Kind: CmdDefaultNoteDuration, Span: Span{Start: start, End: p.currentPosition()}, Int: v}, true
}

func parseTempoCommand(p *parser) (Command, bool) {
	start := p.currentPosition()
	if !p.char('t') {
		return Command{}, false
	}
	v, _, ok := parseUint(p, 255)
	if !ok || v == 0 {
		p.pos = start
		p.fail("expected a tempo between 1 and 255")
		return Command{}, false
	}
	return Command{Kind: CmdTempo, Span: Span{Start: start, End: p.currentPosition()}, Int: v}, true
}

func parseDataSkipCommand(p *parser) (Command, bool) {
	start := p.currentPosition()
	if !p.char('!') {
		return Command{}, false
	}
	return Command{Kind: CmdDataSkip, Span: Span{Start: start, End: p.currentPosition()}}, true
}

func parseTrackLoopCommand(p *parser) (Command, bool) {
	start := p.currentPosition()
	if !p.char('L') {
		return Command{}, false
	}
	return Command{Kind: CmdTrackLoop, Span: Span{Start: start, End: p.currentPosition()}}, true
}

func parseRepeatStartCommand(p *parser) (Command, bool) {
	start := p.currentPosition()
	if !p.char('[') {
		return Command{}, false
	}
	return Command{Kind: CmdRepeatStart, Span: Span{Start: start, End: p.currentPosition()}}, true
}

func parseRepeatEndCommand(p *parser) (Command, bool) {
	start := p.currentPosition()
	if !p.char(']') {
		return Command{}, false
	}
	count, _, ok := parseUint(p, 255)
	if !ok || count == 0 {
		p.pos = start
		p.fail("expected a repeat count between 1 and 255")
		return Command{}, false
	}
	return Command{Kind: CmdRepeatEnd, Span: Span{Start: start, End: p.currentPosition()}, Int: count}, true
}

func parseTupletStartCommand(p *parser) (Command, bool) {
	start := p.currentPosition()
	if !p.char('{') {
		return Command{}, false
	}
	return Command{Kind: CmdTupletStart, Span: Span{Start: start, End: p.currentPosition()}}, true
}

func parseTupletEndCommand(p *parser) (Command, bool) {
	start := p.currentPosition()
	if !p.char('}') {
		return Command{}, false
	}
	dur, _ := parseDuration(p)
	return Command{Kind: CmdTupletEnd, Span: Span{Start: start, End: p.currentPosition()}, Duration: dur}, true
}

func parseQuantizeCommand(p *parser) (Command, bool) {
	start := p.currentPosition()
	if !p.char('q') {
		return Command{}, false
	}
	v, _, ok := parseUint(p, 8)
	if !ok || v == 0 {
		p.pos = start
		p.fail("expected a quantize value between 1 and 8")
		return Command{}, false
	}
	return Command{Kind: CmdQuantize, Span: Span{Start: start, End: p.currentPosition()}, Int: v}, true
}

func parseQuantizeFrameCommand(p *parser) (Command, bool) {
	start := p.currentPosition()
	if !p.str("@q") {
		return Command{}, false
	}
	v, _, ok := parseUint(p, 255)
	if !ok {
		p.pos = start
		return Command{}, false
	}
	return Command{Kind: CmdQuantizeFrame, Span: Span{Start: start, End: p.currentPosition()}, Int: v}, true
}
