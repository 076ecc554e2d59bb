package ffmml

// Parse compiles an MML script into an immutable Music program. The whole
// input must be consumed: anything left over after the last channel body is
// reported as trailing garbage.
func Parse(script string) (*Music, error) {
	p := newParser(script)

	m := &Music{
		Channels: defaultChannels(),
		Macros:   MacroTable{},
	}

	if err := parseHeaders(p, m); err != nil {
		return nil, err
	}
	if err := parseMacroBlock(p, m); err != nil {
		return nil, err
	}
	if err := parseChannelBodies(p, m); err != nil {
		return nil, err
	}

	skipCommentsAndWhitespace(p)
	if !p.isEOS() {
		return nil, parseErrorAt(p, p.currentPosition(), "trailing garbage after the last channel body")
	}

	return m, nil
}

func parseErrorAt(p *parser, pos int, reason string) *ParseError {
	if p.farthestPos > pos {
		pos = p.farthestPos
		reason = p.farthestReason
	}
	return &ParseError{Span: Span{Start: pos, End: pos}, Reason: reason}
}

// --- headers ----------------------------------------------------------------

func parseHeaders(p *parser, m *Music) error {
	for {
		skipCommentsAndWhitespace(p)
		if b, ok := p.peekByte(); !ok || b != '#' {
			return nil
		}

		mark := p.pos
		switch {
		case p.str("#TITLE"):
			skipInlineSpace(p)
			text, _ := textToEOL(p)
			m.Title, m.HasTitle = text, true
		case p.str("#COMPOSER"):
			skipInlineSpace(p)
			text, _ := textToEOL(p)
			m.Composer, m.HasComposer = text, true
		case p.str("#PROGRAMER"):
			skipInlineSpace(p)
			text, _ := textToEOL(p)
			m.Programer, m.HasProgramer = text, true
		case p.str("#CHANNEL"):
			skipInlineSpace(p)
			names, namesSpan, ok := parseChannelNameSet(p)
			if !ok {
				return parseErrorAt(p, p.currentPosition(), "expected channel names after #CHANNEL")
			}
			skipInlineSpace(p)
			kind, _, ok := parseUint(p, 2)
			if !ok {
				return parseErrorAt(p, namesSpan.End, "expected an oscillator kind (0, 1 or 2) after #CHANNEL names")
			}
			osc := OscillatorKind(kind)
			for _, name := range names {
				m.Channels[name] = &Channel{Name: name, Oscillator: osc}
			}
		default:
			p.pos = mark
			return parseErrorAt(p, p.currentPosition(), "unrecognized header directive")
		}
	}
}

func skipInlineSpace(p *parser) {
	for {
		b, ok := p.peekByte()
		if !ok || (b != ' ' && b != '\t') {
			return
		}
		p.pos++
	}
}

// --- macro block --------------------------------------------------------

func parseMacroBlock(p *parser, m *Music) error {
	for {
		skipCommentsAndWhitespace(p)
		if b, ok := p.peekByte(); !ok || b != '@' {
			return nil
		}

		mark := p.pos
		if !p.char('@') {
			return parseErrorAt(p, p.currentPosition(), "expected a macro definition")
		}

		var kind MacroKind
		switch {
		case p.char('v'):
			kind = MacroVolume
		case p.str("EP"):
			kind = MacroPitch
		case p.str("EN"):
			kind = MacroArpeggio
		case p.str("MP"):
			kind = MacroVibrato
		default:
			kind = MacroTimbre
		}

		number, _, ok := parseMacroNumber(p)
		if !ok {
			p.pos = mark
			return parseErrorAt(p, p.currentPosition(), "expected a macro number")
		}
		skipCommentsAndWhitespace(p)
		if !p.char('=') {
			p.pos = mark
			return parseErrorAt(p, p.currentPosition(), "expected '=' in macro definition")
		}
		skipCommentsAndWhitespace(p)

		macro, err := parseMacroBody(p, kind)
		if err != nil {
			return err
		}
		m.Macros[number] = macro
	}
}

func parseMacroBody(p *parser, kind MacroKind) (Macro, error) {
	switch kind {
	case MacroVolume:
		l, ok := parseLoopList(p, parseVolumeItem)
		if !ok {
			return Macro{}, parseErrorAt(p, p.currentPosition(), "expected a volume envelope body")
		}
		return Macro{Kind: kind, Volume: l}, nil
	case MacroPitch:
		l, ok := parseLoopList(p, parseDetuneItem)
		if !ok {
			return Macro{}, parseErrorAt(p, p.currentPosition(), "expected a pitch envelope body")
		}
		return Macro{Kind: kind, Pitch: l}, nil
	case MacroArpeggio:
		l, ok := parseLoopList(p, parseArpeggioItem)
		if !ok {
			return Macro{}, parseErrorAt(p, p.currentPosition(), "expected an arpeggio envelope body")
		}
		return Macro{Kind: kind, Arpeggio: l}, nil
	case MacroVibrato:
		v, ok := parseVibratoBody(p)
		if !ok {
			return Macro{}, parseErrorAt(p, p.currentPosition(), "expected a vibrato body")
		}
		return Macro{Kind: kind, Vibrato: v}, nil
	default: // MacroTimbre
		l, ok := parseLoopList(p, parseTimbreItem)
		if !ok {
			return Macro{}, parseErrorAt(p, p.currentPosition(), "expected a timbre sequence body")
		}
		return Macro{Kind: kind, Timbre: l}, nil
	}
}

// --- channel bodies ------------------------------------------------------

func parseChannelBodies(p *parser, m *Music) error {
	for {
		skipCommentsAndWhitespace(p)
		names, namesSpan, ok := parseChannelNameSet(p)
		if !ok {
			return nil
		}

		for _, name := range names {
			if _, declared := m.Channels[name]; !declared {
				return parseErrorAt(p, namesSpan.Start, "undefined channel '"+string(name)+"'")
			}
		}

		skipCommentsAndWhitespace(p)
		commands, ok := parseCommandStream(p)
		if !ok {
			return parseErrorAt(p, p.currentPosition(), "expected a command stream")
		}

		for _, name := range names {
			ch := m.Channels[name]
			ch.Commands = append(ch.Commands, commands...)
		}
	}
}

// parseCommandStream parses zero or more commands separated by whitespace
// and comments, stopping at the first byte that starts neither a command
// nor whitespace/comment (the next channel-name group, a header, or EOS).
func parseCommandStream(p *parser) ([]Command, bool) {
	var commands []Command
	for {
		skipCommentsAndWhitespace(p)
		mark := p.pos
		cmd, ok := parseCommand(p)
		if !ok {
			p.pos = mark
			return commands, true
		}
		commands = append(commands, cmd)
	}
}
