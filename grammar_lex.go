package ffmml

// skipCommentsAndWhitespace consumes a (possibly empty) run of whitespace
// and comments, per spec.md §4.2: `/* ... */` block comments (non-nesting)
// and `;` / `//` line comments, both equivalent to whitespace.
func skipCommentsAndWhitespace(p *parser) {
	for {
		if p.whitespace() {
			continue
		}
		if p.str("/*") {
			for !p.isEOS() {
				if p.str("*/") {
					break
				}
				p.consume(1)
			}
			continue
		}
		if p.str("//") || p.char(';') {
			for {
				b, ok := p.peekByte()
				if !ok || b == '\n' {
					break
				}
				p.consume(1)
			}
			continue
		}
		break
	}
}

// parseUint parses an unsigned decimal integer with an overflow guard,
// mirroring the original grammar's U8::parse: digits accumulate via a
// checked multiply-add over the full byte range (0..255), and the whole
// parse fails (backtracking entirely, not partially) the instant that
// overflows. maxVal then bounds the accepted value the same way the
// original's range-checked wrapper types (Octave, Volume, MacroNumber, ...)
// do after a plain U8 parse succeeds.
func parseUint(p *parser, maxVal int) (int, Span, bool) {
	start := p.currentPosition()
	value := 0
	digits := 0
	for {
		// Peek first, so the end of the literal is not recorded as a
		// farther-reaching failure than a range error on the literal itself.
		if b, ok := p.peekByte(); !ok || b < '0' || b > '9' {
			break
		}
		d, _ := p.digit()
		next := value*10 + d
		if next > 255 {
			p.pos = start
			p.fail("integer literal exceeds 255")
			return 0, Span{}, false
		}
		value = next
		digits++
	}
	if digits == 0 {
		p.fail("expected an integer")
		return 0, Span{}, false
	}
	if value > maxVal {
		p.pos = start
		p.fail("integer value out of range")
		return 0, Span{}, false
	}
	end := p.currentPosition()
	return value, Span{Start: start, End: end}, true
}

// parseInt parses an optionally '-'-prefixed decimal integer within
// [minVal, maxVal], used for Detune (-128..127).
func parseInt(p *parser, minVal, maxVal int) (int, Span, bool) {
	start := p.currentPosition()
	neg := p.char('-')
	v, _, ok := parseUint(p, 255)
	if !ok {
		p.pos = start
		return 0, Span{}, false
	}
	if neg {
		v = -v
	}
	if v < minVal || v > maxVal {
		p.pos = start
		p.fail("integer out of range")
		return 0, Span{}, false
	}
	end := p.currentPosition()
	return v, Span{Start: start, End: end}, true
}

// parseChannelNameSet parses a contiguous run of uppercase letters (A..Z),
// used both by #CHANNEL directives and by channel-body group headers.
func parseChannelNameSet(p *parser) ([]byte, Span, bool) {
	start := p.currentPosition()
	var names []byte
	for {
		b, ok := p.peekByte()
		if !ok || b < 'A' || b > 'Z' {
			break
		}
		names = append(names, b)
		p.consume(1)
	}
	end := p.currentPosition()
	if len(names) == 0 {
		p.fail("expected one or more channel names")
		return nil, Span{}, false
	}
	return names, Span{Start: start, End: end}, true
}

// textToEOL consumes and returns everything up to (not including) the next
// newline, used by #TITLE/#COMPOSER/#PROGRAMER.
func textToEOL(p *parser) (string, Span) {
	start := p.currentPosition()
	for {
		b, ok := p.peekByte()
		if !ok || b == '\n' {
			break
		}
		p.consume(1)
	}
	end := p.currentPosition()
	return p.src[start:end], Span{Start: start, End: end}
}
