package ffmml

// Letter is one of the seven natural note names.
type Letter int

const (
	LetterC Letter = iota
	LetterD
	LetterE
	LetterF
	LetterG
	LetterA
	LetterB
)

func letterFromByte(b byte) (Letter, bool) {
	switch b {
	case 'c':
		return LetterC, true
	case 'd':
		return LetterD, true
	case 'e':
		return LetterE, true
	case 'f':
		return LetterF, true
	case 'g':
		return LetterG, true
	case 'a':
		return LetterA, true
	case 'b':
		return LetterB, true
	default:
		return 0, false
	}
}

func (l Letter) next() Letter {
	switch l {
	case LetterC:
		return LetterD
	case LetterD:
		return LetterE
	case LetterE:
		return LetterF
	case LetterF:
		return LetterG
	case LetterG:
		return LetterA
	case LetterA:
		return LetterB
	default: // LetterB
		return LetterC
	}
}

func (l Letter) prev() Letter {
	switch l {
	case LetterC:
		return LetterB
	case LetterD:
		return LetterC
	case LetterE:
		return LetterD
	case LetterF:
		return LetterE
	case LetterG:
		return LetterF
	case LetterA:
		return LetterG
	default: // LetterB
		return LetterA
	}
}

// Note is a letter plus a signed accidental count ('+' raises, '-' lowers,
// wrapping modulo 12 as each accidental is parsed).
type Note struct {
	Span        Span
	Letter      Letter
	Accidentals int
}

// normalize reduces a Note to its canonical 12-semitone representation: a
// natural letter plus whether it is sharped. Double/triple accidentals are
// walked off one semitone at a time onto the neighboring letter, exactly as
// the source grammar's Note::normalize does.
func (n Note) normalize() (Letter, bool) {
	letter := n.Letter
	acc := n.Accidentals
	for {
		switch {
		case isWholeStepLow(letter) && acc >= 2:
			letter = letter.next()
			acc -= 2
		case isHalfStepLow(letter) && acc >= 1:
			letter = letter.next()
			acc -= 1
		case isWholeStepHigh(letter) && acc <= -2:
			letter = letter.prev()
			acc += 2
		case isHalfStepHigh(letter) && acc <= -1:
			letter = letter.prev()
			acc += 1
		default:
			if acc < 0 {
				letter = letter.prev()
				acc = 1
			}
			return letter, acc == 1
		}
	}
}

// isWholeStepLow reports whether the letter's gap to the next letter is a
// whole step (C,D,F,G,A): two sharps carry over into the next letter.
func isWholeStepLow(l Letter) bool {
	switch l {
	case LetterC, LetterD, LetterF, LetterG, LetterA:
		return true
	default:
		return false
	}
}

// isHalfStepLow: E and B sit a half step below the next letter.
func isHalfStepLow(l Letter) bool {
	return l == LetterE || l == LetterB
}

// isWholeStepHigh: the letters a whole step above their predecessor.
func isWholeStepHigh(l Letter) bool {
	switch l {
	case LetterD, LetterE, LetterG, LetterA, LetterB:
		return true
	default:
		return false
	}
}

// isHalfStepHigh: C and F sit a half step above their predecessor.
func isHalfStepHigh(l Letter) bool {
	return l == LetterC || l == LetterF
}

// offsetFromA returns the note's position (0..11) in a 12-tone scale
// anchored at A natural, matching FREQUENCY_RATIO_TABLE's index order.
func (n Note) offsetFromA() int {
	letter, sharp := n.normalize()
	switch letter {
	case LetterA:
		if sharp {
			return 1
		}
		return 0
	case LetterB:
		return 2
	case LetterC:
		if sharp {
			return 4
		}
		return 3
	case LetterD:
		if sharp {
			return 6
		}
		return 5
	case LetterE:
		return 7
	case LetterF:
		if sharp {
			return 9
		}
		return 8
	default: // LetterG
		if sharp {
			return 11
		}
		return 10
	}
}

// offsetFromC returns the note's position (0..11) anchored at C natural,
// used by the noise oscillator's per-letter frequency table.
func (n Note) offsetFromC() int {
	a := n.offsetFromA()
	if a >= 3 {
		return a - 3
	}
	return a + 9
}

// applyNoteNumberDelta shifts a note by delta semitones (used by the
// arpeggio envelope), returning the renormalized note and the octave shift
// that must additionally be applied.
func applyNoteNumberDelta(n Note, delta int) (Note, int) {
	octaveDelta := delta / 12
	rem := delta % 12

	oldOffset := n.offsetFromC()
	shifted := n
	shifted.Accidentals += rem
	letter, sharp := shifted.normalize()
	shifted.Letter = letter
	if sharp {
		shifted.Accidentals = 1
	} else {
		shifted.Accidentals = 0
	}
	newOffset := shifted.offsetFromC()

	if rem > 0 && newOffset < oldOffset {
		octaveDelta++
	} else if rem < 0 && newOffset > oldOffset {
		octaveDelta--
	}

	return shifted, octaveDelta
}
