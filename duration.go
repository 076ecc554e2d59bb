package ffmml

// maxDots bounds the number of trailing dots a duration may carry. Picked to
// match the dot-doubling loop in the original grammar's clock tick
// (`0..=min(dots, 16)`); see DESIGN.md "Open Questions".
const maxDots = 16

// Duration is a note's optional denominator (missing = use the channel's
// current default note duration) plus a dot count.
type Duration struct {
	Span       Span
	Denom      int  // 1..255, valid only when HasDenom
	HasDenom   bool
	Dots       int
}

// effectiveFraction returns the length in seconds this duration represents:
// 1/denom of a 4/4 bar at the given tempo (240/(tempo*denom)), summed with
// its own halvings for each dot. Returns an overflow error if the accumulated
// numerator cannot be represented exactly.
func (d Duration) effectiveFraction(defaultDenom, tempo int) (rational, error) {
	denom := d.Denom
	if !d.HasDenom {
		denom = defaultDenom
	}

	dots := d.Dots
	if dots > maxDots {
		dots = maxDots
	}

	total := rational{num: 0, den: 1}
	numer := int64(60 * 4) // a minute, four-four time
	den := int64(tempo) * int64(denom)
	for i := 0; i <= dots; i++ {
		var overflow bool
		total, overflow = total.add(numer, den)
		if overflow {
			return rational{}, errDurationOverflow
		}
		var ok bool
		den, ok = mulOverflows(den, 2)
		if ok {
			return rational{}, errDurationOverflow
		}
	}
	return total, nil
}
