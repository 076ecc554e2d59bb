package ffmml

// LoopList is a parsed `{ a, b, | c, d }` style sequence with an optional
// loop anchor (the position of the `|`). It backs every frame-varying
// parameter (volume/pitch/arpeggio envelopes, timbre sequences): a constant
// parameter is simply a one-item LoopList with no loop point.
type LoopList[T any] struct {
	Span      Span
	Items     []T
	LoopPoint int  // index of the loop anchor, valid only when HasLoop
	HasLoop   bool
}

// Constant builds a one-item, non-looping LoopList, the uniform
// representation for a literal (non-macro) command argument.
func Constant[T any](v T) LoopList[T] {
	return LoopList[T]{Items: []T{v}}
}

// IsConstant reports whether this list always yields the same value,
// gating relative commands (v+/v-) that require a constant volume.
func (l LoopList[T]) IsConstant() bool {
	return len(l.Items) == 1
}

// NthFrameItem evaluates the list at frame index k: items[k] while k is
// still within range; once k runs off the end, it wraps into
// [loopPoint, len) if a loop point was set, or holds the last item forever
// otherwise.
func (l LoopList[T]) NthFrameItem(k int) T {
	if k < len(l.Items) {
		return l.Items[k]
	}
	loopPoint := l.LoopPoint
	if !l.HasLoop {
		loopPoint = len(l.Items) - 1
	}
	span := len(l.Items) - loopPoint
	i := loopPoint + (k-len(l.Items))%span
	return l.Items[i]
}
