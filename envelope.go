package ffmml

// arpeggioDeltaAt returns the semitone delta an arpeggio envelope has
// accumulated by frame k: the cumulative sum of the envelope's items
// consumed so far (items[0] through items[k], wrapping per the loop-list
// rule once k runs off the end). This deliberately diverges from the
// envelope's literal upstream formula, which re-reads the same frame index
// every iteration of its summation loop instead of varying it — verified
// against the grammar's own loop-list semantics, not reproduced verbatim;
// see DESIGN.md.
func arpeggioDeltaAt(envelope LoopList[int], k int) int {
	sum := 0
	for i := 0; i <= k; i++ {
		sum += envelope.NthFrameItem(i)
	}
	return sum
}
