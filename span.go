package ffmml

// Span is a byte-offset range into the original script text. Every parsed
// AST node carries one so diagnostics can point back at the exact source
// substring that produced it.
type Span struct {
	Start int
	End   int
}

// Text returns the literal source substring covered by the span.
func (s Span) Text(script string) string {
	return script[s.Start:s.End]
}

func joinSpans(a, b Span) Span {
	return Span{Start: a.Start, End: b.End}
}
