package ffmml

import (
	"errors"
	"fmt"
)

// errDurationOverflow is returned by Duration.effectiveFraction when the
// dot-doubling sum would overflow an int64 numerator. The channel player
// turns it into a PlayError tied to the offending command's span.
var errDurationOverflow = errors.New("note duration overflow")

// ParseError is the single diagnostic surfaced when a script fails to
// parse. The parser core only ever produces a sentinel "no match here"
// signal internally (see parser.go); this type is what the grammar's
// top-level entry point attaches once backtracking settles on the
// farthest-reaching failure.
type ParseError struct {
	Span   Span
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at byte %d: %s", e.Span.Start, e.Reason)
}

// PlayError is a play-time failure tied to the command whose source span
// triggered it. Play errors terminate the channel that raised them; they
// never abort parsing, which has already completed successfully by the
// time any PlayError can occur.
type PlayError struct {
	Channel byte
	Span    Span
	Reason  string
}

func (e *PlayError) Error() string {
	return fmt.Sprintf("channel %c: play error at byte %d: %s", e.Channel, e.Span.Start, e.Reason)
}

func newPlayError(channel byte, span Span, format string, args ...any) *PlayError {
	return &PlayError{Channel: channel, Span: span, Reason: fmt.Sprintf(format, args...)}
}
