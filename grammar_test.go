package ffmml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestParse_Smoke_SingleNote(t *testing.T) {
	m, err := Parse("A c4")
	require.NoError(t, err)
	ch := m.Channels['A']
	require.Len(t, ch.Commands, 1)
	assert.Equal(t, CmdNote, ch.Commands[0].Kind)
	assert.Equal(t, LetterC, ch.Commands[0].Note.Letter)
}

func TestParse_Repeat_KeepsRepeatMarkersUnexpanded(t *testing.T) {
	m, err := Parse("A [c4 d4]3")
	require.NoError(t, err)
	// The grammar keeps the repeat as two commands (RepeatStart/RepeatEnd)
	// wrapping the body; unrolling happens at play time (S3), not parse
	// time, so here we only assert the body parsed with its repeat frame.
	ch := m.Channels['A']
	kinds := make([]CommandKind, len(ch.Commands))
	for i, c := range ch.Commands {
		kinds[i] = c.Kind
	}
	assert.Equal(t, []CommandKind{
		CmdRepeatStart, CmdNote, CmdNote, CmdRepeatEnd,
	}, kinds)
	assert.Equal(t, 3, ch.Commands[3].Int)
}

func TestParse_UndefinedMacroReference_ParsesFine_FailsAtPlayTime(t *testing.T) {
	m, err := Parse("A @v9 c4")
	require.NoError(t, err)
	ch := m.Channels['A']
	require.Len(t, ch.Commands, 2)
	assert.Equal(t, CmdVolumeEnvelope, ch.Commands[0].Kind)
	assert.Equal(t, 9, ch.Commands[0].MacroNumber)

	mp := NewMusicPlayer(m, 8000)
	for {
		_, ok := mp.NextSample()
		if !ok {
			break
		}
	}
	require.Error(t, mp.Err())
	var pe *PlayError
	require.ErrorAs(t, mp.Err(), &pe)
	assert.Contains(t, pe.Reason, "undefined macro")
}

func TestParse_ChannelDeclaration_SetsOscillatorKind(t *testing.T) {
	m, err := Parse("#CHANNEL E 1\nE c4")
	require.NoError(t, err)
	ch, ok := m.Channels['E']
	require.True(t, ok)
	assert.Equal(t, OscTriangle, ch.Oscillator)
}

func TestParse_Diagnostic_OffsetPointsAtOffendingToken(t *testing.T) {
	script := "A c4\nB v99 c4"
	_, err := Parse(script)
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	offendingDigits := script[pe.Span.Start:]
	assert.Contains(t, offendingDigits, "9")
}

func TestParse_TrailingGarbageIsReported(t *testing.T) {
	_, err := Parse("A c4 $")
	require.Error(t, err)
}

// A literal zero count is rejected, not silently defaulted to 1: `v+`/`v-`
// with no digit at all default to 1, but `v+0`/`v-0` are parse errors.
func TestParse_VolumeUpDown_LiteralZeroCountIsRejected(t *testing.T) {
	_, err := Parse("A v+0 c4")
	assert.Error(t, err)

	_, err = Parse("A v-0 c4")
	assert.Error(t, err)

	m, err := Parse("A v+ c4")
	require.NoError(t, err)
	require.Len(t, m.Channels['A'].Commands, 2)
	assert.Equal(t, 1, m.Channels['A'].Commands[0].Int)
}

// Property 1: every input either parses or fails with a single (offset,
// reason); the parser never panics.
func TestProperty_ParserTotality(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		alphabet := []rune("ABCDabcdefg+-.0123456789 \n{}[]<>@=,|!^&vLqDEPMNOFtsr")
		runes := rapid.SliceOfN(rapid.RuneFrom(alphabet), 0, 64).Draw(t, "runes")
		script := string(runes)
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("Parse panicked on %q: %v", script, r)
			}
		}()
		_, _ = Parse(script)
	})
}

// Property 2: for every parsed command, start <= end <= len(text) and the
// substring at that range is the original lexical span.
func TestProperty_PositionFidelity(t *testing.T) {
	m, err := Parse("A c4 d8. r2 v10 @v0 t120")
	require.NoError(t, err)
	script := "A c4 d8. r2 v10 @v0 t120"
	var texts []string
	for _, cmd := range m.Channels['A'].Commands {
		assert.LessOrEqual(t, cmd.Span.Start, cmd.Span.End)
		assert.LessOrEqual(t, cmd.Span.End, len(script))
		texts = append(texts, cmd.Span.Text(script))
	}
	assert.Equal(t, []string{"c4", "d8.", "r2", "v10", "@v0", "t120"}, texts)
}

// Property 4: loop-list nth-frame semantics, with and without a loop point.
func TestProperty_LoopListSemantics(t *testing.T) {
	withLoop := LoopList[int]{Items: []int{10, 20, 30, 40}, LoopPoint: 1, HasLoop: true}
	assert.Equal(t, 10, withLoop.NthFrameItem(0))
	assert.Equal(t, 40, withLoop.NthFrameItem(3))
	assert.Equal(t, 20, withLoop.NthFrameItem(4)) // wraps to loop point
	assert.Equal(t, 30, withLoop.NthFrameItem(5))
	assert.Equal(t, 20, withLoop.NthFrameItem(7))

	noLoop := LoopList[int]{Items: []int{1, 2, 3}}
	assert.Equal(t, 3, noLoop.NthFrameItem(3))
	assert.Equal(t, 3, noLoop.NthFrameItem(100))
}
