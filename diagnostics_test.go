package ffmml

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineCol_TracksNewlines(t *testing.T) {
	script := "A c4\nB v99 c4"
	line, col := lineCol(script, 0)
	assert.Equal(t, 1, line)
	assert.Equal(t, 1, col)

	// Index of 'B' on the second line.
	idx := strings.IndexByte(script, 'B')
	line, col = lineCol(script, idx)
	assert.Equal(t, 2, line)
	assert.Equal(t, 1, col)
}

func TestSourceLine_ReturnsOffendingLineOnly(t *testing.T) {
	script := "A c4\nB v99 c4\nC r1"
	idx := strings.IndexByte(script, '9')
	assert.Equal(t, "B v99 c4", sourceLine(script, idx))
}

func TestParseError_Render_PointsCaretAtColumn(t *testing.T) {
	script := "A c4\nB v99 c4"
	_, err := Parse(script)
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)

	rendered := pe.Render(script, "song.mml")
	lines := strings.Split(rendered, "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "song.mml:2:")
	assert.Equal(t, "B v99 c4", lines[1])

	_, col := lineCol(script, pe.Span.Start)
	assert.Equal(t, strings.Repeat(" ", col-1)+"^", lines[2])
}

func TestPlayError_Render_IncludesChannel(t *testing.T) {
	m, err := Parse("A @v9 c4")
	require.NoError(t, err)
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

	rendered := pe.Render("A @v9 c4", "song.mml")
	assert.Contains(t, rendered, "channel A:")
}
