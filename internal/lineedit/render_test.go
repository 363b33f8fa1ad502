package lineedit

import (
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "get-web", "get-web"},
		{"control", "a\x01b", "a^Ab"},
		{"nul", "\x00", "^@"},
		{"newline", "x\ny", "x^Jy"},
		{"tab", "\tz", "    z"},
		{"escape passes through", "\x1b", "\x1b"},
		{"wide", "日本", "日本"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, renderText([]rune(tt.in)))
		})
	}
}

func TestRenderText_ControlIsTwoCells(t *testing.T) {
	for r := rune(0); r < 26; r++ {
		if r == '\t' {
			continue
		}
		out := renderText([]rune{r})
		assert.Len(t, []rune(out), 2, "rune %#x", r)
		assert.Equal(t, '^', []rune(out)[0])
		assert.Equal(t, 2, renderWidth([]rune{r}, 1))
	}

	assert.Equal(t, "    ", renderText([]rune{'\t'}))
	assert.Equal(t, 4, renderWidth([]rune{'\t'}, 1))
}

func TestRenderWidth_MatchesRenderedText(t *testing.T) {
	samples := []string{
		"",
		"hello",
		"a\tb\x02c",
		"\x1a\x19\x00",
		"日本語 text",
		"mixed\t日\x03",
	}

	for _, s := range samples {
		text := []rune(s)
		assert.Equal(t, runewidth.StringWidth(renderText(text)), renderWidth(text, len(text)), "%q", s)
	}
}

func TestRenderWidth_Prefix(t *testing.T) {
	text := []rune("a\tb\x01c")
	assert.Equal(t, 0, renderWidth(text, 0))
	assert.Equal(t, 1, renderWidth(text, 1))
	assert.Equal(t, 5, renderWidth(text, 2))
	assert.Equal(t, 6, renderWidth(text, 3))
	assert.Equal(t, 8, renderWidth(text, 4))
	assert.Equal(t, 9, renderWidth(text, 5))
}

func TestScreenPosition(t *testing.T) {
	tests := []struct {
		home, offset, width int
		row, col            int
	}{
		{0, 0, 80, 0, 0},
		{3, 79, 80, 3, 79},
		{3, 80, 80, 4, 0},
		{1, 25, 10, 3, 5},
		{0, 7, 0, 7, 0},
	}

	for _, tt := range tests {
		row, col := screenPosition(tt.home, tt.offset, tt.width)
		assert.Equal(t, tt.row, row, "row for %+v", tt)
		assert.Equal(t, tt.col, col, "col for %+v", tt)
	}
}

func TestSession_TextToScreenPosAtEnd(t *testing.T) {
	ed, err := New("", 3, WithTerminal(newScreenTerminal(20, 5)), WithLogger(discardLogger))
	require.NoError(t, err)

	for _, s := range []string{"", "abc", "\x01\t", "日本", "a long line that wraps past twenty columns"} {
		sess := newSession(ed, "prompt> ")
		sess.buf.setAll(s)
		sess.computeRendered()

		assert.Equal(t, sess.promptWidth+runewidth.StringWidth(sess.rendered), sess.textToScreenPos(sess.buf.length()), "%q", s)
		assert.Equal(t, (sess.promptWidth+sess.renderedWidth)/20, sess.lineCount(), "%q", s)
	}
}

func TestSession_WideRuneInLastColumnMovesToNextRow(t *testing.T) {
	scr := newScreenTerminal(10, 5)
	ed, err := New("", 3, WithTerminal(scr), WithLogger(discardLogger))
	require.NoError(t, err)

	sess := newSession(ed, "> ")
	sess.buf.setAll("abcdefg世x")
	sess.computeRendered()

	// "g" ends in column 8, so 世 cannot start in column 9.
	assert.Equal(t, 9, sess.textToScreenPos(7))
	assert.Equal(t, 12, sess.textToScreenPos(8))
	assert.Equal(t, 13, sess.textToScreenPos(9))
	assert.Equal(t, 11, sess.renderedWidth)
	assert.Equal(t, 1, sess.lineCount())

	sess.forceCursor(8)
	assert.Equal(t, 1, scr.row)
	assert.Equal(t, 2, scr.col)

	sess.forceCursor(7)
	assert.Equal(t, 0, scr.row)
	assert.Equal(t, 9, scr.col)
}

func TestSession_WideRuneFittingRowIsNotShifted(t *testing.T) {
	ed, err := New("", 3, WithTerminal(newScreenTerminal(10, 5)), WithLogger(discardLogger))
	require.NoError(t, err)

	sess := newSession(ed, "> ")
	sess.buf.setAll("abcdef世x")
	sess.computeRendered()

	assert.Equal(t, 8, sess.textToScreenPos(6))
	assert.Equal(t, 10, sess.textToScreenPos(7))
	assert.Equal(t, 11, sess.textToScreenPos(8))
	assert.Equal(t, 9, sess.renderedWidth)
}
