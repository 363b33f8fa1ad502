package lineedit

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const tabWidth = 4

// isCaretControl reports whether r is displayed in caret notation (^A).
func isCaretControl(r rune) bool {
	return r >= 0 && r < 26 && r != '\t'
}

// runeCells is the number of screen columns r occupies once rendered.
func runeCells(r rune) int {
	switch {
	case r == '\t':
		return tabWidth
	case isCaretControl(r):
		return 2
	default:
		return runewidth.RuneWidth(r)
	}
}

// renderText returns the display form of text: control characters become
// "^" plus a letter and tabs become spaces.
func renderText(text []rune) string {
	var b strings.Builder
	for _, r := range text {
		switch {
		case r == '\t':
			b.WriteString(strings.Repeat(" ", tabWidth))
		case isCaretControl(r):
			b.WriteByte('^')
			b.WriteRune(r + '@')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// renderWidth returns the screen column offset of buffer position pos,
// using the same expansion as renderText.
func renderWidth(text []rune, pos int) int {
	w := 0
	for _, r := range text[:pos] {
		w += runeCells(r)
	}
	return w
}

// screenPosition converts a linear offset from the start of the prompt into
// a row and column, given the prompt's home row and the window width.
func screenPosition(homeRow, offset, width int) (row, col int) {
	if width <= 0 {
		width = 1
	}
	return homeRow + offset/width, offset % width
}

func (s *session) width() int {
	if w := s.term.WindowWidth(); w > 0 {
		return w
	}
	return 1
}

// computeRendered refreshes the cached display form of the buffer. It must
// run after every buffer mutation and before the next screen write.
func (s *session) computeRendered() {
	s.rendered = renderText(s.buf.text)
	s.renderedWidth = s.screenOffset(len(s.buf.text)) - s.promptWidth
}

// screenOffset is the linear offset of buffer position pos from the start
// of the prompt. It differs from promptWidth plus renderWidth only when a
// double-width rune would start in the last column: the terminal leaves
// that cell blank and draws the rune at the start of the next row.
func (s *session) screenOffset(pos int) int {
	width := s.width()
	off := s.promptWidth
	for _, r := range s.buf.text[:pos] {
		w := runeCells(r)
		if w == 2 && !isCaretControl(r) && width > 1 && off%width == width-1 {
			off++
		}
		off += w
	}
	return off
}

// lineCount is the number of wrapped rows below the first one.
func (s *session) lineCount() int {
	return (s.promptWidth + s.renderedWidth) / s.width()
}

func (s *session) textToScreenPos(pos int) int {
	return s.screenOffset(pos)
}

// render draws the prompt and the whole line from the current cursor,
// which callers place at the home row first. Leftovers from a longer
// previous render are blanked, and one extra space forces the terminal to
// wrap when the text ends exactly at the last column.
func (s *session) render() {
	s.term.Write(s.shownPrompt)
	s.term.Write(s.rendered)

	total := s.promptWidth + s.renderedWidth
	end := max(total, s.maxRendered)
	if pad := s.maxRendered - total; pad > 0 {
		s.term.Write(strings.Repeat(" ", pad))
	}
	s.maxRendered = total

	s.term.Write(" ")
	s.updateHomeRow(end)
}

// renderFrom redraws the buffer from pos to the end, assuming the terminal
// cursor is already at pos, and blanks what is left of a longer previous
// render. It returns the screen offset just past the last cell written.
func (s *session) renderFrom(pos int) int {
	tail := renderText(s.buf.text[pos:])
	s.term.Write(tail)

	total := s.promptWidth + s.renderedWidth
	if total > s.maxRendered {
		s.maxRendered = total
		return total
	}
	if pad := s.maxRendered - total; pad > 0 {
		s.term.Write(strings.Repeat(" ", pad))
	}
	return s.maxRendered
}

// updateHomeRow recomputes the prompt's row from the cursor row, given that
// the cursor is on the row holding screen offset screenPos.
func (s *session) updateHomeRow(screenPos int) {
	lines := 1 + screenPos/s.width()
	s.homeRow = s.term.CursorTop() - (lines - 1)
	if s.homeRow < 0 {
		s.homeRow = 0
	}
}

// forceCursor moves the buffer cursor to pos and places the terminal
// cursor there unconditionally.
func (s *session) forceCursor(pos int) {
	s.buf.cursor = pos
	row, col := screenPosition(s.homeRow, s.textToScreenPos(pos), s.width())
	if h := s.term.BufferHeight(); h > 0 && row >= h {
		row = h - 1
	}
	s.term.SetCursorPosition(col, row)
}

// updateCursor is forceCursor without the redundant move.
func (s *session) updateCursor(pos int) {
	if s.buf.cursor == pos {
		return
	}
	s.forceCursor(pos)
}

// redrawAfterChange brings the screen up to date after the buffer changed
// at editPos and leaves the cursor at newCursor. When the number of wrapped
// rows changed the whole line is redrawn from the home row, otherwise only
// the tail from editPos.
func (s *session) redrawAfterChange(prevLines, editPos, newCursor int) {
	if prevLines != s.lineCount() {
		s.term.SetCursorPosition(0, s.homeRow)
		s.render()
		s.forceCursor(newCursor)
		return
	}

	start := s.textToScreenPos(editPos)
	s.forceCursor(editPos)
	if end := s.renderFrom(editPos); end > start {
		s.updateHomeRow(end - 1)
	}
	s.forceCursor(newCursor)
}

// setPrompt switches the visible prompt and redraws the line.
func (s *session) setPrompt(p string) {
	s.shownPrompt = p
	s.promptWidth = runewidth.StringWidth(p)
	s.computeRendered()
	s.term.SetCursorPosition(0, s.homeRow)
	s.render()
	s.forceCursor(s.buf.cursor)
}

// initText loads text into the buffer and draws it at the cursor.
func (s *session) initText(text string) {
	s.buf.setAll(text)
	s.computeRendered()
	s.render()
	s.forceCursor(s.buf.length())
}

// setText replaces the line shown at the home row.
func (s *session) setText(text string) {
	s.term.SetCursorPosition(0, s.homeRow)
	s.initText(text)
}
