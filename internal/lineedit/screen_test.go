package lineedit

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/willibrandon/spsh/internal/terminal"
)

// keyInput is one queued ReadKey result.
type keyInput struct {
	ev  terminal.KeyEvent
	err error
}

// screenTerminal is an in-memory Terminal that behaves like a VT100 display:
// writing into the last column leaves the cursor there until the next
// character wraps it, and line feeds on the bottom row scroll.
type screenTerminal struct {
	width, height int
	cells         [][]rune
	row, col      int
	pendingWrap   bool

	keys []keyInput

	rawCalls     int
	restoreCalls int
	clears       int
}

func newScreenTerminal(width, height int) *screenTerminal {
	t := &screenTerminal{width: width, height: height}
	t.cells = make([][]rune, height)
	for i := range t.cells {
		t.cells[i] = t.blankRow()
	}
	return t
}

func (t *screenTerminal) blankRow() []rune {
	return []rune(strings.Repeat(" ", t.width))
}

func (t *screenTerminal) queue(in ...keyInput) {
	t.keys = append(t.keys, in...)
}

func (t *screenTerminal) ReadKey() (terminal.KeyEvent, error) {
	if len(t.keys) == 0 {
		return terminal.KeyEvent{}, io.EOF
	}
	in := t.keys[0]
	t.keys = t.keys[1:]
	return in.ev, in.err
}

func (t *screenTerminal) WindowWidth() int  { return t.width }
func (t *screenTerminal) BufferHeight() int { return t.height }
func (t *screenTerminal) CursorTop() int    { return t.row }

func (t *screenTerminal) SetCursorPosition(col, row int) {
	t.col = min(max(col, 0), t.width-1)
	t.row = min(max(row, 0), t.height-1)
	t.pendingWrap = false
}

func (t *screenTerminal) lineFeed() {
	if t.row < t.height-1 {
		t.row++
		return
	}
	t.cells = append(t.cells[1:], t.blankRow())
}

func (t *screenTerminal) Write(s string) {
	for _, r := range s {
		switch r {
		case '\n':
			t.pendingWrap = false
			t.col = 0
			t.lineFeed()
		case '\r':
			t.pendingWrap = false
			t.col = 0
		default:
			if t.pendingWrap {
				t.pendingWrap = false
				t.col = 0
				t.lineFeed()
			}
			t.cells[t.row][t.col] = r
			if t.col == t.width-1 {
				t.pendingWrap = true
			} else {
				t.col++
			}
		}
	}
}

func (t *screenTerminal) ClearScreen() {
	for i := range t.cells {
		t.cells[i] = t.blankRow()
	}
	t.row, t.col = 0, 0
	t.pendingWrap = false
	t.clears++
}

func (t *screenTerminal) MakeRaw() (func() error, error) {
	t.rawCalls++
	return func() error {
		t.restoreCalls++
		return nil
	}, nil
}

// line returns screen row y without trailing blanks.
func (t *screenTerminal) line(y int) string {
	return strings.TrimRight(string(t.cells[y]), " ")
}

// place moves the cursor as if earlier output had left it there.
func (t *screenTerminal) place(col, row int) {
	t.SetCursorPosition(col, row)
}

// Input helpers.

func typed(s string) []keyInput {
	var in []keyInput
	for _, r := range s {
		in = append(in, keyInput{ev: terminal.KeyEvent{Char: r}})
	}
	return in
}

func key(k terminal.Key) keyInput {
	return keyInput{ev: terminal.KeyEvent{Key: k}}
}

func ctrl(letter rune) keyInput {
	return keyInput{ev: terminal.KeyEvent{Char: letter - 'A' + 1, Mod: terminal.ModCtrl}}
}

func alt(c rune) keyInput {
	return keyInput{ev: terminal.KeyEvent{Char: c, Mod: terminal.ModAlt}}
}

func readErr(err error) keyInput {
	return keyInput{err: err}
}

func seq(parts ...any) []keyInput {
	var in []keyInput
	for _, p := range parts {
		switch v := p.(type) {
		case string:
			in = append(in, typed(v)...)
		case keyInput:
			in = append(in, v)
		case []keyInput:
			in = append(in, v...)
		default:
			panic("seq: unsupported part")
		}
	}
	return in
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// newTestEditor returns an editor on a 40x10 screen with in-memory history.
func newTestEditor(t *testing.T, history []string, opts ...Option) (*Editor, *screenTerminal, *MemoryStore) {
	t.Helper()
	scr := newScreenTerminal(40, 10)
	store := &MemoryStore{Lines: history}
	opts = append([]Option{
		WithTerminal(scr),
		WithStore(store),
		WithLogger(discardLogger),
	}, opts...)
	ed, err := New("test", 50, opts...)
	require.NoError(t, err)
	return ed, scr, store
}
