package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

// ErrNotTerminal is returned by NewConsole when the input is not a tty.
var ErrNotTerminal = errors.New("terminal: input is not a terminal")

// cursorReport matches a DSR cursor position reply, "ESC [ row ; col R".
var cursorReport = regexp.MustCompile(`\x1b\[(\d+);(\d+)R$`)

// Console is a tty-backed terminal. Coordinates are zero based.
//
// Console is not safe for concurrent use; one goroutine owns it for the
// duration of an edit.
type Console struct {
	in      *os.File
	out     *os.File
	r       *bufio.Reader
	pending []byte // input read while waiting for a cursor report
	lastRow int
}

// NewConsole returns a Console reading keys from in and drawing on out.
func NewConsole(in, out *os.File) (*Console, error) {
	if !term.IsTerminal(int(in.Fd())) {
		return nil, ErrNotTerminal
	}
	return &Console{
		in:  in,
		out: out,
		r:   bufio.NewReaderSize(in, 256),
	}, nil
}

// Stdio returns a Console on the process's standard input and output.
func Stdio() (*Console, error) {
	return NewConsole(os.Stdin, os.Stdout)
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// MakeRaw puts the input tty into raw mode and returns a function that
// restores the previous state.
func (c *Console) MakeRaw() (func() error, error) {
	fd := int(c.in.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("make raw: %w", err)
	}
	return func() error {
		return term.Restore(fd, state)
	}, nil
}

// ReadKey blocks until a key is available. It returns ErrInterrupted for
// Ctrl-C and io.EOF when the input is closed.
func (c *Console) ReadKey() (KeyEvent, error) {
	return decodeKey(c)
}

// ReadByte implements byteSource, draining bytes set aside by CursorTop first.
func (c *Console) ReadByte() (byte, error) {
	if len(c.pending) > 0 {
		b := c.pending[0]
		c.pending = c.pending[1:]
		return b, nil
	}
	return c.r.ReadByte()
}

func (c *Console) buffered() int {
	return len(c.pending) + c.r.Buffered()
}

func (c *Console) waitInput(timeout time.Duration) bool {
	if c.buffered() > 0 {
		return true
	}
	return pollInput(c.in, timeout)
}

func (c *Console) size() (width, height int) {
	w, h, err := term.GetSize(int(c.out.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return defaultWidth, defaultHeight
	}
	return w, h
}

// WindowWidth returns the number of columns.
func (c *Console) WindowWidth() int {
	w, _ := c.size()
	return w
}

// BufferHeight returns the number of rows the cursor can be placed on.
func (c *Console) BufferHeight() int {
	_, h := c.size()
	return h
}

// CursorTop returns the row the cursor is on, asking the terminal with a
// device status report. Keys typed while the report is in flight are kept
// for the next ReadKey. If the query fails the last known row is returned.
func (c *Console) CursorTop() int {
	row, _, err := c.cursorPosition()
	if err != nil {
		return c.lastRow
	}
	c.lastRow = row
	return row
}

func (c *Console) cursorPosition() (row, col int, err error) {
	if _, err := io.WriteString(c.out, "\x1b[6n"); err != nil {
		return 0, 0, err
	}

	var data []byte
	for {
		b, err := c.r.ReadByte()
		if err != nil {
			c.pending = append(c.pending, data...)
			return 0, 0, err
		}
		data = append(data, b)
		if b != 'R' {
			continue
		}
		m := cursorReport.FindSubmatchIndex(data)
		if m == nil {
			continue
		}
		row, _ = strconv.Atoi(string(data[m[2]:m[3]]))
		col, _ = strconv.Atoi(string(data[m[4]:m[5]]))
		c.pending = append(c.pending, data[:m[0]]...)
		return row - 1, col - 1, nil
	}
}

// SetCursorPosition moves the cursor to col, row.
func (c *Console) SetCursorPosition(col, row int) {
	fmt.Fprintf(c.out, "\x1b[%d;%dH", row+1, col+1)
}

// Write draws s at the cursor. Newlines are expanded to CRLF because raw
// mode turns off output post-processing.
func (c *Console) Write(s string) {
	_, _ = io.WriteString(c.out, strings.ReplaceAll(s, "\n", "\r\n"))
}

// ClearScreen erases the display and homes the cursor.
func (c *Console) ClearScreen() {
	_, _ = io.WriteString(c.out, "\x1b[2J\x1b[H")
}
