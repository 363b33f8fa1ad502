//go:build !windows

// Package ptytest runs terminal code against a real pseudo-terminal whose
// output is interpreted by a VT100 emulator, so tests can assert on what a
// user would actually see.
package ptytest

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"
	"github.com/hinshun/vt10x"
)

// dsr is the cursor position query; the emulator side answers it.
var dsr = []byte("\x1b[6n")

// Screen is a pseudo-terminal pair with an emulated display attached to the
// controlling side.
type Screen struct {
	ptmx *os.File
	tty  *os.File

	mu sync.Mutex
	vt vt10x.Terminal

	done chan struct{}
}

// Open allocates a pseudo-terminal of the given size.
func Open(cols, rows int) (*Screen, error) {
	ptmx, tty, err := pty.Open()
	if err != nil {
		return nil, fmt.Errorf("open pty: %w", err)
	}
	if err := pty.Setsize(ptmx, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)}); err != nil {
		ptmx.Close()
		tty.Close()
		return nil, fmt.Errorf("set pty size: %w", err)
	}

	s := &Screen{
		ptmx: ptmx,
		tty:  tty,
		vt:   vt10x.New(vt10x.WithSize(cols, rows)),
		done: make(chan struct{}),
	}
	go s.pump()
	return s, nil
}

// TTY returns the application side of the pair.
func (s *Screen) TTY() *os.File {
	return s.tty
}

// pump feeds program output into the emulator and replies to cursor
// position queries with the emulator's cursor.
func (s *Screen) pump() {
	defer close(s.done)

	buf := make([]byte, 4096)
	var tail []byte
	for {
		n, err := s.ptmx.Read(buf)
		if n > 0 {
			data := append(tail, buf[:n]...)
			queries := bytes.Count(data, dsr)
			if len(data) >= len(dsr)-1 {
				tail = append([]byte(nil), data[len(data)-(len(dsr)-1):]...)
			} else {
				tail = append([]byte(nil), data...)
			}

			s.mu.Lock()
			s.vt.Write(buf[:n])
			cur := s.vt.Cursor()
			s.mu.Unlock()

			for i := 0; i < queries; i++ {
				fmt.Fprintf(s.ptmx, "\x1b[%d;%dR", cur.Y+1, cur.X+1)
			}
		}
		if err != nil {
			return
		}
	}
}

// Type sends raw input bytes as if typed on the keyboard.
func (s *Screen) Type(keys string) error {
	_, err := s.ptmx.Write([]byte(keys))
	return err
}

// String returns the whole emulated display.
func (s *Screen) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vt.String()
}

// Line returns row y of the display with trailing blanks removed.
func (s *Screen) Line(y int) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	cols, _ := s.vt.Size()
	for x := 0; x < cols; x++ {
		b.WriteRune(s.vt.Cell(x, y).Char)
	}
	return strings.TrimRight(b.String(), " \x00")
}

// Cursor returns the emulated cursor column and row.
func (s *Screen) Cursor() (col, row int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.vt.Cursor()
	return c.X, c.Y
}

// WaitFor polls the display until it contains text or the timeout expires.
func (s *Screen) WaitFor(text string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if strings.Contains(s.String(), text) {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

// Close releases both ends of the pseudo-terminal.
func (s *Screen) Close() error {
	err := s.tty.Close()
	if cerr := s.ptmx.Close(); err == nil {
		err = cerr
	}
	select {
	case <-s.done:
	case <-time.After(time.Second):
	}
	return err
}
