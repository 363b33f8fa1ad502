package lineedit

import "github.com/willibrandon/spsh/internal/terminal"

// Terminal is the screen and keyboard an Editor draws on. Rows and columns
// are zero based; rows are absolute screen rows.
type Terminal interface {
	// ReadKey blocks for the next key. It returns terminal.ErrInterrupted
	// when the user cancels and io.EOF when input is exhausted.
	ReadKey() (terminal.KeyEvent, error)
	WindowWidth() int
	BufferHeight() int
	CursorTop() int
	SetCursorPosition(col, row int)
	Write(s string)
	ClearScreen()
}

// RawModeTerminal is implemented by terminals that must be switched into
// raw mode for the duration of an edit.
type RawModeTerminal interface {
	Terminal
	MakeRaw() (restore func() error, err error)
}
