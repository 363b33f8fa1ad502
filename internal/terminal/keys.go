// Package terminal provides raw key input and cursor control for an
// interactive console on a tty.
package terminal

import (
	"errors"
	"fmt"
)

// ErrInterrupted is returned by ReadKey when the user presses Ctrl-C.
// In raw mode the tty does not raise SIGINT, so the interrupt arrives as
// data and is surfaced here instead.
var ErrInterrupted = errors.New("terminal: interrupted")

// Key identifies a named (non-character) key.
type Key int

const (
	KeyNone Key = iota
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyEscape
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyInsert
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyUnknown
)

var keyNames = map[Key]string{
	KeyNone:      "none",
	KeyEnter:     "enter",
	KeyTab:       "tab",
	KeyBackspace: "backspace",
	KeyDelete:    "delete",
	KeyEscape:    "escape",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyHome:      "home",
	KeyEnd:       "end",
	KeyPageUp:    "pageup",
	KeyPageDown:  "pagedown",
	KeyInsert:    "insert",
	KeyUnknown:   "unknown",
}

func (k Key) String() string {
	if k >= KeyF1 && k <= KeyF12 {
		return fmt.Sprintf("f%d", int(k-KeyF1)+1)
	}
	if name, ok := keyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("key(%d)", int(k))
}

// Modifiers is a bit set of modifier keys held with a key.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModAlt
	ModCtrl
)

// KeyEvent is a single decoded key press. Character keys have Key set to
// KeyNone and carry the rune in Char; control characters carry their code
// point (Ctrl-A is 1) together with ModCtrl.
type KeyEvent struct {
	Char rune
	Key  Key
	Mod  Modifiers
}

// String returns a readable chord name such as "ctrl+a", "alt+b" or "up".
func (e KeyEvent) String() string {
	prefix := ""
	if e.Mod&ModCtrl != 0 {
		prefix += "ctrl+"
	}
	if e.Mod&ModAlt != 0 {
		prefix += "alt+"
	}
	if e.Mod&ModShift != 0 {
		prefix += "shift+"
	}
	if e.Key != KeyNone {
		return prefix + e.Key.String()
	}
	if e.Char > 0 && e.Char < 27 && e.Mod&ModCtrl != 0 {
		return prefix + string('a'+e.Char-1)
	}
	return prefix + string(e.Char)
}
