package lineedit

import (
	"unicode"

	"github.com/willibrandon/spsh/internal/terminal"
)

// CommandID names an editing command. The session remembers the id of the
// last command it ran so that consecutive kills can be merged.
type CommandID int

const (
	CmdNone CommandID = iota
	CmdSelfInsert
	CmdHome
	CmdEnd
	CmdBackwardChar
	CmdForwardChar
	CmdBackwardWord
	CmdForwardWord
	CmdHistoryPrev
	CmdHistoryNext
	CmdDone
	CmdBackspace
	CmdDeleteChar
	CmdTabOrComplete
	CmdKillToEnd
	CmdKillToStart
	CmdKillWordForward
	CmdKillWordBackward
	CmdYank
	CmdRefresh
	CmdReverseSearch
	CmdAbort
	CmdQuotedInsert
)

var commandNames = map[CommandID]string{
	CmdNone:             "none",
	CmdSelfInsert:       "self-insert",
	CmdHome:             "beginning-of-line",
	CmdEnd:              "end-of-line",
	CmdBackwardChar:     "backward-char",
	CmdForwardChar:      "forward-char",
	CmdBackwardWord:     "backward-word",
	CmdForwardWord:      "forward-word",
	CmdHistoryPrev:      "previous-history",
	CmdHistoryNext:      "next-history",
	CmdDone:             "accept-line",
	CmdBackspace:        "backward-delete-char",
	CmdDeleteChar:       "delete-char",
	CmdTabOrComplete:    "complete",
	CmdKillToEnd:        "kill-line",
	CmdKillToStart:      "backward-kill-line",
	CmdKillWordForward:  "kill-word",
	CmdKillWordBackward: "backward-kill-word",
	CmdYank:             "yank",
	CmdRefresh:          "clear-screen",
	CmdReverseSearch:    "reverse-search-history",
	CmdAbort:            "abort",
	CmdQuotedInsert:     "quoted-insert",
}

func (c CommandID) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "unknown"
}

// Chord is a key together with the modifiers that must be held. A chord
// with Key set matches named keys; otherwise it matches on Char.
type Chord struct {
	Key  terminal.Key
	Char rune
	Mod  terminal.Modifiers
}

// KeyChord binds a named key with no modifiers.
func KeyChord(k terminal.Key) Chord {
	return Chord{Key: k}
}

// CtrlChord binds control plus an upper-case letter.
func CtrlChord(letter rune) Chord {
	return Chord{Char: letter - 'A' + 1, Mod: terminal.ModCtrl}
}

// AltChord binds alt (or an Escape prefix) plus a letter.
func AltChord(letter rune) Chord {
	return Chord{Char: unicode.ToLower(letter), Mod: terminal.ModAlt}
}

// AltKeyChord binds alt plus a named key.
func AltKeyChord(k terminal.Key) Chord {
	return Chord{Key: k, Mod: terminal.ModAlt}
}

// String renders the chord in Emacs notation, e.g. "C-a", "M-f", "M-backspace".
func (c Chord) String() string {
	var prefix string
	if c.Mod&terminal.ModCtrl != 0 && c.Key == terminal.KeyNone {
		return "C-" + string(unicode.ToLower(c.Char+'A'-1))
	}
	if c.Mod&terminal.ModAlt != 0 {
		prefix = "M-"
	}
	if c.Key != terminal.KeyNone {
		return prefix + c.Key.String()
	}
	return prefix + string(c.Char)
}

// matches reports whether ev, with the effective modifiers mod, triggers c.
func (c Chord) matches(ev terminal.KeyEvent, mod terminal.Modifiers) bool {
	if c.Key != terminal.KeyNone {
		return ev.Key == c.Key && mod == c.Mod
	}
	if ev.Key != terminal.KeyNone {
		return false
	}
	if c.Mod&terminal.ModAlt != 0 {
		return mod&terminal.ModAlt != 0 && unicode.ToLower(ev.Char) == c.Char
	}
	if c.Mod&terminal.ModCtrl != 0 {
		// Control characters are identified by their code point alone.
		return mod&terminal.ModAlt == 0 && ev.Char == c.Char
	}
	return mod == c.Mod && ev.Char == c.Char
}

// Binding associates a chord with a command.
type Binding struct {
	Chord   Chord
	Command CommandID
}

// Bindings is an ordered binding table; earlier entries win.
type Bindings []Binding

// Lookup returns the command bound to ev, scanning in table order.
func (b Bindings) Lookup(ev terminal.KeyEvent, mod terminal.Modifiers) (CommandID, bool) {
	for _, binding := range b {
		if binding.Chord.matches(ev, mod) {
			return binding.Command, true
		}
	}
	return CmdNone, false
}

// defaultBindings is shared by every editor and never modified.
var defaultBindings = Bindings{
	{KeyChord(terminal.KeyHome), CmdHome},
	{KeyChord(terminal.KeyEnd), CmdEnd},
	{KeyChord(terminal.KeyLeft), CmdBackwardChar},
	{KeyChord(terminal.KeyRight), CmdForwardChar},
	{KeyChord(terminal.KeyUp), CmdHistoryPrev},
	{KeyChord(terminal.KeyDown), CmdHistoryNext},
	{KeyChord(terminal.KeyEnter), CmdDone},
	{KeyChord(terminal.KeyBackspace), CmdBackspace},
	{KeyChord(terminal.KeyDelete), CmdDeleteChar},
	{KeyChord(terminal.KeyTab), CmdTabOrComplete},

	{CtrlChord('A'), CmdHome},
	{CtrlChord('E'), CmdEnd},
	{CtrlChord('B'), CmdBackwardChar},
	{CtrlChord('F'), CmdForwardChar},
	{CtrlChord('P'), CmdHistoryPrev},
	{CtrlChord('N'), CmdHistoryNext},
	{CtrlChord('K'), CmdKillToEnd},
	{CtrlChord('U'), CmdKillToStart},
	{CtrlChord('W'), CmdKillWordBackward},
	{CtrlChord('Y'), CmdYank},
	{CtrlChord('D'), CmdDeleteChar},
	{CtrlChord('L'), CmdRefresh},
	{CtrlChord('R'), CmdReverseSearch},
	{CtrlChord('G'), CmdAbort},
	{CtrlChord('Q'), CmdQuotedInsert},

	{AltChord('B'), CmdBackwardWord},
	{AltChord('F'), CmdForwardWord},
	{AltChord('D'), CmdKillWordForward},
	{AltKeyChord(terminal.KeyBackspace), CmdKillWordBackward},
}

// DefaultBindings returns a copy of the built-in binding table.
func DefaultBindings() Bindings {
	return append(Bindings(nil), defaultBindings...)
}

type commandFunc func(s *session) error

var commands = map[CommandID]commandFunc{
	CmdHome:             cmdHome,
	CmdEnd:              cmdEnd,
	CmdBackwardChar:     cmdBackwardChar,
	CmdForwardChar:      cmdForwardChar,
	CmdBackwardWord:     cmdBackwardWord,
	CmdForwardWord:      cmdForwardWord,
	CmdHistoryPrev:      cmdHistoryPrev,
	CmdHistoryNext:      cmdHistoryNext,
	CmdDone:             cmdDone,
	CmdBackspace:        cmdBackspace,
	CmdDeleteChar:       cmdDeleteChar,
	CmdTabOrComplete:    cmdTabOrComplete,
	CmdKillToEnd:        cmdKillToEnd,
	CmdKillToStart:      cmdKillToStart,
	CmdKillWordForward:  cmdKillWordForward,
	CmdKillWordBackward: cmdKillWordBackward,
	CmdYank:             cmdYank,
	CmdRefresh:          cmdRefresh,
	CmdReverseSearch:    cmdReverseSearch,
	CmdAbort:            cmdAbort,
	CmdQuotedInsert:     cmdQuotedInsert,
}

func cmdHome(s *session) error {
	s.updateCursor(0)
	return nil
}

func cmdEnd(s *session) error {
	s.updateCursor(s.buf.length())
	return nil
}

func cmdBackwardChar(s *session) error {
	if s.buf.cursor == 0 {
		return nil
	}
	s.updateCursor(s.buf.cursor - 1)
	return nil
}

func cmdForwardChar(s *session) error {
	if s.buf.cursor == s.buf.length() {
		return nil
	}
	s.updateCursor(s.buf.cursor + 1)
	return nil
}

func cmdBackwardWord(s *session) error {
	if p := wordBackward(s.buf.text, s.buf.cursor); p != noMovement {
		s.updateCursor(p)
	}
	return nil
}

func cmdForwardWord(s *session) error {
	if p := wordForward(s.buf.text, s.buf.cursor); p != noMovement {
		s.updateCursor(p)
	}
	return nil
}

func cmdHistoryPrev(s *session) error {
	h := s.ed.history
	if !h.PreviousAvailable() {
		return nil
	}
	h.Update(s.buf.String())
	if line, ok := h.Previous(); ok {
		s.setText(line)
	}
	return nil
}

func cmdHistoryNext(s *session) error {
	h := s.ed.history
	if !h.NextAvailable() {
		return nil
	}
	h.Update(s.buf.String())
	if line, ok := h.Next(); ok {
		s.setText(line)
	}
	return nil
}

func cmdDone(s *session) error {
	s.done = true
	return nil
}

func cmdBackspace(s *session) error {
	if s.buf.cursor == 0 {
		return nil
	}
	s.removeSpan(s.buf.cursor-1, s.buf.cursor)
	return nil
}

// cmdDeleteChar deletes under the cursor; on an empty line it ends input.
func cmdDeleteChar(s *session) error {
	if s.buf.length() == 0 {
		s.done = true
		s.eof = true
		return nil
	}
	if s.buf.cursor == s.buf.length() {
		return nil
	}
	s.removeSpan(s.buf.cursor, s.buf.cursor+1)
	return nil
}

func cmdKillToEnd(s *session) error {
	s.kill(s.buf.cursor, s.buf.length(), false)
	return nil
}

func cmdKillToStart(s *session) error {
	s.kill(0, s.buf.cursor, true)
	return nil
}

func cmdKillWordForward(s *session) error {
	if p := wordForward(s.buf.text, s.buf.cursor); p != noMovement {
		s.kill(s.buf.cursor, p, false)
	}
	return nil
}

func cmdKillWordBackward(s *session) error {
	if p := wordBackward(s.buf.text, s.buf.cursor); p != noMovement {
		s.kill(p, s.buf.cursor, true)
	}
	return nil
}

func cmdYank(s *session) error {
	s.insertText(s.ed.killBuffer)
	return nil
}

func cmdRefresh(s *session) error {
	s.term.ClearScreen()
	s.homeRow = 0
	s.maxRendered = 0
	s.render()
	s.forceCursor(s.buf.cursor)
	return nil
}

// cmdAbort does nothing itself; dispatching it ends a search.
func cmdAbort(s *session) error {
	return nil
}

// cmdQuotedInsert inserts the next key's character literally, which is the
// only way to enter control characters.
func cmdQuotedInsert(s *session) error {
	ev, err := s.term.ReadKey()
	if err != nil {
		return err
	}
	c := ev.Char
	switch ev.Key {
	case terminal.KeyNone:
	case terminal.KeyEnter:
		c = '\r'
	case terminal.KeyTab:
		c = '\t'
	case terminal.KeyBackspace:
		c = 0x7f
	case terminal.KeyEscape:
		c = 0x1b
	default:
		return nil
	}
	if c != 0 {
		s.handleChar(c)
	}
	return nil
}

// insertText inserts text at the cursor and leaves the cursor after it.
func (s *session) insertText(text string) {
	if text == "" {
		return
	}
	prev := s.lineCount()
	pos := s.buf.cursor
	s.buf.insert(pos, text)
	s.computeRendered()
	s.redrawAfterChange(prev, pos, pos+len([]rune(text)))
}

// removeSpan deletes [from, to) and leaves the cursor at from.
func (s *session) removeSpan(from, to int) string {
	prev := s.lineCount()
	removed := s.buf.removeRange(from, to-from)
	s.computeRendered()
	s.redrawAfterChange(prev, from, from)
	return removed
}

// kill removes [from, to) into the kill buffer. Repeating the same kill
// command extends the buffer: forward kills append, backward kills prepend.
func (s *session) kill(from, to int, backward bool) {
	if from >= to {
		if s.lastCmd != s.curCmd {
			s.ed.killBuffer = ""
		}
		return
	}
	k := s.removeSpan(from, to)
	switch {
	case s.lastCmd != s.curCmd:
		s.ed.killBuffer = k
	case backward:
		s.ed.killBuffer = k + s.ed.killBuffer
	default:
		s.ed.killBuffer += k
	}
}

// handleChar routes a typed character to the search string or the buffer.
func (s *session) handleChar(c rune) {
	if s.search.active {
		s.searchAppend(c)
		return
	}
	s.insertText(string(c))
}

// dispatch reads one chord and runs what it is bound to.
func (s *session) dispatch() error {
	ev, err := s.term.ReadKey()
	if err != nil {
		return err
	}

	mod := ev.Mod
	if ev.Key == terminal.KeyEscape {
		if ev, err = s.term.ReadKey(); err != nil {
			return err
		}
		mod = ev.Mod | terminal.ModAlt
	}

	id, ok := s.ed.bindings.Lookup(ev, mod)
	if !ok {
		if mod&(terminal.ModAlt|terminal.ModCtrl) == 0 && ev.Char != 0 && unicode.IsPrint(ev.Char) {
			s.curCmd = CmdSelfInsert
			s.handleChar(ev.Char)
			s.lastCmd = CmdSelfInsert
		}
		return nil
	}

	s.curCmd = id
	if err := commands[id](s); err != nil {
		return err
	}
	s.lastCmd = id

	if s.search.active && id != CmdReverseSearch {
		s.endSearch()
		s.setPrompt(s.prompt)
	}
	return nil
}
