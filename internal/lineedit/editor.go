// Package lineedit is an Emacs-style single-line editor for interactive
// consoles. It draws directly with cursor positioning, keeps a persistent
// ring of past lines and supports incremental reverse search and
// completion.
package lineedit

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mattn/go-runewidth"
	"github.com/willibrandon/spsh/internal/logger"
	"github.com/willibrandon/spsh/internal/terminal"
)

// ErrNoTerminal is returned by Edit when the editor has no terminal.
var ErrNoTerminal = errors.New("lineedit: no terminal configured")

// Editor reads lines from a terminal. An Editor runs one edit at a time;
// it is not safe for concurrent use.
type Editor struct {
	name                string
	term                Terminal
	store               LineStore
	history             *History
	bindings            Bindings
	completer           Completer
	tabAtStartCompletes bool
	log                 *slog.Logger

	// State that outlives a single edit.
	killBuffer string
	lastSearch string
}

// Option configures an Editor.
type Option func(*Editor)

// WithTerminal sets the terminal to edit on.
func WithTerminal(t Terminal) Option {
	return func(e *Editor) { e.term = t }
}

// WithStore sets where history is loaded from and saved to. Without it, a
// named editor uses a FileStore at DefaultHistoryPath(name) and an unnamed
// one keeps history in memory.
func WithStore(s LineStore) Option {
	return func(e *Editor) { e.store = s }
}

// WithCompleter installs the completion hook run by Tab.
func WithCompleter(c Completer) Option {
	return func(e *Editor) { e.completer = c }
}

// WithTabAtStartCompletes makes Tab complete even when only blanks precede
// the cursor.
func WithTabAtStartCompletes(v bool) Option {
	return func(e *Editor) { e.tabAtStartCompletes = v }
}

// WithBindings replaces the key binding table.
func WithBindings(b Bindings) Option {
	return func(e *Editor) { e.bindings = b }
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(e *Editor) { e.log = l }
}

// New creates an editor whose history holds up to capacity lines and loads
// any previously saved history. A history that cannot be read is logged
// and treated as empty.
func New(name string, capacity int, opts ...Option) (*Editor, error) {
	h, err := NewHistory(capacity)
	if err != nil {
		return nil, err
	}

	e := &Editor{
		name:     name,
		history:  h,
		bindings: defaultBindings,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = logger.With("component", "lineedit", "editor", name)
	}

	if e.store == nil {
		if name == "" {
			e.store = &MemoryStore{}
		} else if path, err := DefaultHistoryPath(name); err == nil {
			e.store = NewFileStore(path)
		} else {
			e.log.Warn("history disabled", "error", err)
			e.store = &MemoryStore{}
		}
	}

	lines, err := e.store.Load()
	if err != nil {
		e.log.Warn("failed to load history", "error", err)
	}
	h.Load(lines)
	e.log.Debug("history loaded", "entries", h.Len(), "capacity", h.Cap())

	return e, nil
}

// History returns the stored lines, oldest first.
func (e *Editor) History() []string {
	return e.history.Entries()
}

// HistoryCapacity returns the most lines the history keeps.
func (e *Editor) HistoryCapacity() int {
	return e.history.Cap()
}

// SaveHistory writes the history to the store. Failures are logged and
// otherwise ignored.
func (e *Editor) SaveHistory() {
	if err := e.store.Save(e.history.Entries()); err != nil {
		e.log.Warn("failed to save history", "error", err)
	}
}

// session is the state of one Edit call.
type session struct {
	ed   *Editor
	term Terminal
	buf  *editBuffer

	prompt        string // prompt requested by the caller
	shownPrompt   string // prompt on screen, differs while searching
	promptWidth   int
	rendered      string
	renderedWidth int
	maxRendered   int
	homeRow       int

	search  searchState
	curCmd  CommandID
	lastCmd CommandID
	done    bool
	eof     bool
}

func newSession(e *Editor, prompt string) *session {
	return &session{
		ed:          e,
		term:        e.term,
		buf:         newEditBuffer(""),
		prompt:      prompt,
		shownPrompt: prompt,
		promptWidth: runewidth.StringWidth(prompt),
		search:      searchState{matchAt: -1},
	}
}

// Edit shows prompt, lets the user edit a line starting out as initial and
// returns it when Enter is pressed. Ctrl-C discards the line and starts
// over. When the user ends input (Ctrl-D or Delete on an empty line, or
// the terminal's input is closed) Edit returns "" and io.EOF.
//
// Non-empty results are added to the history and the history is saved.
func (e *Editor) Edit(prompt, initial string) (string, error) {
	if e.term == nil {
		return "", ErrNoTerminal
	}
	if rt, ok := e.term.(RawModeTerminal); ok {
		restore, err := rt.MakeRaw()
		if err != nil {
			return "", err
		}
		defer restore()
	}

	log := e.log.With("session", uuid.NewString())
	log.Debug("edit started", "prompt", prompt)

	s := newSession(e, prompt)
	s.homeRow = s.term.CursorTop()

	e.history.CursorToEnd()
	e.history.Append(initial)
	s.initText(initial)

	for !s.done {
		err := s.dispatch()
		switch {
		case err == nil:
		case errors.Is(err, terminal.ErrInterrupted):
			log.Debug("edit interrupted")
			s.restart()
		case errors.Is(err, io.EOF):
			s.done = true
			s.eof = true
		default:
			s.endSearch()
			s.term.Write("\n")
			e.history.RemoveLast()
			return "", fmt.Errorf("read key: %w", err)
		}
	}
	s.endSearch()
	s.forceCursor(s.buf.length())
	s.term.Write("\n")

	if s.eof {
		e.history.RemoveLast()
		log.Debug("edit ended by end of input")
		return "", io.EOF
	}

	result := s.buf.String()
	if result == "" {
		e.history.RemoveLast()
		log.Debug("edit finished", "empty", true)
		return "", nil
	}

	e.history.Accept(result)
	e.SaveHistory()
	log.Debug("edit finished", "length", len(result))
	return result, nil
}

// restart abandons the line being edited and draws a fresh prompt on the
// next row.
func (s *session) restart() {
	s.endSearch()
	s.forceCursor(s.buf.length())
	s.term.Write("\n")
	s.homeRow = s.term.CursorTop()
	s.maxRendered = 0
	s.lastCmd = CmdNone

	// Point the history cursor back at a blank provisional entry.
	h := s.ed.history
	h.CursorToEnd()
	h.RemoveLast()
	h.Append("")

	s.shownPrompt = s.prompt
	s.promptWidth = runewidth.StringWidth(s.prompt)
	s.initText("")
}
