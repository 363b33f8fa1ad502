package lineedit

import (
	"strings"
	"unicode"

	"github.com/mitchellh/go-wordwrap"
)

// Completion is the answer of a Completer. Result holds the text to insert
// at the cursor for each candidate, that is, only the part not yet typed.
// Prefix is shown in front of each candidate when several are listed.
type Completion struct {
	Prefix string
	Result []string
}

// Completer is called with the line and cursor position when the user asks
// for completion. It returns nil when there is nothing to offer.
type Completer func(text string, pos int) *Completion

// commonPrefix returns the longest prefix shared by all candidates.
func commonPrefix(candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	prefix := []rune(candidates[0])
	for _, c := range candidates[1:] {
		r := []rune(c)
		n := 0
		for n < len(prefix) && n < len(r) && prefix[n] == r[n] {
			n++
		}
		prefix = prefix[:n]
	}
	return string(prefix)
}

// cmdTabOrComplete completes when a completer is installed and there is
// something other than blanks before the cursor (or tab at line start is
// configured to complete); otherwise it inserts a tab.
func cmdTabOrComplete(s *session) error {
	if s.ed.completer == nil {
		s.handleChar('\t')
		return nil
	}

	complete := s.ed.tabAtStartCompletes
	for _, r := range s.buf.text[:s.buf.cursor] {
		if complete {
			break
		}
		complete = !unicode.IsSpace(r)
	}
	if !complete {
		s.handleChar('\t')
		return nil
	}

	c := s.ed.completer(s.buf.String(), s.buf.cursor)
	if c == nil || len(c.Result) == 0 {
		return nil
	}
	if len(c.Result) == 1 {
		s.insertText(c.Result[0])
		return nil
	}

	s.insertText(commonPrefix(c.Result))
	s.showCompletions(c)
	return nil
}

// showCompletions lists the candidates under the line and redraws the
// prompt below them.
func (s *session) showCompletions(c *Completion) {
	items := make([]string, len(c.Result))
	for i, r := range c.Result {
		items[i] = c.Prefix + r
	}
	list := wordwrap.WrapString(strings.Join(items, " "), uint(max(s.width()-1, 1)))

	cur := s.buf.cursor
	s.forceCursor(s.buf.length())
	s.term.Write("\n")
	s.term.Write(list)
	s.term.Write("\n")

	s.homeRow = s.term.CursorTop()
	s.maxRendered = 0
	s.render()
	s.forceCursor(cur)
}
