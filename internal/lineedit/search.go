package lineedit

// searchState tracks one incremental reverse-search episode.
type searchState struct {
	active  bool
	term    string
	matchAt int // buffer offset of the last in-line match, -1 when unset
}

func searchPrompt(term string) string {
	return "(reverse-i-search)`" + term + "': "
}

// endSearch leaves search mode, remembering the term so that an empty
// Ctrl-R in a later episode can repeat it.
func (s *session) endSearch() {
	if s.search.term != "" {
		s.ed.lastSearch = s.search.term
	}
	s.search = searchState{matchAt: -1}
}

func cmdReverseSearch(s *session) error {
	if !s.search.active {
		s.search = searchState{active: true, matchAt: -1}
		s.setPrompt(searchPrompt(""))
		return nil
	}

	if s.search.term == "" {
		if s.ed.lastSearch != "" {
			s.search.term = s.ed.lastSearch
			s.setPrompt(searchPrompt(s.search.term))
			s.reverseSearch()
		}
		return nil
	}

	s.reverseSearch()
	return nil
}

// searchAppend extends the search term. If the text at the cursor still
// matches the longer term the cursor stays put.
func (s *session) searchAppend(c rune) {
	s.search.term += string(c)
	s.setPrompt(searchPrompt(s.search.term))

	if cur := s.buf.cursor; cur < s.buf.length() && hasPrefixAt(s.buf.text, cur, s.search.term) {
		return
	}
	s.reverseSearch()
}

// reverseSearch moves to the previous occurrence of the term, first within
// the current line and then through older history entries.
func (s *session) reverseSearch() {
	term := []rune(s.search.term)
	for {
		text := s.buf.text
		cur := s.buf.cursor

		p := -1
		if cur == len(text) {
			p = lastIndexBefore(text, term, len(text))
		} else {
			start := cur
			if cur == s.search.matchAt {
				start = cur - 1
			}
			if start >= 0 {
				p = lastIndexBefore(text, term, start+1)
			}
		}
		if p != -1 {
			s.search.matchAt = p
			s.forceCursor(p)
			return
		}

		h := s.ed.history
		h.Update(s.buf.String())
		line, ok := h.SearchBackward(s.search.term)
		if !ok {
			return
		}
		s.search.matchAt = -1
		s.setText(line)
	}
}

// lastIndexBefore returns the start of the last occurrence of sub lying
// entirely within text[:limit], or -1.
func lastIndexBefore(text, sub []rune, limit int) int {
	if limit > len(text) {
		limit = len(text)
	}
	for i := limit - len(sub); i >= 0; i-- {
		if hasPrefixAt(text, i, string(sub)) {
			return i
		}
	}
	return -1
}

// hasPrefixAt reports whether text[pos:] starts with prefix.
func hasPrefixAt(text []rune, pos int, prefix string) bool {
	i := pos
	for _, r := range prefix {
		if i >= len(text) || text[i] != r {
			return false
		}
		i++
	}
	return true
}
