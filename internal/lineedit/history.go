package lineedit

import (
	"errors"
	"strings"
)

// ErrInvalidCapacity is returned when a history is created with room for
// fewer than one entry.
var ErrInvalidCapacity = errors.New("lineedit: history capacity must be at least 1")

// History is a fixed-size ring of previously entered lines with a browse
// cursor. The count valid entries occupy the slots from tail up to, but not
// including, head; when the ring is full head and tail coincide and the
// next Append overwrites the oldest entry.
//
// The cursor is kept as an index relative to tail: 0 is the oldest entry,
// count-1 the newest and count means "past the newest". During an edit the
// newest slot holds the line being edited.
type History struct {
	entries []string
	head    int // next write slot
	tail    int // oldest valid slot
	count   int
	cursor  int
}

// NewHistory returns an empty history holding at most capacity entries.
func NewHistory(capacity int) (*History, error) {
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	return &History{entries: make([]string, capacity)}, nil
}

// Cap returns the capacity.
func (h *History) Cap() int {
	return len(h.entries)
}

// Len returns the number of valid entries.
func (h *History) Len() int {
	return h.count
}

func (h *History) wrap(i int) int {
	n := len(h.entries)
	return ((i % n) + n) % n
}

// slot maps a cursor index to its position in the ring.
func (h *History) slot(i int) int {
	return h.wrap(h.tail + i)
}

// Append stores s as the newest entry, overwriting the oldest one when the
// ring is full. The cursor keeps pointing at the same slot.
func (h *History) Append(s string) {
	full := h.count == len(h.entries)
	h.entries[h.head] = s
	h.head = h.wrap(h.head + 1)
	if full {
		h.tail = h.head
		if h.cursor > 0 {
			h.cursor--
		}
		return
	}
	h.count++
}

// Update overwrites the entry under the browse cursor, keeping edits made
// to a recalled line while moving on to another one.
func (h *History) Update(s string) {
	if h.cursor < h.count {
		h.entries[h.slot(h.cursor)] = s
	}
}

// PreviousAvailable reports whether there is an older entry to move to.
func (h *History) PreviousAvailable() bool {
	return h.count > 0 && h.cursor > 0
}

// NextAvailable reports whether there is a newer entry to move to.
func (h *History) NextAvailable() bool {
	return h.count > 0 && h.cursor+1 < h.count
}

// Previous moves the cursor to the next older entry and returns it.
func (h *History) Previous() (string, bool) {
	if !h.PreviousAvailable() {
		return "", false
	}
	h.cursor--
	return h.entries[h.slot(h.cursor)], true
}

// Next moves the cursor to the next newer entry and returns it.
func (h *History) Next() (string, bool) {
	if !h.NextAvailable() {
		return "", false
	}
	h.cursor++
	return h.entries[h.slot(h.cursor)], true
}

// RemoveLast drops the newest entry. It is used to discard the provisional
// entry of an edit that produced nothing.
func (h *History) RemoveLast() {
	if h.count == 0 {
		return
	}
	h.head = h.wrap(h.head - 1)
	h.entries[h.head] = ""
	h.count--
	if h.cursor > h.count {
		h.cursor = h.count
	}
}

// Accept replaces the newest entry with the committed line.
func (h *History) Accept(s string) {
	if h.count == 0 {
		h.Append(s)
		return
	}
	h.entries[h.wrap(h.head-1)] = s
}

// SearchBackward looks for the nearest entry older than the cursor that
// contains term and moves the cursor there. The search stops at the oldest
// entry rather than wrapping.
func (h *History) SearchBackward(term string) (string, bool) {
	for i := min(h.cursor, h.count) - 1; i >= 0; i-- {
		if e := h.entries[h.slot(i)]; strings.Contains(e, term) {
			h.cursor = i
			return e, true
		}
	}
	return "", false
}

// CursorToEnd moves the browse cursor past the newest entry.
func (h *History) CursorToEnd() {
	h.cursor = h.count
}

// Entries returns the valid entries, oldest first.
func (h *History) Entries() []string {
	out := make([]string, 0, h.count)
	for i := 0; i < h.count; i++ {
		out = append(out, h.entries[h.slot(i)])
	}
	return out
}

// Load appends every non-blank line, oldest first.
func (h *History) Load(lines []string) {
	for _, line := range lines {
		if line != "" {
			h.Append(line)
		}
	}
	h.CursorToEnd()
}
