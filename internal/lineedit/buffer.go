package lineedit

// editBuffer is the text being edited and the cursor within it. Positions
// are rune offsets. insert and removeRange panic on positions outside
// [0, length]; commands check bounds before calling them.
type editBuffer struct {
	text   []rune
	cursor int
}

func newEditBuffer(s string) *editBuffer {
	b := &editBuffer{}
	b.setAll(s)
	return b
}

func (b *editBuffer) length() int {
	return len(b.text)
}

func (b *editBuffer) String() string {
	return string(b.text)
}

// slice returns the text between from and to.
func (b *editBuffer) slice(from, to int) string {
	return string(b.text[from:to])
}

// insert places s before pos. The cursor is left alone.
func (b *editBuffer) insert(pos int, s string) {
	if pos < 0 || pos > len(b.text) {
		panic("lineedit: insert position out of range")
	}
	r := []rune(s)
	if len(r) == 0 {
		return
	}
	text := make([]rune, 0, len(b.text)+len(r))
	text = append(text, b.text[:pos]...)
	text = append(text, r...)
	text = append(text, b.text[pos:]...)
	b.text = text
}

// removeRange deletes n runes starting at pos and returns them.
func (b *editBuffer) removeRange(pos, n int) string {
	if pos < 0 || n < 0 || pos+n > len(b.text) {
		panic("lineedit: remove range out of range")
	}
	removed := string(b.text[pos : pos+n])
	b.text = append(b.text[:pos], b.text[pos+n:]...)
	if b.cursor > len(b.text) {
		b.cursor = len(b.text)
	}
	return removed
}

// setAll replaces the text and moves the cursor to the end.
func (b *editBuffer) setAll(s string) {
	b.text = []rune(s)
	b.cursor = len(b.text)
}
