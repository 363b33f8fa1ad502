package lineedit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHistoryWith(t *testing.T, capacity int, lines ...string) *History {
	t.Helper()
	h, err := NewHistory(capacity)
	require.NoError(t, err)
	for _, l := range lines {
		h.Append(l)
	}
	h.CursorToEnd()
	return h
}

func TestNewHistory_Capacity(t *testing.T) {
	_, err := NewHistory(0)
	assert.ErrorIs(t, err, ErrInvalidCapacity)
	_, err = NewHistory(-3)
	assert.ErrorIs(t, err, ErrInvalidCapacity)

	h, err := NewHistory(1)
	require.NoError(t, err)
	assert.Equal(t, 1, h.Cap())
	assert.Equal(t, 0, h.Len())
}

func TestHistory_OverwritesOldest(t *testing.T) {
	h := newHistoryWith(t, 3, "one", "two", "three", "four")

	assert.Equal(t, 3, h.Len())
	assert.Equal(t, []string{"two", "three", "four"}, h.Entries())

	var seen []string
	for h.PreviousAvailable() {
		line, ok := h.Previous()
		require.True(t, ok)
		seen = append(seen, line)
	}
	assert.Equal(t, []string{"four", "three", "two"}, seen)

	_, ok := h.Previous()
	assert.False(t, ok)
}

func TestHistory_PreviousNext(t *testing.T) {
	h := newHistoryWith(t, 5, "a", "b", "c")

	assert.False(t, h.NextAvailable(), "nothing newer than the end")

	line, ok := h.Previous()
	require.True(t, ok)
	assert.Equal(t, "c", line)

	line, _ = h.Previous()
	assert.Equal(t, "b", line)

	line, ok = h.Next()
	require.True(t, ok)
	assert.Equal(t, "c", line)

	_, ok = h.Next()
	assert.False(t, ok, "the newest entry is the last one reachable with Next")
}

func TestHistory_EmptyIsInert(t *testing.T) {
	h := newHistoryWith(t, 3)

	assert.False(t, h.PreviousAvailable())
	assert.False(t, h.NextAvailable())
	_, ok := h.SearchBackward("x")
	assert.False(t, ok)

	h.RemoveLast()
	h.Update("ignored")
	assert.Empty(t, h.Entries())
}

func TestHistory_Update(t *testing.T) {
	h := newHistoryWith(t, 5, "a", "b")

	h.Update("past the end")
	assert.Equal(t, []string{"a", "b"}, h.Entries())

	h.Previous()
	h.Update("B")
	assert.Equal(t, []string{"a", "B"}, h.Entries())
}

func TestHistory_SearchBackwardOrder(t *testing.T) {
	h := newHistoryWith(t, 10, "alpha", "beta", "gamma")

	var found []string
	for {
		line, ok := h.SearchBackward("a")
		if !ok {
			break
		}
		found = append(found, line)
	}
	assert.Equal(t, []string{"gamma", "beta", "alpha"}, found)
}

func TestHistory_SearchBackwardSkipsNonMatches(t *testing.T) {
	h := newHistoryWith(t, 10, "get-web", "ls", "get-list", "cd")

	line, ok := h.SearchBackward("get")
	require.True(t, ok)
	assert.Equal(t, "get-list", line)

	line, ok = h.SearchBackward("get")
	require.True(t, ok)
	assert.Equal(t, "get-web", line)

	_, ok = h.SearchBackward("get")
	assert.False(t, ok, "search does not wrap around")
}

func TestHistory_SearchAfterWrap(t *testing.T) {
	h := newHistoryWith(t, 3, "x1", "y", "x2", "x3")

	line, ok := h.SearchBackward("x")
	require.True(t, ok)
	assert.Equal(t, "x3", line)
	line, _ = h.SearchBackward("x")
	assert.Equal(t, "x2", line)
	_, ok = h.SearchBackward("x")
	assert.False(t, ok, "x1 was overwritten")
}

func TestHistory_RemoveLastAndAccept(t *testing.T) {
	h := newHistoryWith(t, 3, "a", "b")

	h.Append("provisional")
	h.Accept("c")
	assert.Equal(t, []string{"a", "b", "c"}, h.Entries())

	h.RemoveLast()
	assert.Equal(t, []string{"a", "b"}, h.Entries())
	assert.Equal(t, 2, h.Len())

	empty := newHistoryWith(t, 2)
	empty.Accept("only")
	assert.Equal(t, []string{"only"}, empty.Entries())
}

func TestHistory_RemoveLastAfterWrap(t *testing.T) {
	h := newHistoryWith(t, 2, "a", "b", "c")
	h.RemoveLast()
	assert.Equal(t, []string{"b"}, h.Entries())

	h.Append("d")
	assert.Equal(t, []string{"b", "d"}, h.Entries())
}

func TestHistory_CursorFollowsOverwrite(t *testing.T) {
	h := newHistoryWith(t, 3, "a", "b", "c")
	h.Previous() // c

	h.Append("d") // drops a
	assert.True(t, h.NextAvailable())
	line, _ := h.Next()
	assert.Equal(t, "d", line)
}

func TestHistory_Load(t *testing.T) {
	h := newHistoryWith(t, 3)
	h.Load([]string{"", "one", "", "two", "three", "four"})

	assert.Equal(t, []string{"two", "three", "four"}, h.Entries())
	assert.False(t, h.NextAvailable())
	assert.True(t, h.PreviousAvailable())
}
