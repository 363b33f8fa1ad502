package lineedit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willibrandon/spsh/internal/terminal"
)

func prefixCompleter(names ...string) Completer {
	return func(text string, pos int) *Completion {
		word := string([]rune(text)[:pos])
		var results []string
		for _, n := range names {
			if strings.HasPrefix(n, word) {
				results = append(results, n[len(word):])
			}
		}
		if len(results) == 0 {
			return nil
		}
		return &Completion{Prefix: word, Result: results}
	}
}

func TestCommonPrefix(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{nil, ""},
		{[]string{"abc"}, "abc"},
		{[]string{"elp", "istory"}, ""},
		{[]string{"ello", "elp"}, "el"},
		{[]string{"日本語", "日本"}, "日本"},
		{[]string{"same", "same"}, "same"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, commonPrefix(tt.in), "commonPrefix(%q)", tt.in)
	}
}

func TestComplete_Unique(t *testing.T) {
	ed, scr, _ := newTestEditor(t, nil, WithCompleter(prefixCompleter("help", "history")))
	scr.queue(seq("he", key(terminal.KeyTab), key(terminal.KeyEnter))...)

	line, err := ed.Edit("> ", "")
	require.NoError(t, err)
	assert.Equal(t, "help", line)
}

func TestComplete_ListsCandidates(t *testing.T) {
	ed, scr, _ := newTestEditor(t, nil, WithCompleter(prefixCompleter("help", "history")))
	scr.queue(seq(
		"h",
		key(terminal.KeyTab),
		"i",
		key(terminal.KeyTab),
		key(terminal.KeyEnter),
	)...)

	line, err := ed.Edit("> ", "")
	require.NoError(t, err)
	assert.Equal(t, "history", line)

	assert.Equal(t, "> h", scr.line(0))
	assert.Equal(t, "help history", scr.line(1))
	assert.Equal(t, "> history", scr.line(2))
}

func TestComplete_InsertsCommonPrefix(t *testing.T) {
	ed, scr, _ := newTestEditor(t, nil, WithCompleter(prefixCompleter("hello", "help")))
	scr.queue(seq("h", key(terminal.KeyTab), key(terminal.KeyEnter))...)

	line, err := ed.Edit("> ", "")
	require.NoError(t, err)
	assert.Equal(t, "hel", line)
	assert.Equal(t, "hello help", scr.line(1))
	assert.Equal(t, "> hel", scr.line(2))
}

func TestComplete_NoCandidates(t *testing.T) {
	ed, scr, _ := newTestEditor(t, nil, WithCompleter(prefixCompleter("help")))
	scr.queue(seq("x", key(terminal.KeyTab), key(terminal.KeyEnter))...)

	line, err := ed.Edit("> ", "")
	require.NoError(t, err)
	assert.Equal(t, "x", line)
	assert.Equal(t, "", scr.line(1))
}

func TestComplete_TabAtStart(t *testing.T) {
	tests := []struct {
		name  string
		opts  []Option
		input []keyInput
		want  string
	}{
		{
			name:  "no completer inserts tab",
			input: seq("a", key(terminal.KeyTab), "b", key(terminal.KeyEnter)),
			want:  "a\tb",
		},
		{
			name:  "blank prefix inserts tab",
			opts:  []Option{WithCompleter(prefixCompleter("help"))},
			input: seq(" ", key(terminal.KeyTab), key(terminal.KeyEnter)),
			want:  " \t",
		},
		{
			name:  "blank prefix completes when configured",
			opts:  []Option{WithCompleter(prefixCompleter("help")), WithTabAtStartCompletes(true)},
			input: seq(key(terminal.KeyTab), key(terminal.KeyEnter)),
			want:  "help",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ed, scr, _ := newTestEditor(t, nil, tt.opts...)
			scr.queue(tt.input...)

			line, err := ed.Edit("> ", "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, line)
		})
	}
}

func TestComplete_WrapsCandidateList(t *testing.T) {
	scr := newScreenTerminal(12, 6)
	ed, err := New("", 5,
		WithTerminal(scr),
		WithLogger(discardLogger),
		WithCompleter(prefixCompleter("alpha", "alpine", "altitude")),
	)
	require.NoError(t, err)

	scr.queue(seq("al", key(terminal.KeyTab), key(terminal.KeyEnter))...)
	line, err := ed.Edit("> ", "")
	require.NoError(t, err)
	assert.Equal(t, "al", line)

	assert.Equal(t, "> al", scr.line(0))
	assert.Equal(t, "alpha", scr.line(1))
	assert.Equal(t, "alpine", scr.line(2))
	assert.Equal(t, "altitude", scr.line(3))
	assert.Equal(t, "> al", scr.line(4))
}
