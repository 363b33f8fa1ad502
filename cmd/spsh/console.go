package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/willibrandon/spsh/internal/config"
	"github.com/willibrandon/spsh/internal/lineedit"
	"github.com/willibrandon/spsh/internal/logger"
)

var (
	errorFormat = color.New(color.FgRed).SprintFunc()
	mutedFormat = color.New(color.FgHiBlack).SprintFunc()

	helpTitleStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	helpNameStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Width(16)
	helpDescStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
)

// builtin is a console command handled by the shell itself.
type builtin struct {
	name    string
	usage   string
	summary string
	// run returns true when the console should exit.
	run func(sh *shell, args []string) bool
}

var builtins []builtin

func init() {
	// Assigned in init because help lists builtins.
	builtins = []builtin{
		{name: "help", summary: "show this list", run: (*shell).help},
		{name: "history", usage: "[n]", summary: "show the last n history lines", run: (*shell).history},
		{name: "keys", summary: "show the key bindings", run: (*shell).keys},
		{name: "warnings", summary: "show recent warnings and errors from the log", run: (*shell).warnings},
		{name: "clear", summary: "clear the screen", run: (*shell).clear},
		{name: "exit", summary: "leave the console", run: func(*shell, []string) bool { return true }},
		{name: "quit", summary: "leave the console", run: func(*shell, []string) bool { return true }},
	}
}

func findBuiltin(name string) (builtin, bool) {
	for _, b := range builtins {
		if b.name == name {
			return b, true
		}
	}
	return builtin{}, false
}

// shell reads console commands and runs them.
type shell struct {
	cfg         *config.Config
	out         io.Writer
	editor      *lineedit.Editor
	clearScreen func()
}

func newShell(cfg *config.Config, out io.Writer) *shell {
	return &shell{cfg: cfg, out: out}
}

// run reads lines with the line editor until exit or end of input.
func (sh *shell) run() error {
	for {
		line, err := sh.editor.Edit(sh.cfg.Editor.Prompt, "")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if sh.handle(line) {
			return nil
		}
	}
}

// runLines runs commands read from a non-interactive input.
func (sh *shell) runLines(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if sh.handle(scanner.Text()) {
			return nil
		}
	}
	return scanner.Err()
}

// handle runs one command line and reports whether the console should exit.
func (sh *shell) handle(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	b, ok := findBuiltin(fields[0])
	if !ok {
		logger.Debug("unknown command", "command", fields[0])
		fmt.Fprintf(sh.out, "%s %s\n", errorFormat("unknown command:"), fields[0])
		return false
	}
	return b.run(sh, fields[1:])
}

// complete offers built-in names for the first word on the line.
func (sh *shell) complete(text string, pos int) *lineedit.Completion {
	runes := []rune(text)
	if pos > len(runes) {
		pos = len(runes)
	}
	word := strings.TrimLeftFunc(string(runes[:pos]), unicode.IsSpace)
	if strings.IndexFunc(word, unicode.IsSpace) >= 0 {
		return nil
	}

	var results []string
	for _, b := range builtins {
		if strings.HasPrefix(b.name, word) {
			results = append(results, b.name[len(word):])
		}
	}
	if len(results) == 0 {
		return nil
	}
	sort.Strings(results)
	return &lineedit.Completion{Prefix: word, Result: results}
}

func (sh *shell) help(args []string) bool {
	rows := []string{helpTitleStyle.Render("Console commands")}
	for _, b := range builtins {
		name := b.name
		if b.usage != "" {
			name += " " + b.usage
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
			helpNameStyle.Render(name),
			helpDescStyle.Render(b.summary),
		))
	}
	fmt.Fprintln(sh.out, lipgloss.JoinVertical(lipgloss.Left, rows...))
	fmt.Fprintln(sh.out, mutedFormat("Press C-r to search history, Tab to complete."))
	return false
}

func (sh *shell) history(args []string) bool {
	var entries []string
	capacity := sh.cfg.Editor.HistorySize
	if sh.editor != nil {
		entries = sh.editor.History()
		capacity = sh.editor.HistoryCapacity()
	}

	first := 0
	if len(args) > 0 {
		var n int
		if _, err := fmt.Sscanf(args[0], "%d", &n); err != nil || n < 0 {
			fmt.Fprintf(sh.out, "%s %q\n", errorFormat("history: not a count:"), args[0])
			return false
		}
		first = max(len(entries)-n, 0)
	}

	for i := first; i < len(entries); i++ {
		fmt.Fprintf(sh.out, "%5d  %s\n", i+1, entries[i])
	}
	fmt.Fprintln(sh.out, mutedFormat(fmt.Sprintf("%s (capacity %s)",
		pluralize(len(entries), "entry", "entries"), humanize.Comma(int64(capacity)))))
	return false
}

func (sh *shell) keys(args []string) bool {
	fmt.Fprint(sh.out, renderBindings(lineedit.DefaultBindings()))
	return false
}

func (sh *shell) warnings(args []string) bool {
	warn, errs := logger.Counts()
	for _, e := range logger.Entries() {
		line := e.Format()
		if e.Level >= slog.LevelError {
			line = errorFormat(line)
		}
		fmt.Fprintln(sh.out, line)
	}
	fmt.Fprintf(sh.out, "%s, %s\n", pluralize(warn, "warning", "warnings"), pluralize(errs, "error", "errors"))
	logger.ClearEntries()
	return false
}

func (sh *shell) clear(args []string) bool {
	if sh.clearScreen != nil {
		sh.clearScreen()
	}
	return false
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return humanize.Comma(int64(n)) + " " + many
}
