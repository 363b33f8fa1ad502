// Package logger provides the process-wide structured logger. Records go to
// a rotating JSON log file so they never interfere with the terminal the
// console is drawing on; recent warnings and errors are also kept in memory
// so the console can show them on request.
package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LogEntry is a captured warning or error.
type LogEntry struct {
	Time    time.Time
	Level   slog.Level
	Message string
	Attrs   string
}

// ringBuffer is a fixed-size circular buffer of log entries.
type ringBuffer struct {
	mu      sync.RWMutex
	entries []LogEntry
	size    int
	head    int
	count   int

	warnCount  int
	errorCount int
}

func newRingBuffer(size int) *ringBuffer {
	return &ringBuffer{
		entries: make([]LogEntry, size),
		size:    size,
	}
}

func (rb *ringBuffer) add(entry LogEntry) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	rb.entries[rb.head] = entry
	rb.head = (rb.head + 1) % rb.size
	if rb.count < rb.size {
		rb.count++
	}

	if entry.Level >= slog.LevelError {
		rb.errorCount++
	} else {
		rb.warnCount++
	}
}

func (rb *ringBuffer) getAll() []LogEntry {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	result := make([]LogEntry, rb.count)
	for i := 0; i < rb.count; i++ {
		idx := (rb.head - rb.count + i + rb.size) % rb.size
		result[i] = rb.entries[idx]
	}
	return result
}

func (rb *ringBuffer) counts() (warn, err int) {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.warnCount, rb.errorCount
}

func (rb *ringBuffer) reset() {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.head, rb.count = 0, 0
	rb.warnCount, rb.errorCount = 0, 0
}

// captureHandler wraps another handler and keeps WARN and ERROR records.
type captureHandler struct {
	inner  slog.Handler
	buffer *ringBuffer
	attrs  []slog.Attr
}

func (h *captureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *captureHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelWarn {
		var parts []string
		for _, a := range h.attrs {
			parts = append(parts, a.String())
		}
		r.Attrs(func(a slog.Attr) bool {
			parts = append(parts, a.String())
			return true
		})
		h.buffer.add(LogEntry{
			Time:    r.Time,
			Level:   r.Level,
			Message: r.Message,
			Attrs:   strings.Join(parts, " "),
		})
	}
	return h.inner.Handle(ctx, r)
}

func (h *captureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &captureHandler{
		inner:  h.inner.WithAttrs(attrs),
		buffer: h.buffer,
		attrs:  append(append([]slog.Attr(nil), h.attrs...), attrs...),
	}
}

func (h *captureHandler) WithGroup(name string) slog.Handler {
	return &captureHandler{
		inner:  h.inner.WithGroup(name),
		buffer: h.buffer,
		attrs:  h.attrs,
	}
}

var (
	// Log is the global structured logger.
	Log *slog.Logger
	// LogPath is the path of the current log file.
	LogPath string

	logWriter *lumberjack.Logger
	captured  *ringBuffer
)

// LogLevel is the minimum severity written to the log.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel converts a configuration value such as "debug" to a LogLevel.
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// DefaultPath returns ~/.config/spsh/spsh.log, falling back to the temp
// directory when there is no home directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, ".config", "spsh", "spsh.log")
}

// InitLogger installs the global logger. An empty logPath selects
// DefaultPath.
func InitLogger(level LogLevel, logPath string) {
	if logPath == "" {
		logPath = DefaultPath()
	}
	_ = os.MkdirAll(filepath.Dir(logPath), 0o755)
	LogPath = logPath

	logWriter = &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     7, // days
		Compress:   true,
	}

	captured = newRingBuffer(100)

	handler := &captureHandler{
		inner:  slog.NewJSONHandler(logWriter, &slog.HandlerOptions{Level: level.slogLevel()}),
		buffer: captured,
	}

	Log = slog.New(handler)
	slog.SetDefault(Log)
}

// Close flushes and closes the log file.
func Close() {
	if logWriter != nil {
		logWriter.Close()
	}
}

func getLogger() *slog.Logger {
	if Log != nil {
		return Log
	}
	return slog.Default()
}

func Debug(msg string, args ...any) {
	getLogger().Debug(msg, args...)
}

func Info(msg string, args ...any) {
	getLogger().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	getLogger().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	getLogger().Error(msg, args...)
}

// With returns a logger that adds args to every record.
func With(args ...any) *slog.Logger {
	return getLogger().With(args...)
}

// Counts returns how many warnings and errors were captured since the last
// ClearEntries.
func Counts() (warn, err int) {
	if captured == nil {
		return 0, 0
	}
	return captured.counts()
}

// Entries returns captured warnings and errors, oldest first.
func Entries() []LogEntry {
	if captured == nil {
		return nil
	}
	return captured.getAll()
}

// ClearEntries forgets captured entries and resets the counters.
func ClearEntries() {
	if captured != nil {
		captured.reset()
	}
}

// Format renders the entry as a single line.
func (e LogEntry) Format() string {
	line := fmt.Sprintf("%s %-5s %s", e.Time.Format("15:04:05"), e.Level.String(), e.Message)
	if e.Attrs != "" {
		line += " " + e.Attrs
	}
	return line
}
