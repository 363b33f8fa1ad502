package logger

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"loud", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRingBuffer_Wraps(t *testing.T) {
	rb := newRingBuffer(2)
	rb.add(LogEntry{Level: slog.LevelWarn, Message: "one"})
	rb.add(LogEntry{Level: slog.LevelError, Message: "two"})
	rb.add(LogEntry{Level: slog.LevelWarn, Message: "three"})

	all := rb.getAll()
	require.Len(t, all, 2)
	assert.Equal(t, "two", all[0].Message)
	assert.Equal(t, "three", all[1].Message)

	warn, errs := rb.counts()
	assert.Equal(t, 2, warn)
	assert.Equal(t, 1, errs)

	rb.reset()
	assert.Empty(t, rb.getAll())
}

func TestInitLogger_CapturesWarnings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spsh.log")
	InitLogger(LevelDebug, path)
	defer Close()

	assert.Equal(t, path, LogPath)

	With("component", "test").Warn("history unavailable", "error", "denied")
	Info("not captured")

	entries := Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "history unavailable", entries[0].Message)
	assert.Contains(t, entries[0].Attrs, "component=test")
	assert.Contains(t, entries[0].Format(), "WARN")

	warn, errs := Counts()
	assert.Equal(t, 1, warn)
	assert.Equal(t, 0, errs)

	ClearEntries()
	assert.Empty(t, Entries())
}
