package lineedit

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LineStore persists history lines. Implementations must treat a missing
// backing resource as empty.
type LineStore interface {
	Load() ([]string, error)
	Save(lines []string) error
}

// DefaultHistoryPath returns the history file used for an editor name,
// ~/.config/<name>/history.
func DefaultHistoryPath(name string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", name, "history"), nil
}

// FileStore keeps history as a newline-delimited text file.
type FileStore struct {
	Path string
}

// NewFileStore returns a store backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load reads the file line by line, skipping blank lines.
func (f *FileStore) Load() ([]string, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}

// Save overwrites the file with lines, writing a temporary file first and
// renaming it into place.
func (f *FileStore) Save(lines []string) error {
	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.Path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	w := bufio.NewWriter(tmp)
	for _, line := range lines {
		w.WriteString(line)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, f.Path)
}

// MemoryStore keeps history in memory only.
type MemoryStore struct {
	Lines []string
}

func (m *MemoryStore) Load() ([]string, error) {
	return append([]string(nil), m.Lines...), nil
}

func (m *MemoryStore) Save(lines []string) error {
	m.Lines = append([]string(nil), lines...)
	return nil
}
