package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// HistoryStore keeps the history of one named editor. It satisfies the
// line editor's LineStore interface.
type HistoryStore struct {
	db   *DB
	name string
}

// NewHistoryStore creates a history store for the editor called name.
func NewHistoryStore(db *DB, name string) *HistoryStore {
	return &HistoryStore{db: db, name: name}
}

// Load returns the stored lines, oldest first.
func (s *HistoryStore) Load() ([]string, error) {
	return s.LoadContext(context.Background())
}

// LoadContext is Load with a caller supplied context.
func (s *HistoryStore) LoadContext(ctx context.Context) ([]string, error) {
	rows, err := s.db.conn.QueryContext(ctx, `
		SELECT line FROM history_lines
		WHERE name = ?
		ORDER BY seq ASC
	`, s.name)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// Save replaces the stored lines.
func (s *HistoryStore) Save(lines []string) error {
	return s.SaveContext(context.Background(), lines)
}

// SaveContext replaces the stored lines in a single transaction.
func (s *HistoryStore) SaveContext(ctx context.Context, lines []string) error {
	tx, err := s.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM history_lines WHERE name = ?`, s.name); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO history_lines (name, seq, line, saved_at)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	seq := 0
	for _, line := range lines {
		if line == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, s.name, seq, line, now); err != nil {
			return fmt.Errorf("insert history line: %w", err)
		}
		seq++
	}

	return tx.Commit()
}

// Count returns the number of stored lines.
func (s *HistoryStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM history_lines WHERE name = ?`, s.name).Scan(&count)
	return count, err
}

// LastSaved returns when the history was last written. The zero time means
// nothing has been saved.
func (s *HistoryStore) LastSaved(ctx context.Context) (time.Time, error) {
	var saved time.Time
	err := s.db.conn.QueryRowContext(ctx, `
		SELECT saved_at FROM history_lines
		WHERE name = ?
		ORDER BY saved_at DESC
		LIMIT 1
	`, s.name).Scan(&saved)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	return saved, err
}

// Clear removes all stored lines.
func (s *HistoryStore) Clear(ctx context.Context) error {
	_, err := s.db.conn.ExecContext(ctx, `DELETE FROM history_lines WHERE name = ?`, s.name)
	return err
}
