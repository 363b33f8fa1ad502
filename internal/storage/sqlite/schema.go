package sqlite

// initSchema creates the database schema if it doesn't exist.
func (db *DB) initSchema() error {
	schema := `
	-- One row per history entry; seq orders entries oldest first per editor.
	CREATE TABLE IF NOT EXISTS history_lines (
		name TEXT NOT NULL,
		seq INTEGER NOT NULL,
		line TEXT NOT NULL,
		saved_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (name, seq)
	);

	CREATE INDEX IF NOT EXISTS idx_history_lines_saved_at ON history_lines(saved_at DESC);
	`

	_, err := db.conn.Exec(schema)
	return err
}
