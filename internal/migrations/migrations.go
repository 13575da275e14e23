package migrations

import (
	"database/sql"
	"fmt"
)

func getAllMigrations() []Migration {
	return []Migration{
		{
			ID:          "000_initial_schema",
			Description: "Create notes table",
			Up:          migration000Up,
			Down:        migration000Down,
		},
		{
			ID:          "001_add_preferences",
			Description: "Add key/value preferences table",
			Up:          migration001Up,
			Down:        migration001Down,
		},
		{
			ID:          "002_notes_created_index",
			Description: "Index notes by creation time for listing",
			Up:          migration002Up,
			Down:        migration002Down,
		},
		// Add new migrations here in chronological order
	}
}

func execAll(tx *sql.Tx, stmts ...string) error {
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(stmt string) string {
	for i, r := range stmt {
		if r == '\n' && i > 0 {
			return stmt[:i]
		}
	}
	return stmt
}

func migration000Up(tx *sql.Tx) error {
	return execAll(tx, `CREATE TABLE IF NOT EXISTS notes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL DEFAULT '',
			body TEXT NOT NULL DEFAULT '',
			link TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`)
}

func migration000Down(tx *sql.Tx) error {
	return execAll(tx, "DROP TABLE IF EXISTS notes")
}

func migration001Up(tx *sql.Tx) error {
	return execAll(tx,
		`CREATE TABLE IF NOT EXISTS preferences (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			type TEXT NOT NULL DEFAULT 'string',
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		"CREATE INDEX IF NOT EXISTS idx_preferences_type ON preferences(type)",
	)
}

func migration001Down(tx *sql.Tx) error {
	return execAll(tx,
		"DROP INDEX IF EXISTS idx_preferences_type",
		"DROP TABLE IF EXISTS preferences",
	)
}

func migration002Up(tx *sql.Tx) error {
	return execAll(tx, "CREATE INDEX IF NOT EXISTS idx_notes_created_at ON notes(created_at)")
}

func migration002Down(tx *sql.Tx) error {
	return execAll(tx, "DROP INDEX IF EXISTS idx_notes_created_at")
}
