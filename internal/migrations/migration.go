package migrations

import (
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/streed/notecards/internal/logger"
)

// Migration is a single versioned schema change. IDs sort lexically in the
// order they must be applied.
type Migration struct {
	ID          string
	Description string
	Up          func(tx *sql.Tx) error
	Down        func(tx *sql.Tx) error // optional
}

// MigrationStatus reports whether a migration has been applied.
type MigrationStatus struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Applied     bool   `json:"applied"`
}

// MigrationRunner applies migrations and records them in schema_migrations.
type MigrationRunner struct {
	db         *sql.DB
	migrations []Migration
}

func NewMigrationRunner(db *sql.DB) *MigrationRunner {
	return newRunner(db, getAllMigrations())
}

func newRunner(db *sql.DB, migrations []Migration) *MigrationRunner {
	sorted := append([]Migration(nil), migrations...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ID < sorted[j].ID
	})
	return &MigrationRunner{db: db, migrations: sorted}
}

func (mr *MigrationRunner) ensureTable() error {
	_, err := mr.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id TEXT PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

func (mr *MigrationRunner) applied() (map[string]bool, error) {
	if err := mr.ensureTable(); err != nil {
		return nil, err
	}

	rows, err := mr.db.Query("SELECT id FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan migration id: %w", err)
		}
		applied[id] = true
	}
	return applied, rows.Err()
}

// inTx runs fn in a transaction and rolls back if it fails.
func (mr *MigrationRunner) inTx(id string, fn func(tx *sql.Tx) error) error {
	tx, err := mr.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction for %s: %w", id, err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("Failed to rollback transaction: %v", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s: %w", id, err)
	}
	return nil
}

// RunMigrations applies every pending migration and returns how many ran.
func (mr *MigrationRunner) RunMigrations() (int, error) {
	applied, err := mr.applied()
	if err != nil {
		return 0, err
	}

	count := 0
	for _, m := range mr.migrations {
		if applied[m.ID] {
			logger.Debug("Migration %s already applied, skipping", m.ID)
			continue
		}

		logger.Debug("Running migration: %s - %s", m.ID, m.Description)
		err := mr.inTx(m.ID, func(tx *sql.Tx) error {
			if err := m.Up(tx); err != nil {
				return fmt.Errorf("migration %s failed: %w", m.ID, err)
			}
			_, err := tx.Exec(
				"INSERT INTO schema_migrations (id, description, applied_at) VALUES (?, ?, ?)",
				m.ID, m.Description, time.Now().UTC(),
			)
			if err != nil {
				return fmt.Errorf("failed to record migration %s: %w", m.ID, err)
			}
			return nil
		})
		if err != nil {
			return count, err
		}
		count++
	}

	if count > 0 {
		logger.Info("Applied %d database migration(s)", count)
	}
	return count, nil
}

func (mr *MigrationRunner) GetMigrationStatus() ([]MigrationStatus, error) {
	applied, err := mr.applied()
	if err != nil {
		return nil, err
	}

	status := make([]MigrationStatus, 0, len(mr.migrations))
	for _, m := range mr.migrations {
		status = append(status, MigrationStatus{
			ID:          m.ID,
			Description: m.Description,
			Applied:     applied[m.ID],
		})
	}
	return status, nil
}

// RollbackMigration reverts a single applied migration that has a Down step.
func (mr *MigrationRunner) RollbackMigration(migrationID string) error {
	var target *Migration
	for i := range mr.migrations {
		if mr.migrations[i].ID == migrationID {
			target = &mr.migrations[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("migration %s not found", migrationID)
	}
	if target.Down == nil {
		return fmt.Errorf("migration %s does not support rollback", migrationID)
	}

	applied, err := mr.applied()
	if err != nil {
		return err
	}
	if !applied[migrationID] {
		return fmt.Errorf("migration %s is not applied", migrationID)
	}

	logger.Info("Rolling back migration: %s - %s", target.ID, target.Description)
	return mr.inTx(migrationID, func(tx *sql.Tx) error {
		if err := target.Down(tx); err != nil {
			return fmt.Errorf("rollback %s failed: %w", migrationID, err)
		}
		if _, err := tx.Exec("DELETE FROM schema_migrations WHERE id = ?", migrationID); err != nil {
			return fmt.Errorf("failed to remove migration record %s: %w", migrationID, err)
		}
		return nil
	})
}
