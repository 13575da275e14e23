package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/streed/notecards/internal/config"
)

func setupTestDB(t *testing.T) (*DB, string) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "nested", "test.db")

	cfg := &config.Config{
		DatabasePath:  dbPath,
		DataDirectory: tempDir,
	}

	db, err := New(cfg)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	return db, dbPath
}

func TestNew(t *testing.T) {
	db, dbPath := setupTestDB(t)
	defer db.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}

	if db.Path() != dbPath {
		t.Errorf("Expected path %s, got %s", dbPath, db.Path())
	}
}

func TestDatabaseInitialization(t *testing.T) {
	db, _ := setupTestDB(t)
	defer db.Close()

	for _, table := range []string{"notes", "preferences", "schema_migrations"} {
		var tableExists int
		err := db.Conn().QueryRow(
			"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&tableExists)
		if err != nil {
			t.Fatalf("Failed to check for %s table: %v", table, err)
		}
		if tableExists != 1 {
			t.Errorf("%s table should exist", table)
		}
	}
}

func TestReopenKeepsData(t *testing.T) {
	db, dbPath := setupTestDB(t)

	if _, err := db.Conn().Exec("INSERT INTO notes (title, body) VALUES ('a', 'b')"); err != nil {
		t.Fatalf("Failed to insert: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Failed to close: %v", err)
	}

	reopened, err := New(&config.Config{DatabasePath: dbPath})
	if err != nil {
		t.Fatalf("Failed to reopen: %v", err)
	}
	defer reopened.Close()

	var count int
	if err := reopened.Conn().QueryRow("SELECT COUNT(*) FROM notes").Scan(&count); err != nil {
		t.Fatalf("Failed to count: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 note after reopen, got %d", count)
	}
}

func TestClose(t *testing.T) {
	db, _ := setupTestDB(t)

	if err := db.Close(); err != nil {
		t.Errorf("Failed to close database: %v", err)
	}

	if err := db.Conn().Ping(); err == nil {
		t.Error("Database should be closed")
	}
}
