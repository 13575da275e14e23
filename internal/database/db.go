package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/streed/notecards/internal/config"
	"github.com/streed/notecards/internal/logger"
	"github.com/streed/notecards/internal/migrations"
)

type DB struct {
	conn *sql.DB
	cfg  *config.Config
}

// New opens the note store and brings its schema up to date.
func New(cfg *config.Config) (*DB, error) {
	dbPath := cfg.GetDatabasePath()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	logger.Debug("Database path: %s", dbPath)

	conn, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{conn: conn, cfg: cfg}
	if err := db.initialize(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return db, nil
}

func (db *DB) initialize() error {
	var version string
	if err := db.conn.QueryRow("SELECT sqlite_version()").Scan(&version); err != nil {
		return fmt.Errorf("failed to query sqlite version: %w", err)
	}
	logger.Debug("SQLite version %s", version)

	if _, err := migrations.NewMigrationRunner(db.conn).RunMigrations(); err != nil {
		return err
	}
	return nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Path returns the on-disk location of the database.
func (db *DB) Path() string {
	return db.cfg.GetDatabasePath()
}
