package preferences

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/streed/notecards/internal/logger"
)

// ErrNotSet is returned when a preference key has no stored value.
var ErrNotSet = errors.New("preference not set")

const (
	TypeString = "string"
	TypeInt    = "int"
)

// Preference is a typed key/value pair stored next to the notes.
type Preference struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	Type      string    `json:"type"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PreferencesRepository reads and writes the preferences table created by
// migration 001_add_preferences.
type PreferencesRepository struct {
	db *sql.DB
}

func NewPreferencesRepository(db *sql.DB) *PreferencesRepository {
	return &PreferencesRepository{db: db}
}

func (r *PreferencesRepository) Set(key, value, valueType string) error {
	query, args, err := sq.Insert("preferences").
		Options("OR REPLACE").
		Columns("key", "value", "type", "updated_at").
		Values(key, value, valueType, sq.Expr("CURRENT_TIMESTAMP")).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build preference upsert: %w", err)
	}
	if _, err := r.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to store preference %s: %w", key, err)
	}
	return nil
}

func (r *PreferencesRepository) Get(key string) (*Preference, error) {
	query, args, err := sq.Select("key", "value", "type", "updated_at").
		From("preferences").
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build preference query: %w", err)
	}

	var pref Preference
	err = r.db.QueryRow(query, args...).Scan(&pref.Key, &pref.Value, &pref.Type, &pref.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotSet
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read preference %s: %w", key, err)
	}
	return &pref, nil
}

func (r *PreferencesRepository) GetAll() ([]*Preference, error) {
	query, args, err := sq.Select("key", "value", "type", "updated_at").
		From("preferences").
		OrderBy("key").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build preference query: %w", err)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Debug("Failed to close rows: %v", err)
		}
	}()

	prefs := []*Preference{}
	for rows.Next() {
		var pref Preference
		if err := rows.Scan(&pref.Key, &pref.Value, &pref.Type, &pref.UpdatedAt); err != nil {
			return nil, err
		}
		prefs = append(prefs, &pref)
	}
	return prefs, rows.Err()
}

func (r *PreferencesRepository) Delete(key string) error {
	query, args, err := sq.Delete("preferences").Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build preference delete: %w", err)
	}
	_, err = r.db.Exec(query, args...)
	return err
}

func (r *PreferencesRepository) SetString(key, value string) error {
	return r.Set(key, value, TypeString)
}

// GetString returns the stored value, or defaultValue when unset or unreadable.
func (r *PreferencesRepository) GetString(key, defaultValue string) string {
	pref, err := r.Get(key)
	if err != nil {
		if !errors.Is(err, ErrNotSet) {
			logger.Debug("Falling back to default for %s: %v", key, err)
		}
		return defaultValue
	}
	return pref.Value
}

func (r *PreferencesRepository) SetInt(key string, value int) error {
	return r.Set(key, strconv.Itoa(value), TypeInt)
}

func (r *PreferencesRepository) GetInt(key string, defaultValue int) int {
	pref, err := r.Get(key)
	if err != nil {
		return defaultValue
	}
	v, err := strconv.Atoi(pref.Value)
	if err != nil {
		logger.Debug("Preference %s is not an integer: %q", key, pref.Value)
		return defaultValue
	}
	return v
}

func (r *PreferencesRepository) HasKey(key string) bool {
	_, err := r.Get(key)
	return err == nil
}
