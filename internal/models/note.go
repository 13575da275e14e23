package models

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	interrors "github.com/streed/notecards/internal/errors"
)

// Note is a single user note. Title and Body are optional; an empty string
// means the field is absent. Link is an opaque reference kept for clients.
type Note struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Link      string    `json:"link,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsEmpty reports whether the note has neither title nor body text.
func (n *Note) IsEmpty() bool {
	return strings.TrimSpace(n.Title) == "" && strings.TrimSpace(n.Body) == ""
}

var noteColumns = []string{"id", "title", "body", "link", "created_at", "updated_at"}

type NoteRepository struct {
	db *sql.DB
}

func NewNoteRepository(db *sql.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (*Note, error) {
	var note Note
	err := row.Scan(&note.ID, &note.Title, &note.Body, &note.Link, &note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *NoteRepository) Create(title, body, link string) (*Note, error) {
	candidate := Note{Title: title, Body: body}
	if candidate.IsEmpty() {
		return nil, interrors.ErrEmptyNote
	}

	query, args, err := sq.Insert("notes").
		Columns("title", "body", "link").
		Values(title, body, link).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert: %w", err)
	}

	result, err := r.db.Exec(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get insert id: %w", err)
	}

	return r.GetByID(int(id))
}

func (r *NoteRepository) GetByID(id int) (*Note, error) {
	query, args, err := sq.Select(noteColumns...).
		From("notes").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	note, err := scanNote(r.db.QueryRow(query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, interrors.ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}

	return note, nil
}

// List returns notes newest first. A limit of zero or less returns every note.
func (r *NoteRepository) List(limit, offset int) ([]*Note, error) {
	builder := sq.Select(noteColumns...).
		From("notes").
		OrderBy("created_at DESC", "id DESC")

	if limit > 0 {
		builder = builder.Limit(uint64(limit))
		if offset > 0 {
			builder = builder.Offset(uint64(offset))
		}
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	notes := []*Note{}
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return notes, nil
}

// Update writes the note's title, body and link and refreshes it in place.
func (r *NoteRepository) Update(note *Note) error {
	if note.IsEmpty() {
		return interrors.ErrEmptyNote
	}

	query, args, err := sq.Update("notes").
		Set("title", note.Title).
		Set("body", note.Body).
		Set("link", note.Link).
		Set("updated_at", sq.Expr("CURRENT_TIMESTAMP")).
		Where(sq.Eq{"id": note.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update: %w", err)
	}

	result, err := r.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return interrors.ErrNoteNotFound
	}

	updated, err := r.GetByID(note.ID)
	if err != nil {
		return err
	}
	*note = *updated
	return nil
}

func (r *NoteRepository) Delete(id int) error {
	query, args, err := sq.Delete("notes").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete: %w", err)
	}

	result, err := r.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return interrors.ErrNoteNotFound
	}

	return nil
}

func (r *NoteRepository) Count() (int, error) {
	query, args, err := sq.Select("COUNT(*)").From("notes").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count: %w", err)
	}

	var count int
	if err := r.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count notes: %w", err)
	}
	return count, nil
}

// Ping checks the underlying connection.
func (r *NoteRepository) Ping() error {
	return r.db.Ping()
}
