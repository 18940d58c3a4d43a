// Package sqlite implements storage.Repository on SQLite with embedded
// schema migrations.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/goliatone/go-formcanvas/pkg/canvas"
	"github.com/goliatone/go-formcanvas/pkg/storage"
)

const timeLayout = time.RFC3339Nano

// Store is a SQLite backed storage.Repository.
type Store struct {
	db    *sql.DB
	path  string
	now   func() time.Time
	newID func() string
}

var _ storage.Repository = (*Store)(nil)

// Open connects to the database at path (":memory:" for a private in-memory
// database) and migrates it to the latest schema.
func Open(path string, opts ...storage.Option) (*Store, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	if err := MigrateUp(db); err != nil {
		db.Close()
		return nil, err
	}
	now, newID := storage.ResolveOptions(opts...)
	return &Store{db: db, path: path, now: now, newID: newID}, nil
}

// OpenConnection opens a connection with foreign keys enforced on every
// pooled connection. In-memory databases are pinned to a single connection
// so every query sees the same data.
func OpenConnection(path string) (*sql.DB, error) {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	db, err := sql.Open("sqlite3", path+sep+"_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	if path == ":memory:" || strings.Contains(path, "mode=memory") {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: connect %s: %w", path, err)
	}
	return db, nil
}

// Path returns the database location given to Open.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) CreateForm(ctx context.Context, form storage.Form) (storage.Form, error) {
	form.ID = strings.TrimSpace(form.ID)
	if form.ID == "" {
		form.ID = s.newID()
	}
	elements, err := encodeElements(form.Elements)
	if err != nil {
		return storage.Form{}, err
	}
	stamp := s.now()
	form.Version = 1
	form.CreatedAt, form.UpdatedAt = stamp, stamp

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO forms (id, title, description, theme, variant, elements, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		form.ID, form.Title, form.Description, form.Theme, form.Variant, elements, form.Version,
		stamp.Format(timeLayout), stamp.Format(timeLayout),
	)
	if err != nil {
		if isConstraint(err) {
			return storage.Form{}, fmt.Errorf("%w: form %q", storage.ErrConflict, form.ID)
		}
		return storage.Form{}, fmt.Errorf("sqlite: insert form: %w", err)
	}
	return s.GetForm(ctx, form.ID)
}

func (s *Store) GetForm(ctx context.Context, id string) (storage.Form, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, theme, variant, elements, version, created_at, updated_at
		FROM forms WHERE id = ?`, id)

	form, err := scanForm(row, true)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Form{}, fmt.Errorf("%w: form %q", storage.ErrNotFound, id)
		}
		return storage.Form{}, fmt.Errorf("sqlite: get form: %w", err)
	}
	return form, nil
}

func (s *Store) ListForms(ctx context.Context) ([]storage.Form, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, theme, variant, '[]', version, created_at, updated_at
		FROM forms ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list forms: %w", err)
	}
	defer rows.Close()

	var out []storage.Form
	for rows.Next() {
		form, err := scanForm(rows, false)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scan form: %w", err)
		}
		out = append(out, form)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list forms: %w", err)
	}
	if out == nil {
		out = []storage.Form{}
	}
	return out, nil
}

func (s *Store) SaveForm(ctx context.Context, form storage.Form) (storage.Form, error) {
	elements, err := encodeElements(form.Elements)
	if err != nil {
		return storage.Form{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storage.Form{}, fmt.Errorf("sqlite: begin: %w", err)
	}
	defer tx.Rollback()

	var current int
	err = tx.QueryRowContext(ctx, `SELECT version FROM forms WHERE id = ?`, form.ID).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Form{}, fmt.Errorf("%w: form %q", storage.ErrNotFound, form.ID)
	}
	if err != nil {
		return storage.Form{}, fmt.Errorf("sqlite: read version: %w", err)
	}
	if form.Version != 0 && form.Version != current {
		return storage.Form{}, fmt.Errorf("%w: form %q is at version %d", storage.ErrStale, form.ID, current)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE forms
		SET title = ?, description = ?, theme = ?, variant = ?, elements = ?, version = ?, updated_at = ?
		WHERE id = ?`,
		form.Title, form.Description, form.Theme, form.Variant, elements, current+1,
		s.now().Format(timeLayout), form.ID,
	)
	if err != nil {
		return storage.Form{}, fmt.Errorf("sqlite: update form: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return storage.Form{}, fmt.Errorf("sqlite: commit: %w", err)
	}
	return s.GetForm(ctx, form.ID)
}

func (s *Store) DeleteForm(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM forms WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: delete form: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: form %q", storage.ErrNotFound, id)
	}
	return nil
}

func (s *Store) AddSubmission(ctx context.Context, submission storage.Submission) (storage.Submission, error) {
	if submission.ID == "" {
		submission.ID = s.newID()
	}
	payload, err := json.Marshal(submission.Values)
	if err != nil {
		return storage.Submission{}, fmt.Errorf("sqlite: encode submission: %w", err)
	}
	submission.CreatedAt = s.now()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO submissions (id, form_id, payload, created_at) VALUES (?, ?, ?, ?)`,
		submission.ID, submission.FormID, string(payload), submission.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		if isForeignKey(err) {
			return storage.Submission{}, fmt.Errorf("%w: form %q", storage.ErrNotFound, submission.FormID)
		}
		if isConstraint(err) {
			return storage.Submission{}, fmt.Errorf("%w: submission %q", storage.ErrConflict, submission.ID)
		}
		return storage.Submission{}, fmt.Errorf("sqlite: insert submission: %w", err)
	}
	return submission, nil
}

func (s *Store) ListSubmissions(ctx context.Context, formID string) ([]storage.Submission, error) {
	if _, err := s.GetForm(ctx, formID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, form_id, payload, created_at FROM submissions
		WHERE form_id = ? ORDER BY created_at, rowid`, formID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list submissions: %w", err)
	}
	defer rows.Close()

	out := []storage.Submission{}
	for rows.Next() {
		var (
			sub     storage.Submission
			payload string
			created string
		)
		if err := rows.Scan(&sub.ID, &sub.FormID, &payload, &created); err != nil {
			return nil, fmt.Errorf("sqlite: scan submission: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &sub.Values); err != nil {
			return nil, fmt.Errorf("sqlite: decode submission %s: %w", sub.ID, err)
		}
		if sub.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
			return nil, fmt.Errorf("sqlite: parse submission time: %w", err)
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanForm(row scanner, withElements bool) (storage.Form, error) {
	var (
		form     storage.Form
		elements string
		created  string
		updated  string
	)
	err := row.Scan(&form.ID, &form.Title, &form.Description, &form.Theme, &form.Variant,
		&elements, &form.Version, &created, &updated)
	if err != nil {
		return storage.Form{}, err
	}
	if withElements {
		if err := json.Unmarshal([]byte(elements), &form.Elements); err != nil {
			return storage.Form{}, fmt.Errorf("decode elements of %s: %w", form.ID, err)
		}
	}
	if form.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return storage.Form{}, err
	}
	if form.UpdatedAt, err = time.Parse(timeLayout, updated); err != nil {
		return storage.Form{}, err
	}
	return form, nil
}

func encodeElements(elements []canvas.Element) (string, error) {
	if elements == nil {
		elements = []canvas.Element{}
	}
	data, err := json.Marshal(elements)
	if err != nil {
		return "", fmt.Errorf("sqlite: encode elements: %w", err)
	}
	return string(data), nil
}

func isConstraint(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint
}

func isForeignKey(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
}
