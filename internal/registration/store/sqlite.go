package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"eventreg/internal/registration/models"
	"eventreg/pkg/platform/sentinel"
)

// SQLiteStore persists registrations in an embedded SQLite file. The unique
// index on lower(email) rejects duplicates inside the INSERT.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLite constructs a SQLite-backed registration store.
func NewSQLite(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

func (s *SQLiteStore) Insert(ctx context.Context, r *models.Registration) (*models.Registration, error) {
	if r == nil {
		return nil, fmt.Errorf("registration is required: %w", sentinel.ErrInvalidState)
	}
	rec := prepare(r, s.now)

	query := `INSERT INTO registrations (` + registrationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		rec.ID.String(), rec.Name, rec.Email, rec.Phone, rec.College, rec.Branch, rec.Year, rec.Interest, rec.CreatedAt)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert registration: %w", err)
	}
	return rec, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]*models.Registration, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+registrationColumns+` FROM registrations ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()
	return scanRegistrations(rows)
}

func (s *SQLiteStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Registration, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+registrationColumns+` FROM registrations WHERE id = ?`, id.String())
	r, err := scanRegistration(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find registration by id: %w", err)
	}
	return r, nil
}

func (s *SQLiteStore) DeleteByID(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM registrations WHERE id = ?`, id.String())
	if err != nil {
		return false, fmt.Errorf("delete registration: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete registration rows affected: %w", err)
	}
	return n > 0, nil
}

func (s *SQLiteStore) CountAll(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM registrations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count registrations: %w", err)
	}
	return n, nil
}

// CountSince relies on every timestamp being written in UTC, which keeps the
// stored text ordering identical to time ordering.
func (s *SQLiteStore) CountSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM registrations WHERE created_at >= ?`, since.UTC()).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count registrations since: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) CountByField(ctx context.Context, field models.Field) (map[string]int, error) {
	if !field.Valid() {
		return nil, fmt.Errorf("count by %q: %w", field, sentinel.ErrInvalidState)
	}
	query := fmt.Sprintf(`SELECT %[1]s, COUNT(*) FROM registrations GROUP BY %[1]s`, field)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("count registrations by %s: %w", field, err)
	}
	defer rows.Close()
	return scanCounts(rows)
}

// Ping reports whether the database file is usable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
