package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"eventreg/internal/registration/models"
	"eventreg/pkg/platform/sentinel"
)

// uniqueViolation is the SQLSTATE PostgreSQL reports for a unique index conflict.
const uniqueViolation = "23505"

const registrationColumns = `id, name, email, phone, college, branch, year, interest, created_at`

// PostgresStore persists registrations in PostgreSQL. Email uniqueness is
// enforced by the unique index on lower(email), not by a pre-check.
type PostgresStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewPostgres constructs a PostgreSQL-backed registration store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, now: time.Now}
}

func (s *PostgresStore) Insert(ctx context.Context, r *models.Registration) (*models.Registration, error) {
	if r == nil {
		return nil, fmt.Errorf("registration is required: %w", sentinel.ErrInvalidState)
	}
	rec := prepare(r, s.now)

	query := `INSERT INTO registrations (` + registrationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.Name, rec.Email, rec.Phone, rec.College, rec.Branch, rec.Year, rec.Interest, rec.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert registration: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Registration, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+registrationColumns+` FROM registrations ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()
	return scanRegistrations(rows)
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Registration, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+registrationColumns+` FROM registrations WHERE id = $1`, id)
	r, err := scanRegistration(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find registration by id: %w", err)
	}
	return r, nil
}

func (s *PostgresStore) DeleteByID(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM registrations WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete registration: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete registration rows affected: %w", err)
	}
	return n > 0, nil
}

func (s *PostgresStore) CountAll(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM registrations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count registrations: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) CountSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM registrations WHERE created_at >= $1`, since.UTC()).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count registrations since: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) CountByField(ctx context.Context, field models.Field) (map[string]int, error) {
	if !field.Valid() {
		return nil, fmt.Errorf("count by %q: %w", field, sentinel.ErrInvalidState)
	}
	// field is whitelisted above, so interpolating the column name is safe.
	query := fmt.Sprintf(`SELECT %[1]s, COUNT(*) FROM registrations GROUP BY %[1]s`, field)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("count registrations by %s: %w", field, err)
	}
	defer rows.Close()
	return scanCounts(rows)
}

// Ping reports whether the database is reachable.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRegistration(row rowScanner) (*models.Registration, error) {
	var r models.Registration
	if err := row.Scan(&r.ID, &r.Name, &r.Email, &r.Phone, &r.College, &r.Branch, &r.Year, &r.Interest, &r.CreatedAt); err != nil {
		return nil, err
	}
	r.CreatedAt = r.CreatedAt.UTC()
	return &r, nil
}

func scanRegistrations(rows *sql.Rows) ([]*models.Registration, error) {
	out := make([]*models.Registration, 0)
	for rows.Next() {
		r, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate registrations: %w", err)
	}
	return out, nil
}

func scanCounts(rows *sql.Rows) (map[string]int, error) {
	counts := make(map[string]int)
	for rows.Next() {
		var value string
		var n int
		if err := rows.Scan(&value, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[value] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate counts: %w", err)
	}
	return counts, nil
}
