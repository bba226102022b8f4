// Package store persists registration records. Every implementation enforces
// at most one live record per normalized email inside the insert itself.
package store

import (
	"time"

	"github.com/google/uuid"

	"eventreg/internal/registration/models"
	"eventreg/pkg/email"
	"eventreg/pkg/platform/sentinel"
)

// ErrNotFound is returned when no live record has the requested id.
var ErrNotFound = sentinel.ErrNotFound

// ErrDuplicateEmail is returned by Insert when the normalized email is taken.
var ErrDuplicateEmail = sentinel.ErrAlreadyUsed

// prepare fills in id and creation time when absent and normalizes the email.
// It works on a copy so the caller's value is never mutated by a failed insert.
func prepare(r *models.Registration, now func() time.Time) *models.Registration {
	rec := *r
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now()
	}
	rec.CreatedAt = rec.CreatedAt.UTC().Truncate(time.Microsecond)
	rec.Email = email.Normalize(rec.Email)
	return &rec
}
