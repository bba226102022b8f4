package models

import (
	"time"

	"github.com/google/uuid"
)

// Registration is one attendee submission.
//
// Invariants:
//   - ID and CreatedAt are assigned once at creation and never change
//   - Email is stored normalized (trimmed, lowercased) and unique across live records
//   - every text field is non-empty after trimming
//
// Records are never updated in place; the only mutation after insert is deletion.
type Registration struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	College   string    `json:"college"`
	Branch    string    `json:"branch"`
	Year      string    `json:"year"`
	Interest  string    `json:"interest"`
	CreatedAt time.Time `json:"created_at"`
}

// Field names a column that grouped counts may be computed over.
type Field string

const (
	FieldBranch  Field = "branch"
	FieldCollege Field = "college"
	FieldYear    Field = "year"
)

// Valid reports whether f is one of the groupable columns. Stores interpolate the
// column name into SQL, so anything else must be rejected first.
func (f Field) Valid() bool {
	switch f {
	case FieldBranch, FieldCollege, FieldYear:
		return true
	}
	return false
}

// Value returns the value of field f on r.
func (r *Registration) Value(f Field) string {
	switch f {
	case FieldBranch:
		return r.Branch
	case FieldCollege:
		return r.College
	case FieldYear:
		return r.Year
	}
	return ""
}

// Matches reports whether the lowercase query is a substring of the name or email.
func (r *Registration) Matches(query string) bool {
	return containsFold(r.Name, query) || containsFold(r.Email, query)
}
