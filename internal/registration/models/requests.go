package models

import (
	"strings"

	dErrors "eventreg/pkg/domain-errors"
	"eventreg/pkg/email"
)

// Validation reasons reported to clients.
const (
	ReasonMissingFields = "missing_fields"
	ReasonInvalidEmail  = "invalid_email"
	ReasonInvalidPhone  = "invalid_phone"
)

// MinPhoneDigits is the minimum number of digits a phone number must contain.
const MinPhoneDigits = 10

// RegisterRequest is the public registration form.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	College  string `json:"college"`
	Branch   string `json:"branch"`
	Year     string `json:"year"`
	Interest string `json:"interest"`
}

// Normalize trims every field and lowercases the email.
func (r *RegisterRequest) Normalize() {
	if r == nil {
		return
	}
	r.Name = strings.TrimSpace(r.Name)
	r.Email = email.Normalize(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.College = strings.TrimSpace(r.College)
	r.Branch = strings.TrimSpace(r.Branch)
	r.Year = strings.TrimSpace(r.Year)
	r.Interest = strings.TrimSpace(r.Interest)
}

// Validate checks required fields, then email shape, then phone digits, and
// reports the first class of failure. Call Normalize first.
func (r *RegisterRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}

	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"name", r.Name},
		{"email", r.Email},
		{"phone", r.Phone},
		{"college", r.College},
		{"branch", r.Branch},
		{"year", r.Year},
		{"interest", r.Interest},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return dErrors.Validation(ReasonMissingFields, "please fill in all fields", missing...)
	}

	if !email.Valid(r.Email) {
		return dErrors.Validation(ReasonInvalidEmail, "please enter a valid email address", "email")
	}

	if PhoneDigits(r.Phone) < MinPhoneDigits {
		return dErrors.Validation(ReasonInvalidPhone, "please enter a valid phone number", "phone")
	}
	return nil
}

// PhoneDigits counts the decimal digits in a phone number, ignoring separators.
func PhoneDigits(phone string) int {
	n := 0
	for _, c := range phone {
		if c >= '0' && c <= '9' {
			n++
		}
	}
	return n
}

func containsFold(s, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(s), lowerQuery)
}
