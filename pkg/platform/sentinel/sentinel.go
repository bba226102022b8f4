package sentinel

import "errors"

// Sentinel errors for storage facts. Stores return these (optionally wrapped)
// and services translate them into domain errors:
//   - ErrNotFound: no live record with the requested key
//   - ErrAlreadyUsed: a unique key (normalized email, token id) is taken
//   - ErrInvalidState: argument or stored row the store cannot act on
//   - ErrUnavailable: backing store could not be reached
var (
	ErrNotFound     = errors.New("not found")
	ErrAlreadyUsed  = errors.New("already used")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
