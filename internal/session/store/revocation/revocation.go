// Package revocation tracks logged-out session tokens by jti until they would
// have expired anyway.
package revocation

import (
	"fmt"
	"time"

	"eventreg/pkg/platform/sentinel"
)

// Clock returns the current time.
type Clock func() time.Time

func validateTTL(ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("ttl must be positive: %w", sentinel.ErrInvalidState)
	}
	return nil
}
