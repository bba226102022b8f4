package revocation

import (
	"context"
	"sync"
	"time"
)

// InMemoryTRL keeps revoked jtis in process memory. Expired entries are
// dropped lazily on lookup and on each revoke.
type InMemoryTRL struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	clock   Clock
}

// InMemoryTRLOption configures an InMemoryTRL instance.
type InMemoryTRLOption func(*InMemoryTRL)

// WithClock sets the clock function for testability.
func WithClock(clock Clock) InMemoryTRLOption {
	return func(t *InMemoryTRL) {
		if clock != nil {
			t.clock = clock
		}
	}
}

func NewInMemoryTRL(opts ...InMemoryTRLOption) *InMemoryTRL {
	trl := &InMemoryTRL{
		revoked: make(map[string]time.Time),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(trl)
	}
	return trl
}

func (t *InMemoryTRL) RevokeToken(_ context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return nil
	}
	if err := validateTTL(ttl); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock()
	for k, exp := range t.revoked {
		if !now.Before(exp) {
			delete(t.revoked, k)
		}
	}
	t.revoked[jti] = now.Add(ttl)
	return nil
}

func (t *InMemoryTRL) IsRevoked(_ context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	exp, ok := t.revoked[jti]
	if !ok {
		return false, nil
	}
	if !t.clock().Before(exp) {
		delete(t.revoked, jti)
		return false, nil
	}
	return true, nil
}

// Ping always succeeds.
func (t *InMemoryTRL) Ping(_ context.Context) error {
	return nil
}
