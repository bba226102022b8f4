package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"eventreg/internal/registration/models"
	"eventreg/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded record store. The email index and the record map
// change under the same lock, so check-then-insert is atomic.
type InMemory struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*models.Registration
	emails  map[string]uuid.UUID
	now     func() time.Time
}

// NewInMemory constructs an empty in-memory store.
func NewInMemory() *InMemory {
	return &InMemory{
		records: make(map[uuid.UUID]*models.Registration),
		emails:  make(map[string]uuid.UUID),
		now:     time.Now,
	}
}

func (s *InMemory) Insert(_ context.Context, r *models.Registration) (*models.Registration, error) {
	if r == nil {
		return nil, fmt.Errorf("registration is required: %w", sentinel.ErrInvalidState)
	}
	rec := prepare(r, s.now)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.emails[rec.Email]; taken {
		return nil, ErrDuplicateEmail
	}
	if _, taken := s.records[rec.ID]; taken {
		return nil, fmt.Errorf("registration id %s: %w", rec.ID, sentinel.ErrAlreadyUsed)
	}
	s.records[rec.ID] = rec
	s.emails[rec.Email] = rec.ID

	out := *rec
	return &out, nil
}

func (s *InMemory) List(_ context.Context) ([]*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Registration, 0, len(s.records))
	for _, r := range s.records {
		c := *r
		out = append(out, &c)
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *InMemory) FindByID(_ context.Context, id uuid.UUID) (*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := *r
	return &c, nil
}

func (s *InMemory) DeleteByID(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[id]
	if !ok {
		return false, nil
	}
	delete(s.records, id)
	delete(s.emails, r.Email)
	return true, nil
}

func (s *InMemory) CountAll(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

func (s *InMemory) CountSince(_ context.Context, since time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, r := range s.records {
		if !r.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (s *InMemory) CountByField(_ context.Context, field models.Field) (map[string]int, error) {
	if !field.Valid() {
		return nil, fmt.Errorf("count by %q: %w", field, sentinel.ErrInvalidState)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for _, r := range s.records {
		counts[r.Value(field)]++
	}
	return counts, nil
}

// Ping always succeeds; it exists so health checks treat all stores alike.
func (s *InMemory) Ping(_ context.Context) error {
	return nil
}

// sortNewestFirst orders by creation time descending. Equal timestamps fall
// back to id so the order is stable across calls.
func sortNewestFirst(rs []*models.Registration) {
	sort.Slice(rs, func(i, j int) bool {
		if !rs[i].CreatedAt.Equal(rs[j].CreatedAt) {
			return rs[i].CreatedAt.After(rs[j].CreatedAt)
		}
		return rs[i].ID.String() > rs[j].ID.String()
	})
}
