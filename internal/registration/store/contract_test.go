package store

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"eventreg/internal/registration/models"
	"eventreg/pkg/platform/sentinel"
)

// recordStore is the surface every implementation shares.
type recordStore interface {
	Insert(ctx context.Context, r *models.Registration) (*models.Registration, error)
	List(ctx context.Context) ([]*models.Registration, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Registration, error)
	DeleteByID(ctx context.Context, id uuid.UUID) (bool, error)
	CountAll(ctx context.Context) (int, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
	CountByField(ctx context.Context, field models.Field) (map[string]int, error)
}

var (
	_ recordStore = (*InMemory)(nil)
	_ recordStore = (*PostgresStore)(nil)
	_ recordStore = (*SQLiteStore)(nil)
)

// storeContract holds behavior every record store must exhibit. Concrete suites
// embed it and set newStore.
type storeContract struct {
	suite.Suite
	newStore func() recordStore
	store    recordStore
	ctx      context.Context
	base     time.Time
}

func (s *storeContract) SetupTest() {
	s.store = s.newStore()
	s.ctx = context.Background()
	s.base = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
}

func (s *storeContract) newRecord(name, email, branch string, at time.Time) *models.Registration {
	return &models.Registration{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		Phone:     "9876543210",
		College:   "RVCE",
		Branch:    branch,
		Year:      "2",
		Interest:  "Robotics",
		CreatedAt: at,
	}
}

func (s *storeContract) mustInsert(r *models.Registration) *models.Registration {
	stored, err := s.store.Insert(s.ctx, r)
	s.Require().NoError(err)
	return stored
}

func (s *storeContract) TestInsertAndLookup() {
	s.Run("assigns id and creation time when absent", func() {
		rec := s.newRecord("Ada", "ada@x.com", "CSE", time.Time{})
		rec.ID = uuid.Nil

		stored := s.mustInsert(rec)
		s.NotEqual(uuid.Nil, stored.ID)
		s.False(stored.CreatedAt.IsZero())

		found, err := s.store.FindByID(s.ctx, stored.ID)
		s.Require().NoError(err)
		s.Equal(stored.ID, found.ID)
		s.Equal("Ada", found.Name)
		s.True(stored.CreatedAt.Equal(found.CreatedAt))
	})

	s.Run("keeps supplied id and timestamp", func() {
		rec := s.newRecord("Grace", "grace@x.com", "ECE", s.base)
		stored := s.mustInsert(rec)
		s.Equal(rec.ID, stored.ID)
		s.True(s.base.Equal(stored.CreatedAt))
	})

	s.Run("stores email normalized", func() {
		stored := s.mustInsert(s.newRecord("Linus", "  Linus@Kernel.ORG ", "CSE", s.base))
		s.Equal("linus@kernel.org", stored.Email)
	})

	s.Run("returns ErrNotFound for unknown id", func() {
		_, err := s.store.FindByID(s.ctx, uuid.New())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *storeContract) TestEmailUniqueness() {
	s.mustInsert(s.newRecord("Alice", "alice@x.com", "CSE", s.base))

	s.Run("rejects exact duplicate", func() {
		_, err := s.store.Insert(s.ctx, s.newRecord("Other", "alice@x.com", "ME", s.base))
		s.ErrorIs(err, ErrDuplicateEmail)
	})

	s.Run("rejects duplicate differing only in case", func() {
		_, err := s.store.Insert(s.ctx, s.newRecord("Alice Again", "Alice@X.com", "ECE", s.base))
		s.ErrorIs(err, ErrDuplicateEmail)
	})

	s.Run("failed insert leaves count unchanged", func() {
		n, err := s.store.CountAll(s.ctx)
		s.Require().NoError(err)
		s.Equal(1, n)
	})

	s.Run("email is free again after delete", func() {
		list, err := s.store.List(s.ctx)
		s.Require().NoError(err)
		s.Require().Len(list, 1)

		deleted, err := s.store.DeleteByID(s.ctx, list[0].ID)
		s.Require().NoError(err)
		s.True(deleted)

		s.mustInsert(s.newRecord("Alice", "ALICE@x.com", "CSE", s.base))
	})
}

func (s *storeContract) TestConcurrentDuplicateInsert() {
	const goroutines = 50
	var wg sync.WaitGroup
	var successes, conflicts atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.Insert(s.ctx, s.newRecord("Racer", "race@x.com", "CSE", s.base))
			switch {
			case err == nil:
				successes.Add(1)
			case s.ErrorIs(err, ErrDuplicateEmail):
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successes.Load(), "exactly one insert should succeed")
	s.Equal(int32(goroutines-1), conflicts.Load())

	n, err := s.store.CountAll(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, n)
}

func (s *storeContract) TestListOrdersNewestFirst() {
	alice := s.mustInsert(s.newRecord("Alice", "alice@x.com", "CSE", s.base))
	carol := s.mustInsert(s.newRecord("Carol", "carol@x.com", "ME", s.base.Add(2*time.Hour)))
	bob := s.mustInsert(s.newRecord("Bob", "bob@x.com", "ECE", s.base.Add(time.Hour)))

	list, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 3)
	s.Equal([]uuid.UUID{carol.ID, bob.ID, alice.ID}, []uuid.UUID{list[0].ID, list[1].ID, list[2].ID})
}

func (s *storeContract) TestListEmpty() {
	list, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.NotNil(list)
	s.Empty(list)
}

func (s *storeContract) TestDeleteByID() {
	rec := s.mustInsert(s.newRecord("Alice", "alice@x.com", "CSE", s.base))

	s.Run("unknown id reports false without error", func() {
		deleted, err := s.store.DeleteByID(s.ctx, uuid.New())
		s.Require().NoError(err)
		s.False(deleted)

		n, err := s.store.CountAll(s.ctx)
		s.Require().NoError(err)
		s.Equal(1, n)
	})

	s.Run("existing id is removed", func() {
		deleted, err := s.store.DeleteByID(s.ctx, rec.ID)
		s.Require().NoError(err)
		s.True(deleted)

		_, err = s.store.FindByID(s.ctx, rec.ID)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("second delete is a no-op", func() {
		deleted, err := s.store.DeleteByID(s.ctx, rec.ID)
		s.Require().NoError(err)
		s.False(deleted)
	})
}

func (s *storeContract) TestCounts() {
	s.mustInsert(s.newRecord("Alice", "alice@x.com", "CSE", s.base.Add(-26*time.Hour)))
	s.mustInsert(s.newRecord("Bob", "bob@x.com", "ECE", s.base))
	s.mustInsert(s.newRecord("Carol", "carol@x.com", "CSE", s.base.Add(90*time.Minute)))

	total, err := s.store.CountAll(s.ctx)
	s.Require().NoError(err)
	s.Equal(3, total)

	since, err := s.store.CountSince(s.ctx, s.base)
	s.Require().NoError(err)
	s.Equal(2, since, "boundary timestamp is inclusive")

	later, err := s.store.CountSince(s.ctx, s.base.Add(time.Second))
	s.Require().NoError(err)
	s.Equal(1, later)

	byBranch, err := s.store.CountByField(s.ctx, models.FieldBranch)
	s.Require().NoError(err)
	s.Equal(map[string]int{"CSE": 2, "ECE": 1}, byBranch)

	_, err = s.store.CountByField(s.ctx, models.Field("email"))
	s.ErrorIs(err, sentinel.ErrInvalidState)
}

func (s *storeContract) TestCountSinceIncludesNewInsert() {
	cutoff := s.base
	before, err := s.store.CountSince(s.ctx, cutoff)
	s.Require().NoError(err)

	s.mustInsert(s.newRecord("Dana", "dana@x.com", "CSE", s.base.Add(time.Millisecond)))

	after, err := s.store.CountSince(s.ctx, cutoff)
	s.Require().NoError(err)
	s.Equal(before+1, after)
}
