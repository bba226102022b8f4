package store

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"eventreg/internal/registration/models"
)

type InMemoryStoreSuite struct {
	storeContract
}

func TestInMemoryStoreSuite(t *testing.T) {
	s := new(InMemoryStoreSuite)
	s.newStore = func() recordStore { return NewInMemory() }
	suite.Run(t, s)
}

func (s *InMemoryStoreSuite) TestReturnedRecordsAreCopies() {
	mem := s.store.(*InMemory)
	stored := s.mustInsert(s.newRecord("Alice", "alice@x.com", "CSE", s.base))
	stored.Name = "Mallory"

	found, err := mem.FindByID(s.ctx, stored.ID)
	s.Require().NoError(err)
	s.Equal("Alice", found.Name)

	list, err := mem.List(s.ctx)
	s.Require().NoError(err)
	list[0].Branch = "XXX"

	counts, err := mem.CountByField(s.ctx, models.FieldBranch)
	s.Require().NoError(err)
	s.Equal(1, counts["CSE"])
}
