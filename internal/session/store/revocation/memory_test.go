package revocation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"eventreg/pkg/platform/sentinel"
)

type InMemoryTRLSuite struct {
	suite.Suite
	now time.Time
	trl *InMemoryTRL
}

func TestInMemoryTRLSuite(t *testing.T) {
	suite.Run(t, new(InMemoryTRLSuite))
}

func (s *InMemoryTRLSuite) SetupTest() {
	s.now = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	s.trl = NewInMemoryTRL(WithClock(func() time.Time { return s.now }))
}

func (s *InMemoryTRLSuite) TestRevokeThenCheck() {
	ctx := context.Background()
	s.Require().NoError(s.trl.RevokeToken(ctx, "jti-1", time.Hour))

	revoked, err := s.trl.IsRevoked(ctx, "jti-1")
	s.Require().NoError(err)
	s.True(revoked)

	revoked, err = s.trl.IsRevoked(ctx, "jti-2")
	s.Require().NoError(err)
	s.False(revoked)
}

func (s *InMemoryTRLSuite) TestEntriesExpire() {
	ctx := context.Background()
	s.Require().NoError(s.trl.RevokeToken(ctx, "jti-1", time.Hour))

	s.now = s.now.Add(time.Hour)
	revoked, err := s.trl.IsRevoked(ctx, "jti-1")
	s.Require().NoError(err)
	s.False(revoked)
	s.Empty(s.trl.revoked)
}

func (s *InMemoryTRLSuite) TestRevokeSweepsExpired() {
	ctx := context.Background()
	s.Require().NoError(s.trl.RevokeToken(ctx, "old", time.Minute))
	s.now = s.now.Add(2 * time.Minute)
	s.Require().NoError(s.trl.RevokeToken(ctx, "new", time.Minute))

	s.Len(s.trl.revoked, 1)
	s.Contains(s.trl.revoked, "new")
}

func (s *InMemoryTRLSuite) TestEmptyJTI() {
	ctx := context.Background()
	s.NoError(s.trl.RevokeToken(ctx, "", time.Hour))
	revoked, err := s.trl.IsRevoked(ctx, "")
	s.NoError(err)
	s.False(revoked)
}

func (s *InMemoryTRLSuite) TestNonPositiveTTL() {
	err := s.trl.RevokeToken(context.Background(), "jti-1", 0)
	s.ErrorIs(err, sentinel.ErrInvalidState)
}
