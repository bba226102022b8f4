//go:build integration

package revocation_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"eventreg/internal/session/store/revocation"
	"eventreg/pkg/testutil/containers"
)

type RedisTRLSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	trl   *revocation.RedisTRL
}

func TestRedisTRLSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisTRLSuite))
}

func (s *RedisTRLSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.trl = revocation.NewRedisTRL(s.redis.Client)
}

func (s *RedisTRLSuite) TearDownSuite() {
	s.redis.Terminate(context.Background())
}

func (s *RedisTRLSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisTRLSuite) TestRevokeThenCheck() {
	ctx := context.Background()
	s.Require().NoError(s.trl.RevokeToken(ctx, "jti-1", time.Minute))

	revoked, err := s.trl.IsRevoked(ctx, "jti-1")
	s.Require().NoError(err)
	s.True(revoked)

	revoked, err = s.trl.IsRevoked(ctx, "jti-2")
	s.Require().NoError(err)
	s.False(revoked)
}

func (s *RedisTRLSuite) TestKeyCarriesTTL() {
	ctx := context.Background()
	s.Require().NoError(s.trl.RevokeToken(ctx, "jti-ttl", 30*time.Second))

	ttl, err := s.redis.Client.TTL(ctx, "eventreg:trl:jti:jti-ttl").Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
	s.LessOrEqual(ttl, 30*time.Second)
}

func (s *RedisTRLSuite) TestPing() {
	s.NoError(s.trl.Ping(context.Background()))
}
