//go:build integration

package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"eventreg/internal/platform/config"
	"eventreg/pkg/testutil/containers"
)

func TestNewConnects(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	defer rc.Terminate(context.Background())

	c, err := New(context.Background(), config.RedisConfig{URL: rc.Addr, PoolSize: 4})
	require.NoError(t, err)
	defer c.Close()
	require.NoError(t, c.Health(context.Background()))
}
