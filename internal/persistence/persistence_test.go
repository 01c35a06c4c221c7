package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/task-service/internal/config"
)

func TestNewPostgres_NoDSN(t *testing.T) {
	pg, err := NewPostgres(context.Background(), config.PostgresConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, pg.PoolHandle())
	assert.Error(t, pg.Ping(context.Background()))
	pg.Close()

	assert.NoError(t, RunMigrations(context.Background(), nil, zap.NewNop()))
}

func TestRedis_Ping(t *testing.T) {
	srv := miniredis.RunT(t)
	r := NewRedis(config.RedisConfig{
		Addr:            srv.Addr(),
		PoolSize:        4,
		DialTimeoutSec:  1,
		ReadTimeoutSec:  2,
		WriteTimeoutSec: 3,
	}, zap.NewNop())
	defer r.Close()

	assert.NoError(t, r.Ping(context.Background()))
	opts := r.Client.Options()
	assert.Equal(t, 4, opts.PoolSize)
	assert.Equal(t, time.Second, opts.DialTimeout)
	assert.Equal(t, 2*time.Second, opts.ReadTimeout)
	assert.Equal(t, 3*time.Second, opts.WriteTimeout)

	var missing *Redis
	assert.Error(t, missing.Ping(context.Background()))
}
