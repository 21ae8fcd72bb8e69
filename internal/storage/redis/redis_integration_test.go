//go:build integration

package redis_test

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/primelife/signup/internal/storage"
	"github.com/primelife/signup/internal/storage/redis"
	"github.com/primelife/signup/internal/storage/storagetest"
)

type RedisStoreSuite struct {
	storagetest.StoreSuite
	container *tcredis.RedisContainer
	url       string
	client    *goredis.Client
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	s.Require().NoError(err, "failed to start redis container")
	s.container = container

	s.url, err = container.ConnectionString(ctx)
	s.Require().NoError(err)

	opts, err := goredis.ParseURL(s.url)
	s.Require().NoError(err)
	s.client = goredis.NewClient(opts)

	s.NewStore = func() storage.Store {
		return redis.New(s.client, redis.WithTTL(time.Hour))
	}
}

func (s *RedisStoreSuite) TearDownSuite() {
	if s.client != nil {
		_ = s.client.Close()
	}
	s.Require().NoError(testcontainers.TerminateContainer(s.container))
}

func (s *RedisStoreSuite) TestPutAppliesTTL() {
	ctx := context.Background()
	key := "primelife_quiz_state:ttl"

	s.Require().NoError(s.Store().Put(ctx, key, []byte("{}")))

	ttl, err := s.client.TTL(ctx, key).Result()
	s.Require().NoError(err)
	s.Greater(ttl, 59*time.Minute)
	s.LessOrEqual(ttl, time.Hour)
}

func (s *RedisStoreSuite) TestWithoutTTLKeysPersist() {
	ctx := context.Background()
	key := "primelife_quiz_state:no-ttl"
	store := redis.New(s.client)

	s.Require().NoError(store.Put(ctx, key, []byte("{}")))

	ttl, err := s.client.TTL(ctx, key).Result()
	s.Require().NoError(err)
	s.Equal(time.Duration(-1), ttl)
}

func (s *RedisStoreSuite) TestOpenOwnsClient() {
	ctx := context.Background()

	store, err := redis.Open(ctx, s.url)
	s.Require().NoError(err)
	s.Require().NoError(store.Ping(ctx))
	s.Require().NoError(store.Close())
	s.Error(store.Ping(ctx))

	// The shared client is untouched by closing a wrapping store.
	s.NoError(s.client.Ping(ctx).Err())
}

func TestOpenRejectsBadURL(t *testing.T) {
	_, err := redis.Open(context.Background(), "not a url")
	require.Error(t, err)
}
