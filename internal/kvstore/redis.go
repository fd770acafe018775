package kvstore

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/2beens/workouttracker/internal/telemetry/tracing"

	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type RedisParams struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// NewRedisClient builds a traced redis client and pings it once.
// A failed ping is only logged; redis may come up later.
func NewRedisClient(ctx context.Context, params RedisParams) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Host, params.Port),
		Password: params.Password,
		DB:       params.DB,
	})
	rdb.AddHook(redisotel.NewTracingHook())

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	return rdb
}

// RedisStore keeps documents as plain redis strings under prefix+key.
type RedisStore struct {
	redisClient *redis.Client
	prefix      string
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(redisClient *redis.Client, prefix string) *RedisStore {
	return &RedisStore{
		redisClient: redisClient,
		prefix:      prefix,
	}
}

func (s *RedisStore) Get(ctx context.Context, key string) (_ []byte, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "kvstore.redis.get")
	span.SetAttributes(attribute.String("key", key))
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	value, err := s.redisClient.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return value, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "kvstore.redis.set")
	span.SetAttributes(attribute.String("key", key), attribute.Int("size", len(value)))
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if key == "" {
		return ErrEmptyKey
	}

	cmd := s.redisClient.Set(ctx, s.prefix+key, string(value), 0)
	if err := cmd.Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "kvstore.redis.delete")
	span.SetAttributes(attribute.StringSlice("keys", keys))
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if len(keys) == 0 {
		return nil
	}

	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = s.prefix + k
	}

	cmd := s.redisClient.Del(ctx, prefixed...)
	if err := cmd.Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	log.Tracef("kvstore: redis removed %d of %d keys", cmd.Val(), len(keys))
	return nil
}

func (s *RedisStore) Client() *redis.Client {
	return s.redisClient
}

func (s *RedisStore) Close() error {
	return s.redisClient.Close()
}
