package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrMiss is returned by GetJSON when the key is absent.
var ErrMiss = errors.New("cache miss")

// Store wraps a Redis client. With no address configured it runs an
// embedded miniredis so a single instance works without Redis.
type Store struct {
	client   *redis.Client
	embedded *miniredis.Miniredis
}

func New(ctx context.Context, addr string) (*Store, error) {
	s := &Store{}
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			return nil, fmt.Errorf("start embedded redis: %w", err)
		}
		s.embedded = mr
		addr = mr.Addr()
		logrus.WithField("addr", addr).Info("REDIS_ADDR not set, using embedded redis")
	}

	s.client = redis.NewClient(&redis.Options{Addr: addr})
	if err := s.client.Ping(ctx).Err(); err != nil {
		s.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return s, nil
}

func (s *Store) Client() *redis.Client {
	return s.client
}

func (s *Store) GetJSON(ctx context.Context, key string, dest any) error {
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

func (s *Store) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, raw, ttl).Err()
}

// GetOrSet returns the cached value for key or computes, stores and
// returns it. Cache failures are logged and fall through to load.
func GetOrSet[T any](ctx context.Context, s *Store, key string, ttl time.Duration, load func() (T, error)) (T, error) {
	var v T
	if s != nil {
		err := s.GetJSON(ctx, key, &v)
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, ErrMiss) {
			logrus.WithError(err).WithField("key", key).Warn("cache read failed")
		}
	}

	v, err := load()
	if err != nil {
		return v, err
	}
	if s != nil {
		if err := s.SetJSON(ctx, key, v, ttl); err != nil {
			logrus.WithError(err).WithField("key", key).Warn("cache write failed")
		}
	}
	return v, nil
}

func (s *Store) Close() {
	if s.client != nil {
		s.client.Close()
	}
	if s.embedded != nil {
		s.embedded.Close()
	}
}
