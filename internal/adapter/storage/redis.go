package storage

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-redis/redis/v8"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.KeyValueStorage = (*RedisStorage)(nil)

type RedisStorage struct {
	client *redis.Client
}

// NewRedisStorage accepts either a redis:// URL or a host:port address.
func NewRedisStorage(
	ctx context.Context, addr string, tlsConfig *tls.Config,
) (RedisStorage, error) {
	const op = "NewRedisStorage"
	log := slog.With("op", op)

	opts, err := redis.ParseURL(addr)
	if err != nil {
		opts = &redis.Options{Addr: addr}
	}
	if tlsConfig != nil {
		opts.TLSConfig = tlsConfig
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return RedisStorage{}, fmt.Errorf("%s: redis is unavailable: %w", op, err)
	}
	log.Info("redis is available")
	return RedisStorage{client}, nil
}

func (s RedisStorage) Get(ctx context.Context, key string) ([]byte, error) {
	const op = "RedisStorage.Get"

	value, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return value, nil
}

func (s RedisStorage) Set(ctx context.Context, key string, value []byte) error {
	const op = "RedisStorage.Set"

	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s RedisStorage) Close() {
	const op = "RedisStorage.Close"
	log := slog.With("op", op)

	log.Info("closing redis client...")
	if err := s.client.Close(); err != nil {
		log.Error("failed to close", "err", err)
		return
	}
	log.Info("redis client is closed")
}
