package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/storefront-cart/pkg/redis"
)

// Redis stores each cart as a plain string value under a namespaced key.
// Values never expire; the cart lives as long as the session does.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) (*Redis, error) {
	if client == nil {
		return nil, errors.New("redis client required")
	}
	return &Redis{client: client}, nil
}

func (r *Redis) GetItem(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.client.CartKey(key))
	if errors.Is(err, redis.ErrNil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return data, nil
}

func (r *Redis) SetItem(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.client.CartKey(key), value, 0); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx)
}
