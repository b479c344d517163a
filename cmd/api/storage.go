package main

import (
	"context"
	"fmt"

	"github.com/angelmondragon/storefront-cart/internal/cart"
	"github.com/angelmondragon/storefront-cart/internal/storage"
	"github.com/angelmondragon/storefront-cart/pkg/config"
	"github.com/angelmondragon/storefront-cart/pkg/db"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
	"github.com/angelmondragon/storefront-cart/pkg/migrate"
	"github.com/angelmondragon/storefront-cart/pkg/redis"
)

// storageBackend is a cart storage the process owns and must close.
type storageBackend struct {
	cart.Storage
	ping  func(context.Context) error
	close func() error
}

func (b *storageBackend) Ping(ctx context.Context) error {
	return b.ping(ctx)
}

func (b *storageBackend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

func openStorage(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*storageBackend, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverRedis:
		client, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap redis: %w", err)
		}
		store, err := storage.NewRedis(client)
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		return &storageBackend{Storage: store, ping: store.Ping, close: client.Close}, nil

	case config.StorageDriverSQL:
		client, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap database: %w", err)
		}
		if err := migrate.MaybeRun(ctx, cfg, logg, client); err != nil {
			_ = client.Close()
			return nil, err
		}
		store, err := storage.NewSQL(client)
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		return &storageBackend{Storage: store, ping: store.Ping, close: client.Close}, nil

	default:
		store := storage.NewMemory()
		return &storageBackend{Storage: store, ping: store.Ping}, nil
	}
}
