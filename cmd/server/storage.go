package main

import (
	"context"
	"fmt"

	"github.com/primelife/signup/internal/config"
	"github.com/primelife/signup/internal/storage"
	"github.com/primelife/signup/internal/storage/file"
	"github.com/primelife/signup/internal/storage/memory"
	"github.com/primelife/signup/internal/storage/postgres"
	"github.com/primelife/signup/internal/storage/redis"
	"github.com/primelife/signup/internal/storage/sqlite"
)

// openStore opens the snapshot backend selected by cfg.
func openStore(ctx context.Context, cfg config.Storage) (storage.Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return memory.New(), nil
	case config.DriverFile:
		return file.New(cfg.Path)
	case config.DriverSQLite:
		return sqlite.New(cfg.Path)
	case config.DriverPostgres:
		return postgres.Open(ctx, cfg.DSN)
	case config.DriverRedis:
		return redis.Open(ctx, cfg.RedisURL, redis.WithTTL(cfg.Retention))
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
