// Package app assembles the storage backends, services and handlers of the
// server from configuration.
package app

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/KirkDiggler/funko-battle/internal/config"
	"github.com/KirkDiggler/funko-battle/internal/errors"
	"github.com/KirkDiggler/funko-battle/internal/pkg/clock"
	"github.com/KirkDiggler/funko-battle/internal/pkg/idgen"
	redisclient "github.com/KirkDiggler/funko-battle/internal/redis"
	"github.com/KirkDiggler/funko-battle/internal/repositories/accounts"
	"github.com/KirkDiggler/funko-battle/internal/repositories/battles"
	"github.com/KirkDiggler/funko-battle/internal/repositories/collectibles"
	"github.com/KirkDiggler/funko-battle/internal/sqlite"
)

// Storage holds one backend's repositories
type Storage struct {
	Accounts     accounts.Repository
	Collectibles collectibles.Repository
	Battles      battles.Repository

	close func() error
}

// Close releases the backend's connections
func (s *Storage) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// OpenStorage connects the backend named by cfg.Storage
func OpenStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	clk := clock.New()

	switch cfg.Storage {
	case config.StorageMemory:
		slog.InfoContext(ctx, "using in-memory storage")
		return NewMemoryStorage(clk)

	case config.StorageRedis:
		client, err := redisclient.NewClient(cfg.RedisAddr, nil)
		if err != nil {
			return nil, err
		}
		if err := redisclient.Ping(ctx, client); err != nil {
			_ = client.Close() // nolint:errcheck // already failing
			return nil, err
		}
		slog.InfoContext(ctx, "using redis storage", "addr", cfg.RedisAddr)

		storage, err := NewRedisStorage(client, clk)
		if err != nil {
			_ = client.Close() // nolint:errcheck // already failing
			return nil, err
		}
		return storage, nil

	case config.StorageSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		slog.InfoContext(ctx, "using sqlite storage", "path", cfg.SQLitePath)

		storage, err := NewSQLiteStorage(db, clk)
		if err != nil {
			_ = db.Close() // nolint:errcheck // already failing
			return nil, err
		}
		return storage, nil

	default:
		return nil, errors.InvalidArgumentf("unknown storage backend %q", cfg.Storage)
	}
}

// NewMemoryStorage builds process local repositories
func NewMemoryStorage(clk clock.Clock) (*Storage, error) {
	accountRepo, err := accounts.NewInMemory(&accounts.InMemoryConfig{
		Clock:       clk,
		IDGenerator: idgen.NewUUID("acct"),
	})
	if err != nil {
		return nil, err
	}

	collectibleRepo, err := collectibles.NewInMemory(&collectibles.InMemoryConfig{
		Clock:       clk,
		IDGenerator: idgen.NewUUID("col"),
	})
	if err != nil {
		return nil, err
	}

	battleRepo, err := battles.NewInMemory(&battles.InMemoryConfig{
		Clock:       clk,
		IDGenerator: idgen.NewUUID("battle"),
	})
	if err != nil {
		return nil, err
	}

	return &Storage{
		Accounts:     accountRepo,
		Collectibles: collectibleRepo,
		Battles:      battleRepo,
	}, nil
}

// NewRedisStorage builds repositories on a redis client. Close closes the
// client.
func NewRedisStorage(client redisclient.Client, clk clock.Clock) (*Storage, error) {
	accountRepo, err := accounts.NewRedis(&accounts.RedisConfig{
		Client:      client,
		Clock:       clk,
		IDGenerator: idgen.NewUUID("acct"),
	})
	if err != nil {
		return nil, err
	}

	collectibleRepo, err := collectibles.NewRedis(&collectibles.RedisConfig{
		Client:      client,
		Clock:       clk,
		IDGenerator: idgen.NewUUID("col"),
	})
	if err != nil {
		return nil, err
	}

	battleRepo, err := battles.NewRedis(&battles.RedisConfig{
		Client:      client,
		Clock:       clk,
		IDGenerator: idgen.NewUUID("battle"),
	})
	if err != nil {
		return nil, err
	}

	return &Storage{
		Accounts:     accountRepo,
		Collectibles: collectibleRepo,
		Battles:      battleRepo,
		close:        client.Close,
	}, nil
}

// NewSQLiteStorage builds repositories on a migrated database. Close closes
// the database.
func NewSQLiteStorage(db *sql.DB, clk clock.Clock) (*Storage, error) {
	accountRepo, err := accounts.NewSQLite(&accounts.SQLiteConfig{
		DB:          db,
		Clock:       clk,
		IDGenerator: idgen.NewUUID("acct"),
	})
	if err != nil {
		return nil, err
	}

	collectibleRepo, err := collectibles.NewSQLite(&collectibles.SQLiteConfig{
		DB:          db,
		Clock:       clk,
		IDGenerator: idgen.NewUUID("col"),
	})
	if err != nil {
		return nil, err
	}

	battleRepo, err := battles.NewSQLite(&battles.SQLiteConfig{
		DB:          db,
		Clock:       clk,
		IDGenerator: idgen.NewUUID("battle"),
	})
	if err != nil {
		return nil, err
	}

	return &Storage{
		Accounts:     accountRepo,
		Collectibles: collectibleRepo,
		Battles:      battleRepo,
		close:        db.Close,
	}, nil
}
