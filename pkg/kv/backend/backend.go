// Package backend opens the kv.Store selected by configuration.
package backend

import (
	"context"
	"io"

	"github.com/grovetools/hydrate/config"
	"github.com/grovetools/hydrate/errors"
	"github.com/grovetools/hydrate/pkg/kv"
	"github.com/grovetools/hydrate/pkg/kv/rediskv"
	"github.com/grovetools/hydrate/pkg/kv/sqlitekv"
	"github.com/grovetools/hydrate/pkg/paths"
	"github.com/grovetools/hydrate/state"
	"github.com/grovetools/hydrate/util/pathutil"
)

// Backend names accepted in storage.backend.
const (
	File   = "file"
	SQLite = "sqlite"
	Redis  = "redis"
	Memory = "memory"
)

// Store is an opened backend. Close releases connections and file handles.
type Store interface {
	kv.Store
	io.Closer
}

// Location describes where a backend keeps its data, for display.
func Location(cfg config.StorageConfig) string {
	switch cfg.Backend {
	case SQLite:
		return resolvePath(cfg.Path, paths.DatabasePath())
	case Redis:
		return "redis://" + cfg.Redis.Addr
	case Memory:
		return "(memory)"
	default:
		return resolvePath(cfg.Path, paths.StateFilePath())
	}
}

// Open opens the configured backend.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Backend {
	case File, "":
		return state.NewFile(resolvePath(cfg.Path, paths.StateFilePath())), nil
	case SQLite:
		store, err := sqlitekv.Open(resolvePath(cfg.Path, paths.DatabasePath()))
		if err != nil {
			return nil, errors.StorageFailed("open", SQLite, err)
		}
		return store, nil
	case Redis:
		store, err := rediskv.Open(ctx, rediskv.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			return nil, errors.StorageFailed("open", Redis, err)
		}
		return store, nil
	case Memory:
		return kv.NewMemory(), nil
	default:
		return nil, errors.UnsupportedBackend(cfg.Backend)
	}
}

func resolvePath(configured, fallback string) string {
	if configured != "" {
		return pathutil.MustExpand(configured)
	}
	return fallback
}
