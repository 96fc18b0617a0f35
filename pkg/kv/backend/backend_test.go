package backend

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/grovetools/hydrate/config"
	"github.com/grovetools/hydrate/errors"
	"github.com/grovetools/hydrate/pkg/kv"
	"github.com/grovetools/hydrate/pkg/kv/rediskv"
	"github.com/grovetools/hydrate/pkg/kv/sqlitekv"
	"github.com/grovetools/hydrate/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()
	home := t.TempDir()
	t.Setenv("HYDRATE_HOME", home)

	t.Run("file is the default", func(t *testing.T) {
		store, err := Open(ctx, config.StorageConfig{})
		require.NoError(t, err)
		defer store.Close()
		f, ok := store.(*state.File)
		require.True(t, ok)
		assert.Equal(t, filepath.Join(home, "state", "hydrate", "state.yml"), f.Path())
	})

	t.Run("file with explicit path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "water.yml")
		store, err := Open(ctx, config.StorageConfig{Backend: File, Path: path})
		require.NoError(t, err)
		assert.Equal(t, path, store.(*state.File).Path())
	})

	t.Run("sqlite", func(t *testing.T) {
		store, err := Open(ctx, config.StorageConfig{Backend: SQLite})
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &sqlitekv.Store{}, store)
		require.NoError(t, store.Set(ctx, "k", "v"))
	})

	t.Run("memory", func(t *testing.T) {
		store, err := Open(ctx, config.StorageConfig{Backend: Memory})
		require.NoError(t, err)
		assert.IsType(t, &kv.Memory{}, store)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := Open(ctx, config.StorageConfig{Backend: "etcd"})
		assert.True(t, errors.Is(err, errors.ErrCodeStorageUnsupported))
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		store, err := Open(ctx, config.StorageConfig{Backend: Redis, Redis: config.RedisConfig{Addr: mr.Addr(), Prefix: "hydrate:"}})
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &rediskv.Store{}, store)
		require.NoError(t, store.Set(ctx, "water-goal", "64"))
		assert.True(t, mr.Exists("hydrate:water-goal"))
	})

	t.Run("redis without server", func(t *testing.T) {
		_, err := Open(ctx, config.StorageConfig{Backend: Redis})
		assert.True(t, errors.Is(err, errors.ErrCodeStorage))
	})
}

func TestLocation(t *testing.T) {
	t.Setenv("HYDRATE_HOME", "/srv/hydrate")

	assert.Equal(t, "/srv/hydrate/state/hydrate/state.yml", Location(config.StorageConfig{Backend: File}))
	assert.Equal(t, "/srv/hydrate/data/hydrate/hydrate.db", Location(config.StorageConfig{Backend: SQLite}))
	assert.Equal(t, "redis://cache:6379", Location(config.StorageConfig{Backend: Redis, Redis: config.RedisConfig{Addr: "cache:6379"}}))
	assert.Equal(t, "(memory)", Location(config.StorageConfig{Backend: Memory}))
}
