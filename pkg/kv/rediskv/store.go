// Package rediskv is a kv.Store on a Redis server. Keys are stored as plain
// Redis strings, optionally under a prefix so several users can share a
// database.
package rediskv

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/grovetools/hydrate/errors"
	"github.com/grovetools/hydrate/pkg/kv"
	"github.com/redis/go-redis/v9"
)

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Store is a kv.Store backed by Redis.
type Store struct {
	rdb    redis.UniversalClient
	prefix string
}

// Open connects to Redis and verifies the connection with PING.
func Open(ctx context.Context, opts Options) (*Store, error) {
	if strings.TrimSpace(opts.Addr) == "" {
		return nil, fmt.Errorf("redis address is required")
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", opts.Addr, err)
	}
	return New(rdb, opts.Prefix), nil
}

// New wraps an existing client.
func New(rdb redis.UniversalClient, prefix string) *Store {
	return &Store{rdb: rdb, prefix: prefix}
}

// Close closes the client.
func (s *Store) Close() error {
	return s.rdb.Close()
}

// Get implements kv.Store.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.rdb.Get(ctx, s.prefix+key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.StorageFailed("get", key, err)
	}
	return v, true, nil
}

// Set implements kv.Store. Values never expire.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.rdb.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return errors.StorageFailed("set", key, err)
	}
	return nil
}

// Delete implements kv.Deleter.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, s.prefix+key).Err(); err != nil {
		return errors.StorageFailed("delete", key, err)
	}
	return nil
}

// Keys implements kv.Lister using SCAN, so it never blocks the server the
// way KEYS does. The store prefix is stripped from the result.
func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := s.rdb.Scan(ctx, 0, escapeGlob(s.prefix+prefix)+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), s.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, errors.StorageFailed("keys", prefix, err)
	}
	sort.Strings(keys)
	return keys, nil
}

func escapeGlob(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)
	return r.Replace(s)
}

var (
	_ kv.Store   = (*Store)(nil)
	_ kv.Lister  = (*Store)(nil)
	_ kv.Deleter = (*Store)(nil)
)
