// Package testutil holds helpers shared by hydrate's tests.
package testutil

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/grovetools/hydrate/pkg/intake"
	"github.com/grovetools/hydrate/pkg/kv"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// FakeClock is a settable intake.Clock.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFakeClock returns a clock frozen at t.
func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t}
}

// Now implements intake.Clock.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t.
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Date returns a time at hour:00 on the given date in UTC.
func Date(year int, month time.Month, day, hour int) time.Time {
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
}

// DiscardLogger returns a logger entry that writes nowhere.
func DiscardLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger.WithField("component", "test")
}

// CaptureLogger returns a logger entry that writes text to the returned
// buffer-backed writer.
func CaptureLogger() (*logrus.Entry, *SafeBuffer) {
	buf := &SafeBuffer{}
	logger := logrus.New()
	logger.SetOutput(buf)
	logger.SetLevel(logrus.DebugLevel)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})
	return logger.WithField("component", "test"), buf
}

// SafeBuffer is a goroutine-safe string sink.
type SafeBuffer struct {
	mu  sync.Mutex
	buf []byte
}

// Write implements io.Writer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(b.buf, p...)
	return len(p), nil
}

// String returns everything written so far.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.buf)
}

// NewStore returns an intake store over an in-memory medium, pinned to UTC
// and driven by clock.
func NewStore(t *testing.T, clock intake.Clock) (*intake.Store, *kv.Memory) {
	t.Helper()
	mem := kv.NewMemory()
	return intake.New(mem, intake.Options{
		Location: time.UTC,
		Clock:    clock,
		Logger:   DiscardLogger(),
	}), mem
}

// ErrStorage is returned by FailingStore.
var ErrStorage = errors.New("disk on fire")

// FailingStore is a kv.Store whose operations fail once Fail is set.
type FailingStore struct {
	kv.Memory
	mu      sync.Mutex
	failGet bool
	failSet bool
}

// Fail makes reads, writes or both return ErrStorage.
func (f *FailingStore) Fail(get, set bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failGet, f.failSet = get, set
}

// Get implements kv.Store.
func (f *FailingStore) Get(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	fail := f.failGet
	f.mu.Unlock()
	if fail {
		return "", false, ErrStorage
	}
	return f.Memory.Get(ctx, key)
}

// Set implements kv.Store.
func (f *FailingStore) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	fail := f.failSet
	f.mu.Unlock()
	if fail {
		return ErrStorage
	}
	return f.Memory.Set(ctx, key, value)
}

// Isolate points HYDRATE_HOME at a fresh temp dir and returns it, so
// config, state and logs never touch the real home directory.
func Isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HYDRATE_HOME", home)
	return home
}

// WriteConfig writes a hydrate.yml with the given content into dir.
func WriteConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "hydrate.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// Eventually polls cond until it returns true or the timeout elapses.
func Eventually(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v", timeout)
}

// RandomString generates a random string of the specified length
func RandomString(length int) string {
	bytes := make([]byte, length/2+1)
	if _, err := rand.Read(bytes); err != nil {
		panic(err)
	}
	return hex.EncodeToString(bytes)[:length]
}
