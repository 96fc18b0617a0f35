// Package state is the file backend: every key lives in a single YAML map
// under the hydrate state directory. It is the default store.
package state

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/grovetools/hydrate/errors"
	"gopkg.in/yaml.v3"
)

// State is the decoded state file. Values written by hydrate are strings;
// hand-edited scalars are read back through their string form.
type State map[string]interface{}

// File is a kv.Store backed by a YAML file. Each Set rewrites the whole file
// through a temporary file and a rename, so readers never see a partial
// document.
type File struct {
	path string
	mu   sync.Mutex
}

// NewFile returns a store for the given path. The file and its directory are
// created on the first Set.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the state file location.
func (f *File) Path() string {
	return f.path
}

// Load reads the state file. A missing file is an empty state.
func (f *File) Load() (State, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(State), nil
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}

	var state State
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parse state file %s: %w", f.path, err)
	}
	if state == nil {
		state = make(State)
	}
	return state, nil
}

// Save writes the state file atomically.
func (f *File) Save(state State) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*.yml")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

// Get implements kv.Store.
func (f *File) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	state, err := f.Load()
	if err != nil {
		return "", false, errors.StorageFailed("get", key, err)
	}
	val, ok := state[key]
	if !ok {
		return "", false, nil
	}
	return stringify(val), true, nil
}

// Set implements kv.Store.
func (f *File) Set(_ context.Context, key, value string) error {
	return f.update("set", key, func(state State) { state[key] = value })
}

// Delete implements kv.Deleter.
func (f *File) Delete(_ context.Context, key string) error {
	return f.update("delete", key, func(state State) { delete(state, key) })
}

// Keys implements kv.Lister.
func (f *File) Keys(_ context.Context, prefix string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	state, err := f.Load()
	if err != nil {
		return nil, errors.StorageFailed("keys", prefix, err)
	}
	keys := make([]string, 0, len(state))
	for k := range state {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Close is a no-op; the file is not held open between calls.
func (f *File) Close() error { return nil }

func (f *File) update(op, key string, mutate func(State)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	state, err := f.Load()
	if err != nil {
		return errors.StorageFailed(op, key, err)
	}
	mutate(state)
	if err := f.Save(state); err != nil {
		return errors.StorageFailed(op, key, err)
	}
	return nil
}

func stringify(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
