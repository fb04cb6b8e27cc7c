package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// File is a single-file key-value substrate for running without a
// Redis. All keys live in one JSON document that is rewritten in full
// on every mutation, mirroring the write-through behavior the
// repositories expect from the store.
type File struct {
	path string

	mu   sync.Mutex
	data map[string]string
}

// NewFile opens (or initializes) the store at path. A missing file
// yields an empty store. An unreadable or corrupt file also yields an
// empty store: persistence failures must never be fatal, the worst case
// is starting from empty data.
func NewFile(path string) (*File, error) {
	f := &File{
		path: path,
		data: make(map[string]string),
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return nil, fmt.Errorf("failed to read store file %q: %w", path, err)
	}

	if err := json.Unmarshal(raw, &f.data); err != nil {
		f.data = make(map[string]string)
	}
	return f, nil
}

// Get reads the string value stored under key.
func (f *File) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	val, ok := f.data[key]
	return val, ok, nil
}

// Set writes value under key and persists the whole document.
func (f *File) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.data[key] = value
	return f.persist()
}

// Delete removes all given keys and persists once, so the removal is
// both-or-neither on disk.
func (f *File) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, key := range keys {
		delete(f.data, key)
	}
	return f.persist()
}

// Close is a no-op; every mutation is already on disk.
func (f *File) Close() error {
	return nil
}

// persist writes the document to a temp file and renames it over the
// store path. Callers must hold f.mu.
func (f *File) persist() error {
	raw, err := json.Marshal(f.data)
	if err != nil {
		return fmt.Errorf("failed to marshal store document: %w", err)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".studypal-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp store file: %w", err)
	}

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close store file: %w", err)
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace store file: %w", err)
	}
	return nil
}
