package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// File keeps every entry in one JSON object on disk. The whole document is
// read once at open and rewritten via temp file + rename on each mutation.
type File struct {
	path    string
	mu      sync.Mutex
	entries map[string]json.RawMessage
}

// NewFile creates the state directory if needed and loads path when it exists.
func NewFile(path string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	f := &File{path: path, entries: map[string]json.RawMessage{}}
	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return f, nil
	case err != nil:
		return nil, fmt.Errorf("read state file: %w", err)
	}
	if len(raw) == 0 {
		return f, nil
	}
	if err := json.Unmarshal(raw, &f.entries); err != nil {
		return nil, fmt.Errorf("decode state file %s: %w", path, err)
	}
	return f, nil
}

func (f *File) Get(_ context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.entries[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (f *File) Set(_ context.Context, key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("set %s: value is not valid JSON", key)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	prev, had := f.entries[key]
	f.entries[key] = append(json.RawMessage(nil), value...)
	if err := f.flush(); err != nil {
		if had {
			f.entries[key] = prev
		} else {
			delete(f.entries, key)
		}
		return err
	}
	return nil
}

func (f *File) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	prev, had := f.entries[key]
	if !had {
		return nil
	}
	delete(f.entries, key)
	if err := f.flush(); err != nil {
		f.entries[key] = prev
		return err
	}
	return nil
}

func (f *File) flush() error {
	data, err := json.MarshalIndent(f.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".state-*.json")
	if err != nil {
		return fmt.Errorf("create temp state: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp state: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

// Health reports whether the state directory is still reachable.
func (f *File) Health(context.Context) error {
	_, err := os.Stat(filepath.Dir(f.path))
	return err
}

func (f *File) Close() error { return nil }
