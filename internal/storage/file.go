package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// File persists all keys in a single JSON document. Values must themselves
// be JSON and are stored compacted. Writes go to a temporary file that is
// renamed into place, so readers see either the old or the new document.
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile creates a store backed by the JSON file at path. The file is
// created on first write.
func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Get(_ context.Context, keys ...string) (map[string][]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	all, err := f.load()
	if err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(keys))
	for _, k := range keys {
		if v, ok := all[k]; ok {
			out[k] = []byte(v)
		}
	}
	return out, nil
}

func (f *File) Set(_ context.Context, values map[string][]byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	all, err := f.load()
	if err != nil {
		return err
	}
	for k, v := range values {
		if !json.Valid(v) {
			return fmt.Errorf("value for %q is not valid JSON", k)
		}
		all[k] = json.RawMessage(clone(v))
	}
	return f.save(all)
}

func (f *File) Remove(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	all, err := f.load()
	if err != nil {
		return err
	}
	for _, k := range keys {
		delete(all, k)
	}
	return f.save(all)
}

func (f *File) Close() error {
	return nil
}

func (f *File) load() (map[string]json.RawMessage, error) {
	blob, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, err
	}
	all := map[string]json.RawMessage{}
	if len(blob) == 0 {
		return all, nil
	}
	if err := json.Unmarshal(blob, &all); err != nil {
		return nil, err
	}
	return all, nil
}

func (f *File) save(all map[string]json.RawMessage) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	blob, err := json.Marshal(all)
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, blob, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}
