package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/spigell/cupid-matcher/internal/profile"
)

type fileData struct {
	CurrentProfile string             `json:"currentProfile,omitempty"`
	Profiles       []*profile.Profile `json:"profiles"`
}

// File is a Memory store persisted to a JSON document after every write.
type File struct {
	*Memory

	path    string
	writeMu sync.Mutex
}

// OpenFile loads path, or starts empty when the file does not exist yet.
func OpenFile(path string) (*File, error) {
	f := &File{Memory: NewMemory(), path: path}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return f, nil
	case err != nil:
		return nil, fmt.Errorf("read store file %q: %w", path, err)
	}

	var data fileData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse store file %q: %w", path, err)
	}

	ctx := context.Background()
	for _, p := range data.Profiles {
		if err := f.Memory.PutProfile(ctx, p); err != nil {
			return nil, fmt.Errorf("load store file %q: %w", path, err)
		}
	}
	if data.CurrentProfile != "" {
		if err := f.Memory.SetCurrentProfile(ctx, data.CurrentProfile); err != nil {
			return nil, fmt.Errorf("load current profile %q: %w", data.CurrentProfile, err)
		}
	}

	return f, nil
}

// PutProfile stores p and persists the store. When the file cannot be
// written the previous entry is restored.
func (f *File) PutProfile(_ context.Context, p *profile.Profile) error {
	f.writeMu.Lock()
	defer f.writeMu.Unlock()

	undo, err := f.Memory.put(p)
	if err != nil {
		return err
	}
	if err := f.flush(); err != nil {
		undo()
		return err
	}
	return nil
}

func (f *File) SetCurrentProfile(_ context.Context, id string) error {
	f.writeMu.Lock()
	defer f.writeMu.Unlock()

	undo, err := f.Memory.setCurrent(id)
	if err != nil {
		return err
	}
	if err := f.flush(); err != nil {
		undo()
		return err
	}
	return nil
}

// flush writes the whole store through a temporary file and a rename.
// Callers hold writeMu.
func (f *File) flush() error {
	profiles, current := f.Memory.snapshot()
	raw, err := json.MarshalIndent(fileData{CurrentProfile: current, Profiles: profiles}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store file: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create store dir %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".cupid-profiles-*.json")
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp store file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace store file %q: %w", f.path, err)
	}
	return nil
}
