package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/lawnchairsociety/staminaxp/internal/progression"
)

// StateFileName is the per-slot file holding progression state.
const StateFileName = "progression.json"

// FileStore keeps one JSON file per save slot under a root directory.
type FileStore struct {
	root string
}

// NewFileStore creates a file store rooted at dir
func NewFileStore(dir string) *FileStore {
	return &FileStore{root: dir}
}

// Path returns the file that holds the given slot's state
func (f *FileStore) Path(slotID string) string {
	return filepath.Join(f.root, slotID, StateFileName)
}

// Load reads a slot's state from disk
func (f *FileStore) Load(ctx context.Context, slotID string) (*progression.State, error) {
	if err := ValidateSlot(slotID); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.Path(slotID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read progression file: %w", err)
	}

	var state progression.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse progression file %s: %w", f.Path(slotID), err)
	}

	return &state, nil
}

// Save writes a slot's state, replacing the previous file atomically
func (f *FileStore) Save(ctx context.Context, slotID string, state *progression.State) error {
	if err := ValidateSlot(slotID); err != nil {
		return err
	}

	path := f.Path(slotID)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create slot directory: %w", err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal progression state: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write progression file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace progression file: %w", err)
	}

	return nil
}

// Slots lists slot directories that contain a state file
func (f *FileStore) Slots(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(f.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list save slots: %w", err)
	}

	var slots []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := os.Stat(f.Path(entry.Name())); err == nil {
			slots = append(slots, entry.Name())
		}
	}
	sort.Strings(slots)

	return slots, nil
}

// Close is a no-op for file storage
func (f *FileStore) Close() error {
	return nil
}
