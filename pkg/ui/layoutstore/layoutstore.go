// Package layoutstore persists user-adjusted pane geometry across sessions.
//
// The store is a flat id -> {ratio, collapsed} mapping serialized as JSON.
// It is loaded once at shell construction and written synchronously at
// settle points (drag-end, explicit close), never on intermediate frames.
package layoutstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Entry is the persisted snapshot for one shell or split identifier.
type Entry struct {
	Ratio     float64 `json:"ratio"`
	Collapsed bool    `json:"collapsed"`
}

// State is the full persisted mapping.
type State map[string]Entry

// Store reads and writes layout state at a fixed path.
type Store struct {
	path string
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the persisted state. A missing file yields an empty state;
// a malformed file is an error the caller may treat as empty.
func (s *Store) Load() (State, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return State{}, nil
		}
		return nil, fmt.Errorf("layoutstore: read %s: %w", s.path, err)
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("layoutstore: parse %s: %w", s.path, err)
	}
	if state == nil {
		state = State{}
	}
	return state, nil
}

// Save writes the state atomically (temp file + rename) so a crash mid-write
// never leaves a truncated preference file.
func (s *Store) Save(state State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("layoutstore: encode: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("layoutstore: mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".layout-*.json")
	if err != nil {
		return fmt.Errorf("layoutstore: temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("layoutstore: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("layoutstore: close: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("layoutstore: rename: %w", err)
	}
	return nil
}

// ClampRatio restricts a loaded ratio to [lo, hi]. A corrupted preference
// degrades to the nearest bound instead of blocking shell construction.
func ClampRatio(ratio, lo, hi float64) float64 {
	if ratio < lo {
		return lo
	}
	if ratio > hi {
		return hi
	}
	return ratio
}
