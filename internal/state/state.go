package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// The state file doubles as the "currently in presentation mode" flag: it is
// written at the start of enter, read once at the start of exit, and removed
// when exit completes.

var (
	// ErrAbsent means no state file exists; the system is not in
	// presentation mode.
	ErrAbsent = errors.New("no presentation state saved")

	// ErrCorrupt means a state file exists but cannot be trusted. Callers
	// must not guess a restore target from it.
	ErrCorrupt = errors.New("presentation state file is corrupt")
)

// WindowRecord captures one window's identity and frame at snapshot time.
// Window ids are stable within an OS session only.
type WindowRecord struct {
	App      string `json:"app"`
	WindowID uint32 `json:"window_id"`
	Title    string `json:"title,omitempty"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// State is the single persisted record: the pre-switch display mode and the
// pre-switch window frames, in front-to-back stacking order.
type State struct {
	DisplayID      string         `json:"display_id"`
	OriginalModeID string         `json:"original_mode"`
	Windows        []WindowRecord `json:"original_windows"`
	SavedAt        time.Time      `json:"saved_at"`
}

const fileName = ".presmode-state.json"

// Store reads and writes the state file at a fixed path.
type Store struct {
	path string
}

// NewStore returns a store rooted at the user's home directory.
func NewStore() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return &Store{path: filepath.Join(home, fileName)}, nil
}

// NewStoreAt returns a store using an explicit file path.
func NewStoreAt(path string) *Store {
	return &Store{path: path}
}

// Path returns the state file location.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether a state file is present, without validating it.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Write persists the state atomically: the record is written to a temporary
// file and renamed into place, so a crash mid-write never leaves a truncated
// file that the next Read would mistake for corruption.
func (s *Store) Write(st *State) error {
	if st == nil {
		return fmt.Errorf("state is nil")
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), fileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to chmod state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close state file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to move state file into place: %w", err)
	}
	return nil
}

// Read loads and validates the saved state. A missing file yields ErrAbsent;
// an unparseable or incomplete file yields ErrCorrupt.
func (s *Store) Read() (*State, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrAbsent
		}
		return nil, fmt.Errorf("failed to read state file %s: %w", s.path, err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.path, err)
	}
	if st.DisplayID == "" || st.OriginalModeID == "" {
		return nil, fmt.Errorf("%w: %s: missing display or mode id", ErrCorrupt, s.path)
	}
	return &st, nil
}

// Clear removes the state file. Absence is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove state file %s: %w", s.path, err)
	}
	return nil
}
