// Package snapshot implements the repository interfaces on top of a single
// in-memory state flushed wholesale to a JSON file after every mutation.
// Mutations are persist-after/revert-on-failure: the in-memory change is
// undone when the flush fails, so memory and disk cannot drift.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/weiting/stellact/internal/app/models"
	"github.com/weiting/stellact/internal/app/repositories"
	"github.com/weiting/stellact/internal/pkg/apperrors"
)

// State is the full persisted snapshot, reloaded wholesale at startup.
// Users use a snapshot-private shape so their password hash survives the
// JSON round trip; the other records persist exactly as the API shows them.
type State struct {
	Users          []*snapshotUser         `json:"users"`
	Actions        []*models.Action        `json:"actions"`
	Participations []*models.Participation `json:"participations"`
	Interactions   []*models.Interaction   `json:"interactions"`
}

// Store guards the snapshot state. All repository views share one lock, which
// also serializes the flush with the mutation it persists.
type Store struct {
	mu     sync.RWMutex
	path   string
	state  *State
	logger zerolog.Logger
}

// Open loads the snapshot at path if it exists, otherwise starts from the
// given initial state (and writes it out). An empty path keeps the store
// memory-only, which is how tests run.
func Open(path string, initial *State, logger zerolog.Logger) (*Store, error) {
	if initial == nil {
		initial = &State{}
	}
	s := &Store{path: path, state: initial, logger: logger}

	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		loaded := &State{}
		if err := json.Unmarshal(data, loaded); err != nil {
			return nil, fmt.Errorf("corrupt snapshot %s: %w", path, err)
		}
		s.state = loaded
		logger.Info().Str("path", path).
			Int("actions", len(loaded.Actions)).
			Int("users", len(loaded.Users)).
			Msg("Snapshot loaded")
	case os.IsNotExist(err):
		logger.Info().Str("path", path).Msg("No snapshot found, seeding initial dataset")
		if err := s.flush(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}

	return s, nil
}

// Repositories returns the repository views backed by this store
func (s *Store) Repositories() *repositories.Repositories {
	return &repositories.Repositories{
		Users:          &userRepo{s},
		Actions:        &actionRepo{s},
		Participations: &participationRepo{s},
		Interactions:   &interactionRepo{s},
	}
}

// flush writes the full state to disk via a temp-file rename so a crash mid
// write never leaves a truncated snapshot. Caller must hold the write lock.
func (s *Store) flush() error {
	if s.path == "" {
		return nil
	}

	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), os.ModePerm); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// commit flushes after a mutation and runs revert when the flush fails, so
// callers never acknowledge a write that did not reach the snapshot.
func (s *Store) commit(revert func()) error {
	if err := s.flush(); err != nil {
		revert()
		s.logger.Error().Err(err).Str("path", s.path).Msg("Snapshot flush failed, mutation reverted")
		return fmt.Errorf("%w: %v", apperrors.ErrPersistFailed, err)
	}
	return nil
}

// clone deep-copies a value through JSON so readers can never alias the
// store's internal state.
func clone[T any](v T) T {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("snapshot clone marshal: %v", err))
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		panic(fmt.Sprintf("snapshot clone unmarshal: %v", err))
	}
	return out
}
