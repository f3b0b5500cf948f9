// Package state persists the workflow snapshot and the campaign-spanning
// durable counters.
//
// The snapshot is written whole before every navigation-triggering action and
// restored on re-entry. Load tolerates missing or malformed payloads by
// returning no state; the engine treats that as "no in-flight workflow".
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"linkedin-outreach/internal/models"
)

// Store is the persistence boundary the engine depends on
type Store interface {
	Save(state *models.WorkflowState) error
	Load() (*models.WorkflowState, error)
	Clear() error
}

// FileStore persists the snapshot as a single JSON document, fully
// overwritten on each save via a temp-file rename. Partial writes can never
// be observed across the reload boundary.
type FileStore struct {
	path   string
	logger zerolog.Logger
}

// NewFileStore creates a file-backed snapshot store
func NewFileStore(path string, logger zerolog.Logger) *FileStore {
	return &FileStore{
		path:   path,
		logger: logger.With().Str("component", "state").Logger(),
	}
}

// Save writes the complete snapshot. It must finish before any action that
// destroys the current page context.
func (s *FileStore) Save(state *models.WorkflowState) error {
	state.SavedAt = time.Now()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}

	s.logger.Debug().
		Str("step", string(state.Step)).
		Int("cursor", state.Cursor).
		Msg("State saved")

	return nil
}

// Load reads the last snapshot. A missing file and an unreadable payload both
// return (nil, nil): corrupt state is logged and discarded, never propagated
// as a parse error.
func (s *FileStore) Load() (*models.WorkflowState, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	state := &models.WorkflowState{}
	if err := json.Unmarshal(data, state); err != nil {
		s.logger.Warn().Err(err).Msg("State file unreadable, discarding")
		return nil, nil
	}

	if !state.Consistent() {
		s.logger.Warn().
			Int("cursor", state.Cursor).
			Int("queue", len(state.Queue)).
			Msg("State file inconsistent, discarding")
		return nil, nil
	}

	return state, nil
}

// Clear removes the snapshot
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove state file: %w", err)
	}
	return nil
}
