package snapshot

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// FileStore keeps each snapshot as <dir>/<id>.json.
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir. The directory is created on first save.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Load reads a snapshot. A missing file is not an error.
func (s *FileStore) Load(_ context.Context, id string) (*Snapshot, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	file, err := os.Open(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // No cache yet, not an error
		}
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer file.Close()

	var snap Snapshot
	if err := json.NewDecoder(bufio.NewReader(file)).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", id, err)
	}

	log.Info().Str("snapshot", id).Int("activities", len(snap.Activities)).Msg("Loaded snapshot from cache")
	return &snap, nil
}

// Save writes the snapshot to a temp file and renames it into place.
func (s *FileStore) Save(_ context.Context, snap *Snapshot) error {
	if err := validateID(snap.ID); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	path := s.path(snap.ID)
	tmpPath := path + ".tmp"

	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot file: %w", err)
	}

	writer := bufio.NewWriter(file)
	if err := json.NewEncoder(writer).Encode(snap); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := writer.Flush(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to flush writer: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename snapshot file: %w", err)
	}

	log.Info().Str("snapshot", snap.ID).Int("activities", len(snap.Activities)).Msg("Snapshot saved to cache")
	return nil
}

// Delete removes a cached snapshot. Deleting a missing snapshot is not an error.
func (s *FileStore) Delete(_ context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	if err := os.Remove(s.path(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}
