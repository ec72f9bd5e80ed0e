package history

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Store loads and saves a History.
type Store interface {
	Load() *History
	Save(h *History) error
}

// FileStore keeps the history in one JSON file.
type FileStore struct {
	path   string
	logger zerolog.Logger
}

// NewFileStore returns a store backed by path.
func NewFileStore(path string, logger zerolog.Logger) *FileStore {
	return &FileStore{path: path, logger: logger.With().Str("component", "history").Logger()}
}

// Path returns the backing file location.
func (s *FileStore) Path() string { return s.path }

// Load reads the history. A missing, unreadable or unparsable file yields an
// empty history; the failure is logged and never returned.
func (s *FileStore) Load() *History {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn().Err(err).Str("path", s.path).Msg("history unreadable; starting empty")
		}
		return New()
	}

	h := New()
	if err := json.Unmarshal(data, h); err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("history corrupt; starting empty")
		return New()
	}

	s.logger.Debug().Str("path", s.path).Int("entries", h.Len()).Msg("history loaded")
	return h
}

// Save replaces the backing file with h. The content is written to a temp
// file in the same directory and renamed over the target, so a crash leaves
// the previous file intact.
func (s *FileStore) Save(h *History) error {
	var body bytes.Buffer
	enc := json.NewEncoder(&body)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(h); err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp history: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(body.Bytes()); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("write temp history: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp history: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("chmod temp history: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		cleanup()
		return fmt.Errorf("replace history: %w", err)
	}

	s.logger.Debug().Str("path", s.path).Int("entries", h.Len()).Msg("history saved")
	return nil
}

// Clear deletes the backing file. It reports false when there was nothing
// to delete.
func (s *FileStore) Clear() (bool, error) {
	if err := os.Remove(s.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("remove history: %w", err)
	}
	return true, nil
}

var _ Store = (*FileStore)(nil)
