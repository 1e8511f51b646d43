package localfs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/cmgfi/tellcmg-api/internal/core/domain"
)

const (
	historyFile  = "history.json"
	settingsFile = "settings.json"
)

// Store keeps history and settings as two JSON documents on disk. Writes
// rewrite the whole file through a temp-and-rename so a crash never leaves a
// half-written document behind. Volumes are tiny (history is capped), so
// whole-file rewrites are fine.
type Store struct {
	basePath string

	mu sync.Mutex
}

func New(basePath string) (*Store, error) {
	if basePath == "" {
		basePath = "./data"
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{basePath: basePath}, nil
}

func (s *Store) Append(_ context.Context, entry domain.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.readHistory()
	if err != nil {
		return err
	}

	// Newest first, oldest evicted past the cap.
	entries = append([]domain.HistoryEntry{entry}, entries...)
	if len(entries) > domain.HistoryCap {
		entries = entries[:domain.HistoryCap]
	}
	return s.writeJSON(historyFile, entries)
}

func (s *Store) List(context.Context) ([]domain.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readHistory()
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.readHistory()
	if err != nil {
		return err
	}
	for i, entry := range entries {
		if entry.ID == id {
			entries = append(entries[:i], entries[i+1:]...)
			return s.writeJSON(historyFile, entries)
		}
	}
	return domain.WrapError(domain.ErrNotFound, "delete history entry", fmt.Errorf("entry %s not found", id))
}

func (s *Store) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeJSON(historyFile, []domain.HistoryEntry{})
}

func (s *Store) Load(context.Context) (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var settings domain.Settings
	if err := s.readJSON(settingsFile, &settings); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Settings{}, nil
		}
		return domain.Settings{}, err
	}
	return settings, nil
}

func (s *Store) Save(_ context.Context, settings domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeJSON(settingsFile, settings)
}

func (s *Store) readHistory() ([]domain.HistoryEntry, error) {
	var entries []domain.HistoryEntry
	if err := s.readJSON(historyFile, &entries); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return entries, nil
}

func (s *Store) readJSON(name string, out any) error {
	data, err := os.ReadFile(filepath.Join(s.basePath, name))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func (s *Store) writeJSON(name string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	path := filepath.Join(s.basePath, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}
