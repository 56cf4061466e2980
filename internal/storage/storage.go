package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bookshelf-labs/shelfscan/internal/models"
)

// ErrNotFound is returned when no artifact exists for the given id.
var ErrNotFound = errors.New("not found")

// DefaultDataDir is the data directory used when SHELFSCAN_DATA_DIR is
// unset.
func DefaultDataDir() string {
	if dir := os.Getenv("SHELFSCAN_DATA_DIR"); dir != "" {
		return dir
	}
	return "data"
}

// Store keeps per-request artifacts as flat files under the data dir:
// uploaded photos in uploads/, analysis results as JSON in results/.
type Store struct {
	uploadsDir string
	resultsDir string
	mu         sync.RWMutex
}

// New creates the store directories if needed.
func New(dataDir string) (*Store, error) {
	s := &Store{
		uploadsDir: filepath.Join(dataDir, "uploads"),
		resultsDir: filepath.Join(dataDir, "results"),
	}
	for _, dir := range []string{s.uploadsDir, s.resultsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return s, nil
}

// SaveUpload writes an uploaded photo under the given id, keeping the
// original extension.
func (s *Store) SaveUpload(id, ext string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.uploadsDir, id+strings.ToLower(ext))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	return path, nil
}

// FindUpload returns the stored path for an upload id, or ErrNotFound.
func (s *Store) FindUpload(id string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches, err := filepath.Glob(filepath.Join(s.uploadsDir, id+".*"))
	if err != nil {
		return "", fmt.Errorf("failed to search uploads: %w", err)
	}
	if len(matches) == 0 {
		return "", ErrNotFound
	}
	return matches[0], nil
}

// ReadUpload returns the photo bytes for an upload id.
func (s *Store) ReadUpload(id string) ([]byte, error) {
	path, err := s.FindUpload(id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	return data, nil
}

// DeleteUpload removes an upload. Deleting an absent upload returns
// ErrNotFound.
func (s *Store) DeleteUpload(id string) error {
	path, err := s.FindUpload(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete upload: %w", err)
	}
	return nil
}

func (s *Store) resultPath(id string) string {
	return filepath.Join(s.resultsDir, id+".json")
}

// SaveResult persists an analysis result keyed by its request id.
func (s *Store) SaveResult(result *models.AnalysisResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	if err := os.WriteFile(s.resultPath(result.RequestID), data, 0644); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}

// LoadResult loads an analysis result, or ErrNotFound.
func (s *Store) LoadResult(id string) (*models.AnalysisResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.resultPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read result: %w", err)
	}

	var result models.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return &result, nil
}

// DeleteResult removes a stored result. Deleting an absent result is
// not an error.
func (s *Store) DeleteResult(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.resultPath(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete result: %w", err)
	}
	return nil
}

// LoadAllResults loads every stored analysis result. Unreadable files
// are skipped.
func (s *Store) LoadAllResults() ([]*models.AnalysisResult, error) {
	s.mu.RLock()
	matches, err := filepath.Glob(filepath.Join(s.resultsDir, "*.json"))
	s.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}

	results := make([]*models.AnalysisResult, 0, len(matches))
	for _, path := range matches {
		id := strings.TrimSuffix(filepath.Base(path), ".json")
		result, err := s.LoadResult(id)
		if err != nil {
			continue
		}
		results = append(results, result)
	}
	return results, nil
}
