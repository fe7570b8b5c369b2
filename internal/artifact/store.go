// Package artifact persists the pipeline's intermediate JSON documents.
package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/wonny/bluemf/backend/internal/contracts"
)

// Artifact file names inside the data directory
const (
	RawFile       = "all_companies_financial_data.json"
	ProcessedFile = "processed_financial_data.json"
	AnalysisFile  = "analysis_data.json"
)

// ErrNotFound is returned when an artifact has not been produced yet
var ErrNotFound = errors.New("artifact not found")

// Store reads and writes artifacts under one directory.
// Writes are atomic: a reader never observes a partially written file.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the data directory
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the full path of an artifact file
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Exists reports whether an artifact file is present
func (s *Store) Exists(name string) bool {
	_, err := os.Stat(s.Path(name))
	return err == nil
}

// === Raw ===

// LoadRaw returns the undecoded per-company documents of the fetch stage
func (s *Store) LoadRaw() (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := s.read(RawFile, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		raw = map[string]json.RawMessage{}
	}
	return raw, nil
}

// WriteRaw writes the fetch stage output
func (s *Store) WriteRaw(raw map[string]json.RawMessage) error {
	return s.write(RawFile, raw)
}

// === Sanitized ===

// LoadSanitized returns the preprocess stage output
func (s *Store) LoadSanitized() (contracts.Collection, error) {
	var coll contracts.Collection
	if err := s.read(ProcessedFile, &coll); err != nil {
		return nil, err
	}
	if coll == nil {
		coll = contracts.Collection{}
	}
	return coll, nil
}

// WriteSanitized writes the preprocess stage output
func (s *Store) WriteSanitized(coll contracts.Collection) error {
	return s.write(ProcessedFile, coll)
}

// === Analysis ===

// LoadAnalysis returns the analyze stage output
func (s *Store) LoadAnalysis() (contracts.AnalysisCollection, error) {
	var coll contracts.AnalysisCollection
	if err := s.read(AnalysisFile, &coll); err != nil {
		return nil, err
	}
	if coll == nil {
		coll = contracts.AnalysisCollection{}
	}
	return coll, nil
}

// WriteAnalysis writes the analyze stage output
func (s *Store) WriteAnalysis(coll contracts.AnalysisCollection) error {
	return s.write(AnalysisFile, coll)
}

func (s *Store) read(name string, v interface{}) error {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		return fmt.Errorf("failed to read %s: %w", name, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return nil
}

func (s *Store) write(name string, v interface{}) error {
	// map keys are encoded in sorted order, so equal inputs give equal bytes
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	// Atomic write: temp file in the same directory, then rename
	tmpFile, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.Path(name)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}
