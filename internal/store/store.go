// Package store keeps the on-disk catalogue of simulation runs.
//
// Every run gets its own directory under a base dir, holding the
// CORSIKA products next to a metadata.json that records the
// configuration the run was made with.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/showerpipe/showerpipe/internal/config"
)

const metadataFile = "metadata.json"

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata is the per-run record written next to the CORSIKA output.
type RunMetadata struct {
	ID             string        `json:"id"`
	Timestamp      time.Time     `json:"timestamp"`
	Config         config.Config `json:"config"`
	ElapsedSeconds float64       `json:"elapsed_seconds"`
	Files          []string      `json:"files"`
	Success        bool          `json:"success"`
}

// NewRunID derives a unique, readable run identifier.
func (s *Store) NewRunID(cfg *config.Config) string {
	return fmt.Sprintf("%s_run%03d_%d", cfg.Primary, cfg.RunNumber, time.Now().Unix())
}

// RunDir is the output directory belonging to a run id.
func (s *Store) RunDir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

// Save writes the metadata record into the run directory, creating it
// if the run produced no files at all.
func (s *Store) Save(meta RunMetadata) error {
	runDir := s.RunDir(meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return err
	}

	f, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

// List returns the metadata of every catalogued run. Directories
// without a readable metadata file are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), metadataFile))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.RunDir(runID), metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// Resolve maps a CLI argument to a data directory: an existing
// directory path is used as-is, anything else is treated as a run id
// under the base dir.
func (s *Store) Resolve(arg string) (string, error) {
	if info, err := os.Stat(arg); err == nil && info.IsDir() {
		return arg, nil
	}

	runDir := s.RunDir(arg)
	if info, err := os.Stat(runDir); err == nil && info.IsDir() {
		return runDir, nil
	}
	return "", fmt.Errorf("store: no run or directory named %q", arg)
}
