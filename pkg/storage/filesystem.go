package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// LocalStorage keeps copies of rendered export files on disk under a base
// directory. Exports are a convenience trail, not primary data; the rubric
// snapshot itself lives elsewhere.
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage ensures the base directory exists and returns a handle.
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if baseDir == "" {
		baseDir = "./exports"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create exports directory: %w", err)
	}
	return &LocalStorage{baseDir: baseDir}, nil
}

// Save writes the given bytes under the base dir and returns the filename.
// An existing file with the same name is overwritten, so re-exporting the
// same record replaces the previous copy.
func (s *LocalStorage) Save(filename string, data []byte) (string, error) {
	path := filepath.Join(s.baseDir, filepath.Base(filename))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write export file: %w", err)
	}
	return filename, nil
}

// Prune deletes the oldest export copies so at most keep files remain.
// Called on startup; the trail should not grow without bound on a machine
// that exports every day.
func (s *LocalStorage) Prune(keep int) error {
	if keep < 0 {
		keep = 0
	}
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return fmt.Errorf("read exports directory: %w", err)
	}

	type aged struct {
		name string
		mod  int64
	}
	var files []aged
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, aged{name: entry.Name(), mod: info.ModTime().UnixNano()})
	}
	if len(files) <= keep {
		return nil
	}

	sort.Slice(files, func(i, j int) bool { return files[i].mod < files[j].mod })
	for _, f := range files[:len(files)-keep] {
		if err := os.Remove(filepath.Join(s.baseDir, f.name)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("prune export file: %w", err)
		}
	}
	return nil
}
