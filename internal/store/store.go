package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/behavior-rubric/internal/models"
)

// SaveObserver receives timing for snapshot persistence, used for metrics.
type SaveObserver func(duration time.Duration, err error)

// Store owns the in-memory snapshot and its JSON persistence. Every read and
// mutation runs under the store lock, so there is exactly one writer at a
// time; a successful mutation is persisted before the lock is released.
type Store struct {
	mu     sync.Mutex
	path   string
	snap   *models.Snapshot
	logger *zap.Logger
	onSave SaveObserver
}

// New loads the snapshot from disk, falling back to defaults when the file
// is absent or unreadable. A load failure is never surfaced to the caller.
func New(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		path:   path,
		logger: logger,
	}
	s.snap = s.load()
	return s
}

// SetSaveObserver installs a persistence timing hook.
func (s *Store) SetSaveObserver(fn SaveObserver) {
	s.onSave = fn
}

// View runs fn with read access to the snapshot. fn must not retain or
// mutate the snapshot.
func (s *Store) View(fn func(snap *models.Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.snap)
}

// Update runs fn with write access to the snapshot and persists the result.
// When fn returns an error the snapshot is assumed untouched and nothing is
// written. Persistence itself is best-effort: a failed write is logged but
// does not fail the mutation.
func (s *Store) Update(fn func(snap *models.Snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(s.snap); err != nil {
		return err
	}
	s.save()
	return nil
}

// Counts reports roster and record sizes for gauge metrics.
func (s *Store) Counts() (students int, records int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.snap.Students), len(s.snap.Entries)
}

func (s *Store) load() *models.Snapshot {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("snapshot unreadable, starting from defaults", zap.String("path", s.path), zap.Error(err))
		}
		return defaultSnapshot()
	}
	snap := &models.Snapshot{}
	if err := json.Unmarshal(data, snap); err != nil {
		s.logger.Warn("snapshot corrupt, starting from defaults", zap.String("path", s.path), zap.Error(err))
		return defaultSnapshot()
	}
	snap.Normalize()
	return snap
}

func (s *Store) save() {
	start := time.Now()
	err := s.write()
	if s.onSave != nil {
		s.onSave(time.Since(start), err)
	}
	if err != nil {
		s.logger.Error("snapshot save failed", zap.String("path", s.path), zap.Error(err))
	}
}

func (s *Store) write() error {
	data, err := json.Marshal(s.snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("prepare snapshot directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("create snapshot temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck
		os.Remove(tmpName)
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close snapshot temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}
