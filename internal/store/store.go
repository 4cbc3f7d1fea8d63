// Package store persists uploaded tables keyed by session id.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/csv-analyst/backend/internal/models"
)

// TableStore maps opaque session identifiers to loaded tables.
type TableStore interface {
	Put(table *models.Table) (string, error)
	Get(sessionID string) (*models.Table, error)
	Delete(sessionID string) error
}

// DiskStore implements TableStore with an in-memory cache backed by
// msgpack snapshots on disk, so sessions survive a server restart.
type DiskStore struct {
	mu      sync.RWMutex
	dir     string
	tables  map[string]*models.Table
	touched map[string]time.Time
	log     *logrus.Logger
}

// NewDiskStore creates the session directory if needed and indexes any
// snapshots left over from a previous run.
func NewDiskStore(dir string, log *logrus.Logger) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating session directory: %w", err)
	}
	s := &DiskStore{
		dir:     dir,
		tables:  make(map[string]*models.Table),
		touched: make(map[string]time.Time),
		log:     log,
	}
	s.scanExisting()
	return s, nil
}

func (s *DiskStore) scanExisting() {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		s.log.WithError(err).Warn("failed to scan session directory")
		return
	}
	found := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasPrefix(name, "session_") || !strings.HasSuffix(name, ".msgpack") {
			continue
		}
		id := strings.TrimSuffix(strings.TrimPrefix(name, "session_"), ".msgpack")
		s.touched[id] = time.Now()
		found++
	}
	if found > 0 {
		s.log.WithField("sessions", found).Info("indexed existing session snapshots")
	}
}

func (s *DiskStore) path(sessionID string) string {
	return filepath.Join(s.dir, fmt.Sprintf("session_%s.msgpack", sessionID))
}

// Put stores a table under a fresh session id, writing the msgpack
// snapshot before publishing the cache entry.
func (s *DiskStore) Put(table *models.Table) (string, error) {
	id := uuid.New().String()

	data, err := msgpack.Marshal(table)
	if err != nil {
		return "", fmt.Errorf("encoding table: %w", err)
	}
	if err := os.WriteFile(s.path(id), data, 0o644); err != nil {
		return "", fmt.Errorf("writing session snapshot: %w", err)
	}

	s.mu.Lock()
	s.tables[id] = table
	s.touched[id] = time.Now()
	s.mu.Unlock()

	return id, nil
}

// Get returns the table for a session, reloading from disk when the cache
// was evicted or the server restarted. A missing session yields
// models.ErrSessionNotFound.
func (s *DiskStore) Get(sessionID string) (*models.Table, error) {
	s.mu.RLock()
	table, ok := s.tables[sessionID]
	s.mu.RUnlock()
	if ok {
		s.touch(sessionID)
		return table, nil
	}

	data, err := os.ReadFile(s.path(sessionID))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", models.ErrSessionNotFound, sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("reading session snapshot: %w", err)
	}

	var restored models.Table
	if err := msgpack.Unmarshal(data, &restored); err != nil {
		return nil, fmt.Errorf("decoding session snapshot: %w", err)
	}

	s.mu.Lock()
	s.tables[sessionID] = &restored
	s.touched[sessionID] = time.Now()
	s.mu.Unlock()

	return &restored, nil
}

// Delete removes the session's table and its snapshot. Deleting an unknown
// session is a no-op.
func (s *DiskStore) Delete(sessionID string) error {
	s.mu.Lock()
	delete(s.tables, sessionID)
	delete(s.touched, sessionID)
	s.mu.Unlock()

	if err := os.Remove(s.path(sessionID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting session snapshot: %w", err)
	}
	return nil
}

func (s *DiskStore) touch(sessionID string) {
	s.mu.Lock()
	s.touched[sessionID] = time.Now()
	s.mu.Unlock()
}

// CleanupOlderThan drops sessions not touched within maxAge, snapshot
// included. Returns the number of sessions removed.
func (s *DiskStore) CleanupOlderThan(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	s.mu.Lock()
	var expired []string
	for id, at := range s.touched {
		if at.Before(cutoff) {
			expired = append(expired, id)
		}
	}
	for _, id := range expired {
		delete(s.tables, id)
		delete(s.touched, id)
	}
	s.mu.Unlock()

	for _, id := range expired {
		if err := os.Remove(s.path(id)); err != nil && !os.IsNotExist(err) {
			s.log.WithError(err).WithField("session", id).Warn("failed to remove expired snapshot")
		}
	}
	if len(expired) > 0 {
		s.log.WithField("sessions", len(expired)).Info("cleaned up expired sessions")
	}
	return len(expired)
}
