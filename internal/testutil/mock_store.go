// mock_store.go - Mock table store implementation for testing
package testutil

import (
	"fmt"
	"sync"

	"github.com/csv-analyst/backend/internal/models"
)

// MockTableStore implements store.TableStore for testing
type MockTableStore struct {
	mu     sync.RWMutex
	tables map[string]*models.Table

	PutErr    error
	GetErr    error
	DeleteErr error
}

// NewMockTableStore creates a new mock table store
func NewMockTableStore() *MockTableStore {
	return &MockTableStore{
		tables: make(map[string]*models.Table),
	}
}

func (m *MockTableStore) Put(table *models.Table) (string, error) {
	if m.PutErr != nil {
		return "", m.PutErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	id := generateTestID()
	m.tables[id] = table
	return id, nil
}

func (m *MockTableStore) Get(sessionID string) (*models.Table, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	table, ok := m.tables[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrSessionNotFound, sessionID)
	}
	return table, nil
}

func (m *MockTableStore) Delete(sessionID string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.tables, sessionID)
	return nil
}

// Test Helper Methods

// AddTable stores a table under a fixed session id
func (m *MockTableStore) AddTable(sessionID string, table *models.Table) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[sessionID] = table
}

// SessionCount returns the number of stored sessions
func (m *MockTableStore) SessionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tables)
}

// generateTestID generates a simple test ID
var testIDCounter int
var testIDMutex sync.Mutex

func generateTestID() string {
	testIDMutex.Lock()
	defer testIDMutex.Unlock()
	testIDCounter++
	return fmt.Sprintf("test-session-%d", testIDCounter)
}
