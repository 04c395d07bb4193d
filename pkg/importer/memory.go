package importer

import (
	"sync"

	"github.com/budgetbr/extratu/pkg/models"
)

// MemoryStore is an in-process Store used by the CLI and server when no
// external datastore is wired, and by tests.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]models.Transaction
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]models.Transaction)}
}

func (s *MemoryStore) Existing(scope string) ([]StoredTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]StoredTransaction, 0, len(s.data[scope]))
	for _, t := range s.data[scope] {
		stored = append(stored, StoredTransaction{Date: t.Date, Amount: t.Amount, Description: t.Description})
	}
	return stored, nil
}

func (s *MemoryStore) InsertBatch(scope string, batch []models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[scope] = append(s.data[scope], batch...)
	return nil
}

// All returns the transactions persisted for a scope.
func (s *MemoryStore) All(scope string) []models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Transaction, len(s.data[scope]))
	copy(out, s.data[scope])
	return out
}
