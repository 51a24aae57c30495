package memory

import (
	"errors"
	"sort"
	"sync"

	"topics/internal/domain"
)

// Storage is a simple in-memory record store keyed by account.
type Storage struct {
	mu      sync.RWMutex
	records map[string][]domain.Record
}

func NewStorage() *Storage { return &Storage{records: make(map[string][]domain.Record)} }

// Save appends records, replacing any earlier record with the same ID.
func (s *Storage) Save(account string, records []domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.records == nil {
		return errors.New("storage closed")
	}
	existing := s.records[account]
	pos := make(map[string]int, len(existing))
	for i, r := range existing {
		pos[r.ID] = i
	}
	for _, r := range records {
		if i, ok := pos[r.ID]; ok {
			existing[i] = r
			continue
		}
		pos[r.ID] = len(existing)
		existing = append(existing, r)
	}
	s.records[account] = existing
	return nil
}

func (s *Storage) List(account string) ([]domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Record(nil), s.records[account]...), nil
}

func (s *Storage) Accounts() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.records))
	for a := range s.records {
		out = append(out, a)
	}
	sort.Strings(out)
	return out, nil
}

func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	return nil
}
