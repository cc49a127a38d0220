package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/libretto/pkg/domain"
)

// Store implements ports.OutputStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]map[string]*domain.Record // page -> scene/language -> record
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]map[string]*domain.Record),
	}
}

func key(scene int, language string) string {
	return fmt.Sprintf("%d/%s", scene, language)
}

// copyRecord isolates stored records from callers, similar to serialization.
func copyRecord(rec *domain.Record) *domain.Record {
	cp := *rec
	cp.Output = append(domain.Output(nil), rec.Output...)
	return &cp
}

// Save persists the record in memory, replacing any previous render of the
// same (page, scene, language).
func (s *Store) Save(ctx context.Context, rec *domain.Record) error {
	if rec == nil || rec.Page == "" {
		return fmt.Errorf("record page cannot be empty")
	}
	copied := copyRecord(rec)

	s.mu.Lock()
	defer s.mu.Unlock()
	page, ok := s.data[rec.Page]
	if !ok {
		page = make(map[string]*domain.Record)
		s.data[rec.Page] = page
	}
	page[key(rec.Scene, rec.Language)] = copied
	return nil
}

// Load retrieves a record from memory.
func (s *Store) Load(ctx context.Context, page string, scene int, language string) (*domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.data[page][key(scene, language)]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return copyRecord(rec), nil
}

// List returns the page's records ordered by scene, then language.
func (s *Store) List(ctx context.Context, page string) ([]*domain.Record, error) {
	s.mu.RLock()
	records := make([]*domain.Record, 0, len(s.data[page]))
	for _, rec := range s.data[page] {
		records = append(records, copyRecord(rec))
	}
	s.mu.RUnlock()

	domain.SortRecords(records)
	return records, nil
}

// Delete removes every record of the page.
func (s *Store) Delete(ctx context.Context, page string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, page)
	return nil
}
