package store

import (
	"sync"

	"github.com/storeops/ads-ingest/internal/models"
)

// MemoryStore holds the normalized record table in original row order plus
// the row cursor used by pull-based ingestion to detect new source rows.
// The table is the canonical data; summaries are always recomputed from it.
type MemoryStore struct {
	mu     sync.RWMutex
	recs   []models.Record
	cursor int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Replace swaps in a freshly ingested table and resets the cursor to its
// length (a full load has by definition seen every source row).
func (s *MemoryStore) Replace(recs []models.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = recs
	s.cursor = len(recs)
}

// Append adds records from an incremental pull, keeping input order.
func (s *MemoryStore) Append(recs []models.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = append(s.recs, recs...)
}

// All returns a copy of the table in original row order.
func (s *MemoryStore) All() []models.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Record, len(s.recs))
	copy(out, s.recs)
	return out
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.recs)
}

// Cursor is the number of source rows already seen by pull ingestion.
func (s *MemoryStore) Cursor() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursor
}

func (s *MemoryStore) SetCursor(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n < 0 {
		n = 0
	}
	s.cursor = n
}
