// Package history records completed pipeline runs: always in an in-memory
// ring, and optionally in Postgres when a database is configured.
package history

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/jwlim/signalpipe/internal/pipeline"
)

// Record is one completed run, success or error.
type Record struct {
	ID        int64           `json:"id"`
	StartedAt time.Time       `json:"started_at"`
	Status    string          `json:"status"`
	Report    json.RawMessage `json:"report"`
}

// Store keeps the most recent runs in memory. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	size    int
	nextID  int64
	records []Record
}

// NewStore creates a store capped at size records.
func NewStore(size int) *Store {
	return &Store{size: size, nextID: 1}
}

// Add records a completed run and returns the stored record.
func (s *Store) Add(startedAt time.Time, report *pipeline.Report) (Record, error) {
	payload, err := json.Marshal(report.Payload())
	if err != nil {
		return Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := Record{
		ID:        s.nextID,
		StartedAt: startedAt,
		Status:    report.Status(),
		Report:    payload,
	}
	s.nextID++

	s.records = append(s.records, rec)
	if len(s.records) > s.size {
		s.records = s.records[len(s.records)-s.size:]
	}
	return rec, nil
}

// Latest returns the most recent record, if any.
func (s *Store) Latest() (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.records) == 0 {
		return Record{}, false
	}
	return s.records[len(s.records)-1], true
}

// List returns up to n records, most recent first.
func (s *Store) List(n int) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n > len(s.records) {
		n = len(s.records)
	}
	out := make([]Record, 0, n)
	for i := len(s.records) - 1; i >= len(s.records)-n; i-- {
		out = append(out, s.records[i])
	}
	return out
}

// Len returns the number of retained records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
