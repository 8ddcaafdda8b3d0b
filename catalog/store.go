package catalog

import (
	"dfss-dashboard/contract"
	"dfss-dashboard/domain"
	"sync"

	"github.com/samber/lo"
)

var _ contract.RecordSink = (*Store)(nil)

// Store holds the base list of a page session. Every write swaps in a new
// slice so snapshots handed out earlier are never modified.
type Store struct {
	mu      sync.RWMutex
	records []domain.FileRecord
}

func NewStore(records ...domain.FileRecord) *Store {
	s := &Store{}
	s.Replace(records)
	return s
}

// Replace installs a fresh list, typically the result of a reload.
func (s *Store) Replace(records []domain.FileRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append([]domain.FileRecord(nil), records...)
}

// Append adds the record produced by a completed upload.
func (s *Store) Append(record domain.FileRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]domain.FileRecord, 0, len(s.records)+1)
	next = append(next, s.records...)
	s.records = append(next, record)
}

// Remove drops the record with the given id and reports whether it existed.
func (s *Store) Remove(id domain.FileID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := lo.Reject(s.records, func(r domain.FileRecord, _ int) bool { return r.ID == id })
	if len(next) == len(s.records) {
		return false
	}
	s.records = next
	return true
}

func (s *Store) Get(id domain.FileID) (domain.FileRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Find(s.records, func(r domain.FileRecord) bool { return r.ID == id })
}

func (s *Store) Snapshot() []domain.FileRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.FileRecord(nil), s.records...)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
