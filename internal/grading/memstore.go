// ============================================================================
// internal/grading/memstore.go
// In-memory Store implementation for tests and local development
// ============================================================================

package grading

import (
	"context"
	"sort"
	"sync"
	"time"

	"internhub/internal/shared"
)

// MemStore keeps grade records in a mutex-guarded map. It honors the same
// version-check and uniqueness semantics as MongoStore so orchestrator tests
// exercise the real concurrency contract.
type MemStore struct {
	mu      sync.Mutex
	records map[string]*GradeRecord // keyed by record id
}

// NewMemStore creates an empty in-memory store
func NewMemStore() *MemStore {
	return &MemStore{records: make(map[string]*GradeRecord)}
}

// GetOrCreate implements Store
func (s *MemStore) GetOrCreate(ctx context.Context, a *shared.Assignment) (*GradeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range s.records {
		if rec.StudentID == a.StudentID && rec.SubjectID == a.SubjectID {
			return rec.Clone(), nil
		}
	}

	fresh := NewGradeRecord(a)
	s.records[fresh.ID] = fresh
	return fresh.Clone(), nil
}

// Save implements Store with the same optimistic version semantics as Mongo
func (s *MemStore) Save(ctx context.Context, rec *GradeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.records[rec.ID]
	if !ok {
		return NewNotFound("grade record %s not found", rec.ID)
	}
	if current.Version != rec.Version {
		return ErrVersionConflict
	}

	rec.Version++
	rec.UpdatedAt = time.Now()
	s.records[rec.ID] = rec.Clone()
	return nil
}

// FindByID implements Store
func (s *MemStore) FindByID(ctx context.Context, id string) (*GradeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, NewNotFound("grade record %s not found", id)
	}
	return rec.Clone(), nil
}

// FindByStudent implements Store
func (s *MemStore) FindByStudent(ctx context.Context, studentID string) (*GradeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var latest *GradeRecord
	for _, rec := range s.records {
		if rec.StudentID != studentID {
			continue
		}
		if latest == nil || rec.CreatedAt.After(latest.CreatedAt) {
			latest = rec
		}
	}
	if latest == nil {
		return nil, NewNotFound("no grade record for student %s", studentID)
	}
	return latest.Clone(), nil
}

// FindBySupervisor implements Store
func (s *MemStore) FindBySupervisor(ctx context.Context, supervisorID string, statuses ...string) ([]*GradeRecord, error) {
	return s.filter(func(rec *GradeRecord) bool {
		return rec.SupervisorID == supervisorID && matchesStatus(rec, statuses)
	}), nil
}

// FindBySubjectAndStatus implements Store
func (s *MemStore) FindBySubjectAndStatus(ctx context.Context, subjectID string, statuses ...string) ([]*GradeRecord, error) {
	return s.filter(func(rec *GradeRecord) bool {
		return rec.SubjectID == subjectID && matchesStatus(rec, statuses)
	}), nil
}

// FindByStatus implements Store
func (s *MemStore) FindByStatus(ctx context.Context, statuses ...string) ([]*GradeRecord, error) {
	return s.filter(func(rec *GradeRecord) bool {
		return matchesStatus(rec, statuses)
	}), nil
}

func (s *MemStore) filter(keep func(*GradeRecord) bool) []*GradeRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*GradeRecord
	for _, rec := range s.records {
		if keep(rec) {
			out = append(out, rec.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func matchesStatus(rec *GradeRecord, statuses []string) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, st := range statuses {
		if rec.Status == st {
			return true
		}
	}
	return false
}
