// ============================================================================
// internal/grading/directory.go
// Read-only platform lookups the workflow needs (assignments, subjects)
// ============================================================================

package grading

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"internhub/internal/shared"
)

// Directory resolves the relationships the orchestrator authorizes against:
// which supervisor a student is assigned to, and which committee members
// manage a subject.
type Directory interface {
	// AssignmentForStudent returns the student's active assignment, or a
	// not_found error
	AssignmentForStudent(ctx context.Context, studentID string) (*shared.Assignment, error)

	// SubjectByID returns the subject document, or a not_found error
	SubjectByID(ctx context.Context, subjectID string) (*shared.Subject, error)
}

// ============================================================================
// MongoDB Implementation
// ============================================================================

// MongoDirectory reads assignments and subjects from their platform
// collections
type MongoDirectory struct {
	assignmentsCol *mongo.Collection
	subjectsCol    *mongo.Collection
}

// NewMongoDirectory creates a MongoDirectory on the platform collections
func NewMongoDirectory(db *mongo.Database) *MongoDirectory {
	return &MongoDirectory{
		assignmentsCol: db.Collection(shared.ColAssignments),
		subjectsCol:    db.Collection(shared.ColSubjects),
	}
}

// AssignmentForStudent implements Directory
func (d *MongoDirectory) AssignmentForStudent(ctx context.Context, studentID string) (*shared.Assignment, error) {
	var a shared.Assignment
	if err := d.assignmentsCol.FindOne(ctx, bson.M{"student_id": studentID}).Decode(&a); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, NewNotFound("student %s has no internship assignment", studentID)
		}
		return nil, err
	}
	return &a, nil
}

// SubjectByID implements Directory
func (d *MongoDirectory) SubjectByID(ctx context.Context, subjectID string) (*shared.Subject, error) {
	var s shared.Subject
	if err := d.subjectsCol.FindOne(ctx, bson.M{"_id": subjectID}).Decode(&s); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, NewNotFound("subject %s not found", subjectID)
		}
		return nil, err
	}
	return &s, nil
}

// ============================================================================
// In-Memory Implementation (tests, local development)
// ============================================================================

// MemDirectory serves assignments and subjects from maps
type MemDirectory struct {
	mu          sync.RWMutex
	assignments map[string]*shared.Assignment // keyed by student id
	subjects    map[string]*shared.Subject    // keyed by subject id
}

// NewMemDirectory creates an empty in-memory directory
func NewMemDirectory() *MemDirectory {
	return &MemDirectory{
		assignments: make(map[string]*shared.Assignment),
		subjects:    make(map[string]*shared.Subject),
	}
}

// PutAssignment registers a student assignment
func (d *MemDirectory) PutAssignment(a *shared.Assignment) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.assignments[a.StudentID] = a
}

// PutSubject registers a subject
func (d *MemDirectory) PutSubject(s *shared.Subject) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subjects[s.ID] = s
}

// AssignmentForStudent implements Directory
func (d *MemDirectory) AssignmentForStudent(ctx context.Context, studentID string) (*shared.Assignment, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	a, ok := d.assignments[studentID]
	if !ok {
		return nil, NewNotFound("student %s has no internship assignment", studentID)
	}
	return a, nil
}

// SubjectByID implements Directory
func (d *MemDirectory) SubjectByID(ctx context.Context, subjectID string) (*shared.Subject, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	s, ok := d.subjects[subjectID]
	if !ok {
		return nil, NewNotFound("subject %s not found", subjectID)
	}
	return s, nil
}
