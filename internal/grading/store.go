// ============================================================================
// internal/grading/store.go
// GradeRecord persistence: Store contract and MongoDB implementation
// ============================================================================

package grading

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"internhub/internal/shared"
)

// Store persists GradeRecord aggregates. It does not emit notifications;
// that is the orchestrator's responsibility.
type Store interface {
	// GetOrCreate returns the record for the assignment's (student, subject)
	// pair, synthesizing the defaults on first access. Safe against
	// concurrent first access.
	GetOrCreate(ctx context.Context, a *shared.Assignment) (*GradeRecord, error)

	// Save writes the whole document back, guarded by the version read at
	// load time. Returns ErrVersionConflict when another writer got there
	// first.
	Save(ctx context.Context, rec *GradeRecord) error

	// FindByID fetches one record by its surrogate id
	FindByID(ctx context.Context, id string) (*GradeRecord, error)

	// FindByStudent fetches the student's most recent record, or a
	// not_found error
	FindByStudent(ctx context.Context, studentID string) (*GradeRecord, error)

	// FindBySupervisor lists a supervisor's records, optionally filtered by
	// status
	FindBySupervisor(ctx context.Context, supervisorID string, statuses ...string) ([]*GradeRecord, error)

	// FindBySubjectAndStatus lists a subject's records in the given statuses
	FindBySubjectAndStatus(ctx context.Context, subjectID string, statuses ...string) ([]*GradeRecord, error)

	// FindByStatus lists records in the given statuses across all subjects
	// (training office oversight)
	FindByStatus(ctx context.Context, statuses ...string) ([]*GradeRecord, error)
}

// ============================================================================
// MongoDB Implementation
// ============================================================================

// MongoStore stores one document per grade record in the grade_records
// collection. Milestones and components live as embedded subarrays, so every
// mutation is a single-document read-modify-write.
type MongoStore struct {
	col *mongo.Collection
}

// NewMongoStore creates a MongoStore on the shared grade_records collection
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{col: db.Collection(shared.ColGradeRecords)}
}

// EnsureIndexes creates the unique (student_id, subject_id) index that guards
// GetOrCreate against duplicate-record creation under concurrent first access.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "student_id", Value: 1}, {Key: "subject_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "supervisor_id", Value: 1}, {Key: "status", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "subject_id", Value: 1}, {Key: "status", Value: 1}},
		},
	})
	return err
}

// GetOrCreate implements Store. Insert races lose to the unique index and
// fall back to re-fetching the winner's document.
func (s *MongoStore) GetOrCreate(ctx context.Context, a *shared.Assignment) (*GradeRecord, error) {
	filter := bson.M{"student_id": a.StudentID, "subject_id": a.SubjectID}

	var rec GradeRecord
	err := s.col.FindOne(ctx, filter).Decode(&rec)
	if err == nil {
		return &rec, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	fresh := NewGradeRecord(a)
	if _, err := s.col.InsertOne(ctx, fresh); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Lost the creation race; the other writer's defaults are
			// equivalent to ours.
			if ferr := s.col.FindOne(ctx, filter).Decode(&rec); ferr != nil {
				return nil, ferr
			}
			return &rec, nil
		}
		return nil, err
	}

	log.Printf("[GradeStore] Created grade record %s for student %s (subject %s)", fresh.ID, a.StudentID, a.SubjectID)
	return fresh, nil
}

// Save implements Store with an optimistic version check
func (s *MongoStore) Save(ctx context.Context, rec *GradeRecord) error {
	prev := rec.Version
	rec.Version = prev + 1
	rec.UpdatedAt = time.Now()

	res, err := s.col.ReplaceOne(ctx, bson.M{"_id": rec.ID, "version": prev}, rec)
	if err != nil {
		rec.Version = prev
		return err
	}
	if res.MatchedCount == 0 {
		rec.Version = prev
		return ErrVersionConflict
	}
	return nil
}

// FindByID implements Store
func (s *MongoStore) FindByID(ctx context.Context, id string) (*GradeRecord, error) {
	var rec GradeRecord
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&rec); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, NewNotFound("grade record %s not found", id)
		}
		return nil, err
	}
	return &rec, nil
}

// FindByStudent implements Store
func (s *MongoStore) FindByStudent(ctx context.Context, studentID string) (*GradeRecord, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var rec GradeRecord
	if err := s.col.FindOne(ctx, bson.M{"student_id": studentID}, opts).Decode(&rec); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, NewNotFound("no grade record for student %s", studentID)
		}
		return nil, err
	}
	return &rec, nil
}

// FindBySupervisor implements Store
func (s *MongoStore) FindBySupervisor(ctx context.Context, supervisorID string, statuses ...string) ([]*GradeRecord, error) {
	filter := bson.M{"supervisor_id": supervisorID}
	if len(statuses) > 0 {
		filter["status"] = bson.M{"$in": statuses}
	}
	return s.findAll(ctx, filter)
}

// FindBySubjectAndStatus implements Store
func (s *MongoStore) FindBySubjectAndStatus(ctx context.Context, subjectID string, statuses ...string) ([]*GradeRecord, error) {
	filter := bson.M{"subject_id": subjectID}
	if len(statuses) > 0 {
		filter["status"] = bson.M{"$in": statuses}
	}
	return s.findAll(ctx, filter)
}

// FindByStatus implements Store
func (s *MongoStore) FindByStatus(ctx context.Context, statuses ...string) ([]*GradeRecord, error) {
	filter := bson.M{}
	if len(statuses) > 0 {
		filter["status"] = bson.M{"$in": statuses}
	}
	return s.findAll(ctx, filter)
}

func (s *MongoStore) findAll(ctx context.Context, filter bson.M) ([]*GradeRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}).SetLimit(500)

	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []*GradeRecord
	for cursor.Next(ctx) {
		var rec GradeRecord
		if err := cursor.Decode(&rec); err != nil {
			log.Printf("[GradeStore] Skipping undecodable record: %v", err)
			continue
		}
		records = append(records, &rec)
	}
	return records, cursor.Err()
}
