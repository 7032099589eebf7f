// ============================================================================
// internal/shared/models.go
// Platform data models shared across the service (MongoDB documents)
// ============================================================================

package shared

import (
	"time"
)

// ============================================================================
// User Models
// ============================================================================

// User represents a platform account (training office, committee, faculty, or student)
type User struct {
	ID           string    `bson:"_id" json:"id"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password_hash" json:"-"` // Never expose in JSON
	Role         string    `bson:"role" json:"role"`       // training-office, committee, faculty, student
	Name         string    `bson:"name" json:"name"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`

	// Student-specific fields
	StudentCode string `bson:"student_code,omitempty" json:"student_code,omitempty"`
	ClassName   string `bson:"class_name,omitempty" json:"class_name,omitempty"`

	// Faculty/committee-specific fields
	Department string `bson:"department,omitempty" json:"department,omitempty"`

	// Account status
	IsActive bool `bson:"is_active" json:"is_active"`
}

// ============================================================================
// Subject Models
// ============================================================================

// Subject represents an internship/thesis subject offering for a semester.
// CommitteeIDs binds the department committee reviewers who may approve
// submitted grades for this subject.
type Subject struct {
	ID           string    `bson:"_id" json:"id"`
	Code         string    `bson:"code" json:"code"`
	Name         string    `bson:"name" json:"name"`
	Semester     string    `bson:"semester" json:"semester"` // e.g., "HK1 2024-2025"
	CommitteeIDs []string  `bson:"committee_ids" json:"committee_ids"`
	IsOpen       bool      `bson:"is_open" json:"is_open"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

// ManagedBy reports whether the given committee member reviews this subject
func (s *Subject) ManagedBy(committeeID string) bool {
	for _, id := range s.CommitteeIDs {
		if id == committeeID {
			return true
		}
	}
	return false
}

// ============================================================================
// Assignment Models
// ============================================================================

// CompanyInfo holds the hosting company details for internship work
type CompanyInfo struct {
	Name    string `bson:"name" json:"name"`
	Contact string `bson:"contact,omitempty" json:"contact,omitempty"`
}

// Assignment binds a student to a supervising faculty member for one subject.
// The grading workflow lazily creates its GradeRecord from this document.
type Assignment struct {
	ID           string       `bson:"_id" json:"id"`
	StudentID    string       `bson:"student_id" json:"student_id"`
	SupervisorID string       `bson:"supervisor_id" json:"supervisor_id"`
	SubjectID    string       `bson:"subject_id" json:"subject_id"`
	WorkType     string       `bson:"work_type" json:"work_type"` // internship, thesis
	Company      *CompanyInfo `bson:"company,omitempty" json:"company,omitempty"`
	ProjectTopic string       `bson:"project_topic,omitempty" json:"project_topic,omitempty"`
	StartDate    time.Time    `bson:"start_date" json:"start_date"`
	EndDate      time.Time    `bson:"end_date" json:"end_date"`
	CreatedAt    time.Time    `bson:"created_at" json:"created_at"`
}

// ============================================================================
// Validation Constants
// ============================================================================

const (
	// User roles
	RoleTrainingOffice = "training-office"
	RoleCommittee      = "committee"
	RoleFaculty        = "faculty"
	RoleStudent        = "student"

	// Work types
	WorkTypeInternship = "internship"
	WorkTypeThesis     = "thesis"
)

// IsValidRole checks whether a role string is one of the four platform roles
func IsValidRole(role string) bool {
	switch role {
	case RoleTrainingOffice, RoleCommittee, RoleFaculty, RoleStudent:
		return true
	}
	return false
}

// IsValidWorkType checks whether a work type is supported
func IsValidWorkType(workType string) bool {
	return workType == WorkTypeInternship || workType == WorkTypeThesis
}
