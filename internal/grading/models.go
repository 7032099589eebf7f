// ============================================================================
// internal/grading/models.go
// GradeRecord aggregate and its owned subdocuments (MongoDB documents)
// ============================================================================

package grading

import (
	"time"

	"github.com/google/uuid"

	"internhub/internal/shared"
)

// ============================================================================
// Status Constants
// ============================================================================

// Record statuses. Transitions between them are owned exclusively by the
// approval pipeline (pipeline.go).
const (
	StatusNotStarted     = "not_started"
	StatusInProgress     = "in_progress"
	StatusDraftCompleted = "draft_completed"
	StatusSubmitted      = "submitted"
	StatusApproved       = "approved"
	StatusRejected       = "rejected"
)

// Milestone types and statuses
const (
	MilestoneTypeStart  = "start"
	MilestoneTypeCustom = "custom"

	MilestonePending    = "pending"
	MilestoneInProgress = "in_progress"
	MilestoneCompleted  = "completed"
	MilestoneOverdue    = "overdue"
)

// Grade component types and default weights
const (
	ComponentSupervisorScore = "supervisor_score"
	ComponentCompanyScore    = "company_score"

	DefaultSupervisorWeight = 0.7
	DefaultCompanyWeight    = 0.3
)

// Uploader role tags on milestone documents
const (
	UploaderStudent    = "student"
	UploaderSupervisor = "supervisor"
)

// MaxMilestoneDocuments caps the cumulative files attached to one milestone
const MaxMilestoneDocuments = 10

// ============================================================================
// Subdocument Models
// ============================================================================

// FileRef is an opaque reference to an uploaded file. Storage itself is
// handled by an external upload endpoint.
type FileRef struct {
	ID         string    `bson:"_id" json:"id"`
	FileName   string    `bson:"file_name" json:"file_name"`
	FileURL    string    `bson:"file_url" json:"file_url"`
	FileSize   int64     `bson:"file_size" json:"file_size"`
	UploadedBy string    `bson:"uploaded_by" json:"uploaded_by"` // student, supervisor
	UploadedAt time.Time `bson:"uploaded_at" json:"uploaded_at"`
}

// Milestone is a dated checkpoint owned by a GradeRecord. It has no identity
// outside its parent document but is addressable by its stable ID.
type Milestone struct {
	ID                 string     `bson:"_id" json:"id"`
	Type               string     `bson:"type" json:"type"` // start, custom
	IsCustom           bool       `bson:"is_custom" json:"is_custom"`
	Title              string     `bson:"title" json:"title"`
	Description        string     `bson:"description,omitempty" json:"description,omitempty"`
	Status             string     `bson:"status" json:"status"` // pending, in_progress, completed, overdue
	DueDate            time.Time  `bson:"due_date" json:"due_date"`
	CompletedAt        *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	Notes              string     `bson:"notes,omitempty" json:"notes,omitempty"`
	SubmittedDocuments []FileRef  `bson:"submitted_documents" json:"submitted_documents"`
}

// GradeComponent is one weighted scoring input contributing to the final grade
type GradeComponent struct {
	ID      string  `bson:"_id" json:"id"`
	Type    string  `bson:"type" json:"type"` // supervisor_score, company_score
	Score   float64 `bson:"score" json:"score"`
	Weight  float64 `bson:"weight" json:"weight"`
	Comment string  `bson:"comment,omitempty" json:"comment,omitempty"`
}

// ============================================================================
// GradeRecord Aggregate
// ============================================================================

// GradeRecord is the aggregate root for one student's internship/thesis
// grading workflow. All mutation of milestones and components funnels through
// its methods so the invariants (weight split, start-milestone permanence,
// document cap) hold in one place.
type GradeRecord struct {
	ID           string              `bson:"_id" json:"id"`
	StudentID    string              `bson:"student_id" json:"student_id"`
	SupervisorID string              `bson:"supervisor_id" json:"supervisor_id"`
	SubjectID    string              `bson:"subject_id" json:"subject_id"`
	WorkType     string              `bson:"work_type" json:"work_type"` // internship, thesis
	Company      *shared.CompanyInfo `bson:"company,omitempty" json:"company,omitempty"`
	ProjectTopic string              `bson:"project_topic,omitempty" json:"project_topic,omitempty"`
	StartDate    time.Time           `bson:"start_date" json:"start_date"`
	EndDate      time.Time           `bson:"end_date" json:"end_date"`

	Milestones      []Milestone      `bson:"milestones" json:"milestones"`
	GradeComponents []GradeComponent `bson:"grade_components" json:"grade_components"`

	FinalGrade  *float64 `bson:"final_grade,omitempty" json:"final_grade,omitempty"` // [0,10], nil until computed
	LetterGrade string   `bson:"letter_grade,omitempty" json:"letter_grade,omitempty"`

	Status string `bson:"status" json:"status"`

	// Approval stage audit fields
	SubmittedToBCN         bool       `bson:"submitted_to_bcn" json:"submitted_to_bcn"`
	SubmittedAt            *time.Time `bson:"submitted_at,omitempty" json:"submitted_at,omitempty"`
	ApprovedBy             string     `bson:"approved_by,omitempty" json:"approved_by,omitempty"`
	ApprovedAt             *time.Time `bson:"approved_at,omitempty" json:"approved_at,omitempty"`
	SupervisorFinalComment string     `bson:"supervisor_final_comment,omitempty" json:"supervisor_final_comment,omitempty"`
	BCNComment             string     `bson:"bcn_comment,omitempty" json:"bcn_comment,omitempty"`

	// Version guards read-modify-write cycles on the whole document
	Version   int64     `bson:"version" json:"version"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// NewGradeRecord synthesizes the default record for an assignment: one
// permanent "start" milestone dated at the engagement start, and the fixed
// 0.7/0.3 component split with zero scores.
func NewGradeRecord(a *shared.Assignment) *GradeRecord {
	now := time.Now()
	return &GradeRecord{
		ID:           uuid.NewString(),
		StudentID:    a.StudentID,
		SupervisorID: a.SupervisorID,
		SubjectID:    a.SubjectID,
		WorkType:     a.WorkType,
		Company:      a.Company,
		ProjectTopic: a.ProjectTopic,
		StartDate:    a.StartDate,
		EndDate:      a.EndDate,
		Milestones: []Milestone{
			{
				ID:                 uuid.NewString(),
				Type:               MilestoneTypeStart,
				IsCustom:           false,
				Title:              "Start of engagement",
				Description:        "Student has begun the internship/thesis work",
				Status:             MilestonePending,
				DueDate:            a.StartDate,
				SubmittedDocuments: []FileRef{},
			},
		},
		GradeComponents: []GradeComponent{
			{ID: uuid.NewString(), Type: ComponentSupervisorScore, Weight: DefaultSupervisorWeight},
			{ID: uuid.NewString(), Type: ComponentCompanyScore, Weight: DefaultCompanyWeight},
		},
		Status:    StatusNotStarted,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep copy of the record. The in-memory store hands out
// clones so callers never alias its internal state.
func (r *GradeRecord) Clone() *GradeRecord {
	out := *r

	out.Milestones = make([]Milestone, len(r.Milestones))
	for i, m := range r.Milestones {
		cm := m
		if m.CompletedAt != nil {
			t := *m.CompletedAt
			cm.CompletedAt = &t
		}
		cm.SubmittedDocuments = append([]FileRef(nil), m.SubmittedDocuments...)
		out.Milestones[i] = cm
	}

	out.GradeComponents = append([]GradeComponent(nil), r.GradeComponents...)

	if r.FinalGrade != nil {
		g := *r.FinalGrade
		out.FinalGrade = &g
	}
	if r.SubmittedAt != nil {
		t := *r.SubmittedAt
		out.SubmittedAt = &t
	}
	if r.ApprovedAt != nil {
		t := *r.ApprovedAt
		out.ApprovedAt = &t
	}
	if r.Company != nil {
		c := *r.Company
		out.Company = &c
	}

	return &out
}

// IsValidMilestoneStatus checks a milestone status string
func IsValidMilestoneStatus(status string) bool {
	switch status {
	case MilestonePending, MilestoneInProgress, MilestoneCompleted, MilestoneOverdue:
		return true
	}
	return false
}
