// ============================================================================
// internal/grading/service.go
// Workflow orchestrator: actor-authorized operations over the grading core
// ============================================================================

package grading

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"internhub/internal/notify"
	"internhub/internal/shared"
)

// Actor is the authenticated caller, resolved once at the gateway boundary.
// Every operation checks the actor's relationship to the record here rather
// than scattering role branches across handlers.
type Actor struct {
	ID   string
	Role string // training-office, committee, faculty, student
	Name string
}

// GradingService coordinates store, milestone tracker, calculator, approval
// pipeline and notification emission for every exposed operation.
type GradingService struct {
	store     Store
	directory Directory
	notifier  notify.Port

	// SyncNotifications delivers events inline instead of fire-and-forget.
	// Tests flip this on to assert emitted events deterministically.
	SyncNotifications bool
}

// NewGradingService creates the orchestrator
func NewGradingService(store Store, directory Directory, notifier notify.Port) *GradingService {
	return &GradingService{
		store:     store,
		directory: directory,
		notifier:  notifier,
	}
}

// ============================================================================
// Faculty Operations
// ============================================================================

// GetOrCreateForStudent resolves (lazily creating) the grade record for a
// student assigned to the calling supervisor.
func (s *GradingService) GetOrCreateForStudent(ctx context.Context, actor Actor, studentID string) (*GradeRecord, error) {
	if actor.Role != shared.RoleFaculty {
		return nil, NewForbidden("only supervising faculty can access student grade records")
	}
	rec, _, err := s.ownedRecord(ctx, actor, studentID)
	return rec, err
}

// ListForSupervisor lists the caller's grade records, optionally filtered by
// status
func (s *GradingService) ListForSupervisor(ctx context.Context, actor Actor, statuses ...string) ([]*GradeRecord, error) {
	if actor.Role != shared.RoleFaculty {
		return nil, NewForbidden("only supervising faculty can list their grade records")
	}
	return s.store.FindBySupervisor(ctx, actor.ID, statuses...)
}

// UpdateMilestoneStatus moves one milestone of the supervisor's record to a
// new status, promoting the record out of not_started when the start
// milestone completes.
func (s *GradingService) UpdateMilestoneStatus(ctx context.Context, actor Actor, studentID, milestoneID, status, notes string, documents []FileRef) (*GradeRecord, error) {
	if actor.Role != shared.RoleFaculty {
		return nil, NewForbidden("only the supervising faculty can update milestones")
	}

	rec, err := s.mutateOwned(ctx, actor, studentID, func(rec *GradeRecord) error {
		events, err := rec.UpdateMilestoneStatus(milestoneID, status, notes, documents)
		if err != nil {
			return err
		}
		ApplyEvents(rec, events)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(notify.Event{
		Recipient: rec.StudentID,
		Type:      notify.TypeMilestoneUpdated,
		Title:     "Milestone updated",
		Message:   fmt.Sprintf("Your supervisor updated a milestone to %q", status),
		Link:      "/my/progress",
		Priority:  notify.PriorityNormal,
		Metadata:  map[string]interface{}{"record_id": rec.ID, "milestone_id": milestoneID},
	})
	return rec, nil
}

// AddCustomMilestone appends a supervisor-defined checkpoint to the record
func (s *GradingService) AddCustomMilestone(ctx context.Context, actor Actor, studentID, title, description string, dueDate time.Time) (*GradeRecord, error) {
	if actor.Role != shared.RoleFaculty {
		return nil, NewForbidden("only the supervising faculty can add milestones")
	}
	if title == "" {
		return nil, NewValidation("milestone title is required")
	}

	rec, err := s.mutateOwned(ctx, actor, studentID, func(rec *GradeRecord) error {
		rec.AddCustomMilestone(title, description, dueDate)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(notify.Event{
		Recipient: rec.StudentID,
		Type:      notify.TypeMilestoneUpdated,
		Title:     "New milestone",
		Message:   fmt.Sprintf("Your supervisor added the milestone %q", title),
		Link:      "/my/progress",
		Priority:  notify.PriorityNormal,
		Metadata:  map[string]interface{}{"record_id": rec.ID},
	})
	return rec, nil
}

// EditMilestone updates title/description/due date of one milestone
func (s *GradingService) EditMilestone(ctx context.Context, actor Actor, studentID, milestoneID string, edit MilestoneEdit) (*GradeRecord, error) {
	if actor.Role != shared.RoleFaculty {
		return nil, NewForbidden("only the supervising faculty can edit milestones")
	}

	rec, err := s.mutateOwned(ctx, actor, studentID, func(rec *GradeRecord) error {
		return rec.EditMilestone(milestoneID, edit)
	})
	if err != nil {
		return nil, err
	}

	s.emit(notify.Event{
		Recipient: rec.StudentID,
		Type:      notify.TypeMilestoneUpdated,
		Title:     "Milestone changed",
		Message:   "Your supervisor edited a milestone",
		Link:      "/my/progress",
		Priority:  notify.PriorityLow,
		Metadata:  map[string]interface{}{"record_id": rec.ID, "milestone_id": milestoneID},
	})
	return rec, nil
}

// DeleteMilestone removes a custom milestone from the record
func (s *GradingService) DeleteMilestone(ctx context.Context, actor Actor, studentID, milestoneID string) (*GradeRecord, error) {
	if actor.Role != shared.RoleFaculty {
		return nil, NewForbidden("only the supervising faculty can delete milestones")
	}

	rec, err := s.mutateOwned(ctx, actor, studentID, func(rec *GradeRecord) error {
		return rec.DeleteMilestone(milestoneID)
	})
	if err != nil {
		return nil, err
	}

	s.emit(notify.Event{
		Recipient: rec.StudentID,
		Type:      notify.TypeMilestoneUpdated,
		Title:     "Milestone removed",
		Message:   "Your supervisor removed a milestone",
		Link:      "/my/progress",
		Priority:  notify.PriorityLow,
		Metadata:  map[string]interface{}{"record_id": rec.ID},
	})
	return rec, nil
}

// UpdateGradeComponents writes component scores/weights/comments, recomputes
// the final grade, and promotes the record to draft_completed once every
// component is scored.
func (s *GradingService) UpdateGradeComponents(ctx context.Context, actor Actor, studentID string, updates []ComponentUpdate) (*GradeRecord, error) {
	if actor.Role != shared.RoleFaculty {
		return nil, NewForbidden("only the supervising faculty can update grade components")
	}
	if len(updates) == 0 {
		return nil, NewValidation("no component updates provided")
	}

	rec, err := s.mutateOwned(ctx, actor, studentID, func(rec *GradeRecord) error {
		if rec.Status == StatusSubmitted || rec.Status == StatusApproved {
			return NewInvalidState("grade components are read-only while the record is %s", rec.Status)
		}
		events, err := rec.ApplyComponentUpdates(updates)
		if err != nil {
			return err
		}
		ApplyEvents(rec, events)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(notify.Event{
		Recipient: rec.StudentID,
		Type:      notify.TypeGradeUpdated,
		Title:     "Grade components updated",
		Message:   "Your supervisor updated your grade components",
		Link:      "/my/progress",
		Priority:  notify.PriorityNormal,
		Metadata:  map[string]interface{}{"record_id": rec.ID},
	})
	return rec, nil
}

// SubmitGrade performs the explicit draft_completed -> submitted transition
// and alerts the subject's committee reviewers.
func (s *GradingService) SubmitGrade(ctx context.Context, actor Actor, studentID, finalComment string) (*GradeRecord, error) {
	if actor.Role != shared.RoleFaculty {
		return nil, NewForbidden("only the supervising faculty can submit grades")
	}

	rec, err := s.mutateOwned(ctx, actor, studentID, func(rec *GradeRecord) error {
		return Submit(rec, finalComment)
	})
	if err != nil {
		return nil, err
	}

	subject, err := s.directory.SubjectByID(ctx, rec.SubjectID)
	if err != nil {
		// The transition already persisted; reviewer alerting is best-effort.
		log.Printf("[GradingService] Could not resolve subject %s for submission alerts: %v", rec.SubjectID, err)
	} else {
		for _, committeeID := range subject.CommitteeIDs {
			s.emit(notify.Event{
				Recipient: committeeID,
				Type:      notify.TypeGradeSubmitted,
				Title:     "Grade awaiting review",
				Message:   fmt.Sprintf("A final grade for student %s was submitted for approval", rec.StudentID),
				Link:      fmt.Sprintf("/committee/subjects/%s/pending", rec.SubjectID),
				Priority:  notify.PriorityHigh,
				Metadata:  map[string]interface{}{"record_id": rec.ID, "subject_id": rec.SubjectID},
			})
		}
	}

	s.emit(notify.Event{
		Recipient: rec.StudentID,
		Type:      notify.TypeGradeSubmitted,
		Title:     "Grade submitted",
		Message:   "Your final grade was submitted to the department committee",
		Link:      "/my/progress",
		Priority:  notify.PriorityNormal,
		Metadata:  map[string]interface{}{"record_id": rec.ID},
	})
	return rec, nil
}

// ============================================================================
// Student Operations
// ============================================================================

// ProgressView is what a student sees of their own record. The numeric and
// letter grade only appear once the committee approved them.
type ProgressView struct {
	RecordID    string      `json:"record_id"`
	Status      string      `json:"status"`
	WorkType    string      `json:"work_type"`
	StartDate   time.Time   `json:"start_date"`
	EndDate     time.Time   `json:"end_date"`
	Progress    int         `json:"progress"`
	Milestones  []Milestone `json:"milestones"`
	FinalGrade  *float64    `json:"final_grade,omitempty"`
	LetterGrade string      `json:"letter_grade,omitempty"`
	BCNComment  string      `json:"bcn_comment,omitempty"`
}

// GetMyProgress returns the calling student's own progress view
func (s *GradingService) GetMyProgress(ctx context.Context, actor Actor) (*ProgressView, error) {
	if actor.Role != shared.RoleStudent {
		return nil, NewForbidden("only students can view their own progress")
	}

	rec, err := s.store.FindByStudent(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	view := &ProgressView{
		RecordID:   rec.ID,
		Status:     rec.Status,
		WorkType:   rec.WorkType,
		StartDate:  rec.StartDate,
		EndDate:    rec.EndDate,
		Progress:   rec.ProgressPercentage(),
		Milestones: rec.Milestones,
	}

	// Grades become visible to the student only after committee approval
	if rec.Status == StatusApproved {
		view.FinalGrade = rec.FinalGrade
		view.LetterGrade = rec.LetterGrade
		view.BCNComment = rec.BCNComment
	}
	return view, nil
}

// AttachMilestoneFiles attaches evidence files; permitted for the record's
// supervisor or its student, with the uploader role derived from the actor.
func (s *GradingService) AttachMilestoneFiles(ctx context.Context, actor Actor, studentID, milestoneID string, files []FileRef) (*GradeRecord, error) {
	uploaderRole, err := s.uploaderRole(actor, studentID)
	if err != nil {
		return nil, err
	}

	rec, err := s.mutateParticipant(ctx, actor, studentID, func(rec *GradeRecord) error {
		return rec.AttachFiles(milestoneID, files, uploaderRole)
	})
	if err != nil {
		return nil, err
	}

	s.emit(notify.Event{
		Recipient: s.counterpart(rec, uploaderRole),
		Type:      notify.TypeFilesAttached,
		Title:     "Files attached",
		Message:   fmt.Sprintf("%d file(s) were attached to a milestone", len(files)),
		Link:      "/my/progress",
		Priority:  notify.PriorityNormal,
		Metadata:  map[string]interface{}{"record_id": rec.ID, "milestone_id": milestoneID},
	})
	return rec, nil
}

// RemoveMilestoneFile detaches one evidence file under the per-role rules
func (s *GradingService) RemoveMilestoneFile(ctx context.Context, actor Actor, studentID, milestoneID, fileID string) (*GradeRecord, error) {
	uploaderRole, err := s.uploaderRole(actor, studentID)
	if err != nil {
		return nil, err
	}

	rec, err := s.mutateParticipant(ctx, actor, studentID, func(rec *GradeRecord) error {
		return rec.RemoveFile(milestoneID, fileID, uploaderRole)
	})
	if err != nil {
		return nil, err
	}

	s.emit(notify.Event{
		Recipient: s.counterpart(rec, uploaderRole),
		Type:      notify.TypeFilesAttached,
		Title:     "File removed",
		Message:   "A milestone file was removed",
		Link:      "/my/progress",
		Priority:  notify.PriorityLow,
		Metadata:  map[string]interface{}{"record_id": rec.ID, "milestone_id": milestoneID},
	})
	return rec, nil
}

// ============================================================================
// Committee Operations
// ============================================================================

// ListPendingForCommittee lists submitted records awaiting review for a
// subject the caller manages
func (s *GradingService) ListPendingForCommittee(ctx context.Context, actor Actor, subjectID string) ([]*GradeRecord, error) {
	if err := s.requireSubjectReviewer(ctx, actor, subjectID); err != nil {
		return nil, err
	}
	return s.store.FindBySubjectAndStatus(ctx, subjectID, StatusSubmitted)
}

// ReviewGrade performs the committee's approve/reject decision on a submitted
// record and alerts the supervisor and student.
func (s *GradingService) ReviewGrade(ctx context.Context, actor Actor, recordID, decision, comment string) (*GradeRecord, error) {
	rec, err := s.store.FindByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if err := s.requireSubjectReviewer(ctx, actor, rec.SubjectID); err != nil {
		return nil, err
	}

	if err := Review(rec, actor.ID, decision, comment); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, rec); err != nil {
		if errors.Is(err, ErrVersionConflict) {
			// Somebody touched the record between read and write; the review
			// decision must be re-issued against the fresh state.
			return nil, ErrVersionConflict
		}
		return nil, err
	}

	outcome := "approved"
	if rec.Status == StatusRejected {
		outcome = "rejected"
	}

	for _, recipient := range []string{rec.SupervisorID, rec.StudentID} {
		s.emit(notify.Event{
			Recipient: recipient,
			Type:      notify.TypeGradeReviewed,
			Title:     fmt.Sprintf("Grade %s", outcome),
			Message:   fmt.Sprintf("The committee %s the final grade", outcome),
			Link:      "/my/progress",
			Priority:  notify.PriorityHigh,
			Metadata:  map[string]interface{}{"record_id": rec.ID, "decision": decision},
		})
	}
	return rec, nil
}

// SubjectStatistics summarizes a subject's records for its reviewers
type SubjectStatistics struct {
	SubjectID    string         `json:"subject_id"`
	Total        int            `json:"total"`
	ByStatus     map[string]int `json:"by_status"`
	Passed       int            `json:"passed"`
	Failed       int            `json:"failed"`
	AverageGrade float64        `json:"average_grade"`
}

// GetSubjectStatistics aggregates status and pass/fail counts for a subject.
// Pass/fail follows the >= 5.0 convention over approved records.
func (s *GradingService) GetSubjectStatistics(ctx context.Context, actor Actor, subjectID string) (*SubjectStatistics, error) {
	if actor.Role != shared.RoleTrainingOffice {
		if err := s.requireSubjectReviewer(ctx, actor, subjectID); err != nil {
			return nil, err
		}
	}

	records, err := s.store.FindBySubjectAndStatus(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	stats := &SubjectStatistics{SubjectID: subjectID, ByStatus: make(map[string]int)}
	var gradeSum float64
	var graded int
	for _, rec := range records {
		stats.Total++
		stats.ByStatus[rec.Status]++

		if rec.Status == StatusApproved && rec.FinalGrade != nil {
			graded++
			gradeSum += *rec.FinalGrade
			if IsPassing(*rec.FinalGrade) {
				stats.Passed++
			} else {
				stats.Failed++
			}
		}
	}
	if graded > 0 {
		stats.AverageGrade = gradeSum / float64(graded)
	}
	return stats, nil
}

// ============================================================================
// Training Office Operations
// ============================================================================

// ListByStatus lists records across subjects for training office oversight
func (s *GradingService) ListByStatus(ctx context.Context, actor Actor, statuses ...string) ([]*GradeRecord, error) {
	if actor.Role != shared.RoleTrainingOffice {
		return nil, NewForbidden("only the training office can list records across subjects")
	}
	return s.store.FindByStatus(ctx, statuses...)
}

// ============================================================================
// Internal Helpers
// ============================================================================

// ownedRecord resolves the assignment, checks the supervisor relationship and
// lazily creates the record.
func (s *GradingService) ownedRecord(ctx context.Context, actor Actor, studentID string) (*GradeRecord, *shared.Assignment, error) {
	a, err := s.directory.AssignmentForStudent(ctx, studentID)
	if err != nil {
		return nil, nil, err
	}
	if a.SupervisorID != actor.ID {
		return nil, nil, NewForbidden("student %s is not assigned to you", studentID)
	}

	rec, err := s.store.GetOrCreate(ctx, a)
	if err != nil {
		return nil, nil, err
	}
	return rec, a, nil
}

// participantRecord is ownedRecord relaxed to also admit the record's student
func (s *GradingService) participantRecord(ctx context.Context, actor Actor, studentID string) (*GradeRecord, error) {
	a, err := s.directory.AssignmentForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	switch actor.Role {
	case shared.RoleFaculty:
		if a.SupervisorID != actor.ID {
			return nil, NewForbidden("student %s is not assigned to you", studentID)
		}
	case shared.RoleStudent:
		if actor.ID != studentID {
			return nil, NewForbidden("students may only access their own record")
		}
	default:
		return nil, NewForbidden("role %s cannot modify milestone files", actor.Role)
	}

	return s.store.GetOrCreate(ctx, a)
}

// mutateOwned runs a read-modify-write cycle on the supervisor's record,
// retrying once when a concurrent writer invalidated the version.
func (s *GradingService) mutateOwned(ctx context.Context, actor Actor, studentID string, apply func(*GradeRecord) error) (*GradeRecord, error) {
	return s.mutate(ctx, apply, func() (*GradeRecord, error) {
		rec, _, err := s.ownedRecord(ctx, actor, studentID)
		return rec, err
	})
}

// mutateParticipant is mutateOwned for operations open to the student as well
func (s *GradingService) mutateParticipant(ctx context.Context, actor Actor, studentID string, apply func(*GradeRecord) error) (*GradeRecord, error) {
	return s.mutate(ctx, apply, func() (*GradeRecord, error) {
		return s.participantRecord(ctx, actor, studentID)
	})
}

func (s *GradingService) mutate(ctx context.Context, apply func(*GradeRecord) error, load func() (*GradeRecord, error)) (*GradeRecord, error) {
	const attempts = 2

	for attempt := 1; attempt <= attempts; attempt++ {
		rec, err := load()
		if err != nil {
			return nil, err
		}
		if err := apply(rec); err != nil {
			return nil, err
		}
		err = s.store.Save(ctx, rec)
		if err == nil {
			return rec, nil
		}
		if !errors.Is(err, ErrVersionConflict) {
			return nil, err
		}
		log.Printf("[GradingService] Version conflict on record %s (attempt %d/%d)", rec.ID, attempt, attempts)
	}
	return nil, ErrVersionConflict
}

func (s *GradingService) uploaderRole(actor Actor, studentID string) (string, error) {
	switch actor.Role {
	case shared.RoleFaculty:
		return UploaderSupervisor, nil
	case shared.RoleStudent:
		if actor.ID != studentID {
			return "", NewForbidden("students may only access their own record")
		}
		return UploaderStudent, nil
	default:
		return "", NewForbidden("role %s cannot attach milestone files", actor.Role)
	}
}

// counterpart picks the other side of the student/supervisor pair
func (s *GradingService) counterpart(rec *GradeRecord, uploaderRole string) string {
	if uploaderRole == UploaderStudent {
		return rec.SupervisorID
	}
	return rec.StudentID
}

func (s *GradingService) requireSubjectReviewer(ctx context.Context, actor Actor, subjectID string) error {
	if actor.Role != shared.RoleCommittee {
		return NewForbidden("only committee members can review subject grades")
	}
	subject, err := s.directory.SubjectByID(ctx, subjectID)
	if err != nil {
		return err
	}
	if !subject.ManagedBy(actor.ID) {
		return NewForbidden("you do not manage subject %s", subjectID)
	}
	return nil
}

// emit delivers one notification. Delivery is best-effort and never affects
// the caller's result; failures are logged only.
func (s *GradingService) emit(event notify.Event) {
	send := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.notifier.Send(ctx, event); err != nil {
			log.Printf("[GradingService] Failed to deliver notification to %s: %v", event.Recipient, err)
		}
	}

	if s.SyncNotifications {
		send()
		return
	}
	go send()
}
