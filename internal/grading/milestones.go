// ============================================================================
// internal/grading/milestones.go
// Milestone tracker: checkpoint state, evidence files, progress
// ============================================================================

package grading

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// MilestoneEdit carries a partial milestone update. Nil fields keep the
// current value.
type MilestoneEdit struct {
	Title       *string
	Description *string
	DueDate     *time.Time
}

// UpdateMilestoneStatus moves a milestone to the given status, recording
// CompletedAt on the first transition into completed and attaching any
// supervisor-provided documents. Completing the start milestone emits
// EventMilestoneCompleted so the pipeline can promote a not_started record.
func (r *GradeRecord) UpdateMilestoneStatus(milestoneID, status, notes string, documents []FileRef) ([]Event, error) {
	if !IsValidMilestoneStatus(status) {
		return nil, NewValidation("unknown milestone status %q", status)
	}

	m := r.findMilestone(milestoneID)
	if m == nil {
		return nil, NewNotFound("milestone %s not found", milestoneID)
	}

	wasCompleted := m.Status == MilestoneCompleted
	m.Status = status
	if notes != "" {
		m.Notes = notes
	}

	if status == MilestoneCompleted && m.CompletedAt == nil {
		now := time.Now()
		m.CompletedAt = &now
	}

	if len(documents) > 0 {
		if err := r.attachTo(m, documents, UploaderSupervisor); err != nil {
			return nil, err
		}
	}

	var events []Event
	if status == MilestoneCompleted && !wasCompleted && m.Type == MilestoneTypeStart {
		events = append(events, EventMilestoneCompleted)
	}
	return events, nil
}

// AddCustomMilestone appends a supervisor-defined checkpoint
func (r *GradeRecord) AddCustomMilestone(title, description string, dueDate time.Time) *Milestone {
	m := Milestone{
		ID:                 uuid.NewString(),
		Type:               MilestoneTypeCustom,
		IsCustom:           true,
		Title:              title,
		Description:        description,
		Status:             MilestonePending,
		DueDate:            dueDate,
		SubmittedDocuments: []FileRef{},
	}
	r.Milestones = append(r.Milestones, m)
	return &r.Milestones[len(r.Milestones)-1]
}

// EditMilestone updates title/description/due date on any milestone of the
// record, including the default start milestone.
func (r *GradeRecord) EditMilestone(milestoneID string, edit MilestoneEdit) error {
	m := r.findMilestone(milestoneID)
	if m == nil {
		return NewNotFound("milestone %s not found", milestoneID)
	}

	if edit.Title != nil {
		if *edit.Title == "" {
			return NewValidation("milestone title cannot be empty")
		}
		m.Title = *edit.Title
	}
	if edit.Description != nil {
		m.Description = *edit.Description
	}
	if edit.DueDate != nil {
		m.DueDate = *edit.DueDate
	}
	return nil
}

// DeleteMilestone removes a custom milestone. The default start milestone is
// permanent.
func (r *GradeRecord) DeleteMilestone(milestoneID string) error {
	for i := range r.Milestones {
		if r.Milestones[i].ID != milestoneID {
			continue
		}
		if !r.Milestones[i].IsCustom {
			return NewValidation("only custom milestones can be deleted")
		}
		r.Milestones = append(r.Milestones[:i], r.Milestones[i+1:]...)
		return nil
	}
	return NewNotFound("milestone %s not found", milestoneID)
}

// AttachFiles appends evidence files to a milestone, tagging each with the
// uploader role. The cumulative document list is capped at
// MaxMilestoneDocuments; a call that would exceed the cap is rejected whole.
func (r *GradeRecord) AttachFiles(milestoneID string, files []FileRef, uploaderRole string) error {
	if uploaderRole != UploaderStudent && uploaderRole != UploaderSupervisor {
		return NewValidation("unknown uploader role %q", uploaderRole)
	}
	if len(files) == 0 {
		return NewValidation("no files provided")
	}

	m := r.findMilestone(milestoneID)
	if m == nil {
		return NewNotFound("milestone %s not found", milestoneID)
	}

	return r.attachTo(m, files, uploaderRole)
}

func (r *GradeRecord) attachTo(m *Milestone, files []FileRef, uploaderRole string) error {
	if len(m.SubmittedDocuments)+len(files) > MaxMilestoneDocuments {
		return NewLimitExceeded("milestone %s already has %d of %d allowed documents",
			m.ID, len(m.SubmittedDocuments), MaxMilestoneDocuments)
	}

	now := time.Now()
	for _, f := range files {
		entry := f
		if entry.ID == "" {
			entry.ID = uuid.NewString()
		}
		entry.UploadedBy = uploaderRole
		entry.UploadedAt = now
		m.SubmittedDocuments = append(m.SubmittedDocuments, entry)
	}
	return nil
}

// RemoveFile detaches an evidence file. A student may only remove files they
// uploaded; the supervisor may remove any.
func (r *GradeRecord) RemoveFile(milestoneID, fileID, callerRole string) error {
	m := r.findMilestone(milestoneID)
	if m == nil {
		return NewNotFound("milestone %s not found", milestoneID)
	}

	for i := range m.SubmittedDocuments {
		if m.SubmittedDocuments[i].ID != fileID {
			continue
		}
		if callerRole == UploaderStudent && m.SubmittedDocuments[i].UploadedBy != UploaderStudent {
			return NewForbidden("students may only remove their own files")
		}
		m.SubmittedDocuments = append(m.SubmittedDocuments[:i], m.SubmittedDocuments[i+1:]...)
		return nil
	}
	return NewNotFound("file %s not found on milestone %s", fileID, milestoneID)
}

// ProgressPercentage is the rounded share of completed milestones, 0 when the
// record has none
func (r *GradeRecord) ProgressPercentage() int {
	if len(r.Milestones) == 0 {
		return 0
	}
	completed := 0
	for _, m := range r.Milestones {
		if m.Status == MilestoneCompleted {
			completed++
		}
	}
	return int(math.Round(100 * float64(completed) / float64(len(r.Milestones))))
}

func (r *GradeRecord) findMilestone(milestoneID string) *Milestone {
	for i := range r.Milestones {
		if r.Milestones[i].ID == milestoneID {
			return &r.Milestones[i]
		}
	}
	return nil
}
