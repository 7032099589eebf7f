// ============================================================================
// internal/grading/pipeline.go
// Approval pipeline: the single owner of record status transitions
// ============================================================================

package grading

import (
	"time"
)

// Event is a domain event raised by milestone/component mutation and consumed
// here. Keeping status changes behind events means no caller ever writes
// Status directly.
type Event string

const (
	// EventMilestoneCompleted fires when the start milestone transitions
	// into completed
	EventMilestoneCompleted Event = "milestone_completed"

	// EventAllComponentsGraded fires when every grade component carries a
	// score above zero
	EventAllComponentsGraded Event = "all_components_graded"
)

// Review decisions accepted by the committee stage
const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

// ApplyEvents walks the raised events and performs the automatic transitions:
//
//	not_started     --(start milestone completed)--> in_progress
//	in_progress     --(all components graded)-----> draft_completed
//	rejected        --(all components graded)-----> draft_completed (re-entry)
//
// It returns true when the record status changed.
func ApplyEvents(r *GradeRecord, events []Event) bool {
	changed := false
	for _, ev := range events {
		switch ev {
		case EventMilestoneCompleted:
			if r.Status == StatusNotStarted {
				r.Status = StatusInProgress
				changed = true
			}
		case EventAllComponentsGraded:
			if r.Status == StatusInProgress || r.Status == StatusRejected {
				r.Status = StatusDraftCompleted
				changed = true
			}
		}
	}
	return changed
}

// Submit performs the explicit supervisor transition draft_completed ->
// submitted. Preconditions: every component scored above zero and a non-empty
// final comment. Violations name the missing precondition.
func Submit(r *GradeRecord, finalComment string) error {
	if r.Status != StatusDraftCompleted {
		return NewInvalidState("cannot submit grade from status %q, record must be draft_completed", r.Status)
	}

	for _, c := range r.GradeComponents {
		if c.Score <= 0 {
			return NewValidation("component %s has no score yet", c.Type)
		}
	}

	if finalComment != "" {
		r.SupervisorFinalComment = finalComment
	}
	if r.SupervisorFinalComment == "" {
		return NewValidation("supervisor final comment is required before submission")
	}

	now := time.Now()
	r.Status = StatusSubmitted
	r.SubmittedToBCN = true
	r.SubmittedAt = &now
	return nil
}

// Review performs the explicit committee transition submitted -> approved or
// submitted -> rejected. Rejection keeps all milestone and component data so
// the supervisor can revise and resubmit.
func Review(r *GradeRecord, reviewerID, decision, comment string) error {
	if r.Status != StatusSubmitted {
		return NewInvalidState("cannot review grade in status %q, record must be submitted", r.Status)
	}

	now := time.Now()
	switch decision {
	case DecisionApprove:
		r.Status = StatusApproved
	case DecisionReject:
		r.Status = StatusRejected
	default:
		return NewValidation("unknown review decision %q", decision)
	}

	r.ApprovedBy = reviewerID
	r.ApprovedAt = &now
	r.BCNComment = comment
	return nil
}
