package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gradeAllComponents scores both components and applies the raised events
func gradeAllComponents(t *testing.T, rec *GradeRecord, supervisor, company float64) {
	t.Helper()
	events, err := rec.ApplyComponentUpdates([]ComponentUpdate{
		{Type: ComponentSupervisorScore, Score: &supervisor},
		{Type: ComponentCompanyScore, Score: &company},
	})
	require.NoError(t, err)
	ApplyEvents(rec, events)
}

// completeStartMilestone completes the start milestone and applies the events
func completeStartMilestone(t *testing.T, rec *GradeRecord) {
	t.Helper()
	events, err := rec.UpdateMilestoneStatus(rec.Milestones[0].ID, MilestoneCompleted, "", nil)
	require.NoError(t, err)
	ApplyEvents(rec, events)
}

func TestApplyEvents(t *testing.T) {
	t.Run("StartMilestonePromotesNotStarted", func(t *testing.T) {
		rec := newTestRecord()

		changed := ApplyEvents(rec, []Event{EventMilestoneCompleted})
		assert.True(t, changed)
		assert.Equal(t, StatusInProgress, rec.Status)
	})

	t.Run("MilestoneEventIgnoredPastNotStarted", func(t *testing.T) {
		rec := newTestRecord()
		rec.Status = StatusDraftCompleted

		changed := ApplyEvents(rec, []Event{EventMilestoneCompleted})
		assert.False(t, changed)
		assert.Equal(t, StatusDraftCompleted, rec.Status)
	})

	t.Run("AllGradedPromotesInProgress", func(t *testing.T) {
		rec := newTestRecord()
		rec.Status = StatusInProgress

		changed := ApplyEvents(rec, []Event{EventAllComponentsGraded})
		assert.True(t, changed)
		assert.Equal(t, StatusDraftCompleted, rec.Status)
	})

	t.Run("AllGradedReentersFromRejected", func(t *testing.T) {
		rec := newTestRecord()
		rec.Status = StatusRejected

		changed := ApplyEvents(rec, []Event{EventAllComponentsGraded})
		assert.True(t, changed)
		assert.Equal(t, StatusDraftCompleted, rec.Status)
	})

	t.Run("AllGradedIgnoredWhileNotStarted", func(t *testing.T) {
		rec := newTestRecord()

		changed := ApplyEvents(rec, []Event{EventAllComponentsGraded})
		assert.False(t, changed)
		assert.Equal(t, StatusNotStarted, rec.Status)
	})
}

func TestSubmit(t *testing.T) {
	t.Run("HappyPath", func(t *testing.T) {
		rec := newTestRecord()
		completeStartMilestone(t, rec)
		gradeAllComponents(t, rec, 8.0, 9.0)
		require.Equal(t, StatusDraftCompleted, rec.Status)

		require.NoError(t, Submit(rec, "completed all tasks on schedule"))
		assert.Equal(t, StatusSubmitted, rec.Status)
		assert.True(t, rec.SubmittedToBCN)
		require.NotNil(t, rec.SubmittedAt)
		assert.Equal(t, "completed all tasks on schedule", rec.SupervisorFinalComment)
	})

	t.Run("WrongStatus", func(t *testing.T) {
		rec := newTestRecord()

		err := Submit(rec, "too early")
		require.Error(t, err)
		assert.Equal(t, KindInvalidState, KindOf(err))
	})

	t.Run("UnscoredComponentNamedInError", func(t *testing.T) {
		rec := newTestRecord()
		rec.Status = StatusDraftCompleted
		rec.GradeComponents[0].Score = 8.0 // company score still zero

		err := Submit(rec, "comment")
		require.Error(t, err)
		assert.Equal(t, KindValidation, KindOf(err))
		assert.Contains(t, err.Error(), ComponentCompanyScore)
	})

	t.Run("MissingFinalComment", func(t *testing.T) {
		rec := newTestRecord()
		completeStartMilestone(t, rec)
		gradeAllComponents(t, rec, 8.0, 9.0)

		err := Submit(rec, "")
		require.Error(t, err)
		assert.Equal(t, KindValidation, KindOf(err))
	})
}

func TestReview(t *testing.T) {
	submittedRecord := func(t *testing.T) *GradeRecord {
		rec := newTestRecord()
		completeStartMilestone(t, rec)
		gradeAllComponents(t, rec, 8.0, 9.0)
		require.NoError(t, Submit(rec, "ready for review"))
		return rec
	}

	t.Run("Approve", func(t *testing.T) {
		rec := submittedRecord(t)

		require.NoError(t, Review(rec, "committee-001", DecisionApprove, "well documented"))
		assert.Equal(t, StatusApproved, rec.Status)
		assert.Equal(t, "committee-001", rec.ApprovedBy)
		require.NotNil(t, rec.ApprovedAt)
		assert.Equal(t, "well documented", rec.BCNComment)
	})

	t.Run("RejectKeepsGradingData", func(t *testing.T) {
		rec := submittedRecord(t)

		require.NoError(t, Review(rec, "committee-001", DecisionReject, "company evaluation missing"))
		assert.Equal(t, StatusRejected, rec.Status)
		require.NotNil(t, rec.FinalGrade)
		assert.Len(t, rec.Milestones, 1)
		assert.Equal(t, 8.0, rec.GradeComponents[0].Score)
	})

	t.Run("RejectedRecordCanBeResubmitted", func(t *testing.T) {
		rec := submittedRecord(t)
		require.NoError(t, Review(rec, "committee-001", DecisionReject, "revise the score"))

		// Revising a component re-enters draft_completed, allowing a new
		// submission cycle.
		gradeAllComponents(t, rec, 7.5, 9.0)
		require.Equal(t, StatusDraftCompleted, rec.Status)
		require.NoError(t, Submit(rec, "revised per committee feedback"))
		assert.Equal(t, StatusSubmitted, rec.Status)
	})

	t.Run("WrongStatus", func(t *testing.T) {
		rec := newTestRecord()

		err := Review(rec, "committee-001", DecisionApprove, "")
		require.Error(t, err)
		assert.Equal(t, KindInvalidState, KindOf(err))
	})

	t.Run("UnknownDecision", func(t *testing.T) {
		rec := submittedRecord(t)

		err := Review(rec, "committee-001", "defer", "")
		require.Error(t, err)
		assert.Equal(t, KindValidation, KindOf(err))
		assert.Equal(t, StatusSubmitted, rec.Status)
	})
}
