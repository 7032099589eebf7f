package grading

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"internhub/internal/shared"
)

// newTestRecord builds a fresh record for one internship assignment
func newTestRecord() *GradeRecord {
	return NewGradeRecord(testAssignment())
}

func testAssignment() *shared.Assignment {
	now := time.Now()
	return &shared.Assignment{
		ID:           "ASG-test",
		StudentID:    "student-001",
		SupervisorID: "faculty-001",
		SubjectID:    "SUBJ-001",
		WorkType:     shared.WorkTypeInternship,
		StartDate:    now.AddDate(0, 0, -7),
		EndDate:      now.AddDate(0, 3, 0),
		CreatedAt:    now,
	}
}

func TestNewGradeRecordDefaults(t *testing.T) {
	rec := newTestRecord()

	assert.Equal(t, StatusNotStarted, rec.Status)
	assert.Equal(t, int64(1), rec.Version)

	require.Len(t, rec.Milestones, 1)
	assert.Equal(t, MilestoneTypeStart, rec.Milestones[0].Type)
	assert.False(t, rec.Milestones[0].IsCustom)
	assert.Equal(t, MilestonePending, rec.Milestones[0].Status)

	require.Len(t, rec.GradeComponents, 2)
	assert.Equal(t, DefaultSupervisorWeight, rec.GradeComponents[0].Weight)
	assert.Equal(t, DefaultCompanyWeight, rec.GradeComponents[1].Weight)
	assert.Zero(t, rec.GradeComponents[0].Score)
	assert.Nil(t, rec.FinalGrade)
}

func TestUpdateMilestoneStatus(t *testing.T) {
	t.Run("CompletingStartMilestoneEmitsEvent", func(t *testing.T) {
		rec := newTestRecord()

		events, err := rec.UpdateMilestoneStatus(rec.Milestones[0].ID, MilestoneCompleted, "kickoff done", nil)
		require.NoError(t, err)
		assert.Contains(t, events, EventMilestoneCompleted)
		require.NotNil(t, rec.Milestones[0].CompletedAt)
	})

	t.Run("CompletedAtSetOnceOnly", func(t *testing.T) {
		rec := newTestRecord()
		id := rec.Milestones[0].ID

		_, err := rec.UpdateMilestoneStatus(id, MilestoneCompleted, "", nil)
		require.NoError(t, err)
		first := *rec.Milestones[0].CompletedAt

		// Reopen and re-complete; the original completion time is kept.
		_, err = rec.UpdateMilestoneStatus(id, MilestoneInProgress, "", nil)
		require.NoError(t, err)
		_, err = rec.UpdateMilestoneStatus(id, MilestoneCompleted, "", nil)
		require.NoError(t, err)
		assert.Equal(t, first, *rec.Milestones[0].CompletedAt)
	})

	t.Run("RecompletionEmitsNoEvent", func(t *testing.T) {
		rec := newTestRecord()
		id := rec.Milestones[0].ID

		_, err := rec.UpdateMilestoneStatus(id, MilestoneCompleted, "", nil)
		require.NoError(t, err)

		events, err := rec.UpdateMilestoneStatus(id, MilestoneCompleted, "", nil)
		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("CustomMilestoneCompletionEmitsNoEvent", func(t *testing.T) {
		rec := newTestRecord()
		m := rec.AddCustomMilestone("Midterm report", "", time.Now().AddDate(0, 1, 0))

		events, err := rec.UpdateMilestoneStatus(m.ID, MilestoneCompleted, "", nil)
		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("UnknownStatus", func(t *testing.T) {
		rec := newTestRecord()

		_, err := rec.UpdateMilestoneStatus(rec.Milestones[0].ID, "done", "", nil)
		require.Error(t, err)
		assert.Equal(t, KindValidation, KindOf(err))
	})

	t.Run("UnknownMilestone", func(t *testing.T) {
		rec := newTestRecord()

		_, err := rec.UpdateMilestoneStatus("missing", MilestoneCompleted, "", nil)
		require.Error(t, err)
		assert.Equal(t, KindNotFound, KindOf(err))
	})
}

func TestDeleteMilestone(t *testing.T) {
	t.Run("CustomMilestoneIsDeletable", func(t *testing.T) {
		rec := newTestRecord()
		m := rec.AddCustomMilestone("Midterm report", "", time.Now().AddDate(0, 1, 0))

		require.NoError(t, rec.DeleteMilestone(m.ID))
		assert.Len(t, rec.Milestones, 1)
	})

	t.Run("StartMilestoneIsPermanent", func(t *testing.T) {
		rec := newTestRecord()

		err := rec.DeleteMilestone(rec.Milestones[0].ID)
		require.Error(t, err)
		assert.Equal(t, KindValidation, KindOf(err))
		assert.Len(t, rec.Milestones, 1)
	})
}

func TestEditMilestone(t *testing.T) {
	rec := newTestRecord()
	id := rec.Milestones[0].ID

	title := "Engagement kickoff"
	due := time.Now().AddDate(0, 0, 3)
	require.NoError(t, rec.EditMilestone(id, MilestoneEdit{Title: &title, DueDate: &due}))
	assert.Equal(t, title, rec.Milestones[0].Title)
	assert.Equal(t, due, rec.Milestones[0].DueDate)

	empty := ""
	err := rec.EditMilestone(id, MilestoneEdit{Title: &empty})
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestAttachFiles(t *testing.T) {
	t.Run("TagsUploaderAndGeneratesIDs", func(t *testing.T) {
		rec := newTestRecord()
		id := rec.Milestones[0].ID

		files := []FileRef{{FileName: "report.pdf", FileURL: "https://files.example.com/report.pdf", FileSize: 1024}}
		require.NoError(t, rec.AttachFiles(id, files, UploaderStudent))

		docs := rec.Milestones[0].SubmittedDocuments
		require.Len(t, docs, 1)
		assert.NotEmpty(t, docs[0].ID)
		assert.Equal(t, UploaderStudent, docs[0].UploadedBy)
		assert.False(t, docs[0].UploadedAt.IsZero())
	})

	t.Run("DocumentCapRejectsCallWhole", func(t *testing.T) {
		rec := newTestRecord()
		id := rec.Milestones[0].ID

		var files []FileRef
		for i := 0; i < MaxMilestoneDocuments; i++ {
			files = append(files, FileRef{FileName: fmt.Sprintf("doc-%d.pdf", i), FileURL: "https://files.example.com/doc"})
		}
		require.NoError(t, rec.AttachFiles(id, files, UploaderSupervisor))
		require.Len(t, rec.Milestones[0].SubmittedDocuments, MaxMilestoneDocuments)

		err := rec.AttachFiles(id, []FileRef{{FileName: "extra.pdf", FileURL: "https://files.example.com/extra"}}, UploaderSupervisor)
		require.Error(t, err)
		assert.Equal(t, KindLimitExceeded, KindOf(err))
		assert.Len(t, rec.Milestones[0].SubmittedDocuments, MaxMilestoneDocuments)
	})

	t.Run("UnknownUploaderRole", func(t *testing.T) {
		rec := newTestRecord()

		err := rec.AttachFiles(rec.Milestones[0].ID, []FileRef{{FileName: "x.pdf"}}, "committee")
		require.Error(t, err)
		assert.Equal(t, KindValidation, KindOf(err))
	})
}

func TestRemoveFile(t *testing.T) {
	rec := newTestRecord()
	id := rec.Milestones[0].ID

	require.NoError(t, rec.AttachFiles(id, []FileRef{{FileName: "mine.pdf"}}, UploaderStudent))
	require.NoError(t, rec.AttachFiles(id, []FileRef{{FileName: "theirs.pdf"}}, UploaderSupervisor))
	docs := rec.Milestones[0].SubmittedDocuments
	require.Len(t, docs, 2)
	studentFileID, supervisorFileID := docs[0].ID, docs[1].ID

	t.Run("StudentCannotRemoveSupervisorFile", func(t *testing.T) {
		err := rec.RemoveFile(id, supervisorFileID, UploaderStudent)
		require.Error(t, err)
		assert.Equal(t, KindForbidden, KindOf(err))
	})

	t.Run("StudentRemovesOwnFile", func(t *testing.T) {
		require.NoError(t, rec.RemoveFile(id, studentFileID, UploaderStudent))
		assert.Len(t, rec.Milestones[0].SubmittedDocuments, 1)
	})

	t.Run("SupervisorRemovesAnyFile", func(t *testing.T) {
		require.NoError(t, rec.RemoveFile(id, supervisorFileID, UploaderSupervisor))
		assert.Empty(t, rec.Milestones[0].SubmittedDocuments)
	})

	t.Run("MissingFile", func(t *testing.T) {
		err := rec.RemoveFile(id, "missing", UploaderSupervisor)
		require.Error(t, err)
		assert.Equal(t, KindNotFound, KindOf(err))
	})
}

func TestProgressPercentage(t *testing.T) {
	rec := newTestRecord()
	assert.Equal(t, 0, rec.ProgressPercentage())

	rec.AddCustomMilestone("Midterm report", "", time.Now().AddDate(0, 1, 0))
	rec.AddCustomMilestone("Final report", "", time.Now().AddDate(0, 2, 0))

	_, err := rec.UpdateMilestoneStatus(rec.Milestones[0].ID, MilestoneCompleted, "", nil)
	require.NoError(t, err)
	assert.Equal(t, 33, rec.ProgressPercentage())

	_, err = rec.UpdateMilestoneStatus(rec.Milestones[1].ID, MilestoneCompleted, "", nil)
	require.NoError(t, err)
	assert.Equal(t, 67, rec.ProgressPercentage())

	_, err = rec.UpdateMilestoneStatus(rec.Milestones[2].ID, MilestoneCompleted, "", nil)
	require.NoError(t, err)
	assert.Equal(t, 100, rec.ProgressPercentage())

	empty := &GradeRecord{}
	assert.Equal(t, 0, empty.ProgressPercentage())
}
