// ============================================================================
// internal/gateway/handlers/committee_handler.go
// Committee (BCN) review endpoints
// ============================================================================

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"internhub/internal/gateway/util"
	"internhub/internal/grading"
)

// CommitteeHandler serves the department committee's approval stage
type CommitteeHandler struct {
	Service *grading.GradingService
}

// ReviewGradeRequest is the body for POST /committee/records/{record_id}/review
type ReviewGradeRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
	Comment  string `json:"comment"`
}

// ListPending handles GET /committee/subjects/{subject_id}/pending
// Lists submitted records awaiting review for a managed subject.
func (h *CommitteeHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	subjectID := chi.URLParam(r, "subject_id")
	if subjectID == "" {
		util.WriteJSONError(w, http.StatusBadRequest, "subject_id is required")
		return
	}

	records, err := h.Service.ListPendingForCommittee(r.Context(), actor, subjectID)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"records": records,
		"total":   len(records),
	})
}

// ReviewGrade handles POST /committee/records/{record_id}/review
func (h *CommitteeHandler) ReviewGrade(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	recordID := chi.URLParam(r, "record_id")

	var req ReviewGradeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	rec, err := h.Service.ReviewGrade(r.Context(), actor, recordID, req.Decision, req.Comment)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, rec)
}

// GetStatistics handles GET /committee/subjects/{subject_id}/statistics
func (h *CommitteeHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	subjectID := chi.URLParam(r, "subject_id")
	if subjectID == "" {
		util.WriteJSONError(w, http.StatusBadRequest, "subject_id is required")
		return
	}

	stats, err := h.Service.GetSubjectStatistics(r.Context(), actor, subjectID)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, stats)
}
