// ============================================================================
// internal/gateway/handlers/office_handler.go
// Training office oversight endpoints
// ============================================================================

package handlers

import (
	"net/http"

	"internhub/internal/gateway/util"
	"internhub/internal/grading"
)

// OfficeHandler serves cross-subject oversight for the training office
type OfficeHandler struct {
	Service *grading.GradingService
}

// ListRecords handles GET /office/records
// Lists grade records across all subjects, optionally filtered by status.
// Query Params: status (optional, repeatable)
func (h *OfficeHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	statuses := r.URL.Query()["status"]

	records, err := h.Service.ListByStatus(r.Context(), actor, statuses...)
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
