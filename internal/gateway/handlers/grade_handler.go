// ============================================================================
// internal/gateway/handlers/grade_handler.go
// Supervisor-facing grading endpoints (records, milestones, components)
// ============================================================================

package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"internhub/internal/gateway/util"
	"internhub/internal/grading"
)

// GradeHandler serves the supervising faculty's grading workflow
type GradeHandler struct {
	Service *grading.GradingService
}

// ============================================================================
// Request DTOs
// ============================================================================

// FileRefRequest mirrors the JSON shape of an uploaded file reference
type FileRefRequest struct {
	FileName string `json:"file_name" validate:"required"`
	FileURL  string `json:"file_url" validate:"required"`
	FileSize int64  `json:"file_size" validate:"gte=0"`
}

func (f FileRefRequest) toDomain() grading.FileRef {
	return grading.FileRef{FileName: f.FileName, FileURL: f.FileURL, FileSize: f.FileSize}
}

func toFileRefs(reqs []FileRefRequest) []grading.FileRef {
	files := make([]grading.FileRef, 0, len(reqs))
	for _, req := range reqs {
		files = append(files, req.toDomain())
	}
	return files
}

// UpdateMilestoneStatusRequest is the body for PATCH .../milestones/{milestone_id}
type UpdateMilestoneStatusRequest struct {
	Status    string           `json:"status" validate:"required,oneof=pending in_progress completed overdue"`
	Notes     string           `json:"notes"`
	Documents []FileRefRequest `json:"documents" validate:"omitempty,dive"`
}

// AddMilestoneRequest is the body for POST .../milestones
type AddMilestoneRequest struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date" validate:"required"`
}

// EditMilestoneRequest is the body for PUT .../milestones/{milestone_id}
type EditMilestoneRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
}

// ComponentUpdateRequest carries one grade component write
type ComponentUpdateRequest struct {
	Type    string   `json:"type" validate:"required,oneof=supervisor_score company_score"`
	Score   *float64 `json:"score" validate:"omitempty,gte=0,lte=10"`
	Weight  *float64 `json:"weight" validate:"omitempty,gte=0,lte=1"`
	Comment *string  `json:"comment"`
}

// UpdateComponentsRequest is the body for PUT .../components
type UpdateComponentsRequest struct {
	Components []ComponentUpdateRequest `json:"components" validate:"required,min=1,dive"`
}

// SubmitGradeRequest is the body for POST .../submit
type SubmitGradeRequest struct {
	Comment string `json:"comment"`
}

// AttachFilesRequest is the body for POST .../milestones/{milestone_id}/files
type AttachFilesRequest struct {
	Files []FileRefRequest `json:"files" validate:"required,min=1,max=10,dive"`
}

// ============================================================================
// Record Endpoints
// ============================================================================

// GetOrCreateForStudent handles GET /grades/students/{student_id}
// Resolves (lazily creating) the grade record for one assigned student.
func (h *GradeHandler) GetOrCreateForStudent(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	studentID := chi.URLParam(r, "student_id")
	if studentID == "" {
		util.WriteJSONError(w, http.StatusBadRequest, "student_id is required")
		return
	}

	rec, err := h.Service.GetOrCreateForStudent(r.Context(), actor, studentID)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, rec)
}

// ListMine handles GET /grades/mine
// Lists the caller's grade records with an optional status filter.
// Query Params: status (optional)
func (h *GradeHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var statuses []string
	if status := r.URL.Query().Get("status"); status != "" {
		statuses = append(statuses, status)
	}

	records, err := h.Service.ListForSupervisor(r.Context(), actor, statuses...)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	type listItem struct {
		*grading.GradeRecord
		Progress int `json:"progress"`
	}
	items := make([]listItem, 0, len(records))
	for _, rec := range records {
		items = append(items, listItem{GradeRecord: rec, Progress: rec.ProgressPercentage()})
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"records": items,
		"total":   len(items),
	})
}

// ============================================================================
// Milestone Endpoints
// ============================================================================

// UpdateMilestoneStatus handles PATCH /grades/students/{student_id}/milestones/{milestone_id}
func (h *GradeHandler) UpdateMilestoneStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	studentID := chi.URLParam(r, "student_id")
	milestoneID := chi.URLParam(r, "milestone_id")

	var req UpdateMilestoneStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	rec, err := h.Service.UpdateMilestoneStatus(r.Context(), actor, studentID, milestoneID,
		req.Status, req.Notes, toFileRefs(req.Documents))
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, rec)
}

// AddMilestone handles POST /grades/students/{student_id}/milestones
func (h *GradeHandler) AddMilestone(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	studentID := chi.URLParam(r, "student_id")

	var req AddMilestoneRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	rec, err := h.Service.AddCustomMilestone(r.Context(), actor, studentID, req.Title, req.Description, req.DueDate)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusCreated, rec)
}

// EditMilestone handles PUT /grades/students/{student_id}/milestones/{milestone_id}
func (h *GradeHandler) EditMilestone(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	studentID := chi.URLParam(r, "student_id")
	milestoneID := chi.URLParam(r, "milestone_id")

	var req EditMilestoneRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	edit := grading.MilestoneEdit{Title: req.Title, Description: req.Description, DueDate: req.DueDate}
	rec, err := h.Service.EditMilestone(r.Context(), actor, studentID, milestoneID, edit)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, rec)
}

// DeleteMilestone handles DELETE /grades/students/{student_id}/milestones/{milestone_id}
func (h *GradeHandler) DeleteMilestone(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	studentID := chi.URLParam(r, "student_id")
	milestoneID := chi.URLParam(r, "milestone_id")

	rec, err := h.Service.DeleteMilestone(r.Context(), actor, studentID, milestoneID)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, rec)
}

// AttachFiles handles POST /grades/students/{student_id}/milestones/{milestone_id}/files
// Open to the record's supervisor and its student.
func (h *GradeHandler) AttachFiles(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	studentID := chi.URLParam(r, "student_id")
	milestoneID := chi.URLParam(r, "milestone_id")

	var req AttachFilesRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	rec, err := h.Service.AttachMilestoneFiles(r.Context(), actor, studentID, milestoneID, toFileRefs(req.Files))
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, rec)
}

// RemoveFile handles DELETE /grades/students/{student_id}/milestones/{milestone_id}/files/{file_id}
func (h *GradeHandler) RemoveFile(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	studentID := chi.URLParam(r, "student_id")
	milestoneID := chi.URLParam(r, "milestone_id")
	fileID := chi.URLParam(r, "file_id")

	rec, err := h.Service.RemoveMilestoneFile(r.Context(), actor, studentID, milestoneID, fileID)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, rec)
}

// ============================================================================
// Component and Submission Endpoints
// ============================================================================

// UpdateComponents handles PUT /grades/students/{student_id}/components
func (h *GradeHandler) UpdateComponents(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	studentID := chi.URLParam(r, "student_id")

	var req UpdateComponentsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	updates := make([]grading.ComponentUpdate, 0, len(req.Components))
	for _, c := range req.Components {
		updates = append(updates, grading.ComponentUpdate{
			Type: c.Type, Score: c.Score, Weight: c.Weight, Comment: c.Comment,
		})
	}

	rec, err := h.Service.UpdateGradeComponents(r.Context(), actor, studentID, updates)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, rec)
}

// SubmitGrade handles POST /grades/students/{student_id}/submit
func (h *GradeHandler) SubmitGrade(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	studentID := chi.URLParam(r, "student_id")

	var req SubmitGradeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	rec, err := h.Service.SubmitGrade(r.Context(), actor, studentID, req.Comment)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, rec)
}
