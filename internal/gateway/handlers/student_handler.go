// ============================================================================
// internal/gateway/handlers/student_handler.go
// Student self-service endpoints: progress view and notification inbox
// ============================================================================

package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"

	"internhub/internal/gateway/util"
	"internhub/internal/grading"
	"internhub/internal/notify"
)

// NotificationInbox is the inbox surface the gateway reads from
type NotificationInbox interface {
	ListForRecipient(ctx context.Context, recipient string, unreadOnly bool) ([]notify.Notification, error)
	MarkRead(ctx context.Context, recipient, notificationID string) error
}

// StudentHandler serves the student's own progress and inbox
type StudentHandler struct {
	Service *grading.GradingService
	Inbox   NotificationInbox
}

// GetMyProgress handles GET /me/progress
func (h *StudentHandler) GetMyProgress(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	view, err := h.Service.GetMyProgress(r.Context(), actor)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, view)
}

// ListNotifications handles GET /me/notifications
// Query Params: unread=true (optional)
func (h *StudentHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"

	notifications, err := h.Inbox.ListForRecipient(r.Context(), actor.ID, unreadOnly)
	if err != nil {
		util.WriteJSONError(w, http.StatusInternalServerError, "Failed to load notifications")
		return
	}
	if notifications == nil {
		notifications = []notify.Notification{}
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"notifications": notifications,
		"total":         len(notifications),
	})
}

// MarkNotificationRead handles POST /me/notifications/{notification_id}/read
func (h *StudentHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	notificationID := chi.URLParam(r, "notification_id")

	if err := h.Inbox.MarkRead(r.Context(), actor.ID, notificationID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			util.WriteJSONError(w, http.StatusNotFound, "Notification not found")
			return
		}
		util.WriteJSONError(w, http.StatusInternalServerError, "Failed to mark notification as read")
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Notification marked as read",
	})
}
