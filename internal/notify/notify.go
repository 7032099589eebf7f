// ============================================================================
// internal/notify/notify.go
// NotificationPort contract and event model
// ============================================================================

package notify

import (
	"context"
	"time"
)

// Event types emitted by the grading workflow
const (
	TypeMilestoneUpdated = "milestone_updated"
	TypeFilesAttached    = "files_attached"
	TypeGradeUpdated     = "grade_updated"
	TypeGradeSubmitted   = "grade_submitted"
	TypeGradeReviewed    = "grade_reviewed"
	TypeRecordCreated    = "record_created"
)

// Priorities
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
)

// Event is one structured notification addressed to a single recipient
type Event struct {
	Recipient string                 `bson:"recipient" json:"recipient"`
	Type      string                 `bson:"type" json:"type"`
	Title     string                 `bson:"title" json:"title"`
	Message   string                 `bson:"message" json:"message"`
	Link      string                 `bson:"link,omitempty" json:"link,omitempty"`
	Priority  string                 `bson:"priority" json:"priority"`
	Metadata  map[string]interface{} `bson:"metadata,omitempty" json:"metadata,omitempty"`
}

// Port delivers notification events. Delivery is best-effort: callers log
// failures and never roll back the state change that triggered the event.
type Port interface {
	Send(ctx context.Context, event Event) error
}

// Notification is a stored (inbox) notification
type Notification struct {
	ID        string                 `bson:"_id" json:"id"`
	Recipient string                 `bson:"recipient" json:"recipient"`
	Type      string                 `bson:"type" json:"type"`
	Title     string                 `bson:"title" json:"title"`
	Message   string                 `bson:"message" json:"message"`
	Link      string                 `bson:"link,omitempty" json:"link,omitempty"`
	Priority  string                 `bson:"priority" json:"priority"`
	Metadata  map[string]interface{} `bson:"metadata,omitempty" json:"metadata,omitempty"`
	Read      bool                   `bson:"read" json:"read"`
	CreatedAt time.Time              `bson:"created_at" json:"created_at"`
}
