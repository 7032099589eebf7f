// ============================================================================
// internal/notify/mongo.go
// MongoDB-backed notification store (delivery target + user inbox)
// ============================================================================

package notify

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"internhub/internal/shared"
)

// MongoNotifier persists events into the notifications collection, which
// doubles as the per-user inbox the gateway serves.
type MongoNotifier struct {
	col *mongo.Collection
}

// NewMongoNotifier creates a MongoNotifier on the notifications collection
func NewMongoNotifier(db *mongo.Database) *MongoNotifier {
	return &MongoNotifier{col: db.Collection(shared.ColNotifications)}
}

// Send implements Port
func (n *MongoNotifier) Send(ctx context.Context, event Event) error {
	doc := Notification{
		ID:        shared.GenerateNotificationID(),
		Recipient: event.Recipient,
		Type:      event.Type,
		Title:     event.Title,
		Message:   event.Message,
		Link:      event.Link,
		Priority:  event.Priority,
		Metadata:  event.Metadata,
		Read:      false,
		CreatedAt: time.Now(),
	}

	_, err := n.col.InsertOne(ctx, doc)
	return err
}

// ListForRecipient returns the recipient's notifications, newest first
func (n *MongoNotifier) ListForRecipient(ctx context.Context, recipient string, unreadOnly bool) ([]Notification, error) {
	filter := bson.M{"recipient": recipient}
	if unreadOnly {
		filter["read"] = false
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(100)
	cursor, err := n.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notifications []Notification
	for cursor.Next(ctx) {
		var doc Notification
		if err := cursor.Decode(&doc); err != nil {
			continue
		}
		notifications = append(notifications, doc)
	}
	return notifications, cursor.Err()
}

// MarkRead flags one of the recipient's notifications as read. Idempotent.
func (n *MongoNotifier) MarkRead(ctx context.Context, recipient, notificationID string) error {
	res, err := n.col.UpdateOne(ctx,
		bson.M{"_id": notificationID, "recipient": recipient},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
