package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationType enumerates what a notification is about
type NotificationType string

const (
	NotificationSupport     NotificationType = "support"
	NotificationInspiration NotificationType = "inspiration"
	NotificationComment     NotificationType = "comment"
)

// Valid reports whether t is one of the allowed notification types
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationSupport, NotificationInspiration, NotificationComment:
		return true
	}
	return false
}

// Notification represents a user notification stored in MongoDB
type Notification struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Recipient primitive.ObjectID `json:"recipient" bson:"recipient"`
	Sender    primitive.ObjectID `json:"sender" bson:"sender"`
	Idea      primitive.ObjectID `json:"idea" bson:"idea"`
	Type      NotificationType   `json:"type" bson:"type"`
	Content   string             `json:"content" bson:"content"` // denormalized human-readable text
	Read      bool               `json:"read" bson:"read"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// IdeaSnippet is the display subset of an idea embedded in resolved notifications
type IdeaSnippet struct {
	ID      primitive.ObjectID `json:"id" bson:"_id"`
	Content string             `json:"content" bson:"content"`
}

// NotificationResolved is a notification with sender and idea resolved
// to their display subsets, as delivered to clients
type NotificationResolved struct {
	Notification `bson:",inline"`
	Sender       UserCompact `json:"sender"`
	Idea         IdeaSnippet `json:"idea"`
}
