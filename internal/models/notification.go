package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationType is the semantic category of a notification. It only drives
// client rendering; the delivery core treats it as opaque payload.
type NotificationType string

const (
	NotificationTypeLike    NotificationType = "LIKE"
	NotificationTypeComment NotificationType = "COMMENT"
)

// Notification is the persisted notification entity. Rows are never removed,
// only soft-deleted.
type Notification struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Type        NotificationType   `bson:"type" json:"type"`
	Action      string             `bson:"action" json:"action"`
	From        primitive.ObjectID `bson:"from" json:"from"`
	To          primitive.ObjectID `bson:"to" json:"to"`
	Read        bool               `bson:"read" json:"read"`
	Deleted     bool               `bson:"deleted" json:"deleted"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

// NotificationForm carries everything needed to create and deliver a notification.
type NotificationForm struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Type        NotificationType   `json:"type"`
	Action      string             `json:"action"`
	From        primitive.ObjectID `json:"from"`
	To          primitive.ObjectID `json:"to"`
}

// NotificationInfo is the serialized view pushed over the stream and returned
// by the list endpoints. User is the sender's public identity.
type NotificationInfo struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Type        NotificationType `json:"type"`
	Action      string           `json:"action"`
	User        UserInfo         `json:"user"`
	Read        bool             `json:"read"`
	CreatedAt   time.Time        `json:"created_at"`
}
