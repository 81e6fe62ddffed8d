package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/nuricanozturk01/setupshowroom-public/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NotificationRepository is the durable notification store. Rows are created
// once, flipped by flag updates and soft-deleted; they are never removed.
type NotificationRepository struct {
	collection *mongo.Collection
}

// NewNotificationRepository creates a new instance of NotificationRepository.
func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{
		collection: db.Collection("notifications"),
	}
}

// CreateNotification inserts a new notification row and returns it with its
// generated ID and timestamp.
func (r *NotificationRepository) CreateNotification(ctx context.Context, notif *models.Notification) (*models.Notification, error) {
	notif.Read = false
	notif.Deleted = false
	notif.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, notif)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert notification")
		return nil, fmt.Errorf("failed to create notification: %v", err)
	}

	if insertedID, ok := result.InsertedID.(primitive.ObjectID); ok {
		notif.ID = insertedID
	}
	return notif, nil
}

// GetNotifications returns the recipient's notifications, newest first.
// When read is non-nil the result is filtered by read state. Soft-deleted
// rows are never returned.
func (r *NotificationRepository) GetNotifications(ctx context.Context, to primitive.ObjectID, read *bool, page, limit int64) ([]models.Notification, error) {
	filter := bson.M{"to": to, "deleted": false}
	if read != nil {
		filter["read"] = *read
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(page * limit).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %v", err)
	}
	defer cursor.Close(ctx)

	notifications := make([]models.Notification, 0)
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %v", err)
	}
	return notifications, nil
}

// MarkAsRead sets the read flag of the recipient's notification. Repeated
// calls are harmless.
func (r *NotificationRepository) MarkAsRead(ctx context.Context, id, to primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "to": to},
		bson.M{"$set": bson.M{"read": true}})
	return err
}

// MarkAsUnread clears the read flag of the recipient's notification.
func (r *NotificationRepository) MarkAsUnread(ctx context.Context, id, to primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "to": to},
		bson.M{"$set": bson.M{"read": false}})
	return err
}

// MarkAllAsRead sets the read flag on every notification of the recipient.
func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, to primitive.ObjectID) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"to": to},
		bson.M{"$set": bson.M{"read": true}})
	return err
}

// DeleteNotification soft-deletes the recipient's notification.
func (r *NotificationRepository) DeleteNotification(ctx context.Context, id, to primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "to": to},
		bson.M{"$set": bson.M{"deleted": true}})
	return err
}

// DeleteAllNotifications soft-deletes every notification of the recipient.
func (r *NotificationRepository) DeleteAllNotifications(ctx context.Context, to primitive.ObjectID) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"to": to},
		bson.M{"$set": bson.M{"deleted": true}})
	return err
}
