package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nuricanozturk01/setupshowroom-public/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SetupRepository handles database operations related to setups and their
// embedded likes and comments.
type SetupRepository struct {
	collection *mongo.Collection
}

// NewSetupRepository creates a new instance of SetupRepository.
func NewSetupRepository(db *mongo.Database) *SetupRepository {
	return &SetupRepository{
		collection: db.Collection("setups"),
	}
}

// CreateSetup inserts a new setup into the database.
func (r *SetupRepository) CreateSetup(ctx context.Context, setup *models.Setup) (*models.Setup, error) {
	setup.CreatedAt = time.Now()
	setup.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, setup)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert setup")
		return nil, fmt.Errorf("failed to insert setup: %v", err)
	}

	if insertedID, ok := result.InsertedID.(primitive.ObjectID); ok {
		setup.ID = insertedID
	}
	return setup, nil
}

// GetSetupByID retrieves a setup by its ID.
func (r *SetupRepository) GetSetupByID(ctx context.Context, id primitive.ObjectID) (*models.Setup, error) {
	var setup models.Setup
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&setup)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("setup %s: %w", id.Hex(), ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find setup: %v", err)
	}
	return &setup, nil
}

// GetSetupsByUser returns a user's setups, newest first.
func (r *SetupRepository) GetSetupsByUser(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]models.Setup, error) {
	return r.find(ctx, bson.M{"user_id": userID}, page, limit)
}

// ExploreSetups returns the most recent setups across all users.
func (r *SetupRepository) ExploreSetups(ctx context.Context, page, limit int64) ([]models.Setup, error) {
	return r.find(ctx, bson.M{}, page, limit)
}

func (r *SetupRepository) find(ctx context.Context, filter bson.M, page, limit int64) ([]models.Setup, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(page * limit).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch setups: %v", err)
	}
	defer cursor.Close(ctx)

	setups := make([]models.Setup, 0)
	if err := cursor.All(ctx, &setups); err != nil {
		return nil, fmt.Errorf("failed to decode setups: %v", err)
	}
	return setups, nil
}

// LikeSetup records a like. Liking twice is a no-op.
func (r *SetupRepository) LikeSetup(ctx context.Context, setupID, userID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": setupID},
		bson.M{"$addToSet": bson.M{"likes": userID}})
	return err
}

// UnlikeSetup removes a like.
func (r *SetupRepository) UnlikeSetup(ctx context.Context, setupID, userID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": setupID},
		bson.M{"$pull": bson.M{"likes": userID}})
	return err
}

// AddComment appends a comment to a setup.
func (r *SetupRepository) AddComment(ctx context.Context, setupID primitive.ObjectID, comment *models.Comment) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": setupID},
		bson.M{"$push": bson.M{"comments": comment}})
	if err != nil {
		return fmt.Errorf("failed to add comment: %v", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("setup %s: %w", setupID.Hex(), ErrNotFound)
	}
	return nil
}

// DeleteComment removes the author's own comment from a setup.
func (r *SetupRepository) DeleteComment(ctx context.Context, setupID, commentID, userID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": setupID},
		bson.M{"$pull": bson.M{"comments": bson.M{"_id": commentID, "user_id": userID}}})
	return err
}

// LikeComment records a like on an embedded comment.
func (r *SetupRepository) LikeComment(ctx context.Context, setupID, commentID, userID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": setupID, "comments._id": commentID},
		bson.M{"$addToSet": bson.M{"comments.$.likes": userID}})
	return err
}

// UnlikeComment removes a like from an embedded comment.
func (r *SetupRepository) UnlikeComment(ctx context.Context, setupID, commentID, userID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": setupID, "comments._id": commentID},
		bson.M{"$pull": bson.M{"comments.$.likes": userID}})
	return err
}
