package services

import (
	"context"
	"fmt"
	"time"

	"github.com/nuricanozturk01/setupshowroom-public/internal/models"
	"github.com/nuricanozturk01/setupshowroom-public/internal/notifier"
	"github.com/nuricanozturk01/setupshowroom-public/internal/repository"
	"github.com/nuricanozturk01/setupshowroom-public/internal/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ImageStore is the object-storage passthrough for setup images. Satisfied by
// storage.MinioStorage.
type ImageStore interface {
	Put(ctx context.Context, objectName string, upload storage.Upload) (string, error)
}

// SetupService is the facade for publishing and interacting with setups.
// Likes and comments on someone else's setup dispatch a notification to the
// setup owner.
type SetupService struct {
	repo       *repository.SetupRepository
	userRepo   *repository.UserRepository
	dispatcher *notifier.Dispatcher
	images     ImageStore
}

// NewSetupService creates a new instance of SetupService.
func NewSetupService(repo *repository.SetupRepository, userRepo *repository.UserRepository, dispatcher *notifier.Dispatcher, images ImageStore) *SetupService {
	return &SetupService{
		repo:       repo,
		userRepo:   userRepo,
		dispatcher: dispatcher,
		images:     images,
	}
}

// CreateSetup uploads the images to object storage and persists the setup.
func (s *SetupService) CreateSetup(ctx context.Context, userID primitive.ObjectID, form *models.SetupForm, images []storage.Upload) (*models.Setup, error) {
	if form.Title == "" {
		return nil, fmt.Errorf("title is required")
	}

	urls := make([]string, 0, len(images))
	for _, image := range images {
		objectName := fmt.Sprintf("%s/%d_%s", userID.Hex(), time.Now().UnixNano(), image.Name)
		url, err := s.images.Put(ctx, objectName, image)
		if err != nil {
			return nil, fmt.Errorf("failed to store image: %w", err)
		}
		urls = append(urls, url)
	}

	setup := &models.Setup{
		UserID:      userID,
		Title:       form.Title,
		Description: form.Description,
		Category:    form.Category,
		Images:      urls,
		Likes:       []primitive.ObjectID{},
		Comments:    []models.Comment{},
	}
	return s.repo.CreateSetup(ctx, setup)
}

// GetSetup fetches a setup by ID.
func (s *SetupService) GetSetup(ctx context.Context, id primitive.ObjectID) (*models.Setup, error) {
	return s.repo.GetSetupByID(ctx, id)
}

// GetSetupsByUser returns a user's setups, newest first.
func (s *SetupService) GetSetupsByUser(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]models.Setup, error) {
	return s.repo.GetSetupsByUser(ctx, userID, page, limit)
}

// ExploreSetups returns the most recent setups across all users.
func (s *SetupService) ExploreSetups(ctx context.Context, page, limit int64) ([]models.Setup, error) {
	return s.repo.ExploreSetups(ctx, page, limit)
}

// LikeSetup records the like and notifies the setup owner. Liking your own
// setup never notifies.
func (s *SetupService) LikeSetup(ctx context.Context, setupID, userID primitive.ObjectID) error {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	setup, err := s.repo.GetSetupByID(ctx, setupID)
	if err != nil {
		return err
	}

	if err := s.repo.LikeSetup(ctx, setupID, userID); err != nil {
		return err
	}

	if setup.UserID == userID {
		return nil
	}

	_, err = s.dispatcher.Dispatch(ctx, models.NotificationForm{
		Title:       "New Like",
		Description: fmt.Sprintf("%s liked your setup", user.Username),
		Type:        models.NotificationTypeLike,
		Action:      fmt.Sprintf("/setups/%s", setup.ID.Hex()),
		From:        userID,
		To:          setup.UserID,
	})
	return err
}

// UnlikeSetup removes the like. No notification is sent.
func (s *SetupService) UnlikeSetup(ctx context.Context, setupID, userID primitive.ObjectID) error {
	return s.repo.UnlikeSetup(ctx, setupID, userID)
}

// AddComment appends the comment and notifies the setup owner. Commenting on
// your own setup never notifies.
func (s *SetupService) AddComment(ctx context.Context, setupID, userID primitive.ObjectID, form *models.CommentForm) (*models.Comment, error) {
	if form.Content == "" {
		return nil, fmt.Errorf("comment content is required")
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	setup, err := s.repo.GetSetupByID(ctx, setupID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Content:   form.Content,
		Likes:     []primitive.ObjectID{},
		CreatedAt: time.Now(),
	}
	if err := s.repo.AddComment(ctx, setupID, comment); err != nil {
		return nil, err
	}

	if setup.UserID != userID {
		if _, err := s.dispatcher.Dispatch(ctx, models.NotificationForm{
			Title:       "New Comment",
			Description: fmt.Sprintf("%s commented on your setup", user.Username),
			Type:        models.NotificationTypeComment,
			Action:      fmt.Sprintf("/setups/%s", setupID.Hex()),
			From:        userID,
			To:          setup.UserID,
		}); err != nil {
			return nil, err
		}
	}

	return comment, nil
}

// DeleteComment removes the author's own comment.
func (s *SetupService) DeleteComment(ctx context.Context, setupID, commentID, userID primitive.ObjectID) error {
	return s.repo.DeleteComment(ctx, setupID, commentID, userID)
}

// LikeComment records the like and notifies the comment author. Liking your
// own comment never notifies.
func (s *SetupService) LikeComment(ctx context.Context, setupID, commentID, userID primitive.ObjectID) error {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	setup, err := s.repo.GetSetupByID(ctx, setupID)
	if err != nil {
		return err
	}

	var comment *models.Comment
	for i := range setup.Comments {
		if setup.Comments[i].ID == commentID {
			comment = &setup.Comments[i]
			break
		}
	}
	if comment == nil {
		return fmt.Errorf("comment %s: %w", commentID.Hex(), repository.ErrNotFound)
	}

	if err := s.repo.LikeComment(ctx, setupID, commentID, userID); err != nil {
		return err
	}

	if comment.UserID == userID {
		return nil
	}

	_, err = s.dispatcher.Dispatch(ctx, models.NotificationForm{
		Title:       "New Comment Like",
		Description: fmt.Sprintf("%s liked your comment: %s", user.Username, comment.Content),
		Type:        models.NotificationTypeLike,
		Action:      fmt.Sprintf("/setups/%s", setupID.Hex()),
		From:        userID,
		To:          comment.UserID,
	})
	return err
}

// UnlikeComment removes the like. No notification is sent.
func (s *SetupService) UnlikeComment(ctx context.Context, setupID, commentID, userID primitive.ObjectID) error {
	return s.repo.UnlikeComment(ctx, setupID, commentID, userID)
}
