package services

import (
	"context"

	"github.com/nuricanozturk01/setupshowroom-public/internal/models"
	"github.com/nuricanozturk01/setupshowroom-public/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationService exposes the durable notification store to the HTTP
// layer. It performs no delivery of its own; live pushes are the dispatcher's
// job. A client that missed a live push sees the row through these queries.
type NotificationService struct {
	repo     *repository.NotificationRepository
	userRepo *repository.UserRepository
}

// NewNotificationService creates a new instance of NotificationService.
func NewNotificationService(repo *repository.NotificationRepository, userRepo *repository.UserRepository) *NotificationService {
	return &NotificationService{
		repo:     repo,
		userRepo: userRepo,
	}
}

// GetUnreadNotifications returns the user's unread notifications, newest first.
func (s *NotificationService) GetUnreadNotifications(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]models.NotificationInfo, error) {
	read := false
	return s.list(ctx, userID, &read, page, limit)
}

// GetReadNotifications returns the user's read notifications, newest first.
func (s *NotificationService) GetReadNotifications(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]models.NotificationInfo, error) {
	read := true
	return s.list(ctx, userID, &read, page, limit)
}

// GetAllNotifications returns all of the user's notifications, newest first.
func (s *NotificationService) GetAllNotifications(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]models.NotificationInfo, error) {
	return s.list(ctx, userID, nil, page, limit)
}

func (s *NotificationService) list(ctx context.Context, userID primitive.ObjectID, read *bool, page, limit int64) ([]models.NotificationInfo, error) {
	notifications, err := s.repo.GetNotifications(ctx, userID, read, page, limit)
	if err != nil {
		return nil, err
	}

	// Senders repeat across notifications, resolve each one once.
	senders := make(map[primitive.ObjectID]models.UserInfo)
	infos := make([]models.NotificationInfo, 0, len(notifications))
	for _, notif := range notifications {
		sender, ok := senders[notif.From]
		if !ok {
			user, err := s.userRepo.GetUserByID(ctx, notif.From)
			if err != nil {
				logrus.WithFields(logrus.Fields{
					"notificationID": notif.ID.Hex(),
					"senderID":       notif.From.Hex(),
				}).Warn("Failed to resolve notification sender")
			} else {
				sender = user.ToUserInfo()
			}
			senders[notif.From] = sender
		}

		infos = append(infos, models.NotificationInfo{
			ID:          notif.ID.Hex(),
			Title:       notif.Title,
			Description: notif.Description,
			Type:        notif.Type,
			Action:      notif.Action,
			User:        sender,
			Read:        notif.Read,
			CreatedAt:   notif.CreatedAt,
		})
	}
	return infos, nil
}

// MarkAsRead marks one of the user's notifications as read. Idempotent.
func (s *NotificationService) MarkAsRead(ctx context.Context, id, userID primitive.ObjectID) error {
	return s.repo.MarkAsRead(ctx, id, userID)
}

// MarkAsUnread marks one of the user's notifications as unread.
func (s *NotificationService) MarkAsUnread(ctx context.Context, id, userID primitive.ObjectID) error {
	return s.repo.MarkAsUnread(ctx, id, userID)
}

// MarkAllAsRead marks every notification of the user as read.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID primitive.ObjectID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

// DeleteNotification soft-deletes one of the user's notifications.
func (s *NotificationService) DeleteNotification(ctx context.Context, id, userID primitive.ObjectID) error {
	return s.repo.DeleteNotification(ctx, id, userID)
}

// DeleteAllNotifications soft-deletes every notification of the user.
func (s *NotificationService) DeleteAllNotifications(ctx context.Context, userID primitive.ObjectID) error {
	return s.repo.DeleteAllNotifications(ctx, userID)
}
