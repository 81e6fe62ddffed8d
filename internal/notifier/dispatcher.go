package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nuricanozturk01/setupshowroom-public/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationStore persists notifications. Satisfied by
// repository.NotificationRepository.
type NotificationStore interface {
	CreateNotification(ctx context.Context, notif *models.Notification) (*models.Notification, error)
}

// UserDirectory resolves user identities. Satisfied by repository.UserRepository.
type UserDirectory interface {
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Dispatcher turns a domain trigger into a durable notification and an
// opportunistic live push. Persistence always happens first; the push is
// attempted only when the recipient currently holds a live connection, and a
// failed push never fails the dispatch.
type Dispatcher struct {
	registry *Registry
	store    NotificationStore
	users    UserDirectory
}

// NewDispatcher creates a dispatcher on top of the given registry and collaborators.
func NewDispatcher(registry *Registry, store NotificationStore, users UserDirectory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		store:    store,
		users:    users,
	}
}

// Dispatch persists a notification for form.To and pushes its serialized view
// to the recipient's live connection when one exists. Unknown sender or
// recipient and persistence failures are fatal; a failed push only evicts the
// dead connection, since the durable row is the recovery path.
func (d *Dispatcher) Dispatch(ctx context.Context, form models.NotificationForm) (*models.Notification, error) {
	if _, err := d.users.GetUserByID(ctx, form.To); err != nil {
		return nil, fmt.Errorf("failed to resolve recipient: %w", err)
	}

	sender, err := d.users.GetUserByID(ctx, form.From)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve sender: %w", err)
	}

	notif := &models.Notification{
		Title:       form.Title,
		Description: form.Description,
		Type:        form.Type,
		Action:      form.Action,
		From:        form.From,
		To:          form.To,
	}

	saved, err := d.store.CreateNotification(ctx, notif)
	if err != nil {
		return nil, err
	}

	conn, ok := d.registry.Get(form.To.Hex())
	if !ok {
		return saved, nil
	}

	info := models.NotificationInfo{
		ID:          saved.ID.Hex(),
		Title:       saved.Title,
		Description: saved.Description,
		Type:        saved.Type,
		Action:      saved.Action,
		User:        sender.ToUserInfo(),
		Read:        saved.Read,
		CreatedAt:   saved.CreatedAt,
	}

	payload, err := json.Marshal(info)
	if err != nil {
		logrus.WithError(err).Error("Failed to serialize notification payload")
		return saved, nil
	}

	if err := conn.Send(EventNotification, string(payload)); err != nil {
		logrus.WithFields(logrus.Fields{
			"userID": form.To.Hex(),
			"error":  err,
		}).Warn("Failed to push notification, removing connection")
		d.registry.Remove(form.To.Hex(), conn)
		conn.Close()
	}

	return saved, nil
}
