package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nuricanozturk01/setupshowroom-public/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errUnknownUser = errors.New("user not found")

type fakeStore struct {
	created []*models.Notification
	err     error
}

func (f *fakeStore) CreateNotification(_ context.Context, notif *models.Notification) (*models.Notification, error) {
	if f.err != nil {
		return nil, f.err
	}
	notif.ID = primitive.NewObjectID()
	notif.Read = false
	notif.Deleted = false
	notif.CreatedAt = time.Now()
	f.created = append(f.created, notif)
	return notif, nil
}

type fakeUsers struct {
	users map[primitive.ObjectID]*models.User
}

func (f *fakeUsers) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	if user, ok := f.users[id]; ok {
		return user, nil
	}
	return nil, errUnknownUser
}

func newTestUsers() (*fakeUsers, *models.User, *models.User) {
	sender := &models.User{
		ID:       primitive.NewObjectID(),
		FullName: "Alice Doe",
		Username: "alice",
		Email:    "alice@example.com",
		Enabled:  true,
	}
	recipient := &models.User{
		ID:       primitive.NewObjectID(),
		FullName: "Bob Roe",
		Username: "bob",
		Email:    "bob@example.com",
		Enabled:  true,
	}
	users := &fakeUsers{users: map[primitive.ObjectID]*models.User{
		sender.ID:    sender,
		recipient.ID: recipient,
	}}
	return users, sender, recipient
}

func likeForm(from, to primitive.ObjectID) models.NotificationForm {
	return models.NotificationForm{
		Title:       "New Like",
		Description: "alice liked your setup",
		Type:        models.NotificationTypeLike,
		Action:      "/setups/abc",
		From:        from,
		To:          to,
	}
}

func TestDispatchPersistsWithoutConnection(t *testing.T) {
	users, sender, recipient := newTestUsers()
	store := &fakeStore{}
	dispatcher := NewDispatcher(NewRegistry(), store, users)

	saved, err := dispatcher.Dispatch(context.Background(), likeForm(sender.ID, recipient.ID))
	require.NoError(t, err)

	require.Len(t, store.created, 1)
	assert.Equal(t, saved, store.created[0])
	assert.Equal(t, recipient.ID, saved.To)
	assert.Equal(t, sender.ID, saved.From)
	assert.False(t, saved.Read)
	assert.False(t, saved.Deleted)
}

func TestDispatchUnknownRecipient(t *testing.T) {
	users, sender, _ := newTestUsers()
	store := &fakeStore{}
	dispatcher := NewDispatcher(NewRegistry(), store, users)

	_, err := dispatcher.Dispatch(context.Background(), likeForm(sender.ID, primitive.NewObjectID()))
	require.ErrorIs(t, err, errUnknownUser)
	assert.Empty(t, store.created, "nothing should be persisted for an unknown recipient")
}

func TestDispatchUnknownSender(t *testing.T) {
	users, _, recipient := newTestUsers()
	store := &fakeStore{}
	dispatcher := NewDispatcher(NewRegistry(), store, users)

	_, err := dispatcher.Dispatch(context.Background(), likeForm(primitive.NewObjectID(), recipient.ID))
	require.ErrorIs(t, err, errUnknownUser)
	assert.Empty(t, store.created)
}

func TestDispatchPushesToLiveConnection(t *testing.T) {
	users, sender, recipient := newTestUsers()
	registry := NewRegistry()
	dispatcher := NewDispatcher(registry, &fakeStore{}, users)

	conn := NewConnection(recipient.ID.Hex())
	defer conn.Close()
	registry.Put(recipient.ID.Hex(), conn)

	saved, err := dispatcher.Dispatch(context.Background(), likeForm(sender.ID, recipient.ID))
	require.NoError(t, err)

	evt := <-conn.Events()
	assert.Equal(t, EventNotification, evt.Name)

	var info models.NotificationInfo
	require.NoError(t, json.Unmarshal([]byte(evt.Data), &info))
	assert.Equal(t, saved.ID.Hex(), info.ID)
	assert.Equal(t, "New Like", info.Title)
	assert.Equal(t, models.NotificationTypeLike, info.Type)
	assert.Equal(t, sender.ToUserInfo(), info.User)
	assert.False(t, info.Read)
}

func TestDispatchEvictsDeadConnection(t *testing.T) {
	users, sender, recipient := newTestUsers()
	registry := NewRegistry()
	store := &fakeStore{}
	dispatcher := NewDispatcher(registry, store, users)

	conn := NewConnection(recipient.ID.Hex())
	registry.Put(recipient.ID.Hex(), conn)
	conn.Close()

	saved, err := dispatcher.Dispatch(context.Background(), likeForm(sender.ID, recipient.ID))
	require.NoError(t, err, "a failed push must not fail the dispatch")
	require.NotNil(t, saved)
	assert.Len(t, store.created, 1)

	_, ok := registry.Get(recipient.ID.Hex())
	assert.False(t, ok, "dead connection should be evicted")
}

func TestDispatchStoreFailure(t *testing.T) {
	users, sender, recipient := newTestUsers()
	registry := NewRegistry()
	storeErr := errors.New("write concern failed")
	dispatcher := NewDispatcher(registry, &fakeStore{err: storeErr}, users)

	conn := NewConnection(recipient.ID.Hex())
	defer conn.Close()
	registry.Put(recipient.ID.Hex(), conn)

	_, err := dispatcher.Dispatch(context.Background(), likeForm(sender.ID, recipient.ID))
	require.ErrorIs(t, err, storeErr)

	select {
	case evt := <-conn.Events():
		t.Fatalf("no push expected when persistence fails, got %q", evt.Name)
	default:
	}
}
