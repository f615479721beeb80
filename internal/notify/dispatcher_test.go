package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ideanest/backend/internal/models"
	"github.com/ideanest/backend/internal/realtime"
	"github.com/ideanest/backend/internal/repositories"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeNotificationRepo struct {
	created   []*models.Notification
	createErr error
}

func (f *fakeNotificationRepo) CreateNotification(_ context.Context, n *models.Notification) error {
	if f.createErr != nil {
		return f.createErr
	}
	if !n.Type.Valid() {
		return repositories.ErrInvalidType
	}
	n.ID = primitive.NewObjectID()
	n.Read = false
	n.CreatedAt = time.Now()
	f.created = append(f.created, n)
	return nil
}

func (f *fakeNotificationRepo) GetNotificationByID(context.Context, string) (*models.Notification, error) {
	return nil, repositories.ErrNotFound
}

func (f *fakeNotificationRepo) GetByRecipient(context.Context, string, int64, int64) ([]models.Notification, error) {
	out := make([]models.Notification, 0, len(f.created))
	for i := len(f.created) - 1; i >= 0; i-- {
		out = append(out, *f.created[i])
	}
	return out, nil
}

func (f *fakeNotificationRepo) GetUnreadCount(context.Context, string) (int64, error) {
	return int64(len(f.created)), nil
}

func (f *fakeNotificationRepo) MarkAsRead(context.Context, string, string) error   { return nil }
func (f *fakeNotificationRepo) MarkAllAsRead(context.Context, string) error        { return nil }
func (f *fakeNotificationRepo) DeleteNotification(context.Context, string, string) error { return nil }

type fakeUserRepo struct {
	users map[string]*models.User
}

func (f *fakeUserRepo) CreateUser(context.Context, *models.User) error { return nil }

func (f *fakeUserRepo) GetUserByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUserRepo) GetUserByEmail(context.Context, string) (*models.User, error) {
	return nil, repositories.ErrNotFound
}

func (f *fakeUserRepo) UpdateUser(context.Context, string, *models.UpdateProfileRequest) (*models.User, error) {
	return nil, repositories.ErrNotFound
}

type fakeIdeaRepo struct {
	ideas map[string]*models.Idea
}

func (f *fakeIdeaRepo) CreateIdea(context.Context, *models.Idea) error { return nil }

func (f *fakeIdeaRepo) GetIdeaByID(_ context.Context, id string) (*models.Idea, error) {
	if idea, ok := f.ideas[id]; ok {
		return idea, nil
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeIdeaRepo) GetAllIdeas(context.Context) ([]models.Idea, error) { return nil, nil }
func (f *fakeIdeaRepo) GetIdeasByCreator(context.Context, string) ([]models.Idea, error) {
	return nil, nil
}
func (f *fakeIdeaRepo) GetMostReacted(context.Context, string, int64) ([]models.Idea, error) {
	return nil, nil
}
func (f *fakeIdeaRepo) UpdateIdea(context.Context, string, *models.UpdateIdeaRequest) error {
	return nil
}
func (f *fakeIdeaRepo) DeleteIdea(context.Context, string) error { return nil }
func (f *fakeIdeaRepo) ToggleReaction(context.Context, string, string, string) (bool, error) {
	return false, nil
}

type fakePusher struct {
	pushes []struct {
		userID  string
		payload interface{}
	}
	connected bool
}

func (f *fakePusher) Push(userID string, payload interface{}) bool {
	f.pushes = append(f.pushes, struct {
		userID  string
		payload interface{}
	}{userID, payload})
	return f.connected
}

func newTestDispatcher(connected bool) (*Dispatcher, *fakeNotificationRepo, *fakePusher, string, string, string) {
	recipient := primitive.NewObjectID()
	sender := primitive.NewObjectID()
	ideaID := primitive.NewObjectID()

	notifRepo := &fakeNotificationRepo{}
	userRepo := &fakeUserRepo{users: map[string]*models.User{
		sender.Hex(): {ID: sender, Name: "Bea", Alias: "bea", Image: "bea.png"},
	}}
	ideaRepo := &fakeIdeaRepo{ideas: map[string]*models.Idea{
		ideaID.Hex(): {ID: ideaID, Title: "Solar bikes", Content: "Bicycles with solar assisted drive trains"},
	}}
	pusher := &fakePusher{connected: connected}

	d := NewDispatcher(notifRepo, userRepo, ideaRepo, pusher, zerolog.Nop())
	return d, notifRepo, pusher, recipient.Hex(), sender.Hex(), ideaID.Hex()
}

func TestDispatchPersistsAndResolves(t *testing.T) {
	d, notifRepo, pusher, recipient, sender, ideaID := newTestDispatcher(true)

	resolved, err := d.Dispatch(context.Background(), recipient, sender, ideaID,
		models.NotificationSupport, "Bea supported your idea")

	require.NoError(t, err)
	require.Len(t, notifRepo.created, 1)

	persisted := notifRepo.created[0]
	assert.Equal(t, recipient, persisted.Recipient.Hex())
	assert.Equal(t, sender, persisted.Sender.Hex())
	assert.Equal(t, models.NotificationSupport, persisted.Type)
	assert.False(t, persisted.Read)
	assert.False(t, persisted.CreatedAt.IsZero())

	// Sender and idea are resolved to display subsets, not full entities.
	assert.Equal(t, "Bea", resolved.Sender.Name)
	assert.Equal(t, "bea", resolved.Sender.Alias)
	assert.Equal(t, "Bicycles with solar assisted drive trains", resolved.Idea.Content)

	require.Len(t, pusher.pushes, 1)
	assert.Equal(t, recipient, pusher.pushes[0].userID)
	envelope, ok := pusher.pushes[0].payload.(realtime.Envelope)
	require.True(t, ok)
	assert.Equal(t, realtime.EventNewNotification, envelope.Event)
}

func TestDispatchInvalidTypePersistsNothing(t *testing.T) {
	d, notifRepo, pusher, recipient, sender, ideaID := newTestDispatcher(true)

	_, err := d.Dispatch(context.Background(), recipient, sender, ideaID, "like", "Bea liked your idea")

	require.Error(t, err)
	assert.ErrorIs(t, err, repositories.ErrInvalidType)
	assert.Empty(t, notifRepo.created)
	assert.Empty(t, pusher.pushes)
}

func TestDispatchWithOfflineRecipientStillPersists(t *testing.T) {
	d, notifRepo, _, recipient, sender, ideaID := newTestDispatcher(false)

	resolved, err := d.Dispatch(context.Background(), recipient, sender, ideaID,
		models.NotificationComment, "Bea commented on your idea")

	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Len(t, notifRepo.created, 1)
}

func TestDispatchPropagatesPersistenceFailure(t *testing.T) {
	d, notifRepo, pusher, recipient, sender, ideaID := newTestDispatcher(true)
	notifRepo.createErr = errors.New("write concern timeout")

	_, err := d.Dispatch(context.Background(), recipient, sender, ideaID,
		models.NotificationSupport, "Bea supported your idea")

	require.Error(t, err)
	assert.Empty(t, pusher.pushes, "no live push after a failed persist")
}

func TestDispatchRejectsMalformedIDs(t *testing.T) {
	d, notifRepo, _, _, sender, ideaID := newTestDispatcher(true)

	_, err := d.Dispatch(context.Background(), "not-an-id", sender, ideaID,
		models.NotificationSupport, "x")

	assert.ErrorIs(t, err, repositories.ErrInvalidID)
	assert.Empty(t, notifRepo.created)
}
