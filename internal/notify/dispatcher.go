// Package notify turns domain events (reaction toggled, comment created)
// into durable notification records plus a best-effort live push.
package notify

import (
	"context"
	"fmt"

	"github.com/ideanest/backend/internal/models"
	"github.com/ideanest/backend/internal/realtime"
	"github.com/ideanest/backend/internal/repositories"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Dispatcher persists notifications and attempts live delivery. Persistence
// failures propagate to the caller; delivery failures never do.
type Dispatcher struct {
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
	ideas         repositories.IdeaRepository
	pusher        realtime.Pusher
	log           zerolog.Logger
}

// NewDispatcher creates a Dispatcher
func NewDispatcher(
	notifRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	ideaRepo repositories.IdeaRepository,
	pusher realtime.Pusher,
	log zerolog.Logger,
) *Dispatcher {
	return &Dispatcher{
		notifications: notifRepo,
		users:         userRepo,
		ideas:         ideaRepo,
		pusher:        pusher,
		log:           log.With().Str("component", "dispatcher").Logger(),
	}
}

// Dispatch validates the type, persists the notification, resolves sender
// and idea to their display subsets, and pushes the resolved record to the
// recipient if currently connected. The push is fire and forget: an offline
// recipient only ever learns of the notification via the paginated list.
func (d *Dispatcher) Dispatch(ctx context.Context, recipientID, senderID, ideaID string, typ models.NotificationType, content string) (*models.NotificationResolved, error) {
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: %q", repositories.ErrInvalidType, typ)
	}

	recipient, err := primitive.ObjectIDFromHex(recipientID)
	if err != nil {
		return nil, repositories.ErrInvalidID
	}
	sender, err := primitive.ObjectIDFromHex(senderID)
	if err != nil {
		return nil, repositories.ErrInvalidID
	}
	idea, err := primitive.ObjectIDFromHex(ideaID)
	if err != nil {
		return nil, repositories.ErrInvalidID
	}

	notification := &models.Notification{
		Recipient: recipient,
		Sender:    sender,
		Idea:      idea,
		Type:      typ,
		Content:   content,
	}
	if err := d.notifications.CreateNotification(ctx, notification); err != nil {
		return nil, fmt.Errorf("persist notification: %w", err)
	}

	resolved := d.resolve(ctx, notification)

	delivered := d.pusher.Push(recipientID, realtime.Envelope{
		Event: realtime.EventNewNotification,
		Data:  resolved,
	})
	d.log.Debug().
		Str("recipient", recipientID).
		Str("type", string(typ)).
		Bool("delivered", delivered).
		Msg("notification dispatched")

	return resolved, nil
}

// resolve attaches the sender's display fields and the idea's content
// snippet. The record is already durable at this point, so a failed lookup
// only degrades the live payload.
func (d *Dispatcher) resolve(ctx context.Context, n *models.Notification) *models.NotificationResolved {
	resolved := &models.NotificationResolved{Notification: *n}

	if sender, err := d.users.GetUserByID(ctx, n.Sender.Hex()); err == nil {
		resolved.Sender = sender.ToCompact()
	} else {
		d.log.Warn().Err(err).Str("sender", n.Sender.Hex()).Msg("resolve sender")
	}

	if idea, err := d.ideas.GetIdeaByID(ctx, n.Idea.Hex()); err == nil {
		resolved.Idea = models.IdeaSnippet{ID: idea.ID, Content: idea.Content}
	} else {
		d.log.Warn().Err(err).Str("idea", n.Idea.Hex()).Msg("resolve idea")
	}

	return resolved
}
