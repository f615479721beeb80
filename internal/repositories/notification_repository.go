package repositories

import (
	"context"
	"time"

	"github.com/ideanest/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NotificationRepository defines the interface for notification operations.
// Every read/mutation except CreateNotification is scoped to a recipient so
// one user can never touch another user's notifications.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
	GetNotificationByID(ctx context.Context, id string) (*models.Notification, error)
	GetByRecipient(ctx context.Context, recipientID string, page, limit int64) ([]models.Notification, error)
	GetUnreadCount(ctx context.Context, recipientID string) (int64, error)
	MarkAsRead(ctx context.Context, id, recipientID string) error
	MarkAllAsRead(ctx context.Context, recipientID string) error
	DeleteNotification(ctx context.Context, id, recipientID string) error
}

// MongoNotificationRepository implements NotificationRepository for MongoDB
type MongoNotificationRepository struct {
	collection *mongo.Collection
}

// NewMongoNotificationRepository creates a new MongoNotificationRepository
func NewMongoNotificationRepository(db *mongo.Database) *MongoNotificationRepository {
	return &MongoNotificationRepository{collection: db.Collection("notifications")}
}

// CreateNotification inserts a notification. The type enum is enforced
// here as well so nothing out of range is ever persisted.
func (r *MongoNotificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	if !notification.Type.Valid() {
		return ErrInvalidType
	}

	notification.ID = primitive.NewObjectID()
	notification.Read = false
	notification.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, notification)
	return err
}

// GetNotificationByID retrieves a single notification by ID
func (r *MongoNotificationRepository) GetNotificationByID(ctx context.Context, id string) (*models.Notification, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	var notification models.Notification
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&notification)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &notification, nil
}

// GetByRecipient retrieves a page of notifications for a recipient, newest
// first. Page numbering starts at 1; skip-based, not cursor-based.
func (r *MongoNotificationRepository) GetByRecipient(ctx context.Context, recipientID string, page, limit int64) ([]models.Notification, error) {
	objID, err := primitive.ObjectIDFromHex(recipientID)
	if err != nil {
		return nil, ErrInvalidID
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	skip := (page - 1) * limit

	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{"recipient": objID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// GetUnreadCount returns the number of unread notifications for a recipient
func (r *MongoNotificationRepository) GetUnreadCount(ctx context.Context, recipientID string) (int64, error) {
	objID, err := primitive.ObjectIDFromHex(recipientID)
	if err != nil {
		return 0, ErrInvalidID
	}
	return r.collection.CountDocuments(ctx, bson.M{"recipient": objID, "read": false})
}

// MarkAsRead flips read on a single notification. Returns ErrNotFound when
// the notification does not exist or belongs to a different recipient.
func (r *MongoNotificationRepository) MarkAsRead(ctx context.Context, id, recipientID string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}
	recipientObjID, err := primitive.ObjectIDFromHex(recipientID)
	if err != nil {
		return ErrInvalidID
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objID, "recipient": recipientObjID},
		bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllAsRead flips read on every unread notification for a recipient
func (r *MongoNotificationRepository) MarkAllAsRead(ctx context.Context, recipientID string) error {
	objID, err := primitive.ObjectIDFromHex(recipientID)
	if err != nil {
		return ErrInvalidID
	}

	_, err = r.collection.UpdateMany(ctx,
		bson.M{"recipient": objID, "read": false},
		bson.M{"$set": bson.M{"read": true}})
	return err
}

// DeleteNotification deletes a notification owned by the recipient. Returns
// ErrNotFound when it does not exist or belongs to someone else.
func (r *MongoNotificationRepository) DeleteNotification(ctx context.Context, id, recipientID string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}
	recipientObjID, err := primitive.ObjectIDFromHex(recipientID)
	if err != nil {
		return ErrInvalidID
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID, "recipient": recipientObjID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
