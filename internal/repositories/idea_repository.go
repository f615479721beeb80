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

// IdeaRepository defines the interface for idea data operations
type IdeaRepository interface {
	CreateIdea(ctx context.Context, idea *models.Idea) error
	GetIdeaByID(ctx context.Context, id string) (*models.Idea, error)
	GetAllIdeas(ctx context.Context) ([]models.Idea, error)
	GetIdeasByCreator(ctx context.Context, creatorID string) ([]models.Idea, error)
	GetMostReacted(ctx context.Context, setName string, limit int64) ([]models.Idea, error)
	UpdateIdea(ctx context.Context, id string, update *models.UpdateIdeaRequest) error
	DeleteIdea(ctx context.Context, id string) error
	ToggleReaction(ctx context.Context, id, userID, setName string) (added bool, err error)
}

// MongoIdeaRepository implements IdeaRepository for MongoDB
type MongoIdeaRepository struct {
	collection *mongo.Collection
}

// NewMongoIdeaRepository creates a new MongoIdeaRepository
func NewMongoIdeaRepository(db *mongo.Database) *MongoIdeaRepository {
	return &MongoIdeaRepository{collection: db.Collection("ideas")}
}

// CreateIdea inserts a new idea with empty reaction sets
func (r *MongoIdeaRepository) CreateIdea(ctx context.Context, idea *models.Idea) error {
	idea.ID = primitive.NewObjectID()
	idea.CreatedAt = time.Now()
	idea.UpdatedAt = idea.CreatedAt
	if idea.Supports == nil {
		idea.Supports = []primitive.ObjectID{}
	}
	if idea.Inspirations == nil {
		idea.Inspirations = []primitive.ObjectID{}
	}
	_, err := r.collection.InsertOne(ctx, idea)
	return err
}

// GetIdeaByID retrieves an idea by ID
func (r *MongoIdeaRepository) GetIdeaByID(ctx context.Context, id string) (*models.Idea, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	var idea models.Idea
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&idea)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &idea, nil
}

// GetAllIdeas retrieves all ideas, newest first
func (r *MongoIdeaRepository) GetAllIdeas(ctx context.Context) ([]models.Idea, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
}

// GetIdeasByCreator retrieves ideas posted by a specific user, newest first
func (r *MongoIdeaRepository) GetIdeasByCreator(ctx context.Context, creatorID string) ([]models.Idea, error) {
	objID, err := primitive.ObjectIDFromHex(creatorID)
	if err != nil {
		return nil, ErrInvalidID
	}
	return r.find(ctx, bson.M{"creator": objID}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
}

// GetMostReacted retrieves ideas ordered by the size of the named reaction set
func (r *MongoIdeaRepository) GetMostReacted(ctx context.Context, setName string, limit int64) ([]models.Idea, error) {
	if setName != models.ReactionSupports && setName != models.ReactionInspirations {
		return nil, ErrInvalidType
	}

	pipeline := mongo.Pipeline{
		{{Key: "$addFields", Value: bson.M{"reaction_count": bson.M{"$size": bson.M{"$ifNull": bson.A{"$" + setName, bson.A{}}}}}}},
		{{Key: "$sort", Value: bson.D{{Key: "reaction_count", Value: -1}, {Key: "created_at", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$unset", Value: "reaction_count"}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var ideas []models.Idea
	if err = cursor.All(ctx, &ideas); err != nil {
		return nil, err
	}
	return ideas, nil
}

// UpdateIdea applies an edit to title/content/context
func (r *MongoIdeaRepository) UpdateIdea(ctx context.Context, id string, update *models.UpdateIdeaRequest) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	set := bson.M{"updated_at": time.Now()}
	if update.Title != "" {
		set["title"] = update.Title
	}
	if update.Content != "" {
		set["content"] = update.Content
	}
	if update.EmotionalContext != "" {
		set["emotional_context"] = update.EmotionalContext
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteIdea deletes an idea by ID
func (r *MongoIdeaRepository) DeleteIdea(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleReaction flips membership of userID in the named reaction set.
// The toggle is expressed as conditional atomic updates so two concurrent
// toggles can never produce a duplicate entry: an add only matches when the
// user is absent from the set, otherwise the user is pulled.
func (r *MongoIdeaRepository) ToggleReaction(ctx context.Context, id, userID, setName string) (bool, error) {
	if setName != models.ReactionSupports && setName != models.ReactionInspirations {
		return false, ErrInvalidType
	}

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, ErrInvalidID
	}
	userObjID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return false, ErrInvalidID
	}

	// Add if absent.
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objID, setName: bson.M{"$ne": userObjID}},
		bson.M{"$addToSet": bson.M{setName: userObjID}},
	)
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 1 {
		return true, nil
	}

	// Already present (or the idea does not exist): remove.
	res, err = r.collection.UpdateOne(ctx,
		bson.M{"_id": objID},
		bson.M{"$pull": bson.M{setName: userObjID}},
	)
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, ErrNotFound
	}
	return false, nil
}

func (r *MongoIdeaRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Idea, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var ideas []models.Idea
	if err = cursor.All(ctx, &ideas); err != nil {
		return nil, err
	}
	return ideas, nil
}
