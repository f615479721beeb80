package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment represents a comment on an idea stored in MongoDB
type Comment struct {
	ID        primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Content   string               `json:"content,omitempty" bson:"content,omitempty"` // schema allows empty
	Idea      primitive.ObjectID   `json:"idea" bson:"idea"`
	Creator   primitive.ObjectID   `json:"creator" bson:"creator"`
	Likes     []primitive.ObjectID `json:"likes" bson:"likes"`
	CreatedAt time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time            `json:"updated_at" bson:"updated_at"`
}

// CommentResolved is a comment with its creator resolved for display
type CommentResolved struct {
	Comment `bson:",inline"`
	Creator UserCompact `json:"creator"`
}

// CreateCommentRequest defines the request body for creating a comment
type CreateCommentRequest struct {
	Content string `json:"content,omitempty" validate:"omitempty,max=500"`
}

// UpdateCommentRequest defines the request body for editing a comment
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,max=500"`
}
