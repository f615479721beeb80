package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reaction set names on an idea document
const (
	ReactionSupports     = "supports"
	ReactionInspirations = "inspirations"
)

// Idea represents a posted idea stored in MongoDB
type Idea struct {
	ID               primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Title            string               `json:"title" bson:"title"`
	Content          string               `json:"content" bson:"content"`
	EmotionalContext string               `json:"emotional_context,omitempty" bson:"emotional_context,omitempty"`
	Creator          primitive.ObjectID   `json:"creator" bson:"creator"`
	Supports         []primitive.ObjectID `json:"supports" bson:"supports"`
	Inspirations     []primitive.ObjectID `json:"inspirations" bson:"inspirations"`
	CreatedAt        time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at" bson:"updated_at"`
}

// IdeaResolved is an idea with its creator resolved for display
type IdeaResolved struct {
	Idea    `bson:",inline"`
	Creator UserCompact `json:"creator"`
}

// CreateIdeaRequest defines the request body for posting a new idea
type CreateIdeaRequest struct {
	Title            string `json:"title" validate:"required,min=5,max=120"`
	Content          string `json:"content" validate:"required,min=25"`
	EmotionalContext string `json:"emotional_context,omitempty"`
}

// UpdateIdeaRequest defines the request body for editing an idea
type UpdateIdeaRequest struct {
	Title            string `json:"title,omitempty" validate:"omitempty,min=5,max=120"`
	Content          string `json:"content,omitempty" validate:"omitempty,min=25"`
	EmotionalContext string `json:"emotional_context,omitempty"`
}
