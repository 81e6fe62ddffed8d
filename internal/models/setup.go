package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Setup is a published desk/battlestation showcase.
type Setup struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID   `bson:"user_id" json:"user_id"`
	Title       string               `bson:"title" json:"title"`
	Description string               `bson:"description" json:"description"`
	Category    string               `bson:"category" json:"category"` // e.g. "GAMING", "WORKSPACE"
	Images      []string             `bson:"images" json:"images"`
	Likes       []primitive.ObjectID `bson:"likes" json:"likes"`
	Comments    []Comment            `bson:"comments" json:"comments"`
	CreatedAt   time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time            `bson:"updated_at" json:"updated_at"`
}

// Comment is a user comment embedded in a setup.
type Comment struct {
	ID        primitive.ObjectID   `bson:"_id" json:"id"`
	UserID    primitive.ObjectID   `bson:"user_id" json:"user_id"`
	Content   string               `bson:"content" json:"content"`
	Likes     []primitive.ObjectID `bson:"likes" json:"likes"`
	CreatedAt time.Time            `bson:"created_at" json:"created_at"`
}

// SetupForm is the payload accepted when publishing a setup.
type SetupForm struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// CommentForm is the payload accepted when commenting on a setup.
type CommentForm struct {
	Content string `json:"content"`
}
