package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection is a user-defined recipe collection ("my breakfasts"). Names
// are unique per user, not globally.
type Collection struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name      string               `bson:"name" json:"name"`
	UserID    primitive.ObjectID   `bson:"user" json:"user"`
	Recipes   []primitive.ObjectID `bson:"recipes" json:"recipes"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// RecipesCount mirrors the derived field the frontend expects next to the
// recipe id list.
func (c Collection) RecipesCount() int {
	return len(c.Recipes)
}
