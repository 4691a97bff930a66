package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type LocalizedText struct {
	En string `bson:"en" json:"en"`
	Ru string `bson:"ru" json:"ru"`
}

type Region struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        LocalizedName      `bson:"name" json:"name"`
	Description LocalizedText      `bson:"description" json:"description"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
