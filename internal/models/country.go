package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LocalizedName carries the english and russian spellings of a name.
type LocalizedName struct {
	En string `bson:"en" json:"en"`
	Ru string `bson:"ru" json:"ru"`
}

type Country struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      LocalizedName      `bson:"name" json:"name"`
	Code      string             `bson:"code" json:"code"`
	FlagURL   string             `bson:"flagUrl" json:"flagUrl"`
	Region    primitive.ObjectID `bson:"region" json:"region"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
