package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RefreshToken is one live session for one user on one device. The (user,
// device) pair is unique; re-login or refresh from the same device replaces
// this record instead of adding another.
type RefreshToken struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"user" json:"userId"`
	RefreshToken string             `bson:"refreshToken" json:"-"`
	Device       string             `bson:"device" json:"device"`
	IP           string             `bson:"ip,omitempty" json:"ip,omitempty"`
	UserAgent    string             `bson:"userAgent,omitempty" json:"userAgent,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

// DeviceSession is the projection exposed to the session-management UI.
// Token material never leaves the store through this shape.
type DeviceSession struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Device    string             `bson:"device" json:"device"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
