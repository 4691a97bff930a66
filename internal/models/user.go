package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Profile is the embedded per-user profile document.
type Profile struct {
	AboutMe       string              `bson:"aboutMe" json:"aboutMe"`
	Sex           string              `bson:"sex" json:"sex"`
	Country       *primitive.ObjectID `bson:"country,omitempty" json:"country,omitempty"`
	City          string              `bson:"city" json:"city"`
	BackgroundImg string              `bson:"backgroundImg,omitempty" json:"backgroundImg,omitempty"`
}

// User represents the application user account.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username       string             `bson:"username" json:"username"`
	Email          string             `bson:"email" json:"email"`
	PasswordHash   string             `bson:"passwordHash" json:"-"`
	IsActivated    bool               `bson:"isActivated" json:"isActivated"`
	ActivationLink string             `bson:"activationLink,omitempty" json:"-"`
	Roles          []string           `bson:"roles" json:"roles"`
	Profile        Profile            `bson:"profile" json:"profile"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

const (
	SexMale   = "male"
	SexFemale = "female"
	SexSecret = "secret"
)

const RoleUser = "USER"
