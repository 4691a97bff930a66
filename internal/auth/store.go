package auth

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"recipebook/internal/models"
	"recipebook/internal/token"
)

// UserStore is the credential-store collaborator of the session service:
// user records plus the country directory referenced by profiles. Lookups
// answer (nil, nil) for a missing record so the service owns the mapping to
// its error taxonomy.
type UserStore interface {
	EmailTaken(ctx context.Context, email string) (bool, error)
	Insert(ctx context.Context, user models.User) (primitive.ObjectID, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Activate(ctx context.Context, link string) (bool, error)
	CountryByID(ctx context.Context, id primitive.ObjectID) (*models.Country, error)
	CountryByName(ctx context.Context, name string) (*models.Country, error)
}

// TokenStore is the refresh-record policy the service drives: one record per
// (user, device), replaced in place on rotation.
type TokenStore interface {
	Save(ctx context.Context, rec models.RefreshToken) error
	Find(ctx context.Context, refreshToken, device string) (*models.RefreshToken, error)
	Remove(ctx context.Context, refreshToken, device string) error
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.DeviceSession, error)
	RemoveByID(ctx context.Context, id, userID primitive.ObjectID) (bool, error)
}

var _ TokenStore = (*token.Store)(nil)
