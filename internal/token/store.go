package token

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"recipebook/internal/models"
)

// Store owns the refresh_tokens collection policy: one record per (user,
// device), replaced in place on every rotation.
type Store struct {
	db *mongo.Database
}

func NewStore(db *mongo.Database) *Store {
	return &Store{db: db}
}

func (s *Store) collection() *mongo.Collection {
	return s.db.Collection("refresh_tokens")
}

// Save upserts the record for (user, device) in a single round trip. The
// unique compound index keeps concurrent refreshes from duplicating the
// pair; overlapping writes settle last-write-wins.
func (s *Store) Save(ctx context.Context, rec models.RefreshToken) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	_, err := s.collection().ReplaceOne(ctx,
		bson.M{"user": rec.UserID, "device": rec.Device},
		rec,
		options.Replace().SetUpsert(true),
	)
	return err
}

// Find returns the record holding exactly this token string on this device,
// or nil when no such record exists.
func (s *Store) Find(ctx context.Context, refreshToken, device string) (*models.RefreshToken, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var rec models.RefreshToken
	err := s.collection().FindOne(ctx, bson.M{
		"refreshToken": refreshToken,
		"device":       device,
	}).Decode(&rec)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// Remove deletes the record matching (token, device). Deleting nothing is
// not an error: logout is idempotent.
func (s *Store) Remove(ctx context.Context, refreshToken, device string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := s.collection().DeleteOne(ctx, bson.M{
		"refreshToken": refreshToken,
		"device":       device,
	})
	return err
}

// ListByUser returns the session projections for every device the user is
// logged in on, newest first.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.DeviceSession, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := s.collection().Find(ctx,
		bson.M{"user": userID},
		options.Find().
			SetProjection(bson.M{"_id": 1, "device": 1, "createdAt": 1}).
			SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	sessions := make([]models.DeviceSession, 0)
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// RemoveByID deletes one session record, scoped to its owner. A record
// belonging to someone else looks the same as a missing one.
func (s *Store) RemoveByID(ctx context.Context, id, userID primitive.ObjectID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := s.collection().DeleteOne(ctx, bson.M{"_id": id, "user": userID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
