package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureUserIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("users").Indexes()

	emailIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName("email_unique").
			SetUnique(true),
	}

	log.Println("EnsureUserIndexes: creating email_unique index")
	_, err := indexes.CreateOne(ctx, emailIndex)
	if err != nil {
		log.Println("EnsureUserIndexes: email index error:", err)
		return err
	}
	log.Println("EnsureUserIndexes: email_unique index created")
	return nil
}

// EnsureTokenIndexes backs the one-record-per-(user,device) rule: the upsert
// in the token store cannot leave duplicates even when two refreshes race.
func EnsureTokenIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("refresh_tokens").Indexes()

	deviceIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "user", Value: 1},
			{Key: "device", Value: 1},
		},
		Options: options.Index().
			SetName("user_device_unique").
			SetUnique(true),
	}

	log.Println("EnsureTokenIndexes: creating user_device_unique index")
	_, err := indexes.CreateOne(ctx, deviceIndex)
	if err != nil {
		log.Println("EnsureTokenIndexes: user_device index error:", err)
		return err
	}
	log.Println("EnsureTokenIndexes: user_device_unique index created")
	return nil
}

func EnsureRecipeIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("recipes").Indexes()

	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "author", Value: 1}},
			Options: options.Index().SetName("author_index"),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}},
			Options: options.Index().SetName("category_index"),
		},
		{
			Keys:    bson.D{{Key: "country", Value: 1}},
			Options: options.Index().SetName("country_index"),
		},
		{
			Keys:    bson.D{{Key: "region", Value: 1}},
			Options: options.Index().SetName("region_index"),
		},
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetName("name_index"),
		},
	}

	log.Println("EnsureRecipeIndexes: creating recipe indexes")
	_, err := indexes.CreateMany(ctx, models)
	if err != nil {
		log.Println("EnsureRecipeIndexes: recipe index error:", err)
		return err
	}
	log.Println("EnsureRecipeIndexes: recipe indexes created")
	return nil
}

func EnsureCollectionIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("user_categories").Indexes()

	nameIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "user", Value: 1},
			{Key: "name", Value: 1},
		},
		Options: options.Index().
			SetName("user_name_unique").
			SetUnique(true),
	}

	log.Println("EnsureCollectionIndexes: creating user_name_unique index")
	_, err := indexes.CreateOne(ctx, nameIndex)
	if err != nil {
		log.Println("EnsureCollectionIndexes: user_name index error:", err)
		return err
	}
	log.Println("EnsureCollectionIndexes: user_name_unique index created")
	return nil
}

func EnsureCountryIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("countries").Indexes()

	codeIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "code", Value: 1}},
		Options: options.Index().
			SetName("code_unique").
			SetUnique(true),
	}

	log.Println("EnsureCountryIndexes: creating code_unique index")
	_, err := indexes.CreateOne(ctx, codeIndex)
	if err != nil {
		log.Println("EnsureCountryIndexes: code index error:", err)
		return err
	}
	log.Println("EnsureCountryIndexes: code_unique index created")
	return nil
}
