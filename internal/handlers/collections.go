package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"recipebook/internal/models"
)

const maxCollectionNameLen = 50

type createCollectionRequest struct {
	Name string `json:"name" binding:"required"`
}

type recipeIDsRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

// collectionResponse mirrors the stored document plus the derived count.
func collectionResponse(col models.Collection) gin.H {
	return gin.H{
		"id":           col.ID.Hex(),
		"name":         col.Name,
		"user":         col.UserID.Hex(),
		"recipes":      col.Recipes,
		"recipesCount": col.RecipesCount(),
		"createdAt":    col.CreatedAt,
		"updatedAt":    col.UpdatedAt,
	}
}

func CreateCollection(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /user-categories"
		defer handlePanic(c, route)

		userID, ok := contextUserID(c)
		if !ok {
			return
		}

		var req createCollectionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "name is required")
			return
		}

		name := strings.TrimSpace(req.Name)
		if name == "" {
			respondWithError(c, http.StatusBadRequest, route, "name is required")
			return
		}
		if len([]rune(name)) > maxCollectionNameLen {
			respondWithError(c, http.StatusBadRequest, route, "collection name must not exceed 50 characters")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		count, err := db.Collection("user_categories").CountDocuments(ctx, bson.M{"user": userID, "name": name})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if count > 0 {
			respondWithError(c, http.StatusConflict, route, "collection with this name already exists")
			return
		}

		now := time.Now()
		col := models.Collection{
			Name:      name,
			UserID:    userID,
			Recipes:   []primitive.ObjectID{},
			CreatedAt: now,
			UpdatedAt: now,
		}

		res, err := db.Collection("user_categories").InsertOne(ctx, col)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondWithError(c, http.StatusConflict, route, "collection with this name already exists")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		col.ID = res.InsertedID.(primitive.ObjectID)

		log.Println("[COLLECTION] [INFO] collection created:", col.ID.Hex())
		c.JSON(http.StatusCreated, collectionResponse(col))
	}
}

func GetCollections(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /user-categories"
		defer handlePanic(c, route)

		userID, ok := contextUserID(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("user_categories").Find(ctx,
			bson.M{"user": userID},
			options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		collections := make([]models.Collection, 0)
		if err := cursor.All(ctx, &collections); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		responses := make([]gin.H, 0, len(collections))
		for _, col := range collections {
			responses = append(responses, collectionResponse(col))
		}
		c.JSON(http.StatusOK, responses)
	}
}

func DeleteCollection(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /user-categories/:categoryId"
		defer handlePanic(c, route)

		userID, ok := contextUserID(c)
		if !ok {
			return
		}

		collectionID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("categoryId")))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid collection id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		// owner-scoped: someone else's collection reads as missing
		var deleted models.Collection
		err = db.Collection("user_categories").FindOneAndDelete(ctx,
			bson.M{"_id": collectionID, "user": userID},
		).Decode(&deleted)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				respondWithError(c, http.StatusNotFound, route, "collection not found")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Println("[COLLECTION] [INFO] collection deleted:", collectionID.Hex())
		c.JSON(http.StatusOK, collectionResponse(deleted))
	}
}

func updateCollectionRecipes(c *gin.Context, db *mongo.Database, route, operator string) {
	userID, ok := contextUserID(c)
	if !ok {
		return
	}

	collectionID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("categoryId")))
	if err != nil {
		respondWithError(c, http.StatusBadRequest, route, "invalid collection id")
		return
	}
	recipeID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("recipeId")))
	if err != nil {
		respondWithError(c, http.StatusBadRequest, route, "invalid recipe id")
		return
	}

	update := bson.M{
		operator: bson.M{"recipes": recipeID},
		"$set":   bson.M{"updatedAt": time.Now()},
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var updated models.Collection
	err = db.Collection("user_categories").FindOneAndUpdate(ctx,
		bson.M{"_id": collectionID, "user": userID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "collection not found")
			return
		}
		respondWithError(c, http.StatusInternalServerError, route, "db error")
		return
	}

	c.JSON(http.StatusOK, collectionResponse(updated))
}

func AddRecipeToCollection(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /user-categories/:categoryId/recipes/:recipeId"
		defer handlePanic(c, route)

		updateCollectionRecipes(c, db, route, "$addToSet")
	}
}

func RemoveRecipeFromCollection(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /user-categories/:categoryId/recipes/:recipeId"
		defer handlePanic(c, route)

		updateCollectionRecipes(c, db, route, "$pull")
	}
}

// GetRecipesByIDs resolves a collection's recipe id list into full recipes.
func GetRecipesByIDs(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /user-categories/recipes"
		defer handlePanic(c, route)

		var req recipeIDsRequest
		if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
			respondWithError(c, http.StatusBadRequest, route, "recipe ids are required")
			return
		}

		ids := make([]primitive.ObjectID, 0, len(req.IDs))
		for _, raw := range req.IDs {
			id, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "invalid recipe id: "+raw)
				return
			}
			ids = append(ids, id)
		}

		recipes, err := findRecipes(c.Request.Context(), db, bson.M{"_id": bson.M{"$in": ids}}, nil)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if len(recipes) == 0 {
			respondWithError(c, http.StatusNotFound, route, "recipes not found")
			return
		}

		c.JSON(http.StatusOK, recipes)
	}
}
