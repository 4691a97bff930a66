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

	"recipebook/internal/auth"
	"recipebook/internal/models"
)

type editProfileRequest struct {
	Username string `json:"username"`
	AboutMe  string `json:"aboutMe"`
	Sex      string `json:"sex"`
	Country  string `json:"country"`
	City     string `json:"city"`
}

func GetUserDevices(sessions *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /profile/user-devices"
		defer handlePanic(c, route)

		userID, ok := contextUserID(c)
		if !ok {
			return
		}

		devices, err := sessions.ListDevices(c.Request.Context(), userID)
		if err != nil {
			log.Println("[PROFILE] [ERROR] list devices failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, devices)
	}
}

func ExitDevice(sessions *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /profile/exit-device/:deviceId"
		defer handlePanic(c, route)

		userID, ok := contextUserID(c)
		if !ok {
			return
		}

		recordID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("deviceId")))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid device id")
			return
		}

		if err := sessions.RevokeDevice(c.Request.Context(), recordID, userID); err != nil {
			respondSessionError(c, route, err)
			return
		}

		log.Println("[PROFILE] [INFO] device revoked:", recordID.Hex())
		c.JSON(http.StatusOK, gin.H{"message": "device deleted successfully"})
	}
}

func EditProfile(db *mongo.Database, sessions *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /profile/edit-profile"
		defer handlePanic(c, route)

		userID, ok := contextUserID(c)
		if !ok {
			return
		}

		var req editProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid body")
			return
		}

		var countryID *primitive.ObjectID
		if name := strings.TrimSpace(req.Country); name != "" {
			id, err := sessions.CountryIDByName(c.Request.Context(), name)
			if err != nil {
				respondSessionError(c, route, err)
				return
			}
			countryID = &id
		}

		sex := strings.TrimSpace(req.Sex)
		switch sex {
		case models.SexMale, models.SexFemale, models.SexSecret:
		default:
			sex = models.SexSecret
		}

		update := bson.M{
			"profile.aboutMe": strings.TrimSpace(req.AboutMe),
			"profile.sex":     sex,
			"profile.country": countryID,
			"profile.city":    strings.TrimSpace(req.City),
			"updatedAt":       time.Now(),
		}
		if username := strings.TrimSpace(req.Username); username != "" {
			update["username"] = username
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var updated models.User
		err := db.Collection("users").FindOneAndUpdate(ctx,
			bson.M{"_id": userID},
			bson.M{"$set": update},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				respondWithError(c, http.StatusNotFound, route, "user not found")
				return
			}
			log.Println("[PROFILE] [ERROR] edit profile failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Println("[PROFILE] [INFO] profile updated:", updated.Username)
		c.JSON(http.StatusOK, gin.H{
			"username": updated.Username,
			"profile":  updated.Profile,
		})
	}
}

func GetUserRecipes(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /profile/user-recipes"
		defer handlePanic(c, route)

		userID, ok := contextUserID(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("recipes").Find(ctx, bson.M{"author": userID})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		recipes := make([]models.Recipe, 0)
		if err := cursor.All(ctx, &recipes); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, recipes)
	}
}

func DeleteRecipe(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /profile/delete-recipe/:recipeId"
		defer handlePanic(c, route)

		userID, ok := contextUserID(c)
		if !ok {
			return
		}

		recipeID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("recipeId")))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid recipe id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var recipe models.Recipe
		if err := db.Collection("recipes").FindOne(ctx, bson.M{"_id": recipeID}).Decode(&recipe); err != nil {
			if err == mongo.ErrNoDocuments {
				respondWithError(c, http.StatusNotFound, route, "recipe not found")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if recipe.Author != userID {
			respondWithError(c, http.StatusForbidden, route, "not allowed to delete this recipe")
			return
		}

		if _, err := db.Collection("recipes").DeleteOne(ctx, bson.M{"_id": recipeID}); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if err := safeDeleteUpload(recipe.ImageURL); err != nil {
			log.Println("[PROFILE] [ERROR] recipe image cleanup failed:", err)
		}

		log.Println("[PROFILE] [INFO] recipe deleted:", recipeID.Hex())
		c.JSON(http.StatusOK, gin.H{"message": "recipe deleted successfully"})
	}
}
