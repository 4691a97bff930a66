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

func GetCategories(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /categories/all-categories"
		defer handlePanic(c, route)

		log.Printf("[%s] hit", route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("categories").Find(
			ctx,
			bson.M{"isActive": true},
			options.Find().SetSort(bson.D{{Key: "name", Value: 1}}),
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		categories := make([]models.Category, 0)
		if err := cursor.All(ctx, &categories); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		log.Printf("[%s] returning %d categories", route, len(categories))
		c.JSON(http.StatusOK, categories)
	}
}

func GetRecipesByCategory(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /categories/recipes/category/:categoryName"
		defer handlePanic(c, route)

		categoryName := strings.TrimSpace(c.Param("categoryName"))
		if categoryName == "" {
			respondWithError(c, http.StatusBadRequest, route, "category name is required")
			return
		}

		recipes, err := findRecipes(c.Request.Context(), db, bson.M{"category": categoryName}, nil)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, recipes)
	}
}

/*
GET /categories/all-recipes
- Pagination OPTIONAL
- no page + limit -> ALL recipes
*/
func GetAllRecipes(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /categories/all-recipes"
		defer handlePanic(c, route)

		log.Printf("[%s] hit page=%s limit=%s", route, c.Query("page"), c.Query("limit"))

		findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

		pageStr := c.Query("page")
		limitStr := c.Query("limit")
		if pageStr != "" && limitStr != "" {
			page, limit, err := parsePaginationParams(pageStr, limitStr)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "invalid pagination params")
				return
			}
			findOptions.SetSkip((page - 1) * limit).SetLimit(limit)
		}

		recipes, err := findRecipes(c.Request.Context(), db, bson.M{"isActive": true}, findOptions)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Printf("[%s] returning %d recipes", route, len(recipes))
		c.JSON(http.StatusOK, recipes)
	}
}

func GetRecipeByID(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /categories/recipe/:recipeId"
		defer handlePanic(c, route)

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

		c.JSON(http.StatusOK, recipe)
	}
}

func GetRecipesByRegion(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /categories/recipe-by-region/:region"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var region models.Region
		if err := db.Collection("regions").FindOne(ctx, bson.M{"name.en": c.Param("region")}).Decode(&region); err != nil {
			respondWithError(c, http.StatusNotFound, route, "region not found")
			return
		}

		recipes, err := findRecipes(c.Request.Context(), db, bson.M{"region": region.Name.En}, nil)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if len(recipes) == 0 {
			respondWithError(c, http.StatusNotFound, route, "no recipes found for this region")
			return
		}

		c.JSON(http.StatusOK, recipes)
	}
}

func GetRecipesByCountry(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /categories/recipe-by-country/:country"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var country models.Country
		if err := db.Collection("countries").FindOne(ctx, bson.M{"name.en": c.Param("country")}).Decode(&country); err != nil {
			respondWithError(c, http.StatusNotFound, route, "country not found")
			return
		}

		recipes, err := findRecipes(c.Request.Context(), db, bson.M{"country": country.Name.En}, nil)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if len(recipes) == 0 {
			respondWithError(c, http.StatusNotFound, route, "no recipes found for this country")
			return
		}

		c.JSON(http.StatusOK, recipes)
	}
}

/*
GET /categories/search?query=borscht,beet
- comma-separated terms
- each term matches recipe name OR ingredient name, case-insensitive
*/
func SearchRecipes(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /categories/search"
		defer handlePanic(c, route)

		terms := parseSearchTerms(c.Query("query"))
		if len(terms) == 0 {
			respondWithError(c, http.StatusBadRequest, route, "query parameter is required")
			return
		}

		conditions := make([]bson.M, 0, len(terms))
		for _, term := range terms {
			conditions = append(conditions, bson.M{
				"$or": []bson.M{
					{"name": bson.M{"$regex": term, "$options": "i"}},
					{"compounds.name": bson.M{"$regex": term, "$options": "i"}},
				},
			})
		}

		recipes, err := findRecipes(c.Request.Context(), db, bson.M{
			"$or":      conditions,
			"isActive": true,
		}, nil)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Printf("[%s] %d terms, returning %d recipes", route, len(terms), len(recipes))
		c.JSON(http.StatusOK, recipes)
	}
}

func parseSearchTerms(query string) []string {
	parts := strings.Split(query, ",")
	terms := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			terms = append(terms, part)
		}
	}
	return terms
}

func findRecipes(ctx context.Context, db *mongo.Database, filter bson.M, findOptions *options.FindOptions) ([]models.Recipe, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var cursor *mongo.Cursor
	var err error
	if findOptions != nil {
		cursor, err = db.Collection("recipes").Find(ctx, filter, findOptions)
	} else {
		cursor, err = db.Collection("recipes").Find(ctx, filter)
	}
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	recipes := make([]models.Recipe, 0)
	if err := cursor.All(ctx, &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}
