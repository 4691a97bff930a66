package handlers

import (
	"context"
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

// countryResponse is a country with its region reference resolved to a name,
// the shape frontend dropdowns consume.
type countryResponse struct {
	ID        string               `json:"id"`
	Name      models.LocalizedName `json:"name"`
	Code      string               `json:"code"`
	FlagURL   string               `json:"flagUrl"`
	Region    *regionRef           `json:"region"`
	CreatedAt time.Time            `json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

type regionRef struct {
	ID   string               `json:"id"`
	Name models.LocalizedName `json:"name"`
}

func newCountryResponse(country models.Country, regions map[primitive.ObjectID]models.Region) countryResponse {
	resp := countryResponse{
		ID:        country.ID.Hex(),
		Name:      country.Name,
		Code:      country.Code,
		FlagURL:   country.FlagURL,
		CreatedAt: country.CreatedAt,
		UpdatedAt: country.UpdatedAt,
	}
	if region, ok := regions[country.Region]; ok {
		resp.Region = &regionRef{ID: region.ID.Hex(), Name: region.Name}
	}
	return resp
}

// regionsByID loads every region once so country lists resolve their region
// reference without a query per row.
func regionsByID(ctx context.Context, db *mongo.Database) (map[primitive.ObjectID]models.Region, error) {
	cursor, err := db.Collection("regions").Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var regions []models.Region
	if err := cursor.All(ctx, &regions); err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]models.Region, len(regions))
	for _, region := range regions {
		byID[region.ID] = region
	}
	return byID, nil
}

func GetAllCountries(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /extras/all-countries"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("countries").Find(ctx, bson.M{},
			options.Find().SetSort(bson.D{{Key: "name.en", Value: 1}}),
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		var countries []models.Country
		if err := cursor.All(ctx, &countries); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		regions, err := regionsByID(ctx, db)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		responses := make([]countryResponse, 0, len(countries))
		for _, country := range countries {
			responses = append(responses, newCountryResponse(country, regions))
		}
		c.JSON(http.StatusOK, responses)
	}
}

func GetCountryByName(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /extras/country/:name"
		defer handlePanic(c, route)

		name := strings.TrimSpace(c.Param("name"))
		if name == "" {
			respondWithError(c, http.StatusBadRequest, route, "country name is required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var country models.Country
		err := db.Collection("countries").FindOne(ctx, bson.M{"name.en": name}).Decode(&country)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				respondWithError(c, http.StatusNotFound, route, "country not found")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		regions, err := regionsByID(ctx, db)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, newCountryResponse(country, regions))
	}
}

func GetAllRegions(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /extras/all-regions"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("regions").Find(ctx, bson.M{},
			options.Find().SetSort(bson.D{{Key: "name.en", Value: 1}}),
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		regions := make([]models.Region, 0)
		if err := cursor.All(ctx, &regions); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, regions)
	}
}

func GetRegionByName(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /extras/region/:name"
		defer handlePanic(c, route)

		name := strings.TrimSpace(c.Param("name"))
		if name == "" {
			respondWithError(c, http.StatusBadRequest, route, "region name is required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var region models.Region
		err := db.Collection("regions").FindOne(ctx, bson.M{"name.en": name}).Decode(&region)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				respondWithError(c, http.StatusNotFound, route, "region not found")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, region)
	}
}

func GetCountriesByRegion(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /extras/countries-by-region/:regionName"
		defer handlePanic(c, route)

		name := strings.TrimSpace(c.Param("regionName"))
		if name == "" {
			respondWithError(c, http.StatusBadRequest, route, "region name is required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var region models.Region
		err := db.Collection("regions").FindOne(ctx, bson.M{"name.en": name}).Decode(&region)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				respondWithError(c, http.StatusNotFound, route, "region not found")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		cursor, err := db.Collection("countries").Find(ctx,
			bson.M{"region": region.ID},
			options.Find().SetSort(bson.D{{Key: "name.en", Value: 1}}),
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		var countries []models.Country
		if err := cursor.All(ctx, &countries); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		regions := map[primitive.ObjectID]models.Region{region.ID: region}
		responses := make([]countryResponse, 0, len(countries))
		for _, country := range countries {
			responses = append(responses, newCountryResponse(country, regions))
		}
		c.JSON(http.StatusOK, responses)
	}
}
