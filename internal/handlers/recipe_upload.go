package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"recipebook/internal/models"
)

/*
=======================
  INPUT STRUCT
=======================
*/

type multipartRecipeInput struct {
	Name         string
	Descriptions []models.Description
	CookingTime  int
	Calories     int
	IsVegan      bool
	IsVegetarian bool
	Difficulty   int
	Compounds    []models.Compound
	Tags         []string
	Category     string
	Country      string
	Meal         string
	Cooking      []string
	ImagePath    string
	ImageSet     bool
}

/*
=======================
  PARSER
=======================
*/

func parseMultipartRecipeRequest(c *gin.Context, uploadDir string) (multipartRecipeInput, error) {
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		log.Println("PARSE ERROR:", err)
		return multipartRecipeInput{}, err
	}

	input := multipartRecipeInput{
		Name:     strings.TrimSpace(c.PostForm("name")),
		Category: strings.TrimSpace(c.PostForm("category")),
		Country:  strings.TrimSpace(c.PostForm("country")),
		Meal:     strings.TrimSpace(c.PostForm("meal")),
	}

	// ---- JSON-ENCODED FIELDS ----

	if err := json.Unmarshal([]byte(c.DefaultPostForm("descriptions", "[]")), &input.Descriptions); err != nil {
		return multipartRecipeInput{}, fmt.Errorf("invalid descriptions: %w", err)
	}
	if err := json.Unmarshal([]byte(c.DefaultPostForm("compounds", "[]")), &input.Compounds); err != nil {
		return multipartRecipeInput{}, fmt.Errorf("invalid compounds: %w", err)
	}
	if err := json.Unmarshal([]byte(c.DefaultPostForm("cooking", "[]")), &input.Cooking); err != nil {
		return multipartRecipeInput{}, fmt.Errorf("invalid cooking: %w", err)
	}
	if err := json.Unmarshal([]byte(c.DefaultPostForm("tags", "[]")), &input.Tags); err != nil {
		return multipartRecipeInput{}, fmt.Errorf("invalid tags: %w", err)
	}

	// ---- NUMBER FIELDS ----

	if value := strings.TrimSpace(c.PostForm("cookingTime")); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return multipartRecipeInput{}, fmt.Errorf("invalid cookingTime: %q", value)
		}
		input.CookingTime = parsed
	}

	if value := strings.TrimSpace(c.PostForm("calories")); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return multipartRecipeInput{}, fmt.Errorf("invalid calories: %q", value)
		}
		input.Calories = parsed
	}

	if value := strings.TrimSpace(c.PostForm("difficulty")); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return multipartRecipeInput{}, fmt.Errorf("invalid difficulty: %q", value)
		}
		input.Difficulty = parsed
	}

	// ---- BOOL FIELDS ----

	input.IsVegan = c.PostForm("isVegan") == "true"
	input.IsVegetarian = c.PostForm("isVegetarian") == "true"

	// ---- IMAGE FILE ----

	file, err := c.FormFile("image")
	if err == nil {
		imagePath, err := saveImage(file, uploadDir)
		if err != nil {
			return multipartRecipeInput{}, err
		}
		input.ImagePath = imagePath
		input.ImageSet = true
	} else if !errors.Is(err, http.ErrMissingFile) &&
		!strings.Contains(err.Error(), "no such file") {
		return multipartRecipeInput{}, err
	}

	return input, nil
}

func validateRecipeInput(input multipartRecipeInput) error {
	if input.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(input.Descriptions) == 0 {
		return fmt.Errorf("at least one description is required")
	}
	for _, desc := range input.Descriptions {
		if desc.Text == "" {
			return fmt.Errorf("description text is required")
		}
	}
	if input.CookingTime < 1 {
		return fmt.Errorf("cookingTime must be at least 1")
	}
	if input.Calories < 0 {
		return fmt.Errorf("calories must not be negative")
	}
	if input.Difficulty < 1 || input.Difficulty > 10 {
		return fmt.Errorf("difficulty must be between 1 and 10")
	}
	if len(input.Compounds) == 0 {
		return fmt.Errorf("at least one ingredient is required")
	}
	for _, compound := range input.Compounds {
		if compound.Name == "" {
			return fmt.Errorf("ingredient name is required")
		}
		if compound.Amount <= 0 {
			return fmt.Errorf("ingredient amount must be greater than 0")
		}
		if _, ok := models.MetricUnits[compound.Unit]; !ok {
			return fmt.Errorf("unsupported ingredient unit: %s", compound.Unit)
		}
	}
	if input.Category == "" {
		return fmt.Errorf("category is required")
	}
	if len(input.Cooking) == 0 {
		return fmt.Errorf("cooking steps are required")
	}
	return nil
}

/*
=======================
  HANDLER
=======================
*/

func CreateRecipe(db *mongo.Database, uploadDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /profile/create-recipe"
		defer handlePanic(c, route)

		userID, ok := contextUserID(c)
		if !ok {
			return
		}

		input, err := parseMultipartRecipeRequest(c, uploadDir)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}
		if err := validateRecipeInput(input); err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			respondWithError(c, http.StatusNotFound, route, "user not found")
			return
		}

		countryName := ""
		regionName := ""
		if input.Country != "" {
			var country models.Country
			if err := db.Collection("countries").FindOne(ctx, bson.M{"name.en": input.Country}).Decode(&country); err != nil {
				respondWithError(c, http.StatusNotFound, route, "country not found")
				return
			}
			countryName = country.Name.En

			var region models.Region
			if err := db.Collection("regions").FindOne(ctx, bson.M{"_id": country.Region}).Decode(&region); err == nil {
				regionName = region.Name.En
			}
		}

		imageURL := ""
		if input.ImageSet {
			imageURL = input.ImagePath
		}

		now := time.Now()
		recipe := models.Recipe{
			Name:         input.Name,
			Descriptions: input.Descriptions,
			ImageURL:     imageURL,
			CookingTime:  input.CookingTime,
			Calories:     input.Calories,
			IsVegan:      input.IsVegan,
			IsVegetarian: input.IsVegetarian,
			Difficulty:   input.Difficulty,
			Compounds:    input.Compounds,
			Tags:         input.Tags,
			IsActive:     true,
			Category:     input.Category,
			Country:      countryName,
			Region:       regionName,
			AuthorCity:   user.Profile.City,
			Author:       userID,
			Meal:         input.Meal,
			Cooking:      input.Cooking,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		res, err := db.Collection("recipes").InsertOne(ctx, recipe)
		if err != nil {
			log.Println("[RECIPE] [ERROR] insert failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		recipe.ID = res.InsertedID.(primitive.ObjectID)

		log.Println("[RECIPE] [INFO] recipe created:", recipe.ID.Hex())
		c.JSON(http.StatusCreated, recipe)
	}
}

/*
=======================
  IMAGE SAVE
=======================
*/

func saveImage(file *multipart.FileHeader, uploadDir string) (string, error) {
	extension := strings.ToLower(filepath.Ext(file.Filename))
	if extension == "" {
		return "", fmt.Errorf("image file extension is required")
	}
	allowedExtensions := map[string]struct{}{
		".jpg":  {},
		".jpeg": {},
		".png":  {},
		".webp": {},
	}
	if _, ok := allowedExtensions[extension]; !ok {
		return "", fmt.Errorf("unsupported image type: %s", extension)
	}
	const maxImageSize = 5 << 20
	if file.Size > maxImageSize {
		return "", fmt.Errorf("image file too large (max 5MB)")
	}

	filename := primitive.NewObjectID().Hex() + extension

	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		log.Printf("[UPLOAD] saveImage: failed to create directory %s: %v", uploadDir, err)
		return "", err
	}

	fullPath := filepath.Join(uploadDir, filename)
	log.Printf("[UPLOAD] saveImage: filename=%s ext=%s fullPath=%s", filename, extension, fullPath)

	out, err := os.Create(fullPath)
	if err != nil {
		log.Printf("[UPLOAD] saveImage: failed to create file %s: %v", fullPath, err)
		return "", err
	}
	defer out.Close()

	in, err := file.Open()
	if err != nil {
		log.Printf("[UPLOAD] saveImage: failed to open upload %s: %v", file.Filename, err)
		return "", err
	}
	defer in.Close()

	if _, err := io.Copy(out, in); err != nil {
		log.Printf("[UPLOAD] saveImage: failed to save file %s: %v", fullPath, err)
		return "", err
	}

	// URL the frontend loads via the /img static route
	return "/img/" + filename, nil
}

/*
=======================
  DELETE GUARD
=======================
*/

var uploadRootDir = "./public/img"

// SetUploadRoot points the delete guard at the configured upload directory.
func SetUploadRoot(dir string) {
	if strings.TrimSpace(dir) != "" {
		uploadRootDir = dir
	}
}

func safeDeleteUpload(imageURL string) error {
	trimmed := strings.TrimSpace(imageURL)
	if trimmed == "" {
		return nil
	}

	cleanRel := path.Clean("/" + strings.TrimPrefix(trimmed, "/"))
	if !strings.HasPrefix(cleanRel, "/img/") {
		return fmt.Errorf("refusing to delete non-upload path: %s", imageURL)
	}
	filename := strings.TrimPrefix(cleanRel, "/img/")

	cleanBase := filepath.Clean(uploadRootDir)
	targetPath := filepath.Join(cleanBase, filepath.FromSlash(filename))
	cleanTarget := filepath.Clean(targetPath)
	if cleanTarget == cleanBase || !strings.HasPrefix(cleanTarget, cleanBase+string(os.PathSeparator)) {
		return fmt.Errorf("refusing to delete path outside upload root: %s", imageURL)
	}

	if err := os.Remove(cleanTarget); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	return nil
}
