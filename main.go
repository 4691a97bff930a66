package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"recipebook/internal/auth"
	"recipebook/internal/config"
	"recipebook/internal/database"
	"recipebook/internal/handlers"
	"recipebook/internal/logging"
	"recipebook/internal/mail"
	"recipebook/internal/middleware"
	"recipebook/internal/token"
)

func main() {
	config.Load()
	logging.Setup(config.AppEnv.LogFile)

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("⚠️ user index warning: %v", err)
	}
	if err := database.EnsureTokenIndexes(db); err != nil {
		log.Printf("⚠️ token index warning: %v", err)
	}
	if err := database.EnsureRecipeIndexes(db); err != nil {
		log.Printf("⚠️ recipe index warning: %v", err)
	}
	if err := database.EnsureCollectionIndexes(db); err != nil {
		log.Printf("⚠️ collection index warning: %v", err)
	}
	if err := database.EnsureCountryIndexes(db); err != nil {
		log.Printf("⚠️ country index warning: %v", err)
	}

	issuer := token.NewIssuer(
		config.AppEnv.JWTAccessSecret,
		config.AppEnv.JWTRefreshSecret,
		config.AppEnv.AccessTokenTTL,
		config.AppEnv.RefreshTokenTTL,
	)
	tokens := token.NewStore(db)
	mailer := mail.New(
		config.AppEnv.SMTPHost,
		config.AppEnv.SMTPPort,
		config.AppEnv.SMTPUser,
		config.AppEnv.SMTPPass,
	)
	users := auth.NewMongoUserStore(db)
	sessions := auth.NewService(users, issuer, tokens, mailer, config.AppEnv.APIURL)

	handlers.SetUploadRoot(config.AppEnv.UploadDir)

	r := gin.Default()
	r.Use(middleware.CORS(config.AppEnv.CORSOrigins))
	r.Static("/img", config.AppEnv.UploadDir)

	r.GET("/health", handlers.Health(db))

	r.POST("/auth/registration", handlers.Register(sessions, config.AppEnv.RefreshTokenTTL))
	r.POST("/auth/login", handlers.Login(sessions, config.AppEnv.RefreshTokenTTL))
	r.GET("/auth/validate-token", handlers.ValidateToken(sessions, config.AppEnv.RefreshTokenTTL))
	r.GET("/auth/logout", handlers.Logout(sessions))
	r.GET("/auth/activate/:link", handlers.Activate(sessions))

	profile := r.Group("/profile")
	profile.Use(middleware.Auth(issuer))
	{
		profile.GET("/user-devices", handlers.GetUserDevices(sessions))
		profile.DELETE("/exit-device/:deviceId", handlers.ExitDevice(sessions))
		profile.POST("/edit-profile", handlers.EditProfile(db, sessions))
		profile.GET("/user-recipes", handlers.GetUserRecipes(db))
		profile.POST("/create-recipe", handlers.CreateRecipe(db, config.AppEnv.UploadDir))
		profile.DELETE("/delete-recipe/:recipeId", handlers.DeleteRecipe(db))
	}

	// resolving ids to recipes is public, the rest of the group is not
	r.POST("/user-categories/recipes", handlers.GetRecipesByIDs(db))

	collections := r.Group("/user-categories")
	collections.Use(middleware.Auth(issuer))
	{
		collections.POST("", handlers.CreateCollection(db))
		collections.GET("", handlers.GetCollections(db))
		collections.DELETE("/:categoryId", handlers.DeleteCollection(db))
		collections.POST("/:categoryId/recipes/:recipeId", handlers.AddRecipeToCollection(db))
		collections.DELETE("/:categoryId/recipes/:recipeId", handlers.RemoveRecipeFromCollection(db))
	}

	catalog := r.Group("/categories")
	{
		catalog.GET("/all-categories", handlers.GetCategories(db))
		catalog.GET("/recipes/category/:categoryName", handlers.GetRecipesByCategory(db))
		catalog.GET("/all-recipes", handlers.GetAllRecipes(db))
		catalog.GET("/recipe/:recipeId", handlers.GetRecipeByID(db))
		catalog.GET("/recipe-by-region/:region", handlers.GetRecipesByRegion(db))
		catalog.GET("/recipe-by-country/:country", handlers.GetRecipesByCountry(db))
		catalog.GET("/search", handlers.SearchRecipes(db))
	}

	extras := r.Group("/extras")
	{
		extras.GET("/all-countries", handlers.GetAllCountries(db))
		extras.GET("/country/:name", handlers.GetCountryByName(db))
		extras.GET("/all-regions", handlers.GetAllRegions(db))
		extras.GET("/region/:name", handlers.GetRegionByName(db))
		extras.GET("/countries-by-region/:regionName", handlers.GetCountriesByRegion(db))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
