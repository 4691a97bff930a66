package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"recipebook/internal/auth"
	"recipebook/internal/middleware"
)

func handlePanic(c *gin.Context, route string) {
	if r := recover(); r != nil {
		log.Printf("[%s] panic recovered: %v", route, r)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func ensureDBConnection(ctx context.Context, db *mongo.Database) error {
	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return db.Client().Ping(checkCtx, readpref.Primary())
}

func respondWithError(c *gin.Context, status int, route string, message string) {
	log.Printf("[%s] returning error %d: %s", route, status, message)
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// deviceInfo derives the coarse session key from the client user-agent.
func deviceInfo(c *gin.Context) auth.DeviceInfo {
	device := strings.TrimSpace(c.Request.UserAgent())
	if device == "" {
		device = "unknown"
	}
	return auth.DeviceInfo{
		Device:    device,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

// contextUserID reads the id the auth gate stored. Missing means the route
// was wired without the gate; answer 401 like the gate would.
func contextUserID(c *gin.Context) (primitive.ObjectID, bool) {
	value, ok := c.Get(middleware.ContextUserID)
	if !ok {
		log.Println("[AUTH] [ERROR] userId missing in context")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return primitive.NilObjectID, false
	}
	return value.(primitive.ObjectID), true
}

func Health(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
