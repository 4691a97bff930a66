package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"recipebook/internal/token"
)

func testIssuer() *token.Issuer {
	return token.NewIssuer("test-access-secret", "test-refresh-secret", time.Hour, 24*time.Hour)
}

func TestAuth_ValidToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	issuer := testIssuer()
	userID := primitive.NewObjectID()
	access, _, err := issuer.GenerateTokens(token.Claims{
		UserID:   userID.Hex(),
		Email:    "cook@example.com",
		Username: "cook_42",
		Roles:    []string{"USER"},
	})
	require.NoError(t, err)

	router := gin.New()
	router.Use(Auth(issuer))
	router.GET("/protected", func(c *gin.Context) {
		claims := c.MustGet(ContextClaims).(*token.Claims)
		id := c.MustGet(ContextUserID).(primitive.ObjectID)
		c.JSON(http.StatusOK, gin.H{
			"username": claims.Username,
			"userId":   id.Hex(),
		})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cook_42")
	assert.Contains(t, w.Body.String(), userID.Hex())
}

func TestAuth_MissingHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(Auth(testIssuer()))
	router.GET("/protected", func(c *gin.Context) {
		t.Fatal("handler should not be reached")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "unauthorized")
}

func TestAuth_MalformedHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(Auth(testIssuer()))
	router.GET("/protected", func(c *gin.Context) {
		t.Fatal("handler should not be reached")
	})

	for _, header := range []string{"Bearer", "Token abc", "Bearer "} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", header)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(Auth(testIssuer()))
	router.GET("/protected", func(c *gin.Context) {
		t.Fatal("handler should not be reached")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_RefreshTokenRejected(t *testing.T) {
	gin.SetMode(gin.TestMode)

	issuer := testIssuer()
	_, refresh, err := issuer.GenerateTokens(token.Claims{
		UserID: primitive.NewObjectID().Hex(),
	})
	require.NoError(t, err)

	router := gin.New()
	router.Use(Auth(issuer))
	router.GET("/protected", func(c *gin.Context) {
		t.Fatal("handler should not be reached")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRoles_GatesOnClaimRoles(t *testing.T) {
	gin.SetMode(gin.TestMode)

	issuer := testIssuer()
	access, _, err := issuer.GenerateTokens(token.Claims{
		UserID: primitive.NewObjectID().Hex(),
		Roles:  []string{"USER"},
	})
	require.NoError(t, err)

	router := gin.New()
	router.Use(Auth(issuer))
	router.GET("/admin", requireRoles("ADMIN"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/user", requireRoles("USER", "ADMIN"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/user", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
