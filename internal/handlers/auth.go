package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"recipebook/internal/auth"
)

const refreshCookieName = "refreshToken"

type registrationRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Sex             string `json:"sex"`
	AboutMe         string `json:"aboutMe"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /auth/registration. The refresh token travels only
// as an httpOnly cookie; the access token only in the body.
func Register(sessions *auth.Service, refreshTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/registration"
		defer handlePanic(c, route)

		var req registrationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid body")
			return
		}

		session, err := sessions.Register(c.Request.Context(), auth.RegisterInput{
			Username:        req.Username,
			Email:           req.Email,
			Password:        req.Password,
			ConfirmPassword: req.ConfirmPassword,
			Sex:             req.Sex,
			AboutMe:         req.AboutMe,
		}, deviceInfo(c))
		if err != nil {
			respondSessionError(c, route, err)
			return
		}

		setRefreshCookie(c, session.RefreshToken, refreshTTL)
		log.Println("[AUTH] [INFO] user registered:", session.User.Email)
		c.JSON(http.StatusCreated, gin.H{
			"user":        session.User,
			"accessToken": session.AccessToken,
		})
	}
}

func Login(sessions *auth.Service, refreshTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/login"
		defer handlePanic(c, route)

		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid body")
			return
		}

		session, err := sessions.Login(c.Request.Context(), auth.LoginInput{
			Email:    req.Email,
			Password: req.Password,
		}, deviceInfo(c))
		if err != nil {
			respondSessionError(c, route, err)
			return
		}

		setRefreshCookie(c, session.RefreshToken, refreshTTL)
		log.Println("[AUTH] [INFO] user login succeeded:", session.User.Email)
		c.JSON(http.StatusOK, gin.H{
			"user":        session.User,
			"accessToken": session.AccessToken,
		})
	}
}

// ValidateToken handles GET /auth/validate-token: it rotates the refresh
// token carried by the cookie and returns a fresh access token.
func ValidateToken(sessions *auth.Service, refreshTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /auth/validate-token"
		defer handlePanic(c, route)

		refreshToken, err := c.Cookie(refreshCookieName)
		if err != nil {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		session, err := sessions.Refresh(c.Request.Context(), refreshToken, deviceInfo(c))
		if err != nil {
			respondSessionError(c, route, err)
			return
		}

		setRefreshCookie(c, session.RefreshToken, refreshTTL)
		c.JSON(http.StatusOK, gin.H{
			"user":        session.User,
			"accessToken": session.AccessToken,
		})
	}
}

func Logout(sessions *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /auth/logout"
		defer handlePanic(c, route)

		refreshToken, err := c.Cookie(refreshCookieName)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "refresh token is required")
			return
		}

		if err := sessions.Logout(c.Request.Context(), refreshToken, deviceInfo(c).Device); err != nil {
			respondSessionError(c, route, err)
			return
		}

		clearRefreshCookie(c)
		c.JSON(http.StatusOK, gin.H{"message": "logout successful"})
	}
}

func Activate(sessions *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /auth/activate/:link"
		defer handlePanic(c, route)

		if err := sessions.Activate(c.Request.Context(), c.Param("link")); err != nil {
			respondSessionError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "account activated"})
	}
}

func setRefreshCookie(c *gin.Context, token string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(refreshCookieName, token, int(ttl.Seconds()), "/", "", false, true)
}

func clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(refreshCookieName, "", -1, "/", "", false, true)
}

// respondSessionError maps the service error taxonomy onto status codes.
// Anything unrecognized is a store or signing failure and stays a plain 500.
func respondSessionError(c *gin.Context, route string, err error) {
	switch {
	case auth.IsValidation(err):
		respondWithError(c, http.StatusBadRequest, route, err.Error())
	case errors.Is(err, auth.ErrEmailTaken):
		respondWithError(c, http.StatusConflict, route, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		respondWithError(c, http.StatusUnauthorized, route, err.Error())
	case errors.Is(err, auth.ErrUnauthorized):
		respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
	case errors.Is(err, auth.ErrCountryNotFound):
		respondWithError(c, http.StatusBadRequest, route, err.Error())
	case errors.Is(err, auth.ErrSessionNotFound),
		errors.Is(err, auth.ErrActivationNotFound):
		respondWithError(c, http.StatusNotFound, route, err.Error())
	default:
		log.Printf("[%s] unexpected error: %v", route, err)
		respondWithError(c, http.StatusInternalServerError, route, "internal server error")
	}
}
