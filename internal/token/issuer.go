package token

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Claims is the payload embedded in both token types. It is rebuilt from the
// user record at every issuance, never read back from storage.
type Claims struct {
	UserID      string   `json:"userId"`
	Email       string   `json:"email"`
	Username    string   `json:"username"`
	IsActivated bool     `json:"isActivated"`
	Roles       []string `json:"roles"`
	Sex         string   `json:"sex"`
	AboutMe     string   `json:"aboutMe"`
	jwtlib.RegisteredClaims
}

// Issuer mints and verifies the access/refresh token pair. It holds the two
// signing secrets read at startup and no other state.
type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// GenerateTokens signs the claim set twice: short-lived against the access
// secret, long-lived against the refresh secret. A signing error means the
// secrets are misconfigured and the request cannot proceed.
func (i *Issuer) GenerateTokens(claims Claims) (string, string, error) {
	now := time.Now()

	accessClaims := claims
	accessClaims.RegisteredClaims = jwtlib.RegisteredClaims{
		IssuedAt:  jwtlib.NewNumericDate(now),
		ExpiresAt: jwtlib.NewNumericDate(now.Add(i.accessTTL)),
	}
	accessToken, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, accessClaims).SignedString(i.accessSecret)
	if err != nil {
		return "", "", err
	}

	refreshClaims := claims
	refreshClaims.RegisteredClaims = jwtlib.RegisteredClaims{
		IssuedAt:  jwtlib.NewNumericDate(now),
		ExpiresAt: jwtlib.NewNumericDate(now.Add(i.refreshTTL)),
	}
	refreshToken, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, refreshClaims).SignedString(i.refreshSecret)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// ValidateAccessToken verifies signature and expiry against the access
// secret. Any failure comes back as nil so callers have a single
// "unauthenticated" branch regardless of the cause.
func (i *Issuer) ValidateAccessToken(tokenStr string) *Claims {
	return validate(tokenStr, i.accessSecret)
}

// ValidateRefreshToken is the same contract against the refresh secret.
func (i *Issuer) ValidateRefreshToken(tokenStr string) *Claims {
	return validate(tokenStr, i.refreshSecret)
}

func validate(tokenStr string, secret []byte) *Claims {
	parsed, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (any, error) {
		return secret, nil
	}, jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil
	}
	return claims
}
