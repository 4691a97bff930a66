package auth

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/google/uuid"

	"recipebook/internal/mail"
	"recipebook/internal/models"
	"recipebook/internal/token"
)

// Service runs the session state machine over (user, device): anonymous
// until a refresh record exists, authenticated while it does, anonymous
// again once it is deleted.
type Service struct {
	users  UserStore
	issuer *token.Issuer
	tokens TokenStore
	mailer *mail.Service
	apiURL string
}

func NewService(users UserStore, issuer *token.Issuer, tokens TokenStore, mailer *mail.Service, apiURL string) *Service {
	return &Service{users: users, issuer: issuer, tokens: tokens, mailer: mailer, apiURL: apiURL}
}

// DeviceInfo identifies the client side of a session. Device is a coarse
// key derived from the user-agent string, not a hardware identifier.
type DeviceInfo struct {
	Device    string
	IP        string
	UserAgent string
}

type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	Sex             string
	AboutMe         string
}

func (s *Service) Register(ctx context.Context, in RegisterInput, dev DeviceInfo) (*Session, error) {
	username := strings.TrimSpace(in.Username)
	email := normalizeEmail(in.Email)
	if err := validateRegistration(username, email, in.Password, in.ConfirmPassword); err != nil {
		return nil, err
	}

	taken, err := s.users.EmailTaken(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	sex := strings.TrimSpace(in.Sex)
	switch sex {
	case models.SexMale, models.SexFemale:
	default:
		sex = models.SexSecret
	}

	now := time.Now()
	user := models.User{
		Username:       username,
		Email:          email,
		PasswordHash:   string(hash),
		IsActivated:    false,
		ActivationLink: uuid.NewString(),
		Roles:          []string{models.RoleUser},
		Profile: models.Profile{
			AboutMe: strings.TrimSpace(in.AboutMe),
			Sex:     sex,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	id, err := s.users.Insert(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = id

	if s.mailer.Enabled() {
		link := fmt.Sprintf("%s/auth/activate/%s", s.apiURL, user.ActivationLink)
		if err := s.mailer.SendActivationMail(user.Email, link); err != nil {
			log.Println("[AUTH] [ERROR] activation mail failed:", err)
		}
	}

	return s.openSession(ctx, user, nil, dev)
}

type LoginInput struct {
	Email    string
	Password string
}

func (s *Service) Login(ctx context.Context, in LoginInput, dev DeviceInfo) (*Session, error) {
	email := normalizeEmail(in.Email)
	if err := validateLogin(email, in.Password); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// same answer as a wrong password: no account enumeration
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	country, err := s.populateCountry(ctx, *user)
	if err != nil {
		return nil, err
	}

	return s.openSession(ctx, *user, country, dev)
}

// Refresh rotates the token pair for one device. Rotation is strict: the
// presented token must be the one currently stored for (user, device), so a
// superseded token from an earlier rotation cannot mint new tokens.
func (s *Service) Refresh(ctx context.Context, refreshToken string, dev DeviceInfo) (*Session, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, ErrUnauthorized
	}

	claims := s.issuer.ValidateRefreshToken(refreshToken)
	if claims == nil {
		return nil, ErrUnauthorized
	}

	rec, err := s.tokens.Find(ctx, refreshToken, dev.Device)
	if err != nil {
		return nil, err
	}
	if rec == nil || rec.UserID.Hex() != claims.UserID {
		return nil, ErrUnauthorized
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, ErrUnauthorized
	}

	// re-read so role/profile edits since the original login land in the
	// new claim set
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthorized
	}

	country, err := s.populateCountry(ctx, *user)
	if err != nil {
		return nil, err
	}

	return s.openSession(ctx, *user, country, dev)
}

func (s *Service) Logout(ctx context.Context, refreshToken, device string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return invalid("Refresh token is required")
	}
	return s.tokens.Remove(ctx, refreshToken, device)
}

func (s *Service) ListDevices(ctx context.Context, userID primitive.ObjectID) ([]models.DeviceSession, error) {
	return s.tokens.ListByUser(ctx, userID)
}

// RevokeDevice deletes one session record owned by userID. Records owned by
// other users are reported as missing, never as forbidden, so session ids
// cannot be probed.
func (s *Service) RevokeDevice(ctx context.Context, recordID, userID primitive.ObjectID) error {
	deleted, err := s.tokens.RemoveByID(ctx, recordID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrSessionNotFound
	}
	return nil
}

// Activate flips isActivated for the user holding the link. The link stays
// valid afterwards; activating twice is a no-op with the same answer.
func (s *Service) Activate(ctx context.Context, link string) error {
	matched, err := s.users.Activate(ctx, link)
	if err != nil {
		return err
	}
	if !matched {
		return ErrActivationNotFound
	}
	return nil
}

// CountryIDByName resolves a country by its english or russian name.
func (s *Service) CountryIDByName(ctx context.Context, name string) (primitive.ObjectID, error) {
	country, err := s.users.CountryByName(ctx, name)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if country == nil {
		return primitive.NilObjectID, ErrCountryNotFound
	}
	return country.ID, nil
}

func (s *Service) populateCountry(ctx context.Context, user models.User) (*models.Country, error) {
	if user.Profile.Country == nil {
		return nil, nil
	}
	return s.users.CountryByID(ctx, *user.Profile.Country)
}

// openSession issues a fresh token pair from the current user state and
// upserts the device record: create on first login, replace on re-login or
// refresh.
func (s *Service) openSession(ctx context.Context, user models.User, country *models.Country, dev DeviceInfo) (*Session, error) {
	pub := NewPublicUser(user, country)

	accessToken, refreshToken, err := s.issuer.GenerateTokens(pub.Claims())
	if err != nil {
		return nil, err
	}

	rec := models.RefreshToken{
		UserID:       user.ID,
		RefreshToken: refreshToken,
		Device:       dev.Device,
		IP:           dev.IP,
		UserAgent:    dev.UserAgent,
		CreatedAt:    time.Now(),
	}
	if err := s.tokens.Save(ctx, rec); err != nil {
		return nil, err
	}

	return &Session{User: pub, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
