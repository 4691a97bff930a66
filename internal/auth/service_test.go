package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"recipebook/internal/mail"
	"recipebook/internal/models"
	"recipebook/internal/token"
)

// memUserStore keeps user records keyed by normalized email.
type memUserStore struct {
	users     map[string]models.User
	countries []models.Country
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[string]models.User{}}
}

func (m *memUserStore) EmailTaken(_ context.Context, email string) (bool, error) {
	_, ok := m.users[email]
	return ok, nil
}

func (m *memUserStore) Insert(_ context.Context, user models.User) (primitive.ObjectID, error) {
	if _, ok := m.users[user.Email]; ok {
		return primitive.NilObjectID, ErrEmailTaken
	}
	user.ID = primitive.NewObjectID()
	m.users[user.Email] = user
	return user.ID, nil
}

func (m *memUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := m.users[email]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (m *memUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return &user, nil
		}
	}
	return nil, nil
}

func (m *memUserStore) Activate(_ context.Context, link string) (bool, error) {
	for email, user := range m.users {
		if user.ActivationLink == link {
			user.IsActivated = true
			m.users[email] = user
			return true, nil
		}
	}
	return false, nil
}

func (m *memUserStore) CountryByID(_ context.Context, id primitive.ObjectID) (*models.Country, error) {
	for _, country := range m.countries {
		if country.ID == id {
			c := country
			return &c, nil
		}
	}
	return nil, nil
}

func (m *memUserStore) CountryByName(_ context.Context, name string) (*models.Country, error) {
	for _, country := range m.countries {
		if country.Name.En == name || country.Name.Ru == name {
			c := country
			return &c, nil
		}
	}
	return nil, nil
}

// memTokenStore mirrors the (user, device) upsert policy of the real store.
type memTokenStore struct {
	recs []models.RefreshToken
}

func (m *memTokenStore) Save(_ context.Context, rec models.RefreshToken) error {
	for i, existing := range m.recs {
		if existing.UserID == rec.UserID && existing.Device == rec.Device {
			rec.ID = existing.ID
			m.recs[i] = rec
			return nil
		}
	}
	rec.ID = primitive.NewObjectID()
	m.recs = append(m.recs, rec)
	return nil
}

func (m *memTokenStore) Find(_ context.Context, refreshToken, device string) (*models.RefreshToken, error) {
	for _, rec := range m.recs {
		if rec.RefreshToken == refreshToken && rec.Device == device {
			r := rec
			return &r, nil
		}
	}
	return nil, nil
}

func (m *memTokenStore) Remove(_ context.Context, refreshToken, device string) error {
	kept := m.recs[:0]
	for _, rec := range m.recs {
		if rec.RefreshToken != refreshToken || rec.Device != device {
			kept = append(kept, rec)
		}
	}
	m.recs = kept
	return nil
}

func (m *memTokenStore) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.DeviceSession, error) {
	sessions := make([]models.DeviceSession, 0)
	for _, rec := range m.recs {
		if rec.UserID == userID {
			sessions = append(sessions, models.DeviceSession{
				ID:        rec.ID,
				Device:    rec.Device,
				CreatedAt: rec.CreatedAt,
			})
		}
	}
	return sessions, nil
}

func (m *memTokenStore) RemoveByID(_ context.Context, id, userID primitive.ObjectID) (bool, error) {
	for i, rec := range m.recs {
		if rec.ID == id && rec.UserID == userID {
			m.recs = append(m.recs[:i], m.recs[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memTokenStore) recordsFor(userID primitive.ObjectID, device string) []models.RefreshToken {
	matches := make([]models.RefreshToken, 0)
	for _, rec := range m.recs {
		if rec.UserID == userID && rec.Device == device {
			matches = append(matches, rec)
		}
	}
	return matches
}

func newSessionService(users UserStore, tokens TokenStore) *Service {
	issuer := token.NewIssuer("access-secret", "refresh-secret", 15*time.Minute, 30*24*time.Hour)
	return NewService(users, issuer, tokens, mail.New("", 0, "", ""), "http://localhost:8080")
}

func registerInput(email string) RegisterInput {
	return RegisterInput{
		Username:        "amy",
		Email:           email,
		Password:        "Abcd1234",
		ConfirmPassword: "Abcd1234",
	}
}

var laptop = DeviceInfo{Device: "chrome-laptop", IP: "127.0.0.1", UserAgent: "chrome"}
var phone = DeviceInfo{Device: "phone", IP: "127.0.0.2", UserAgent: "safari"}

func TestRegister_CreatesUserAndDeviceRecord(t *testing.T) {
	users := newMemUserStore()
	tokens := &memTokenStore{}
	svc := newSessionService(users, tokens)

	session, err := svc.Register(context.Background(), registerInput("amy@x.com"), laptop)
	require.NoError(t, err)
	require.NotNil(t, session)

	assert.Equal(t, "amy", session.User.Username)
	assert.Equal(t, "amy@x.com", session.User.Email)
	assert.False(t, session.User.IsActivated)
	assert.Equal(t, []string{models.RoleUser}, session.User.Roles)
	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)

	stored := users.users["amy@x.com"]
	assert.NotEqual(t, "Abcd1234", stored.PasswordHash)
	assert.NotEmpty(t, stored.ActivationLink)

	recs := tokens.recordsFor(stored.ID, laptop.Device)
	require.Len(t, recs, 1)
	assert.Equal(t, session.RefreshToken, recs[0].RefreshToken)
	assert.Equal(t, laptop.IP, recs[0].IP)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	users := newMemUserStore()
	svc := newSessionService(users, &memTokenStore{})

	_, err := svc.Register(context.Background(), registerInput("amy@x.com"), laptop)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), registerInput("amy@x.com"), phone)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	users := newMemUserStore()
	tokens := &memTokenStore{}
	svc := newSessionService(users, tokens)

	first, err := svc.Register(context.Background(), registerInput("amy@x.com"), laptop)
	require.NoError(t, err)

	_, wrongPass := svc.Login(context.Background(), LoginInput{Email: "amy@x.com", Password: "Wrong123"}, laptop)
	_, noUser := svc.Login(context.Background(), LoginInput{Email: "bob@x.com", Password: "Abcd1234"}, laptop)

	assert.ErrorIs(t, wrongPass, ErrInvalidCredentials)
	assert.ErrorIs(t, noUser, ErrInvalidCredentials)
	assert.Equal(t, wrongPass.Error(), noUser.Error())

	// failed logins must not touch the stored session
	stored := users.users["amy@x.com"]
	recs := tokens.recordsFor(stored.ID, laptop.Device)
	require.Len(t, recs, 1)
	assert.Equal(t, first.RefreshToken, recs[0].RefreshToken)
}

func TestLogin_SecondDeviceAddsRecord(t *testing.T) {
	users := newMemUserStore()
	tokens := &memTokenStore{}
	svc := newSessionService(users, tokens)

	_, err := svc.Register(context.Background(), registerInput("amy@x.com"), laptop)
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginInput{Email: "amy@x.com", Password: "Abcd1234"}, phone)
	require.NoError(t, err)

	stored := users.users["amy@x.com"]
	devices, err := svc.ListDevices(context.Background(), stored.ID)
	require.NoError(t, err)
	require.Len(t, devices, 2)
	for _, d := range devices {
		assert.NotEmpty(t, d.Device)
		assert.False(t, d.ID.IsZero())
	}
}

func TestRefresh_OneRecordPerDeviceHoldingLatestToken(t *testing.T) {
	users := newMemUserStore()
	tokens := &memTokenStore{}
	svc := newSessionService(users, tokens)

	session, err := svc.Register(context.Background(), registerInput("amy@x.com"), laptop)
	require.NoError(t, err)
	stored := users.users["amy@x.com"]

	current := session.RefreshToken
	for i := 0; i < 3; i++ {
		next, err := svc.Refresh(context.Background(), current, laptop)
		require.NoError(t, err, "rotation %d", i)

		recs := tokens.recordsFor(stored.ID, laptop.Device)
		require.Len(t, recs, 1, "rotation %d", i)
		assert.Equal(t, next.RefreshToken, recs[0].RefreshToken, "rotation %d", i)
		current = next.RefreshToken
	}
}

func TestRefresh_SupersededTokenRejected(t *testing.T) {
	users := newMemUserStore()
	tokens := &memTokenStore{}
	svc := newSessionService(users, tokens)

	session, err := svc.Register(context.Background(), registerInput("amy@x.com"), laptop)
	require.NoError(t, err)

	rotated, err := svc.Refresh(context.Background(), session.RefreshToken, laptop)
	require.NoError(t, err)

	// the pre-rotation token is still cryptographically valid but no longer
	// stored for this device, so it must not mint new tokens
	_, err = svc.Refresh(context.Background(), session.RefreshToken, laptop)
	assert.ErrorIs(t, err, ErrUnauthorized)

	stored := users.users["amy@x.com"]
	recs := tokens.recordsFor(stored.ID, laptop.Device)
	require.Len(t, recs, 1)
	assert.Equal(t, rotated.RefreshToken, recs[0].RefreshToken)
}

func TestRefresh_WrongDeviceRejected(t *testing.T) {
	svc := newSessionService(newMemUserStore(), &memTokenStore{})

	session, err := svc.Register(context.Background(), registerInput("amy@x.com"), laptop)
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), session.RefreshToken, phone)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRefresh_EmptyOrGarbageToken(t *testing.T) {
	svc := newSessionService(newMemUserStore(), &memTokenStore{})

	for _, tokenStr := range []string{"", "  ", "not-a-jwt"} {
		_, err := svc.Refresh(context.Background(), tokenStr, laptop)
		assert.ErrorIs(t, err, ErrUnauthorized, "token %q", tokenStr)
	}
}

func TestRefresh_DeletedUserRejected(t *testing.T) {
	users := newMemUserStore()
	svc := newSessionService(users, &memTokenStore{})

	session, err := svc.Register(context.Background(), registerInput("amy@x.com"), laptop)
	require.NoError(t, err)

	delete(users.users, "amy@x.com")

	_, err = svc.Refresh(context.Background(), session.RefreshToken, laptop)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRefresh_ReflectsCurrentUserState(t *testing.T) {
	users := newMemUserStore()
	svc := newSessionService(users, &memTokenStore{})

	session, err := svc.Register(context.Background(), registerInput("amy@x.com"), laptop)
	require.NoError(t, err)

	stored := users.users["amy@x.com"]
	stored.Username = "amy_renamed"
	users.users["amy@x.com"] = stored

	rotated, err := svc.Refresh(context.Background(), session.RefreshToken, laptop)
	require.NoError(t, err)
	assert.Equal(t, "amy_renamed", rotated.User.Username)
}

func TestLogout_Idempotent(t *testing.T) {
	users := newMemUserStore()
	tokens := &memTokenStore{}
	svc := newSessionService(users, tokens)

	session, err := svc.Register(context.Background(), registerInput("amy@x.com"), laptop)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), session.RefreshToken, laptop.Device))
	assert.Empty(t, tokens.recs)

	// second logout deletes nothing and still succeeds
	assert.NoError(t, svc.Logout(context.Background(), session.RefreshToken, laptop.Device))
}

func TestLogout_EmptyToken(t *testing.T) {
	svc := newSessionService(newMemUserStore(), &memTokenStore{})

	err := svc.Logout(context.Background(), "", laptop.Device)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestRevokeDevice_OwnerScoped(t *testing.T) {
	users := newMemUserStore()
	tokens := &memTokenStore{}
	svc := newSessionService(users, tokens)

	_, err := svc.Register(context.Background(), registerInput("amy@x.com"), laptop)
	require.NoError(t, err)
	input := registerInput("bob@x.com")
	input.Username = "bob"
	_, err = svc.Register(context.Background(), input, phone)
	require.NoError(t, err)

	amy := users.users["amy@x.com"]
	bob := users.users["bob@x.com"]
	bobRec := tokens.recordsFor(bob.ID, phone.Device)[0]

	// someone else's record reads as missing and stays put
	err = svc.RevokeDevice(context.Background(), bobRec.ID, amy.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	require.Len(t, tokens.recordsFor(bob.ID, phone.Device), 1)

	require.NoError(t, svc.RevokeDevice(context.Background(), bobRec.ID, bob.ID))
	assert.Empty(t, tokens.recordsFor(bob.ID, phone.Device))
}

func TestActivate(t *testing.T) {
	users := newMemUserStore()
	svc := newSessionService(users, &memTokenStore{})

	_, err := svc.Register(context.Background(), registerInput("amy@x.com"), laptop)
	require.NoError(t, err)

	link := users.users["amy@x.com"].ActivationLink
	require.NoError(t, svc.Activate(context.Background(), link))
	assert.True(t, users.users["amy@x.com"].IsActivated)

	err = svc.Activate(context.Background(), "no-such-link")
	assert.ErrorIs(t, err, ErrActivationNotFound)
}

func TestCountryIDByName(t *testing.T) {
	users := newMemUserStore()
	id := primitive.NewObjectID()
	users.countries = []models.Country{{ID: id, Name: models.LocalizedName{En: "Ukraine", Ru: "Украина"}}}
	svc := newSessionService(users, &memTokenStore{})

	got, err := svc.CountryIDByName(context.Background(), "Ukraine")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	got, err = svc.CountryIDByName(context.Background(), "Украина")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = svc.CountryIDByName(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, ErrCountryNotFound)
}
