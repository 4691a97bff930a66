package auth

import (
	"recipebook/internal/models"
	"recipebook/internal/token"
)

// CountryInfo is the populated country reference inside a user projection.
type CountryInfo struct {
	Name    models.LocalizedName `json:"name"`
	Code    string               `json:"code"`
	FlagURL string               `json:"flagUrl"`
}

// PublicUser is the projection of a user account that leaves the service:
// what goes into token claims and into response bodies. It never carries the
// password hash or the activation link.
type PublicUser struct {
	ID          string       `json:"id"`
	Email       string       `json:"email"`
	Username    string       `json:"username"`
	IsActivated bool         `json:"isActivated"`
	Roles       []string     `json:"roles"`
	Sex         string       `json:"sex"`
	AboutMe     string       `json:"aboutMe"`
	City        string       `json:"city"`
	Country     *CountryInfo `json:"country"`
}

func NewPublicUser(user models.User, country *models.Country) PublicUser {
	pub := PublicUser{
		ID:          user.ID.Hex(),
		Email:       user.Email,
		Username:    user.Username,
		IsActivated: user.IsActivated,
		Roles:       user.Roles,
		Sex:         user.Profile.Sex,
		AboutMe:     user.Profile.AboutMe,
		City:        user.Profile.City,
	}
	if country != nil {
		pub.Country = &CountryInfo{
			Name:    country.Name,
			Code:    country.Code,
			FlagURL: country.FlagURL,
		}
	}
	return pub
}

// Claims rebuilds the signed claim set from the projection.
func (u PublicUser) Claims() token.Claims {
	return token.Claims{
		UserID:      u.ID,
		Email:       u.Email,
		Username:    u.Username,
		IsActivated: u.IsActivated,
		Roles:       u.Roles,
		Sex:         u.Sex,
		AboutMe:     u.AboutMe,
	}
}

// Session is the result of any operation that authenticates a device.
type Session struct {
	User         PublicUser
	AccessToken  string
	RefreshToken string
}
