package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Email  string
	JTI    string
}

// AccessToken is a freshly signed JWT and the moment it stops being valid.
type AccessToken struct {
	Value     string
	ID        string
	ExpiresAt time.Time
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Validate runs after the registered claims check during parsing.
func (c AccessTokenClaims) Validate() error {
	if c.UserID == uuid.Nil {
		return errors.New("token has no user id")
	}
	if c.Subject != c.UserID.String() {
		return errors.New("token subject does not match user id")
	}
	if c.ID == "" {
		return errors.New("token has no jti")
	}
	return nil
}
