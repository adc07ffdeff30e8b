package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/shopcart-backend/pkg/config"
)

// tokenLeeway absorbs clock skew between API replicas.
const tokenLeeway = 30 * time.Second

var jwtSigningMethod = jwt.SigningMethodHS256

// ErrInvalidToken wraps every reason ParseAccessToken rejects a token.
var ErrInvalidToken = errors.New("invalid access token")

// MintAccessToken signs an HS256 JWT valid for cfg.ExpirationMinutes from now.
// A blank JTI gets a random one.
func MintAccessToken(cfg config.JWTConfig, now time.Time, payload AccessTokenPayload) (*AccessToken, error) {
	switch {
	case cfg.Secret == "":
		return nil, fmt.Errorf("jwt secret is required")
	case cfg.Issuer == "":
		return nil, fmt.Errorf("jwt issuer is required")
	case cfg.ExpirationMinutes <= 0:
		return nil, fmt.Errorf("jwt expiration minutes must be positive")
	case payload.UserID == uuid.Nil:
		return nil, fmt.Errorf("user id is required")
	}

	jti := strings.TrimSpace(payload.JTI)
	if jti == "" {
		jti = uuid.NewString()
	}
	expiresAt := now.Add(time.Duration(cfg.ExpirationMinutes) * time.Minute)

	claims := AccessTokenClaims{
		UserID: payload.UserID,
		Email:  payload.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   payload.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        jti,
		},
	}

	signed, err := jwt.NewWithClaims(jwtSigningMethod, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("signing jwt: %w", err)
	}
	return &AccessToken{Value: signed, ID: jti, ExpiresAt: expiresAt}, nil
}

// ParseAccessToken verifies signature, issuer and expiry and returns the
// typed claims. Every failure wraps ErrInvalidToken.
func ParseAccessToken(cfg config.JWTConfig, tokenString string) (*AccessTokenClaims, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}

	claims := &AccessTokenClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(*jwt.Token) (any, error) {
			return []byte(cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(tokenLeeway),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return claims, nil
}
