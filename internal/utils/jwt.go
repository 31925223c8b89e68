// internal/utils/jwt.go
package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// ProviderClaims is the access token issued by the auth provider. The
// subject is the profile id.
type ProviderClaims struct {
	Email        string                 `json:"email"`
	Phone        string                 `json:"phone"`
	UserMetadata map[string]interface{} `json:"user_metadata,omitempty"`
	jwt.RegisteredClaims
}

func (c *ProviderClaims) ProfileID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// FullName reads the display name the provider keeps in user metadata.
func (c *ProviderClaims) FullName() string {
	for _, key := range []string{"full_name", "name"} {
		if v, ok := c.UserMetadata[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

type TokenVerifier struct {
	secret   []byte
	issuer   string
	audience string
}

func NewTokenVerifier(secret, issuer, audience string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret), issuer: issuer, audience: audience}
}

func (v *TokenVerifier) Verify(tokenString string) (*ProviderClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ProviderClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil {
		var validationErr *jwt.ValidationError
		if errors.As(err, &validationErr) && validationErr.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*ProviderClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if v.issuer != "" && !claims.VerifyIssuer(v.issuer, true) {
		return nil, ErrTokenInvalid
	}
	if v.audience != "" && !claims.VerifyAudience(v.audience, true) {
		return nil, ErrTokenInvalid
	}
	if _, err := claims.ProfileID(); err != nil {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// Sign issues a token the verifier accepts. Used for local development and
// tests; production tokens come from the auth provider.
func (v *TokenVerifier) Sign(profileID uuid.UUID, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := ProviderClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    v.issuer,
			Subject:   profileID.String(),
		},
	}
	if v.audience != "" {
		claims.Audience = jwt.ClaimStrings{v.audience}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}
