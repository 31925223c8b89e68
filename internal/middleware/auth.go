// internal/middleware/auth.go
package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/medlocator/internal/i18n"
	"github.com/javajoker/medlocator/internal/models"
	"github.com/javajoker/medlocator/internal/utils"
)

// ProfileResolver maps verified token claims to a stored profile.
type ProfileResolver interface {
	GetOrCreate(ctx context.Context, claims *utils.ProviderClaims) (*models.Profile, error)
}

type Auth struct {
	verifier *utils.TokenVerifier
	profiles ProfileResolver
}

func NewAuth(verifier *utils.TokenVerifier, profiles ProfileResolver) *Auth {
	return &Auth{verifier: verifier, profiles: profiles}
}

func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func (a *Auth) authenticate(c *gin.Context, token string) (*models.Profile, error) {
	claims, err := a.verifier.Verify(token)
	if err != nil {
		return nil, err
	}
	return a.profiles.GetOrCreate(c.Request.Context(), claims)
}

func setProfile(c *gin.Context, profile *models.Profile) {
	c.Set(utils.ContextProfile, profile)
	c.Set(utils.ContextProfileID, profile.ID)
}

func (a *Auth) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			utils.UnauthorizedResponse(c, i18n.KeyAuthRequired)
			c.Abort()
			return
		}

		token, ok := bearerToken(c)
		if !ok {
			utils.UnauthorizedResponse(c, i18n.KeyAuthInvalidToken)
			c.Abort()
			return
		}

		profile, err := a.authenticate(c, token)
		switch {
		case err == nil:
		case errors.Is(err, utils.ErrTokenExpired):
			utils.UnauthorizedResponse(c, i18n.KeyAuthTokenExpired)
			c.Abort()
			return
		case errors.Is(err, utils.ErrTokenInvalid):
			utils.UnauthorizedResponse(c, i18n.KeyAuthInvalidToken)
			c.Abort()
			return
		default:
			logrus.WithError(err).Error("Failed to resolve profile")
			utils.InternalErrorResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyAuthProfileFailed))
			c.Abort()
			return
		}

		setProfile(c, profile)
		c.Next()
	}
}

// Optional attaches the caller's profile when a valid token is present and
// otherwise lets the request through anonymously.
func (a *Auth) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		profile, err := a.authenticate(c, token)
		if err != nil {
			if !errors.Is(err, utils.ErrTokenInvalid) && !errors.Is(err, utils.ErrTokenExpired) {
				logrus.WithError(err).Warn("Optional auth could not resolve profile")
			}
			c.Next()
			return
		}

		setProfile(c, profile)
		c.Next()
	}
}

// RetailerRequired must run after Required.
func RetailerRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, ok := utils.GetProfileFromContext(c)
		if !ok || !profile.IsRetailer() {
			utils.ForbiddenResponse(c, i18n.KeyAuthRetailerOnly)
			c.Abort()
			return
		}
		c.Next()
	}
}
