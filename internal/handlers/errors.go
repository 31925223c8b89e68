// internal/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/medlocator/internal/i18n"
	"github.com/javajoker/medlocator/internal/models"
	"github.com/javajoker/medlocator/internal/services"
	"github.com/javajoker/medlocator/internal/utils"
)

// respondError maps service errors onto the response envelope. Anything
// unrecognised is logged and reported as a 500.
func respondError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	if details := utils.GetValidationErrors(err); len(details) > 0 {
		utils.ValidationErrorResponse(c, details)
		return
	}

	switch {
	case errors.Is(err, services.ErrStoreNotFound):
		utils.NotFoundResponse(c, "store")
	case errors.Is(err, services.ErrInventoryNotFound):
		utils.NotFoundResponse(c, "inventory")
	case errors.Is(err, services.ErrProfileNotFound):
		utils.NotFoundResponse(c, "profile")
	case errors.Is(err, services.ErrFavoriteNotFound):
		utils.NotFoundResponse(c, "favorite")
	case errors.Is(err, services.ErrNotificationNotFound):
		utils.NotFoundResponse(c, "notification")
	case errors.Is(err, services.ErrNotOwner):
		utils.ForbiddenResponse(c, i18n.KeyStoreNotOwner)
	case errors.Is(err, services.ErrNotRetailer):
		utils.ForbiddenResponse(c, i18n.KeyAuthRetailerOnly)
	case errors.Is(err, services.ErrRoleChangeDenied):
		utils.ForbiddenResponse(c, i18n.KeyProfileRoleDenied)
	case errors.Is(err, services.ErrInsufficientStock):
		utils.ConflictResponse(c, i18n.KeyInventoryInsufficientStock)
	case errors.Is(err, services.ErrFavoriteExists):
		utils.ConflictResponse(c, i18n.KeyFavoriteExists)
	case errors.Is(err, services.ErrFileTooLarge):
		utils.ErrorResponse(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", i18n.T(lang, i18n.KeyFileTooLarge), nil)
	case errors.Is(err, services.ErrFileNotAnImage):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileInvalidFormat), nil)
	case errors.Is(err, services.ErrInvalidInput):
		utils.BadRequestResponse(c, err.Error(), nil)
	case errors.Is(err, services.ErrStorageUnavailable):
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", i18n.T(lang, i18n.KeyFileUploadFailed), nil)
	case errors.Is(err, services.ErrAssistantDisabled):
		utils.InternalErrorResponse(c, i18n.T(lang, i18n.KeyAssistantUnavailable))
	default:
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Error("Request failed")
		utils.InternalErrorResponse(c, "")
	}
}

// bindJSON decodes and validates the request body, writing the error
// response itself when it returns false.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.BindingErrorResponse(c, err)
		return false
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return false
	}
	return true
}

func paramUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyValidationInvalid, name), nil)
		return uuid.Nil, false
	}
	return id, true
}

// currentProfile reads the profile set by the auth middleware.
func currentProfile(c *gin.Context) (*models.Profile, bool) {
	profile, ok := utils.GetProfileFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
	}
	return profile, ok
}
