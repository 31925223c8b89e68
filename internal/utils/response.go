// internal/utils/response.go
package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/javajoker/medlocator/internal/i18n"
	"github.com/javajoker/medlocator/internal/models"
)

// Context keys set by the auth and i18n middleware.
const (
	ContextLang      = "lang"
	ContextProfileID = "profile_id"
	ContextProfile   = "profile"
	ContextRequestID = "request_id"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
	})
}

func SuccessResponseWithMeta(c *gin.Context, data interface{}, meta interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

func CreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Data:    data,
	})
}

func MessageResponse(c *gin.Context, key string) {
	SuccessResponse(c, gin.H{"message": i18n.T(GetLangFromContext(c), key)})
}

func ErrorResponse(c *gin.Context, statusCode int, code, message string, details interface{}) {
	c.JSON(statusCode, APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func BadRequestResponse(c *gin.Context, message string, details interface{}) {
	if message == "" {
		message = i18n.T(GetLangFromContext(c), i18n.KeyValidationInvalid, "request")
	}
	ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", message, details)
}

func UnauthorizedResponse(c *gin.Context, key string) {
	if key == "" {
		key = i18n.KeyAuthRequired
	}
	ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", i18n.T(GetLangFromContext(c), key), nil)
}

func ForbiddenResponse(c *gin.Context, key string) {
	if key == "" {
		key = i18n.KeyAuthRetailerOnly
	}
	ErrorResponse(c, http.StatusForbidden, "FORBIDDEN", i18n.T(GetLangFromContext(c), key), nil)
}

func NotFoundResponse(c *gin.Context, resource string) {
	message := i18n.T(GetLangFromContext(c), resource+".not_found")
	ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", message, nil)
}

func ConflictResponse(c *gin.Context, key string) {
	ErrorResponse(c, http.StatusConflict, "CONFLICT", i18n.T(GetLangFromContext(c), key), nil)
}

func InternalErrorResponse(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	ErrorResponse(c, http.StatusInternalServerError, "INTERNAL_ERROR", message, nil)
}

func ValidationErrorResponse(c *gin.Context, errors []ValidationError) {
	message := i18n.T(GetLangFromContext(c), i18n.KeyValidationInvalid, "input")
	ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", message, errors)
}

// BindingErrorResponse reports a failed ShouldBind*. Validator failures get
// per-field details; anything else is a malformed body.
func BindingErrorResponse(c *gin.Context, err error) {
	if details := GetValidationErrors(err); len(details) > 0 {
		ValidationErrorResponse(c, details)
		return
	}
	BadRequestResponse(c, "", err.Error())
}

func PaginatedResponse(c *gin.Context, result PaginationResult) {
	SetPaginationHeaders(c, result)
	SuccessResponseWithMeta(c, result.Data, gin.H{
		"pagination": gin.H{
			"page":        result.Page,
			"limit":       result.Limit,
			"total":       result.Total,
			"total_pages": result.TotalPages,
		},
	})
}

func GetLangFromContext(c *gin.Context) string {
	if lang, exists := c.Get(ContextLang); exists {
		if langStr, ok := lang.(string); ok {
			return langStr
		}
	}
	return i18n.DefaultLanguage()
}

func GetProfileIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	if v, exists := c.Get(ContextProfileID); exists {
		if id, ok := v.(uuid.UUID); ok {
			return id, true
		}
	}
	return uuid.Nil, false
}

func GetProfileFromContext(c *gin.Context) (*models.Profile, bool) {
	if v, exists := c.Get(ContextProfile); exists {
		if p, ok := v.(*models.Profile); ok {
			return p, true
		}
	}
	return nil, false
}
