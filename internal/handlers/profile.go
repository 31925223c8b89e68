// internal/handlers/profile.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/medlocator/internal/i18n"
	"github.com/javajoker/medlocator/internal/services"
	"github.com/javajoker/medlocator/internal/utils"
)

type ProfileHandler struct {
	profileService *services.ProfileService
}

func NewProfileHandler(profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// GET /me
func (h *ProfileHandler) GetMe(c *gin.Context) {
	profile, ok := currentProfile(c)
	if !ok {
		return
	}
	utils.SuccessResponse(c, profile)
}

// PUT /me
func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	profile, ok := currentProfile(c)
	if !ok {
		return
	}

	var req services.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	updated, err := h.profileService.Update(c.Request.Context(), profile.ID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(utils.GetLangFromContext(c), i18n.KeyProfileUpdated),
		"profile": updated,
	})
}
