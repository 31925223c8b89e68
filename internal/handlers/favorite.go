// internal/handlers/favorite.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/javajoker/medlocator/internal/i18n"
	"github.com/javajoker/medlocator/internal/services"
	"github.com/javajoker/medlocator/internal/utils"
)

type FavoriteHandler struct {
	favoriteService *services.FavoriteService
}

func NewFavoriteHandler(favoriteService *services.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService}
}

type addFavoriteRequest struct {
	StoreID uuid.UUID `json:"store_id" validate:"required"`
}

// GET /favorites
func (h *FavoriteHandler) ListFavorites(c *gin.Context) {
	profile, ok := currentProfile(c)
	if !ok {
		return
	}

	favorites, err := h.favoriteService.List(c.Request.Context(), profile.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, favorites)
}

// POST /favorites
func (h *FavoriteHandler) AddFavorite(c *gin.Context) {
	profile, ok := currentProfile(c)
	if !ok {
		return
	}

	var req addFavoriteRequest
	if !bindJSON(c, &req) {
		return
	}

	favorite, err := h.favoriteService.Add(c.Request.Context(), profile.ID, req.StoreID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":  i18n.T(utils.GetLangFromContext(c), i18n.KeyFavoriteAdded),
		"favorite": favorite,
	})
}

// DELETE /favorites/:storeId
func (h *FavoriteHandler) RemoveFavorite(c *gin.Context) {
	profile, ok := currentProfile(c)
	if !ok {
		return
	}
	storeID, ok := paramUUID(c, "storeId")
	if !ok {
		return
	}

	if err := h.favoriteService.Remove(c.Request.Context(), profile.ID, storeID); err != nil {
		respondError(c, err)
		return
	}
	utils.MessageResponse(c, i18n.KeyFavoriteRemoved)
}
