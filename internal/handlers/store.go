// internal/handlers/store.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/medlocator/internal/i18n"
	"github.com/javajoker/medlocator/internal/services"
	"github.com/javajoker/medlocator/internal/utils"
)

type StoreHandler struct {
	storeService   *services.StoreService
	storageService *services.StorageService
}

func NewStoreHandler(storeService *services.StoreService, storageService *services.StorageService) *StoreHandler {
	return &StoreHandler{
		storeService:   storeService,
		storageService: storageService,
	}
}

type storeStatusRequest struct {
	IsOpen *bool `json:"is_open" validate:"required"`
}

// GET /stores/:id
func (h *StoreHandler) GetStore(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	store, err := h.storeService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, store)
}

// GET /retailer/stores
func (h *StoreHandler) ListMyStores(c *gin.Context) {
	owner, ok := currentProfile(c)
	if !ok {
		return
	}

	result, err := h.storeService.ListOwned(c.Request.Context(), owner, utils.GetPaginationParams(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.PaginatedResponse(c, *result)
}

// POST /retailer/stores
func (h *StoreHandler) CreateStore(c *gin.Context) {
	owner, ok := currentProfile(c)
	if !ok {
		return
	}

	var req services.CreateStoreRequest
	if !bindJSON(c, &req) {
		return
	}

	store, err := h.storeService.Create(c.Request.Context(), owner, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(utils.GetLangFromContext(c), i18n.KeyStoreCreated),
		"store":   store,
	})
}

// PUT /retailer/stores/:id
func (h *StoreHandler) UpdateStore(c *gin.Context) {
	owner, ok := currentProfile(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateStoreRequest
	if !bindJSON(c, &req) {
		return
	}

	store, err := h.storeService.Update(c.Request.Context(), owner, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(utils.GetLangFromContext(c), i18n.KeyStoreUpdated),
		"store":   store,
	})
}

// DELETE /retailer/stores/:id
func (h *StoreHandler) DeleteStore(c *gin.Context) {
	owner, ok := currentProfile(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.storeService.Delete(c.Request.Context(), owner, id); err != nil {
		respondError(c, err)
		return
	}
	utils.MessageResponse(c, i18n.KeyStoreDeleted)
}

// PUT /retailer/stores/:id/status
func (h *StoreHandler) SetStoreStatus(c *gin.Context) {
	owner, ok := currentProfile(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var req storeStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	store, err := h.storeService.SetOpen(c.Request.Context(), owner, id, *req.IsOpen)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(utils.GetLangFromContext(c), i18n.KeyStoreUpdated),
		"store":   store,
	})
}

// POST /retailer/stores/:id/images (multipart field "image")
func (h *StoreHandler) UploadStoreImage(c *gin.Context) {
	owner, ok := currentProfile(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	lang := utils.GetLangFromContext(c)

	if h.storageService == nil || !h.storageService.Enabled() {
		respondError(c, services.ErrStorageUnavailable)
		return
	}

	// Check ownership before accepting the upload
	if _, err := h.storeService.GetOwned(c.Request.Context(), owner, id); err != nil {
		respondError(c, err)
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationRequired, "image"), nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), nil)
		return
	}
	defer file.Close()

	upload, err := h.storageService.UploadStoreImage(c.Request.Context(), id, file)
	if err != nil {
		respondError(c, err)
		return
	}

	store, err := h.storeService.AddImage(c.Request.Context(), owner, id, upload.URL)
	if err != nil {
		// The object is orphaned if the row update fails
		if delErr := h.storageService.DeleteFile(c.Request.Context(), upload.Key); delErr != nil {
			logrus.WithError(delErr).WithField("key", upload.Key).Warn("Failed to remove orphaned store image")
		}
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"image": upload,
		"store": store,
	})
}
