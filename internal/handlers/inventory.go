// internal/handlers/inventory.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/medlocator/internal/i18n"
	"github.com/javajoker/medlocator/internal/services"
	"github.com/javajoker/medlocator/internal/utils"
)

type InventoryHandler struct {
	inventoryService *services.InventoryService
	storeService     *services.StoreService
	alertDays        int
}

func NewInventoryHandler(inventoryService *services.InventoryService, storeService *services.StoreService, alertDays int) *InventoryHandler {
	if alertDays <= 0 {
		alertDays = 30
	}
	return &InventoryHandler{
		inventoryService: inventoryService,
		storeService:     storeService,
		alertDays:        alertDays,
	}
}

type stockAdjustmentRequest struct {
	Delta int `json:"delta"`
}

// GET /stores/:id/inventory
// include_unavailable=true is honoured only for the store's owner.
func (h *InventoryHandler) ListStoreInventory(c *gin.Context) {
	storeID, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	params := services.InventoryListParams{PaginationParams: utils.GetPaginationParams(c)}
	if include, _ := strconv.ParseBool(c.Query("include_unavailable")); include {
		if profile, ok := utils.GetProfileFromContext(c); ok {
			if _, err := h.storeService.GetOwned(c.Request.Context(), profile, storeID); err == nil {
				params.IncludeUnavailable = true
			}
		}
	}

	result, err := h.inventoryService.ListByStore(c.Request.Context(), storeID, params)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.PaginatedResponse(c, *result)
}

// POST /retailer/stores/:id/inventory
func (h *InventoryHandler) AddItem(c *gin.Context) {
	owner, ok := currentProfile(c)
	if !ok {
		return
	}
	storeID, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var req services.CreateInventoryRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.inventoryService.Add(c.Request.Context(), owner, storeID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(utils.GetLangFromContext(c), i18n.KeyInventoryCreated),
		"item":    item,
	})
}

// PUT /retailer/inventory/:id
func (h *InventoryHandler) UpdateItem(c *gin.Context) {
	owner, ok := currentProfile(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateInventoryRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.inventoryService.Update(c.Request.Context(), owner, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(utils.GetLangFromContext(c), i18n.KeyInventoryUpdated),
		"item":    item,
	})
}

// DELETE /retailer/inventory/:id
func (h *InventoryHandler) DeleteItem(c *gin.Context) {
	owner, ok := currentProfile(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.inventoryService.Delete(c.Request.Context(), owner, id); err != nil {
		respondError(c, err)
		return
	}
	utils.MessageResponse(c, i18n.KeyInventoryDeleted)
}

// PATCH /retailer/inventory/:id/stock
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	owner, ok := currentProfile(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var req stockAdjustmentRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.inventoryService.AdjustStock(c.Request.Context(), owner, id, req.Delta)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(utils.GetLangFromContext(c), i18n.KeyInventoryUpdated),
		"item":    item,
	})
}

// GET /retailer/stores/:id/expiry-alerts?days=
func (h *InventoryHandler) ExpiryAlerts(c *gin.Context) {
	owner, ok := currentProfile(c)
	if !ok {
		return
	}
	storeID, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	days := h.alertDays
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			utils.BadRequestResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyValidationInvalid, "days"), nil)
			return
		}
		days = parsed
	}

	items, err := h.inventoryService.ExpiryAlerts(c.Request.Context(), owner, storeID, days)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"days":  days,
		"count": len(items),
		"items": items,
	})
}
