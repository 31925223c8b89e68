// internal/handlers/assistant.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/medlocator/internal/services"
	"github.com/javajoker/medlocator/internal/utils"
)

type AssistantHandler struct {
	assistantService *services.AssistantService
}

func NewAssistantHandler(assistantService *services.AssistantService) *AssistantHandler {
	return &AssistantHandler{assistantService: assistantService}
}

type chatRequest struct {
	Message string `json:"message"`
}

// POST /assistant/chat
// Upstream failures still answer 200 with success=false in the reply.
func (h *AssistantHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindingErrorResponse(c, err)
		return
	}

	reply, err := h.assistantService.Chat(c.Request.Context(), req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, reply)
}

// GET /assistant/health
func (h *AssistantHandler) Health(c *gin.Context) {
	status := "healthy"
	if !h.assistantService.Configured() {
		status = "unconfigured"
	}
	utils.SuccessResponse(c, gin.H{
		"status":             status,
		"api_key_configured": h.assistantService.Configured(),
	})
}
