package handlers

import (
	"net/http"

	"washbot/models"
	"washbot/services/nlp"
	"washbot/services/rag"
	"washbot/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ChatHandler serves the request/response chat surface.
type ChatHandler struct {
	Service rag.Service
}

func NewChatHandler(service rag.Service) *ChatHandler {
	return &ChatHandler{Service: service}
}

// Chat handles POST /chat. Relative dates in the message are rewritten to ISO
// form before anything else sees them; the intent router then decides whether
// this turn runs the tool-calling protocol or plain generation.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Missing 'userMessage' in request body.", err.Error())
		return
	}

	message := nlp.NormalizeRelativeDates(req.UserMessage)

	if nlp.ShouldEnableTools(message, req.History) {
		result := h.Service.GenerateWithTools(c.Request.Context(), message, req.SystemPrompt, req.History, req.UserID)
		c.JSON(http.StatusOK, result)
		return
	}

	result, err := h.Service.Generate(c.Request.Context(), message, req.SystemPrompt, req.History)
	if err != nil {
		utils.GetLogger().Error("chat generation failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to generate a response.", err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}
