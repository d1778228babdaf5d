package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mrlokans/personachat/internal/chat"
	"github.com/mrlokans/personachat/internal/database/personas"
)

type ChatRequest struct {
	Persona string `json:"persona" binding:"required"`
	Message string `json:"message" binding:"required"`
}

type ChatResponse struct {
	Persona string `json:"persona"`
	Reply   string `json:"reply"`
}

type ChatController struct {
	service *chat.Service
}

func NewChatController(service *chat.Service) *ChatController {
	return &ChatController{service: service}
}

// Ask answers a chat message in the selected persona's voice.
func (ctrl *ChatController) Ask(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "persona and message are required"})
		return
	}

	reply, err := ctrl.service.Ask(c.Request.Context(), req.Persona, req.Message)
	if errors.Is(err, personas.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown persona"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate reply"})
		return
	}

	c.JSON(http.StatusOK, ChatResponse{Persona: req.Persona, Reply: reply})
}
