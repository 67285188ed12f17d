package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/k3053/GeoInsight.AI/models"
	"github.com/k3053/GeoInsight.AI/services"
)

// chatQuerier is what the controller needs from the agent service.
type chatQuerier interface {
	Query(ctx context.Context, req models.ChatRequest) (models.ChatResponse, error)
}

type ChatController struct {
	agent chatQuerier
}

func NewChatController(agent chatQuerier) *ChatController {
	return &ChatController{agent: agent}
}

// HandleChatQuery serves POST /chat/query.
func (ct *ChatController) HandleChatQuery(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("invalid chat request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	resp, err := ct.agent.Query(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrAgentTimeout) {
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": "Agent timed out while processing the request"})
			return
		}
		log.Printf("/chat/query failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}
