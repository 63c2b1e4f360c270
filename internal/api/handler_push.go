package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant-push-backend/internal/push"
)

type sendPushRequest struct {
	WaiterID string         `json:"waiter_id" binding:"required"`
	Title    string         `json:"title" binding:"required"`
	Body     string         `json:"body" binding:"required"`
	URL      string         `json:"url"`
	Data     map[string]any `json:"data"`
}

// SendPush delivers a notification to every device of one waiter.
func (h *Handler) SendPush(c *gin.Context) {
	var req sendPushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "waiter_id, title, and body are required"})
		return
	}

	url := req.URL
	if url == "" {
		url = "/"
	}

	result, err := h.dispatcher.SendToWaiter(c.Request.Context(), req.WaiterID, push.Payload{
		Title: req.Title,
		Body:  req.Body,
		URL:   url,
		Data:  req.Data,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Notifications sent",
		"total":      result.Total,
		"successful": result.Successful,
		"failed":     result.Failed,
	})
}
