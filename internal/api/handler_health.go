package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Health reports process liveness and whether push is usable.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
		"vapidConfigured": h.webpush != nil && h.webpush.VAPIDPublicKey != "",
	})
}
