package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type subscriptionKeys struct {
	P256DH string `json:"p256dh" binding:"required"`
	Auth   string `json:"auth" binding:"required"`
}

type subscriptionObject struct {
	Endpoint string           `json:"endpoint" binding:"required"`
	Keys     subscriptionKeys `json:"keys" binding:"required"`
}

type pushSubscribeRequest struct {
	Subscription *subscriptionObject `json:"subscription" binding:"required"`
	WaiterID     string              `json:"waiter_id" binding:"required"`
}

// PushSubscribe registers a device for a waiter. The upsert is keyed by the
// subscription endpoint, so re-registering the same device updates the row
// (possibly reassigning it to a different waiter) instead of duplicating it.
func (h *Handler) PushSubscribe(c *gin.Context) {
	var req pushSubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subscription and waiter_id are required"})
		return
	}

	result, err := h.store.UpsertSubscription(
		c.Request.Context(),
		req.Subscription.Endpoint,
		req.Subscription.Keys.P256DH,
		req.Subscription.Keys.Auth,
		req.WaiterID,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save subscription"})
		return
	}

	message := "Subscription updated"
	if result.Created {
		message = "Subscription saved"
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "id": result.ID})
}

type pushUnsubscribeRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
}

// PushUnsubscribe removes a device's subscription. Unsubscribing an unknown
// endpoint succeeds, so clients can retry freely.
func (h *Handler) PushUnsubscribe(c *gin.Context) {
	var req pushUnsubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endpoint is required"})
		return
	}

	if err := h.store.DeleteSubscriptionByEndpoint(c.Request.Context(), req.Endpoint); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscription removed"})
}
