package api

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"restaurant-push-backend/internal/event"
	"restaurant-push-backend/internal/push"
)

// WebhookNewBatch handles the upstream trigger firing on order-batch
// insertion: resolve batch -> order -> table -> waiter, then fan the
// notification out. The response is written only after the fan-out has
// settled; an early acknowledgment would let a serverless host freeze the
// process with deliveries still in flight.
//
// Resolution misses (no order id, unknown order or table, unassigned table)
// answer 400 so the trigger does not retry-loop on events that can never
// dispatch. Only a store transport failure answers 500.
func (h *Handler) WebhookNewBatch(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read event body"})
		return
	}

	record, err := event.ExtractRecord(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing order_id in event payload"})
		return
	}

	ctx := c.Request.Context()

	order, err := h.store.GetOrder(ctx, record.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "order not found"})
			return
		}
		log.Printf("Webhook new-batch: order lookup failed for %s: %v", record.OrderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "order lookup failed"})
		return
	}

	table, err := h.store.GetTable(ctx, order.TableID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "table not found"})
			return
		}
		log.Printf("Webhook new-batch: table lookup failed for %s: %v", order.TableID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "table lookup failed"})
		return
	}
	if table.WaiterID == nil || *table.WaiterID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "table has no assigned waiter"})
		return
	}

	result, err := h.dispatcher.SendToWaiter(ctx, *table.WaiterID, push.Payload{
		Title: "New batch received",
		Body:  fmt.Sprintf("Table %d has a new batch", table.TableNumber),
		URL:   "/",
		Data: map[string]any{
			"batchId":     record.ID,
			"orderId":     record.OrderID,
			"tableNumber": table.TableNumber,
		},
	})
	if err != nil {
		log.Printf("Webhook new-batch: dispatch for waiter %s failed: %v", *table.WaiterID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "push": result})
}
