package api

import (
	"github.com/SherClockHolmes/webpush-go"

	"restaurant-push-backend/internal/push"
	"restaurant-push-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store      store.Store
	dispatcher *push.Dispatcher
	webpush    *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, dispatcher *push.Dispatcher, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		store:      s,
		dispatcher: dispatcher,
		webpush:    webpushOptions,
	}
}
