package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"restaurant-push-backend/config"
	"restaurant-push-backend/internal/mw"
	"restaurant-push-backend/internal/push"
	"restaurant-push-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, dispatcher *push.Dispatcher, webpushOptions *webpush.Options, cfg *config.ServerConfig) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s, dispatcher, webpushOptions)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	// The health probe stays outside the rate-limited group so monitoring
	// cannot be starved by client traffic.
	r.GET("/health", handler.Health)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/push-subscribe", handler.PushSubscribe)
		api.POST("/push-unsubscribe", handler.PushUnsubscribe)
		api.POST("/send-push", handler.SendPush)
		api.POST("/webhook/new-batch", handler.WebhookNewBatch)
		api.GET("/vapid_public_key", caching, handler.GetVAPIDPublicKey)
	}

	return r
}
