package push

import (
	"context"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
)

// Sender defines the interface for delivering one web push message to one
// subscription endpoint.
type Sender interface {
	Send(ctx context.Context, payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is the real implementation of Sender using the webpush
// library: payload encryption and VAPID-signed authorization per request.
type WebPushSender struct{}

// Send delivers a notification using the webpush library.
func (s *WebPushSender) Send(ctx context.Context, payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotificationWithContext(ctx, payload, sub, options)
}
