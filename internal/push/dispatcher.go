package push

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"restaurant-push-backend/internal/model"
	"restaurant-push-backend/internal/store"
)

// Payload is the notification sent to a device. Data entries are merged
// into the top-level JSON object, so a data key named title, body or url
// overrides the field of the same name; avoiding that collision is the
// caller's responsibility.
type Payload struct {
	Title string
	Body  string
	URL   string
	Data  map[string]any
}

// Marshal flattens the payload into the single JSON object sent on the wire.
func (p Payload) Marshal() ([]byte, error) {
	obj := map[string]any{
		"title": p.Title,
		"body":  p.Body,
		"url":   p.URL,
	}
	for k, v := range p.Data {
		obj[k] = v
	}
	return json.Marshal(obj)
}

// Result aggregates the outcome of one fan-out. Total == Successful + Failed.
type Result struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// Dispatcher fans one notification out to every device a waiter has
// registered and prunes subscriptions the push service reports as gone.
type Dispatcher struct {
	store   store.Store
	sender  Sender
	options *webpush.Options
	timeout time.Duration
}

// NewDispatcher creates a dispatcher with the real web push sender.
func NewDispatcher(s store.Store, options *webpush.Options, timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		store:   s,
		sender:  &WebPushSender{},
		options: options,
		timeout: timeout,
	}
}

// WithSender swaps the transport, for tests.
func (d *Dispatcher) WithSender(sender Sender) *Dispatcher {
	d.sender = sender
	return d
}

// SendToWaiter delivers the payload to every subscription the waiter owns.
// Deliveries run concurrently and all of them are awaited; one failing
// endpoint never aborts or delays the others. A permanently-gone endpoint
// (404/410) is deleted from the registry best-effort. Only a failure to
// list the subscriptions is returned as an error; partial delivery failure
// is reported through the Result counts.
func (d *Dispatcher) SendToWaiter(ctx context.Context, waiterID string, payload Payload) (Result, error) {
	subscriptions, err := d.store.ListSubscriptionsByWaiter(ctx, waiterID)
	if err != nil {
		return Result{}, err
	}
	if len(subscriptions) == 0 {
		return Result{}, nil
	}

	body, err := payload.Marshal()
	if err != nil {
		return Result{}, fmt.Errorf("failed to marshal notification payload: %w", err)
	}

	// Once the fan-out starts it runs to completion even if the caller's
	// request is aborted; each attempt is individually bounded instead.
	base := context.WithoutCancel(ctx)

	outcomes := make([]bool, len(subscriptions))
	var wg sync.WaitGroup
	for i, sub := range subscriptions {
		wg.Add(1)
		go func(i int, sub model.PushSubscription) {
			defer wg.Done()
			outcomes[i] = d.deliver(base, sub, body)
		}(i, sub)
	}
	wg.Wait()

	result := Result{Total: len(subscriptions)}
	for _, ok := range outcomes {
		if ok {
			result.Successful++
		}
	}
	result.Failed = result.Total - result.Successful
	return result, nil
}

// deliver attempts one delivery and reports whether it succeeded.
func (d *Dispatcher) deliver(ctx context.Context, sub model.PushSubscription, payload []byte) bool {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := d.sender.Send(ctx, payload, wpSub, d.options)
	if err != nil {
		log.Printf("Error sending notification to %s: %v", truncateEndpoint(sub.Endpoint), err)
		return false
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return true
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		// The push service will never accept this endpoint again.
		log.Printf("Subscription %s is gone (status %d). Deleting.", truncateEndpoint(sub.Endpoint), resp.StatusCode)
		if err := d.store.DeleteSubscriptionByEndpoint(ctx, sub.Endpoint); err != nil {
			log.Printf("Failed to delete dead subscription %s: %v", truncateEndpoint(sub.Endpoint), err)
		}
	default:
		// Transient (429, 5xx, ...): keep the subscription, count the failure.
		log.Printf("Notification to %s returned status %d", truncateEndpoint(sub.Endpoint), resp.StatusCode)
	}
	return false
}

// truncateEndpoint keeps logs diagnosable without recording full endpoint
// URLs, which embed per-device tokens.
func truncateEndpoint(endpoint string) string {
	const max = 48
	if len(endpoint) <= max {
		return endpoint
	}
	return endpoint[:max] + "..."
}
