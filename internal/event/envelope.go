package event

import (
	"encoding/json"
	"errors"
)

// ErrNoOrderID is returned when no candidate shape carries an order id.
var ErrNoOrderID = errors.New("event payload carries no order_id")

// BatchRecord is the inserted order-batch row extracted from a trigger event.
type BatchRecord struct {
	ID      string `json:"id"`
	OrderID string `json:"order_id"`
}

// envelope covers the delivery shapes the upstream trigger is known to use:
// database webhooks wrap the inserted row under "record", change-feed
// deliveries under "new", and some callers post the bare row.
type envelope struct {
	Record json.RawMessage `json:"record"`
	New    json.RawMessage `json:"new"`
}

// ExtractRecord normalizes a trigger event body into a BatchRecord. The
// candidates are tried in priority order (record, new, raw body); the first
// one carrying an order_id wins.
func ExtractRecord(body []byte) (BatchRecord, error) {
	var env envelope
	// A non-object body (or non-JSON noise) simply means there is no
	// wrapper; the raw candidate below still gets its chance.
	_ = json.Unmarshal(body, &env)

	for _, candidate := range [][]byte{env.Record, env.New, body} {
		if len(candidate) == 0 {
			continue
		}
		var record BatchRecord
		if err := json.Unmarshal(candidate, &record); err != nil {
			continue
		}
		if record.OrderID != "" {
			return record, nil
		}
	}
	return BatchRecord{}, ErrNoOrderID
}
