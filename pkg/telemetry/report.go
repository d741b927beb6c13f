package telemetry

import "time"

const (
	KindError = "error"
	KindEvent = "event"
)

const EventBookingCreated = "booking.created"

// Report is a single telemetry item: a captured error or a domain event.
type Report struct {
	Kind       string         `json:"kind"`
	Name       string         `json:"name"`
	Message    string         `json:"message,omitempty"`
	Error      string         `json:"error,omitempty"`
	Key        string         `json:"-"`
	RequestID  string         `json:"request_id,omitempty"`
	Service    string         `json:"service,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
	Payload    any            `json:"payload,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}
