package model

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

const (
	EventPageVisit = "page_visit"
	EventPageExit  = "page_exit"
)

var clientTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

type VisitorSession struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	SessionID string    `json:"sessionId" bson:"sessionId"`
	Page      string    `json:"page" bson:"page"`
	EventType string    `json:"eventType" bson:"eventType"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
	UserAgent string    `json:"userAgent" bson:"userAgent"`
	IP        string    `json:"ip" bson:"ip"`
}

// VisitorSessionRequest takes any JSON value for its text fields so that no
// event is refused for its shape.
type VisitorSessionRequest struct {
	SessionID FlexString      `json:"sessionId"`
	Page      FlexString      `json:"page"`
	EventType FlexString      `json:"eventType"`
	Timestamp json.RawMessage `json:"timestamp,omitempty"`
}

// ParseClientTime converts a client-supplied timestamp (epoch milliseconds as a
// number or string, or an ISO-8601 string) to UTC. ok is false when the value
// is missing or unparsable.
func ParseClientTime(raw json.RawMessage) (time.Time, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return time.Time{}, false
	}

	var millis float64
	if err := json.Unmarshal(raw, &millis); err == nil {
		return time.UnixMilli(int64(millis)).UTC(), true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(n).UTC(), true
	}

	for _, layout := range clientTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
