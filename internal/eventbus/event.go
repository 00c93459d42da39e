package eventbus

import "time"

type EventType string

const (
	// EventTypeStateChanged fires after any wallet mutation: a recorded
	// transaction, a card change, a balance or profile update.
	EventTypeStateChanged EventType = "state_changed"
)

type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

type StateChangedEvent struct {
	UserID string `json:"user_id"`
	Reason string `json:"reason"`
}
