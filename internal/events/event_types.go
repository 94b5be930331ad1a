package events

import "time"

// EventType enumerates supported audit event identifiers.
type EventType string

const (
	EventTokenIssued    EventType = "token_issued"
	EventProductCreated EventType = "product_created"
	EventProductUpdated EventType = "product_updated"
	EventProductDeleted EventType = "product_deleted"
)

// All lists every event type, for subscribers that want the full trail.
func All() []EventType {
	return []EventType{
		EventTokenIssued,
		EventProductCreated,
		EventProductUpdated,
		EventProductDeleted,
	}
}

// Event is an audit record emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Actor     string      `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// TokenIssuedPayload describes a mint operation. The token itself is never
// recorded, only its subject and expiry.
type TokenIssuedPayload struct {
	Subject   string    `json:"subject"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ProductChangedPayload describes catalog mutations.
type ProductChangedPayload struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name,omitempty"`
}
