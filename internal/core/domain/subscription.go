package domain

import (
	"time"

	"github.com/google/uuid"
)

// Subscription is a registered webhook target plus the event types it wants.
type Subscription struct {
	ID                  uuid.UUID   `json:"id"`
	OwnerKey            string      `json:"owner_key"`
	TargetURL           string      `json:"target_url"`
	EventTypes          []EventType `json:"event_types"`
	SecretEnc           string      `json:"-"` // AES-encrypted signing secret, never exposed
	Active              bool        `json:"active"`
	ConsecutiveFailures int         `json:"consecutive_failures"`
	LastDeliveryAt      *time.Time  `json:"last_delivery_at,omitempty"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

// WantsEvent returns true if the subscription is active and registered for
// the given event type.
func (s *Subscription) WantsEvent(eventType EventType) bool {
	if !s.Active {
		return false
	}
	for _, et := range s.EventTypes {
		if et == eventType {
			return true
		}
	}
	return false
}
