package domain

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryStatus represents the state of a webhook delivery attempt record.
type DeliveryStatus string

const (
	DeliveryStatusPending    DeliveryStatus = "PENDING"
	DeliveryStatusSuccess    DeliveryStatus = "SUCCESS"
	DeliveryStatusFailed     DeliveryStatus = "FAILED"
	DeliveryStatusMaxRetries DeliveryStatus = "MAX_RETRIES_REACHED"
)

// DeliveryAttempt records one notification instance for one subscription.
// Attempt counts completed send attempts; NextRetryAt is set only while the
// record is FAILED and still has retries left. Records are retained for audit.
type DeliveryAttempt struct {
	ID             uuid.UUID      `json:"id"`
	SubscriptionID uuid.UUID      `json:"subscription_id"`
	EventType      EventType      `json:"event_type"`
	Payload        []byte         `json:"payload"` // exact signed body bytes
	Attempt        int            `json:"attempt"`
	Status         DeliveryStatus `json:"status"`
	HTTPStatus     *int           `json:"http_status,omitempty"`
	LastError      *string        `json:"last_error,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	DeliveredAt    *time.Time     `json:"delivered_at,omitempty"`
	NextRetryAt    *time.Time     `json:"next_retry_at,omitempty"`
}

// IsDue returns true if the record is failed and eligible for a retry at now.
func (d *DeliveryAttempt) IsDue(now time.Time) bool {
	return d.Status == DeliveryStatusFailed && d.NextRetryAt != nil && !d.NextRetryAt.After(now)
}
