package ports

import (
	"context"
	"time"

	"github.com/Devour6/agent-staking-api-sub000/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TenantRepository defines read access to provisioned API tenants.
// Tenant issuance is handled out of band.
type TenantRepository interface {
	GetByAccessKey(ctx context.Context, accessKey string) (*domain.Tenant, error)
}

// SubscriptionRepository defines persistence operations for webhook
// subscriptions. Methods accepting pgx.Tx run inside delivery-outcome
// transactions.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *domain.Subscription) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Subscription, error)
	ListByOwner(ctx context.Context, ownerKey string) ([]domain.Subscription, error)
	ListActiveByEventType(ctx context.Context, eventType domain.EventType) ([]domain.Subscription, error)
	ExistsActive(ctx context.Context, ownerKey, targetURL string, eventTypes []domain.EventType) (bool, error)
	RecordDeliveryResult(ctx context.Context, tx pgx.Tx, id uuid.UUID, success bool, deactivateThreshold int, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID, ownerKey string) (bool, error)
}

// DeliveryRepository defines persistence for webhook delivery attempt records.
type DeliveryRepository interface {
	Create(ctx context.Context, rec *domain.DeliveryAttempt) error
	Update(ctx context.Context, tx pgx.Tx, rec *domain.DeliveryAttempt) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.DeliveryAttempt, error)
	ListDue(ctx context.Context, now time.Time, limit int) ([]domain.DeliveryAttempt, error)
	ListBySubscription(ctx context.Context, subscriptionID uuid.UUID, limit int) ([]domain.DeliveryAttempt, error)
	ListRecent(ctx context.Context, limit int) ([]domain.DeliveryAttempt, error)
}

// SubmissionStore owns the in-memory active set of tracked submissions.
// Only the monitor loop mutates entries; Snapshot hands out copies so
// external readers never hold a live reference.
type SubmissionStore interface {
	Put(sub *domain.TrackedSubmission)
	Get(id uuid.UUID) (*domain.TrackedSubmission, bool)
	Delete(id uuid.UUID)
	Snapshot() []domain.TrackedSubmission
	Len() int
}

// BlockhashCache caches the recent blockhash with a short TTL.
type BlockhashCache interface {
	Get(ctx context.Context) (string, error) // "" when absent or expired
	Set(ctx context.Context, blockhash string, ttl time.Duration) error
}

// NonceStore manages nonce uniqueness for replay attack prevention.
type NonceStore interface {
	// CheckAndSet atomically checks if nonce exists, sets it if not.
	// Returns true if nonce is new (valid), false if already used.
	CheckAndSet(ctx context.Context, tenantID string, nonce string, ttl time.Duration) (bool, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
