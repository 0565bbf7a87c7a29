package ports

import (
	"context"
	"time"

	"github.com/Devour6/agent-staking-api-sub000/internal/core/domain"

	"github.com/google/uuid"
)

// EncryptionService handles AES-256-GCM encryption/decryption of secrets at rest.
type EncryptionService interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// SignatureService handles HMAC-SHA256 signing and verification.
type SignatureService interface {
	Sign(secretKey string, payload string) string
	Verify(secretKey string, payload string, signature string) bool
	BuildCanonicalString(method, path string, timestamp int64, nonce string, body string) string
}

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles JWT token operations for the operator dashboard.
type TokenService interface {
	Generate(subject string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	Subject string
}

// --- Service Ports (Business Logic) ---

// EventSink accepts domain events for webhook fan-out. Implementations must
// never block the caller: the monitor fires and forgets.
type EventSink interface {
	Deliver(event domain.Event)
}

// MonitorService tracks submitted stake transactions through their on-chain
// lifecycle.
type MonitorService interface {
	Track(ctx context.Context, req TrackRequest) (uuid.UUID, error)
	GetSubmission(id uuid.UUID) (*domain.TrackedSubmission, error)
	Status() MonitorStatus
}

// TrackRequest holds validated input for submission tracking.
type TrackRequest struct {
	Signature    string
	StakeAccount string
	Owner        string
	Validator    string
	Lamports     uint64
}

// MonitorStatus is a point-in-time snapshot of the monitor's active set.
type MonitorStatus struct {
	Active      int                        `json:"active"`
	Submissions []domain.TrackedSubmission `json:"submissions"`
}

// SubscriptionService manages webhook subscription registration.
type SubscriptionService interface {
	Register(ctx context.Context, req RegisterSubscriptionRequest) (*RegisterSubscriptionResponse, error)
	List(ctx context.Context, ownerKey string) ([]domain.Subscription, error)
	Delete(ctx context.Context, id uuid.UUID, ownerKey string) error
	Deliveries(ctx context.Context, subscriptionID uuid.UUID, limit int) ([]domain.DeliveryAttempt, error)
}

// RegisterSubscriptionRequest holds validated input for subscription creation.
type RegisterSubscriptionRequest struct {
	OwnerKey   string
	TargetURL  string
	EventTypes []string
}

// RegisterSubscriptionResponse carries the signing secret, shown exactly once.
type RegisterSubscriptionResponse struct {
	ID     uuid.UUID
	Secret string
}

// AuthService authenticates the status-dashboard operator.
type AuthService interface {
	Login(ctx context.Context, username, password string) (string, time.Time, error) // token, expiry, error
}

// ConnectionProvider exposes endpoint pool health for the status API.
type ConnectionProvider interface {
	Snapshot() []domain.EndpointHealth
	FailedOver() bool
}
