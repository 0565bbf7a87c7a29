package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/url"
	"time"

	"github.com/Devour6/agent-staking-api-sub000/internal/core/domain"
	"github.com/Devour6/agent-staking-api-sub000/internal/core/ports"
	"github.com/Devour6/agent-staking-api-sub000/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SubscriptionServiceImpl implements ports.SubscriptionService.
type SubscriptionServiceImpl struct {
	subRepo      ports.SubscriptionRepository
	deliveryRepo ports.DeliveryRepository
	encSvc       ports.EncryptionService
	log          zerolog.Logger
}

// NewSubscriptionService creates a new SubscriptionServiceImpl.
func NewSubscriptionService(
	subRepo ports.SubscriptionRepository,
	deliveryRepo ports.DeliveryRepository,
	encSvc ports.EncryptionService,
	log zerolog.Logger,
) *SubscriptionServiceImpl {
	return &SubscriptionServiceImpl{
		subRepo:      subRepo,
		deliveryRepo: deliveryRepo,
		encSvc:       encSvc,
		log:          log.With().Str("component", "subscription_service").Logger(),
	}
}

// Register validates and stores a new webhook subscription. The generated
// signing secret is returned in plaintext exactly once; only its encrypted
// form is persisted.
func (s *SubscriptionServiceImpl) Register(ctx context.Context, req ports.RegisterSubscriptionRequest) (*ports.RegisterSubscriptionResponse, error) {
	if err := validateTargetURL(req.TargetURL); err != nil {
		return nil, err
	}
	if len(req.EventTypes) == 0 {
		return nil, apperror.ErrNoEventTypes()
	}

	eventTypes := make([]domain.EventType, 0, len(req.EventTypes))
	seen := make(map[string]bool, len(req.EventTypes))
	for _, raw := range req.EventTypes {
		if !domain.IsKnownEventType(raw) {
			return nil, apperror.ErrUnknownEventType(raw)
		}
		if seen[raw] {
			continue
		}
		seen[raw] = true
		eventTypes = append(eventTypes, domain.EventType(raw))
	}

	// Duplicates are scoped to event-type overlap: the same URL may carry
	// separate subscriptions for disjoint event types, but never two active
	// subscriptions that would both receive the same event.
	exists, err := s.subRepo.ExistsActive(ctx, req.OwnerKey, req.TargetURL, eventTypes)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("check duplicate subscription: %w", err))
	}
	if exists {
		return nil, apperror.ErrDuplicateSubscription()
	}

	secret, err := generateRandomHex(32)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate signing secret: %w", err))
	}

	secretEnc, err := s.encSvc.Encrypt(secret)
	if err != nil {
		return nil, apperror.ErrEncryptionFailure(err)
	}

	now := time.Now().UTC()
	sub := &domain.Subscription{
		ID:         uuid.New(),
		OwnerKey:   req.OwnerKey,
		TargetURL:  req.TargetURL,
		EventTypes: eventTypes,
		SecretEnc:  secretEnc,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.subRepo.Create(ctx, sub); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("create subscription: %w", err))
	}

	s.log.Info().
		Str("subscription_id", sub.ID.String()).
		Str("target_url", sub.TargetURL).
		Int("event_types", len(eventTypes)).
		Msg("subscription registered")

	return &ports.RegisterSubscriptionResponse{ID: sub.ID, Secret: secret}, nil
}

// List returns every subscription owned by the tenant.
func (s *SubscriptionServiceImpl) List(ctx context.Context, ownerKey string) ([]domain.Subscription, error) {
	subs, err := s.subRepo.ListByOwner(ctx, ownerKey)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("list subscriptions: %w", err))
	}
	return subs, nil
}

// Delete removes a subscription. The owner key scopes the delete so tenants
// cannot remove each other's subscriptions.
func (s *SubscriptionServiceImpl) Delete(ctx context.Context, id uuid.UUID, ownerKey string) error {
	found, err := s.subRepo.Delete(ctx, id, ownerKey)
	if err != nil {
		return apperror.ErrDatabaseError(fmt.Errorf("delete subscription: %w", err))
	}
	if !found {
		return apperror.ErrSubscriptionNotFound()
	}

	s.log.Info().Str("subscription_id", id.String()).Msg("subscription deleted")
	return nil
}

// Deliveries returns recent delivery records for one subscription.
func (s *SubscriptionServiceImpl) Deliveries(ctx context.Context, subscriptionID uuid.UUID, limit int) ([]domain.DeliveryAttempt, error) {
	sub, err := s.subRepo.GetByID(ctx, subscriptionID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get subscription: %w", err))
	}
	if sub == nil {
		return nil, apperror.ErrSubscriptionNotFound()
	}

	recs, err := s.deliveryRepo.ListBySubscription(ctx, subscriptionID, limit)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("list deliveries: %w", err))
	}
	return recs, nil
}

// generateRandomHex generates a random hex string of n bytes.
func generateRandomHex(n int) (string, error) {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// validateTargetURL enforces https delivery targets.
func validateTargetURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "https" || u.Host == "" {
		return apperror.ErrInsecureWebhookURL()
	}
	return nil
}
