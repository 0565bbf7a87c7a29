package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Devour6/agent-staking-api-sub000/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SubscriptionRepo implements ports.SubscriptionRepository.
type SubscriptionRepo struct {
	pool Pool
}

// NewSubscriptionRepo creates a new SubscriptionRepo.
func NewSubscriptionRepo(pool Pool) *SubscriptionRepo {
	return &SubscriptionRepo{pool: pool}
}

const subscriptionColumns = `id, owner_key, target_url, event_types, secret_enc, active, consecutive_failures, last_delivery_at, created_at, updated_at`

// Create inserts a new subscription.
func (r *SubscriptionRepo) Create(ctx context.Context, sub *domain.Subscription) error {
	query := `INSERT INTO subscriptions (` + subscriptionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.pool.Exec(ctx, query,
		sub.ID, sub.OwnerKey, sub.TargetURL, eventTypeStrings(sub.EventTypes),
		sub.SecretEnc, sub.Active, sub.ConsecutiveFailures,
		sub.LastDeliveryAt, sub.CreatedAt, sub.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert subscription: %w", err)
	}
	return nil
}

// GetByID fetches a subscription by its UUID. Returns nil without error
// when no subscription matches.
func (r *SubscriptionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = $1`

	sub, err := scanSubscription(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subscription by id: %w", err)
	}
	return sub, nil
}

// ListByOwner returns every subscription registered by one tenant,
// newest first.
func (r *SubscriptionRepo) ListByOwner(ctx context.Context, ownerKey string) ([]domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + `
		FROM subscriptions WHERE owner_key = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, ownerKey)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions by owner: %w", err)
	}
	defer rows.Close()
	return collectSubscriptions(rows)
}

// ListActiveByEventType returns the active subscriptions registered for one
// event type. The dispatcher fans events out over this set.
func (r *SubscriptionRepo) ListActiveByEventType(ctx context.Context, eventType domain.EventType) ([]domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + `
		FROM subscriptions WHERE active AND $1 = ANY(event_types) ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, string(eventType))
	if err != nil {
		return nil, fmt.Errorf("list subscriptions by event type: %w", err)
	}
	defer rows.Close()
	return collectSubscriptions(rows)
}

// ExistsActive reports whether the tenant already has an active
// subscription at the same URL covering any of the given event types.
// Registrations for disjoint event types on one URL are allowed.
func (r *SubscriptionRepo) ExistsActive(ctx context.Context, ownerKey, targetURL string, eventTypes []domain.EventType) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM subscriptions
		WHERE owner_key = $1 AND target_url = $2 AND active AND event_types && $3)`

	types := make([]string, len(eventTypes))
	for i, et := range eventTypes {
		types[i] = string(et)
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, query, ownerKey, targetURL, types).Scan(&exists); err != nil {
		return false, fmt.Errorf("check subscription exists: %w", err)
	}
	return exists, nil
}

// RecordDeliveryResult applies one delivery outcome inside the caller's
// transaction. A success resets the failure streak; a failure extends it
// and deactivates the subscription once the streak reaches threshold.
func (r *SubscriptionRepo) RecordDeliveryResult(ctx context.Context, tx pgx.Tx, id uuid.UUID, success bool, deactivateThreshold int, at time.Time) error {
	var query string
	var args []any
	if success {
		query = `UPDATE subscriptions
			SET consecutive_failures = 0, last_delivery_at = $2, updated_at = $2
			WHERE id = $1`
		args = []any{id, at}
	} else {
		query = `UPDATE subscriptions
			SET consecutive_failures = consecutive_failures + 1,
			    active = active AND consecutive_failures + 1 < $2,
			    updated_at = $3
			WHERE id = $1`
		args = []any{id, deactivateThreshold, at}
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("record delivery result: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("record delivery result: subscription %s not found", id)
	}
	return nil
}

// Delete removes a subscription owned by the given tenant. Returns false
// when no matching row exists.
func (r *SubscriptionRepo) Delete(ctx context.Context, id uuid.UUID, ownerKey string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM subscriptions WHERE id = $1 AND owner_key = $2`, id, ownerKey)
	if err != nil {
		return false, fmt.Errorf("delete subscription: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanSubscription(row pgx.Row) (*domain.Subscription, error) {
	sub := &domain.Subscription{}
	var eventTypes []string
	err := row.Scan(
		&sub.ID, &sub.OwnerKey, &sub.TargetURL, &eventTypes, &sub.SecretEnc,
		&sub.Active, &sub.ConsecutiveFailures, &sub.LastDeliveryAt,
		&sub.CreatedAt, &sub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	sub.EventTypes = toEventTypes(eventTypes)
	return sub, nil
}

func collectSubscriptions(rows pgx.Rows) ([]domain.Subscription, error) {
	var subs []domain.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}

func eventTypeStrings(types []domain.EventType) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}

func toEventTypes(values []string) []domain.EventType {
	out := make([]domain.EventType, len(values))
	for i, v := range values {
		out[i] = domain.EventType(v)
	}
	return out
}
