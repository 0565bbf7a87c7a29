package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Devour6/agent-staking-api-sub000/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DeliveryRepo implements ports.DeliveryRepository. Records are retained
// after terminal states for audit.
type DeliveryRepo struct {
	pool Pool
}

// NewDeliveryRepo creates a new DeliveryRepo.
func NewDeliveryRepo(pool Pool) *DeliveryRepo {
	return &DeliveryRepo{pool: pool}
}

const deliveryColumns = `id, subscription_id, event_type, payload, attempt, status, http_status, last_error, created_at, delivered_at, next_retry_at`

// Create inserts a new delivery attempt record.
func (r *DeliveryRepo) Create(ctx context.Context, rec *domain.DeliveryAttempt) error {
	query := `INSERT INTO webhook_deliveries (` + deliveryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.pool.Exec(ctx, query,
		rec.ID, rec.SubscriptionID, string(rec.EventType), rec.Payload,
		rec.Attempt, string(rec.Status), rec.HTTPStatus, rec.LastError,
		rec.CreatedAt, rec.DeliveredAt, rec.NextRetryAt,
	)
	if err != nil {
		return fmt.Errorf("insert delivery: %w", err)
	}
	return nil
}

// Update rewrites the mutable fields of a delivery record. When tx is nil
// the update runs outside any transaction.
func (r *DeliveryRepo) Update(ctx context.Context, tx pgx.Tx, rec *domain.DeliveryAttempt) error {
	query := `UPDATE webhook_deliveries
		SET attempt = $1, status = $2, http_status = $3, last_error = $4,
		    delivered_at = $5, next_retry_at = $6
		WHERE id = $7`
	args := []any{
		rec.Attempt, string(rec.Status), rec.HTTPStatus, rec.LastError,
		rec.DeliveredAt, rec.NextRetryAt, rec.ID,
	}

	var (
		tag pgconn.CommandTag
		err error
	)
	if tx != nil {
		tag, err = tx.Exec(ctx, query, args...)
	} else {
		tag, err = r.pool.Exec(ctx, query, args...)
	}
	if err != nil {
		return fmt.Errorf("update delivery: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update delivery: record %s not found", rec.ID)
	}
	return nil
}

// GetByID fetches a delivery record. Returns nil without error when no
// record matches.
func (r *DeliveryRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.DeliveryAttempt, error) {
	query := `SELECT ` + deliveryColumns + ` FROM webhook_deliveries WHERE id = $1`

	rec, err := scanDelivery(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery by id: %w", err)
	}
	return rec, nil
}

// ListDue returns failed records whose retry time has passed, oldest due
// first. The sweep processes them in bounded batches.
func (r *DeliveryRepo) ListDue(ctx context.Context, now time.Time, limit int) ([]domain.DeliveryAttempt, error) {
	query := `SELECT ` + deliveryColumns + `
		FROM webhook_deliveries
		WHERE status = $1 AND next_retry_at <= $2
		ORDER BY next_retry_at ASC
		LIMIT $3`

	rows, err := r.pool.Query(ctx, query, string(domain.DeliveryStatusFailed), now, limit)
	if err != nil {
		return nil, fmt.Errorf("list due deliveries: %w", err)
	}
	defer rows.Close()
	return collectDeliveries(rows)
}

// ListBySubscription returns recent delivery records for one subscription,
// newest first.
func (r *DeliveryRepo) ListBySubscription(ctx context.Context, subscriptionID uuid.UUID, limit int) ([]domain.DeliveryAttempt, error) {
	query := `SELECT ` + deliveryColumns + `
		FROM webhook_deliveries
		WHERE subscription_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, subscriptionID, limit)
	if err != nil {
		return nil, fmt.Errorf("list deliveries by subscription: %w", err)
	}
	defer rows.Close()
	return collectDeliveries(rows)
}

// ListRecent returns the most recent delivery records across all
// subscriptions, newest first.
func (r *DeliveryRepo) ListRecent(ctx context.Context, limit int) ([]domain.DeliveryAttempt, error) {
	query := `SELECT ` + deliveryColumns + `
		FROM webhook_deliveries
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent deliveries: %w", err)
	}
	defer rows.Close()
	return collectDeliveries(rows)
}

func scanDelivery(row pgx.Row) (*domain.DeliveryAttempt, error) {
	rec := &domain.DeliveryAttempt{}
	var eventType, status string
	err := row.Scan(
		&rec.ID, &rec.SubscriptionID, &eventType, &rec.Payload,
		&rec.Attempt, &status, &rec.HTTPStatus, &rec.LastError,
		&rec.CreatedAt, &rec.DeliveredAt, &rec.NextRetryAt,
	)
	if err != nil {
		return nil, err
	}
	rec.EventType = domain.EventType(eventType)
	rec.Status = domain.DeliveryStatus(status)
	return rec, nil
}

func collectDeliveries(rows pgx.Rows) ([]domain.DeliveryAttempt, error) {
	var recs []domain.DeliveryAttempt
	for rows.Next() {
		rec, err := scanDelivery(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, *rec)
	}
	return recs, rows.Err()
}
