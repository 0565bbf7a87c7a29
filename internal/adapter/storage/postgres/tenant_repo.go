package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Devour6/agent-staking-api-sub000/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// TenantRepo implements ports.TenantRepository. Tenants are provisioned out
// of band, so the repository only reads.
type TenantRepo struct {
	pool Pool
}

// NewTenantRepo creates a new TenantRepo.
func NewTenantRepo(pool Pool) *TenantRepo {
	return &TenantRepo{pool: pool}
}

// GetByAccessKey fetches a tenant by its public access key. Returns nil
// without error when no tenant matches.
func (r *TenantRepo) GetByAccessKey(ctx context.Context, accessKey string) (*domain.Tenant, error) {
	query := `SELECT id, name, access_key, secret_key_enc, status, created_at, updated_at
		FROM tenants WHERE access_key = $1`

	t := &domain.Tenant{}
	err := r.pool.QueryRow(ctx, query, accessKey).Scan(
		&t.ID, &t.Name, &t.AccessKey, &t.SecretKeyEnc, &t.Status,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tenant by access_key: %w", err)
	}
	return t, nil
}
