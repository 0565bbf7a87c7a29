package domain

import (
	"time"

	"github.com/google/uuid"
)

// TenantStatus represents the state of an API tenant.
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "ACTIVE"
	TenantStatusSuspended TenantStatus = "SUSPENDED"
)

// Tenant is an API consumer. Tenants are provisioned out of band; this
// service only reads them to authenticate signed requests.
type Tenant struct {
	ID           uuid.UUID    `json:"id"`
	Name         string       `json:"name"`
	AccessKey    string       `json:"access_key"`
	SecretKeyEnc string       `json:"-"` // Encrypted, never exposed
	Status       TenantStatus `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// IsActive returns true if the tenant may call the API.
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}
