package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/Devour6/agent-staking-api-sub000/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSubscription() *domain.Subscription {
	return &domain.Subscription{
		ID:        uuid.New(),
		OwnerKey:  "ak_" + uuid.New().String()[:16],
		TargetURL: "https://example.com/hooks/staking",
		EventTypes: []domain.EventType{
			domain.EventStakeConfirmed,
			domain.EventStakeActivated,
		},
		SecretEnc: "encrypted_signing_secret",
		Active:    true,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
		UpdatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

func subscriptionColumnsList() []string {
	return []string{"id", "owner_key", "target_url", "event_types", "secret_enc", "active", "consecutive_failures", "last_delivery_at", "created_at", "updated_at"}
}

func subscriptionRow(s *domain.Subscription) *pgxmock.Rows {
	return pgxmock.NewRows(subscriptionColumnsList()).AddRow(
		s.ID, s.OwnerKey, s.TargetURL, eventTypeStrings(s.EventTypes), s.SecretEnc,
		s.Active, s.ConsecutiveFailures, s.LastDeliveryAt, s.CreatedAt, s.UpdatedAt,
	)
}

func TestSubscriptionRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewSubscriptionRepo(mock)
	s := newTestSubscription()

	mock.ExpectExec("INSERT INTO subscriptions").
		WithArgs(s.ID, s.OwnerKey, s.TargetURL, eventTypeStrings(s.EventTypes),
			s.SecretEnc, s.Active, s.ConsecutiveFailures,
			s.LastDeliveryAt, s.CreatedAt, s.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), s)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewSubscriptionRepo(mock)
	s := newTestSubscription()

	mock.ExpectQuery("SELECT .+ FROM subscriptions WHERE id").
		WithArgs(s.ID).
		WillReturnRows(subscriptionRow(s))

	result, err := repo.GetByID(context.Background(), s.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, s.ID, result.ID)
	assert.Equal(t, s.EventTypes, result.EventTypes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewSubscriptionRepo(mock)
	id := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM subscriptions WHERE id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(subscriptionColumnsList()))

	result, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionRepo_ListActiveByEventType(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewSubscriptionRepo(mock)
	s1 := newTestSubscription()
	s2 := newTestSubscription()

	mock.ExpectQuery("SELECT .+ FROM subscriptions WHERE active").
		WithArgs(string(domain.EventStakeConfirmed)).
		WillReturnRows(pgxmock.NewRows(subscriptionColumnsList()).
			AddRow(s1.ID, s1.OwnerKey, s1.TargetURL, eventTypeStrings(s1.EventTypes), s1.SecretEnc,
				s1.Active, s1.ConsecutiveFailures, s1.LastDeliveryAt, s1.CreatedAt, s1.UpdatedAt).
			AddRow(s2.ID, s2.OwnerKey, s2.TargetURL, eventTypeStrings(s2.EventTypes), s2.SecretEnc,
				s2.Active, s2.ConsecutiveFailures, s2.LastDeliveryAt, s2.CreatedAt, s2.UpdatedAt))

	result, err := repo.ListActiveByEventType(context.Background(), domain.EventStakeConfirmed)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, s1.ID, result[0].ID)
	assert.Equal(t, s2.ID, result[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionRepo_ExistsActive(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewSubscriptionRepo(mock)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("ak_owner", "https://example.com/hook", []string{"stake_confirmed"}).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsActive(context.Background(), "ak_owner", "https://example.com/hook",
		[]domain.EventType{domain.EventStakeConfirmed})
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionRepo_RecordDeliveryResult_Success(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewSubscriptionRepo(mock)
	id := uuid.New()
	at := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE subscriptions SET consecutive_failures = 0").
		WithArgs(id, at).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.RecordDeliveryResult(context.Background(), tx, id, true, 10, at)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionRepo_RecordDeliveryResult_Failure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewSubscriptionRepo(mock)
	id := uuid.New()
	at := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE subscriptions SET consecutive_failures = consecutive_failures").
		WithArgs(id, 10, at).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.RecordDeliveryResult(context.Background(), tx, id, false, 10, at)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionRepo_Delete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewSubscriptionRepo(mock)
	id := uuid.New()

	mock.ExpectExec("DELETE FROM subscriptions").
		WithArgs(id, "ak_owner").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	found, err := repo.Delete(context.Background(), id, "ak_owner")
	require.NoError(t, err)
	assert.True(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionRepo_Delete_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewSubscriptionRepo(mock)
	id := uuid.New()

	mock.ExpectExec("DELETE FROM subscriptions").
		WithArgs(id, "ak_owner").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	found, err := repo.Delete(context.Background(), id, "ak_owner")
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}
