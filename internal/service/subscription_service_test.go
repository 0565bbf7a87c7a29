package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Devour6/agent-staking-api-sub000/internal/core/domain"
	"github.com/Devour6/agent-staking-api-sub000/internal/core/ports"
	"github.com/Devour6/agent-staking-api-sub000/internal/core/ports/mocks"
	"github.com/Devour6/agent-staking-api-sub000/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func setupSubscriptionService(t *testing.T) (
	*SubscriptionServiceImpl,
	*mocks.MockSubscriptionRepository,
	*mocks.MockDeliveryRepository,
	*mocks.MockEncryptionService,
) {
	t.Helper()
	ctrl := gomock.NewController(t)
	subRepo := mocks.NewMockSubscriptionRepository(ctrl)
	deliveryRepo := mocks.NewMockDeliveryRepository(ctrl)
	encSvc := mocks.NewMockEncryptionService(ctrl)

	svc := NewSubscriptionService(subRepo, deliveryRepo, encSvc, newTestLogger())
	return svc, subRepo, deliveryRepo, encSvc
}

func registerRequest() ports.RegisterSubscriptionRequest {
	return ports.RegisterSubscriptionRequest{
		OwnerKey:   "ak_tenant",
		TargetURL:  "https://example.com/hook",
		EventTypes: []string{"stake_confirmed", "stake_activated"},
	}
}

func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, code, appErr.Code)
}

func TestSubscriptionService_Register_Success(t *testing.T) {
	svc, subRepo, _, encSvc := setupSubscriptionService(t)
	ctx := context.Background()
	req := registerRequest()

	subRepo.EXPECT().
		ExistsActive(ctx, req.OwnerKey, req.TargetURL, []domain.EventType{domain.EventStakeConfirmed, domain.EventStakeActivated}).
		Return(false, nil)

	var plainSecret string
	encSvc.EXPECT().Encrypt(gomock.Any()).
		DoAndReturn(func(plaintext string) (string, error) {
			plainSecret = plaintext
			return "enc:" + plaintext, nil
		})

	var created *domain.Subscription
	subRepo.EXPECT().Create(ctx, gomock.Any()).
		DoAndReturn(func(ctx context.Context, sub *domain.Subscription) error {
			created = sub
			return nil
		})

	resp, err := svc.Register(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.Len(t, resp.Secret, 64) // 32 bytes = 64 hex chars
	assert.Equal(t, plainSecret, resp.Secret)
	assert.NotEqual(t, uuid.Nil, resp.ID)

	require.NotNil(t, created)
	assert.Equal(t, resp.ID, created.ID)
	assert.Equal(t, "enc:"+plainSecret, created.SecretEnc, "only the encrypted secret is stored")
	assert.True(t, created.Active)
	assert.Equal(t, []domain.EventType{domain.EventStakeConfirmed, domain.EventStakeActivated}, created.EventTypes)
}

func TestSubscriptionService_Register_DeduplicatesEventTypes(t *testing.T) {
	svc, subRepo, _, encSvc := setupSubscriptionService(t)
	ctx := context.Background()
	req := registerRequest()
	req.EventTypes = []string{"stake_confirmed", "stake_confirmed", "stake_activated"}

	subRepo.EXPECT().ExistsActive(ctx, req.OwnerKey, req.TargetURL, gomock.Any()).Return(false, nil)
	encSvc.EXPECT().Encrypt(gomock.Any()).Return("enc", nil)

	var created *domain.Subscription
	subRepo.EXPECT().Create(ctx, gomock.Any()).
		DoAndReturn(func(ctx context.Context, sub *domain.Subscription) error {
			created = sub
			return nil
		})

	_, err := svc.Register(ctx, req)
	require.NoError(t, err)
	assert.Len(t, created.EventTypes, 2)
}

func TestSubscriptionService_Register_RejectsHTTPURL(t *testing.T) {
	svc, _, _, _ := setupSubscriptionService(t)

	req := registerRequest()
	req.TargetURL = "http://example.com/hook"

	_, err := svc.Register(context.Background(), req)
	require.Error(t, err)
	assertAppError(t, err, "SUB_001")
}

func TestSubscriptionService_Register_RejectsMissingHost(t *testing.T) {
	svc, _, _, _ := setupSubscriptionService(t)

	req := registerRequest()
	req.TargetURL = "https://"

	_, err := svc.Register(context.Background(), req)
	require.Error(t, err)
	assertAppError(t, err, "SUB_001")
}

func TestSubscriptionService_Register_NoEventTypes(t *testing.T) {
	svc, _, _, _ := setupSubscriptionService(t)

	req := registerRequest()
	req.EventTypes = nil

	_, err := svc.Register(context.Background(), req)
	require.Error(t, err)
	assertAppError(t, err, "SUB_003")
}

func TestSubscriptionService_Register_UnknownEventType(t *testing.T) {
	svc, _, _, _ := setupSubscriptionService(t)

	req := registerRequest()
	req.EventTypes = []string{"stake_confirmed", "stake_exploded"}

	_, err := svc.Register(context.Background(), req)
	require.Error(t, err)
	assertAppError(t, err, "SUB_002")
}

func TestSubscriptionService_Register_DuplicateOverlappingEventTypes(t *testing.T) {
	svc, subRepo, _, _ := setupSubscriptionService(t)
	ctx := context.Background()
	req := registerRequest()

	subRepo.EXPECT().ExistsActive(ctx, req.OwnerKey, req.TargetURL, gomock.Any()).Return(true, nil)

	_, err := svc.Register(ctx, req)
	require.Error(t, err)
	assertAppError(t, err, "SUB_004")
}

func TestSubscriptionService_Register_SameURLDisjointEventTypes(t *testing.T) {
	svc, subRepo, _, encSvc := setupSubscriptionService(t)
	ctx := context.Background()

	// Second registration on the same URL for an event type the first one
	// does not cover. The overlap check answers false, so it is accepted.
	req := registerRequest()
	req.EventTypes = []string{"validator_delinquent"}

	subRepo.EXPECT().
		ExistsActive(ctx, req.OwnerKey, req.TargetURL, []domain.EventType{domain.EventValidatorDelinquent}).
		Return(false, nil)
	encSvc.EXPECT().Encrypt(gomock.Any()).Return("enc", nil)
	subRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	resp, err := svc.Register(ctx, req)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, resp.ID)
}

func TestSubscriptionService_List(t *testing.T) {
	svc, subRepo, _, _ := setupSubscriptionService(t)
	ctx := context.Background()

	expected := []domain.Subscription{{ID: uuid.New(), OwnerKey: "ak_tenant"}}
	subRepo.EXPECT().ListByOwner(ctx, "ak_tenant").Return(expected, nil)

	subs, err := svc.List(ctx, "ak_tenant")
	require.NoError(t, err)
	assert.Equal(t, expected, subs)
}

func TestSubscriptionService_Delete_Success(t *testing.T) {
	svc, subRepo, _, _ := setupSubscriptionService(t)
	ctx := context.Background()
	id := uuid.New()

	subRepo.EXPECT().Delete(ctx, id, "ak_tenant").Return(true, nil)

	require.NoError(t, svc.Delete(ctx, id, "ak_tenant"))
}

func TestSubscriptionService_Delete_NotFound(t *testing.T) {
	svc, subRepo, _, _ := setupSubscriptionService(t)
	ctx := context.Background()
	id := uuid.New()

	subRepo.EXPECT().Delete(ctx, id, "ak_tenant").Return(false, nil)

	err := svc.Delete(ctx, id, "ak_tenant")
	require.Error(t, err)
	assertAppError(t, err, "SUB_005")
}

func TestSubscriptionService_Deliveries(t *testing.T) {
	svc, subRepo, deliveryRepo, _ := setupSubscriptionService(t)
	ctx := context.Background()
	id := uuid.New()

	sub := &domain.Subscription{ID: id}
	records := []domain.DeliveryAttempt{{
		ID:             uuid.New(),
		SubscriptionID: id,
		Status:         domain.DeliveryStatusSuccess,
		CreatedAt:      time.Now().UTC(),
	}}

	subRepo.EXPECT().GetByID(ctx, id).Return(sub, nil)
	deliveryRepo.EXPECT().ListBySubscription(ctx, id, 20).Return(records, nil)

	got, err := svc.Deliveries(ctx, id, 20)
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestSubscriptionService_Deliveries_UnknownSubscription(t *testing.T) {
	svc, subRepo, _, _ := setupSubscriptionService(t)
	ctx := context.Background()
	id := uuid.New()

	subRepo.EXPECT().GetByID(ctx, id).Return(nil, nil)

	_, err := svc.Deliveries(ctx, id, 20)
	require.Error(t, err)
	assertAppError(t, err, "SUB_005")
}
