package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Devour6/agent-staking-api-sub000/config"
	"github.com/Devour6/agent-staking-api-sub000/internal/core/ports/mocks"
	"github.com/Devour6/agent-staking-api-sub000/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func setupAuthService(t *testing.T) (*AuthServiceImpl, *mocks.MockHashService, *mocks.MockTokenService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	hashSvc := mocks.NewMockHashService(ctrl)
	tokenSvc := mocks.NewMockTokenService(ctrl)

	operator := config.OperatorConfig{
		Username:     "operator",
		PasswordHash: "$argon2id$hashed",
	}
	return NewAuthService(operator, hashSvc, tokenSvc), hashSvc, tokenSvc
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, hashSvc, tokenSvc := setupAuthService(t)

	expiry := time.Now().Add(24 * time.Hour)
	hashSvc.EXPECT().Verify("correct_password", "$argon2id$hashed").Return(true, nil)
	tokenSvc.EXPECT().Generate("operator").Return("jwt_token_here", expiry, nil)

	token, expiresAt, err := svc.Login(context.Background(), "operator", "correct_password")
	require.NoError(t, err)
	assert.Equal(t, "jwt_token_here", token)
	assert.Equal(t, expiry, expiresAt)
}

func TestAuthService_Login_UnknownUsername(t *testing.T) {
	svc, _, _ := setupAuthService(t)

	_, _, err := svc.Login(context.Background(), "nonexistent", "password")
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "AUTH_001", appErr.Code)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, hashSvc, _ := setupAuthService(t)

	hashSvc.EXPECT().Verify("wrong_password", "$argon2id$hashed").Return(false, nil)

	_, _, err := svc.Login(context.Background(), "operator", "wrong_password")
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "AUTH_001", appErr.Code)
}

func TestAuthService_Login_HashError(t *testing.T) {
	svc, hashSvc, _ := setupAuthService(t)

	hashSvc.EXPECT().Verify("password", "$argon2id$hashed").Return(false, errors.New("malformed hash"))

	_, _, err := svc.Login(context.Background(), "operator", "password")
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "SYS_001", appErr.Code)
}
