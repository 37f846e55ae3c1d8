package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"project-task-api/internal/auth"
	"project-task-api/internal/domain"
	"project-task-api/internal/dto"
	"project-task-api/internal/response"
)

func TestAuthService_Register(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.auth.Register(ctx, &dto.RegisterRequest{Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.User.Username)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, []dto.Notice{{Level: dto.NoticeSuccess, Text: "Welcome, alice!"}}, resp.Notices)

	var user domain.User
	require.NoError(t, env.db.First(&user, "username = ?", "alice").Error)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)
	assert.True(t, auth.CheckPassword(user.PasswordHash, "correct-horse"))

	_, err = env.auth.Register(ctx, &dto.RegisterRequest{Username: "alice", Password: "another-one"})
	requireCode(t, err, response.ErrCodeAlreadyExists)
}

func TestAuthService_Register_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		req      dto.RegisterRequest
		wantCode string
	}{
		{name: "실패: 공백을 제거하면 1자인 사용자명", req: dto.RegisterRequest{Username: "  a  ", Password: "correct-horse"}, wantCode: response.ErrCodeValidation},
		{name: "실패: 151자 사용자명", req: dto.RegisterRequest{Username: strings.Repeat("u", 151), Password: "correct-horse"}, wantCode: response.ErrCodeValidation},
		{name: "실패: 72바이트를 넘는 비밀번호", req: dto.RegisterRequest{Username: "alice", Password: strings.Repeat("p", 100)}, wantCode: response.ErrCodeValidation},
		{name: "실패: 글자 수는 적지만 72바이트를 넘는 비밀번호", req: dto.RegisterRequest{Username: "alice", Password: strings.Repeat("비", 25)}, wantCode: response.ErrCodeValidation},
		{name: "성공: 정확히 72바이트 비밀번호", req: dto.RegisterRequest{Username: "  bob  ", Password: strings.Repeat("p", 72)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := env.auth.Register(ctx, &tt.req)
			if tt.wantCode != "" {
				requireCode(t, err, tt.wantCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "bob", resp.User.Username)
		})
	}

	var count int64
	require.NoError(t, env.db.Model(&domain.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAuthService_Login(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.auth.Register(ctx, &dto.RegisterRequest{Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)

	tests := []struct {
		name     string
		req      dto.LoginRequest
		wantCode string
	}{
		{name: "성공: 올바른 자격 증명", req: dto.LoginRequest{Username: "alice", Password: "correct-horse"}},
		{name: "실패: 틀린 비밀번호", req: dto.LoginRequest{Username: "alice", Password: "wrong-horse"}, wantCode: response.ErrCodeUnauthorized},
		{name: "실패: 없는 사용자", req: dto.LoginRequest{Username: "bob", Password: "correct-horse"}, wantCode: response.ErrCodeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := env.auth.Login(ctx, &tt.req)
			if tt.wantCode != "" {
				requireCode(t, err, tt.wantCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "alice", resp.User.Username)
			assert.Empty(t, resp.Notices)
		})
	}
}

func TestAuthService_Logout(t *testing.T) {
	var revoked []string
	revoker := &MockTokenRevoker{
		RevokeFunc: func(ctx context.Context, token string) error {
			if token == "broken" {
				return errors.New("redis down")
			}
			revoked = append(revoked, token)
			return nil
		},
	}
	svc := NewAuthService(&MockUserRepository{}, &MockTokenIssuer{}, revoker, zap.NewNop())

	require.NoError(t, svc.Logout(context.Background(), "abc"))
	requireCode(t, svc.Logout(context.Background(), "broken"), response.ErrCodeInternal)
	assert.Equal(t, []string{"abc"}, revoked)
}

func TestAuthService_Register_IssuerFailure(t *testing.T) {
	userRepo := &MockUserRepository{
		FindByUsernameFunc: func(ctx context.Context, username string) (*domain.User, error) {
			return nil, gorm.ErrRecordNotFound
		},
		CreateFunc: func(ctx context.Context, user *domain.User) error {
			user.ID = uuid.New()
			return nil
		},
	}
	issuer := &MockTokenIssuer{
		IssueFunc: func(userID uuid.UUID) (string, time.Time, error) {
			return "", time.Time{}, errors.New("no key")
		},
	}
	svc := NewAuthService(userRepo, issuer, nil, zap.NewNop())

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{Username: "alice", Password: "correct-horse"})
	requireCode(t, err, response.ErrCodeInternal)
}
