package service

import (
	"agent_academy_backend/internal/config"
	"agent_academy_backend/internal/model"
	"agent_academy_backend/internal/repository"
	"agent_academy_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthService(db *gorm.DB) *AuthService {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-test-secret-test-secret"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(repository.NewUserRepository(db), cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	resp, err := svc.Register(RegisterRequest{
		Name:     "Sam Rivera",
		CodeName: "Night Owl",
		Email:    "sam@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, model.Student, resp.User.Role)
	assert.Equal(t, "Night Owl", resp.User.CodeName)

	claims, err := util.ParseJWT(resp.Token, "test-secret-test-secret-test-secret")
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, model.Student, claims.Role)

	login, err := svc.Login(LoginRequest{Email: "sam@example.com", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	req := RegisterRequest{Name: "Sam", Email: "sam@example.com", Password: "hunter22"}
	_, err := svc.Register(req)
	require.NoError(t, err)

	_, err = svc.Register(req)
	assert.ErrorIs(t, err, util.ErrEmailRegistered)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	_, err := svc.Register(RegisterRequest{Name: "Sam", Email: "sam@example.com", Password: "hunter22"})
	require.NoError(t, err)

	_, err = svc.Login(LoginRequest{Email: "sam@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	_, err = svc.Login(LoginRequest{Email: "nobody@example.com", Password: "hunter22"})
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}
