package user

import (
	"context"
	"testing"
	"time"

	"groupRecommender/domain"
	"groupRecommender/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminLogin(t *testing.T) {
	utils.InitJWT("admin-test-secret", time.Hour)
	hash, err := utils.HashPassword("hunter22")
	require.NoError(t, err)

	auth := NewAdminAuth(AdminCredentials{Username: "ops", PasswordHash: hash})

	token, err := auth.Login(context.Background(), "ops", "hunter22")
	require.NoError(t, err)

	claims, err := utils.ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.Equal(t, "admin:ops", claims.UserID)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "wrong password", username: "ops", password: "hunter2"},
		{name: "wrong username", username: "root", password: "hunter22"},
		{name: "empty", username: "", password: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.Login(context.Background(), tt.username, tt.password)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestAdminLoginDisabled(t *testing.T) {
	auth := NewAdminAuth(AdminCredentials{Username: "ops"})

	_, err := auth.Login(context.Background(), "ops", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = auth.Login(ctx, "ops", "x")
	assert.ErrorIs(t, err, context.Canceled)
}
