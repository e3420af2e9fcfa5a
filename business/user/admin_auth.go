package user

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"groupRecommender/domain"
	"groupRecommender/pkg/logger"
	"groupRecommender/pkg/utils"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// AdminCredentials come from configuration. An empty PasswordHash disables
// admin login.
type AdminCredentials struct {
	Username     string
	PasswordHash string
}

type adminAuth struct {
	creds AdminCredentials
}

func NewAdminAuth(creds AdminCredentials) *adminAuth {
	return &adminAuth{creds: creds}
}

// Login checks the configured operator account and returns an admin token.
func (a *adminAuth) Login(ctx context.Context, username, password string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context error: %w", err)
	}

	if a.creds.PasswordHash == "" {
		logger.Warn("Admin login attempted while disabled")
		return "", ErrInvalidCredentials
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.creds.Username)) == 1
	passOK := utils.CheckPassword(password, a.creds.PasswordHash)
	if !userOK || !passOK {
		logger.Warn("Admin login rejected", "username", username)
		return "", ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT("admin:"+a.creds.Username, domain.RoleAdmin)
	if err != nil {
		logger.Error("Failed to generate token", err)
		return "", errors.New("failed to generate token")
	}

	logger.Info("admin logged in", "username", username)
	return token, nil
}
