package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"
)

type UserInfo struct {
	Email     string
	Name      string
	AvatarURL string
	ID        string
	Provider  string
}

type Provider interface {
	GetConsentURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*ExchangeResult, error)
	UserInfoFromToken(ctx context.Context, accessToken string) (*UserInfo, error)
	Name() string
}

// ExchangeResult carries the resolved identity together with the provider
// tokens, which are persisted in auth_sessions.
type ExchangeResult struct {
	User         *UserInfo
	AccessToken  string
	RefreshToken string
	Expiry       time.Time
}

func GenerateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
