package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/finkan/finkan-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider() *MicrosoftProvider {
	return NewMicrosoftProvider(config.MicrosoftOAuthConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:3001/api/v1/auth/microsoft/callback",
		Tenant:       "common",
	})
}

func TestMicrosoftProvider_Name(t *testing.T) {
	assert.Equal(t, "microsoft", newTestProvider().Name())
}

func TestMicrosoftProvider_GetConsentURL(t *testing.T) {
	provider := newTestProvider()

	url := provider.GetConsentURL("state-123")

	assert.Contains(t, url, "login.microsoftonline.com")
	assert.Contains(t, url, "client_id=client-id")
	assert.Contains(t, url, "state=state-123")
	assert.Contains(t, url, "prompt=select_account")
	assert.Contains(t, url, "offline_access")
}

func TestMicrosoftProvider_UserInfoFromToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer graph-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "ms-user-1",
			"displayName": "Ana Petrovic",
			"userPrincipalName": "ana@contoso.com",
			"mail": "ana.petrovic@contoso.com"
		}`))
	}))
	defer server.Close()

	provider := newTestProvider()
	provider.userInfoURL = server.URL

	info, err := provider.UserInfoFromToken(context.Background(), "graph-token")

	require.NoError(t, err)
	assert.Equal(t, "ana@contoso.com", info.Email)
	assert.Equal(t, "Ana Petrovic", info.Name)
	assert.Equal(t, "ms-user-1", info.ID)
	assert.Equal(t, "microsoft", info.Provider)
}

func TestMicrosoftProvider_UserInfoFromToken_MailFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "ms-user-2", "displayName": "No UPN", "mail": "fallback@contoso.com"}`))
	}))
	defer server.Close()

	provider := newTestProvider()
	provider.userInfoURL = server.URL

	info, err := provider.UserInfoFromToken(context.Background(), "graph-token")

	require.NoError(t, err)
	assert.Equal(t, "fallback@contoso.com", info.Email)
}

func TestMicrosoftProvider_UserInfoFromToken_NoEmail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "ms-user-3", "displayName": "No Email"}`))
	}))
	defer server.Close()

	provider := newTestProvider()
	provider.userInfoURL = server.URL

	_, err := provider.UserInfoFromToken(context.Background(), "graph-token")

	assert.Error(t, err)
}

func TestMicrosoftProvider_UserInfoFromToken_GraphRejects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	provider := newTestProvider()
	provider.userInfoURL = server.URL

	_, err := provider.UserInfoFromToken(context.Background(), "expired-token")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestGenerateState_Unique(t *testing.T) {
	a, err := GenerateState()
	require.NoError(t, err)
	b, err := GenerateState()
	require.NoError(t, err)

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
