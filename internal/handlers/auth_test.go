package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/finkan/finkan-api/internal/middleware"
	"github.com/finkan/finkan-api/internal/models"
	"github.com/finkan/finkan-api/internal/oauth"
	"github.com/finkan/finkan-api/pkg/dto"
	"github.com/finkan/finkan-api/tests/testutil"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testClientURL = "http://localhost:5173"

func setupAuthTest(t *testing.T) (*testutil.MockOAuthProvider, *testutil.MockProfileService, *testutil.MockSessionService, *AuthHandler) {
	t.Helper()
	mockProvider := new(testutil.MockOAuthProvider)
	mockProfiles := new(testutil.MockProfileService)
	mockSessions := new(testutil.MockSessionService)
	handler := NewAuthHandler(mockProvider, mockProfiles, mockSessions, testutil.TestJWTService(), testClientURL, false)
	return mockProvider, mockProfiles, mockSessions, handler
}

func authTestApp(handler *AuthHandler) http.Handler {
	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Get("/auth/microsoft", handler.MicrosoftLogin)
	app.Get("/auth/microsoft/callback", handler.MicrosoftCallback)
	app.Post("/auth/microsoft/token", handler.TokenLogin)
	app.Post("/auth/logout", handler.Logout)
	app.Get("/auth/logout", handler.Logout)
	return app
}

func testProfile(email string) *models.Profile {
	now := time.Now()
	return &models.Profile{
		ID:           uuid.New(),
		Email:        email,
		AuthProvider: "microsoft",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == middleware.SessionCookie {
			return cookie
		}
	}
	return nil
}

func TestAuthHandler_MicrosoftLogin_RedirectsToConsent(t *testing.T) {
	mockProvider, _, _, handler := setupAuthTest(t)
	app := authTestApp(handler)

	mockProvider.On("GetConsentURL", mock.Anything).
		Return("https://login.microsoftonline.com/common/oauth2/v2.0/authorize?state=abc")

	req := httptest.NewRequest(http.MethodGet, "/auth/microsoft", nil)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "login.microsoftonline.com")
	mockProvider.AssertExpectations(t)
}

func TestAuthHandler_MicrosoftCallback_UnknownState(t *testing.T) {
	_, _, _, handler := setupAuthTest(t)
	app := authTestApp(handler)

	req := httptest.NewRequest(http.MethodGet, "/auth/microsoft/callback?state=bogus&code=xyz", nil)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "error=invalid_state")
}

func TestAuthHandler_MicrosoftCallback_ProviderError(t *testing.T) {
	_, _, _, handler := setupAuthTest(t)
	app := authTestApp(handler)

	req := httptest.NewRequest(http.MethodGet, "/auth/microsoft/callback?error=access_denied", nil)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "error=access_denied")
}

func TestAuthHandler_MicrosoftCallback_Success(t *testing.T) {
	mockProvider, mockProfiles, mockSessions, handler := setupAuthTest(t)
	app := authTestApp(handler)

	profile := testProfile("ana@example.com")
	expiry := time.Now().Add(time.Hour)
	result := &oauth.ExchangeResult{
		User:         testutil.OAuthUserInfo("ana@example.com", "Ana", "ms-123"),
		AccessToken:  "graph-access",
		RefreshToken: "graph-refresh",
		Expiry:       expiry,
	}

	state, err := oauth.GenerateState()
	require.NoError(t, err)
	handler.mu.Lock()
	handler.states[state] = time.Now().Add(stateTTL)
	handler.mu.Unlock()

	mockProvider.On("ExchangeCode", mock.Anything, "auth-code").Return(result, nil)
	mockProfiles.On("FindOrCreateFromOAuth", mock.Anything, result.User).Return(profile, nil)
	mockSessions.On("Replace", mock.Anything, profile.ID, "graph-access", "graph-refresh", expiry).Return(nil)

	req := httptest.NewRequest(http.MethodGet, "/auth/microsoft/callback?state="+state+"&code=auth-code", nil)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, testClientURL, rec.Header().Get("Location"))

	cookie := sessionCookie(t, rec)
	require.NotNil(t, cookie)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)

	mockProvider.AssertExpectations(t)
	mockProfiles.AssertExpectations(t)
	mockSessions.AssertExpectations(t)
}

func TestAuthHandler_MicrosoftCallback_StateNotReusable(t *testing.T) {
	mockProvider, mockProfiles, mockSessions, handler := setupAuthTest(t)
	app := authTestApp(handler)

	profile := testProfile("ana@example.com")
	result := &oauth.ExchangeResult{
		User:        testutil.OAuthUserInfo("ana@example.com", "Ana", "ms-123"),
		AccessToken: "graph-access",
		Expiry:      time.Now().Add(time.Hour),
	}

	state := "one-shot-state"
	handler.mu.Lock()
	handler.states[state] = time.Now().Add(stateTTL)
	handler.mu.Unlock()

	mockProvider.On("ExchangeCode", mock.Anything, "auth-code").Return(result, nil)
	mockProfiles.On("FindOrCreateFromOAuth", mock.Anything, result.User).Return(profile, nil)
	mockSessions.On("Replace", mock.Anything, profile.ID, "graph-access", "", result.Expiry).Return(nil)

	first := httptest.NewRecorder()
	app.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/auth/microsoft/callback?state="+state+"&code=auth-code", nil))
	assert.Equal(t, testClientURL, first.Header().Get("Location"))

	second := httptest.NewRecorder()
	app.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/auth/microsoft/callback?state="+state+"&code=auth-code", nil))
	assert.Contains(t, second.Header().Get("Location"), "error=invalid_state")
}

func TestAuthHandler_TokenLogin_Success(t *testing.T) {
	mockProvider, mockProfiles, _, handler := setupAuthTest(t)
	app := authTestApp(handler)

	profile := testProfile("ana@example.com")
	info := testutil.OAuthUserInfo("ana@example.com", "Ana", "ms-123")

	mockProvider.On("UserInfoFromToken", mock.Anything, "graph-token").Return(info, nil)
	mockProfiles.On("FindOrCreateFromOAuth", mock.Anything, info).Return(profile, nil)

	body, _ := json.Marshal(dto.TokenLoginRequest{AccessToken: "graph-token"})
	req := httptest.NewRequest(http.MethodPost, "/auth/microsoft/token", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.NotEmpty(t, response.Token)
	assert.Equal(t, profile.Email, response.Profile.Email)

	claims, err := testutil.TestJWTService().ValidateSessionToken(response.Token)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, claims.ProfileID)

	require.NotNil(t, sessionCookie(t, rec))
	mockProvider.AssertExpectations(t)
	mockProfiles.AssertExpectations(t)
}

func TestAuthHandler_TokenLogin_MissingToken(t *testing.T) {
	mockProvider, _, _, handler := setupAuthTest(t)
	app := authTestApp(handler)

	req := httptest.NewRequest(http.MethodPost, "/auth/microsoft/token", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockProvider.AssertNotCalled(t, "UserInfoFromToken")
}

func TestAuthHandler_TokenLogin_RejectedToken(t *testing.T) {
	mockProvider, mockProfiles, _, handler := setupAuthTest(t)
	app := authTestApp(handler)

	mockProvider.On("UserInfoFromToken", mock.Anything, "bad-token").
		Return(nil, errors.New("graph returned 401"))

	body, _ := json.Marshal(dto.TokenLoginRequest{AccessToken: "bad-token"})
	req := httptest.NewRequest(http.MethodPost, "/auth/microsoft/token", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	mockProfiles.AssertNotCalled(t, "FindOrCreateFromOAuth")
}

func TestAuthHandler_Me_Success(t *testing.T) {
	_, mockProfiles, _, handler := setupAuthTest(t)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(testutil.TestJWTService()))
	app.Get("/auth/me", handler.Me)

	profile := testProfile("ana@example.com")
	mockProfiles.On("GetByID", mock.Anything, profile.ID).Return(profile, nil)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+testutil.GenerateTestToken(t, profile.ID, profile.Email))
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.ProfileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, profile.ID, response.ID)
	mockProfiles.AssertExpectations(t)
}

func TestAuthHandler_Me_ProfileGone(t *testing.T) {
	_, mockProfiles, _, handler := setupAuthTest(t)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(testutil.TestJWTService()))
	app.Get("/auth/me", handler.Me)

	profileID := uuid.New()
	mockProfiles.On("GetByID", mock.Anything, profileID).Return(nil, errors.New("no rows"))

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+testutil.GenerateTestToken(t, profileID, "gone@example.com"))
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_UpdateMe_Success(t *testing.T) {
	_, mockProfiles, _, handler := setupAuthTest(t)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(testutil.TestJWTService()))
	app.Patch("/auth/me", handler.UpdateMe)

	profile := testProfile("ana@example.com")
	newName := "Ana Petrovic"
	updated := *profile
	updated.FullName = &newName
	mockProfiles.On("Update", mock.Anything, profile.ID, newName).Return(&updated, nil)

	body, _ := json.Marshal(dto.UpdateProfileRequest{FullName: newName})
	req := httptest.NewRequest(http.MethodPatch, "/auth/me", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+testutil.GenerateTestToken(t, profile.ID, profile.Email))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.ProfileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.NotNil(t, response.FullName)
	assert.Equal(t, newName, *response.FullName)
	mockProfiles.AssertExpectations(t)
}

func TestAuthHandler_UpdateMe_MissingName(t *testing.T) {
	_, mockProfiles, _, handler := setupAuthTest(t)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(testutil.TestJWTService()))
	app.Patch("/auth/me", handler.UpdateMe)

	profileID := uuid.New()
	req := httptest.NewRequest(http.MethodPatch, "/auth/me", strings.NewReader(`{}`))
	req.Header.Set("Authorization", "Bearer "+testutil.GenerateTestToken(t, profileID, "ana@example.com"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockProfiles.AssertNotCalled(t, "Update")
}

func TestAuthHandler_Logout_ClearsCookieAndSessions(t *testing.T) {
	_, _, mockSessions, handler := setupAuthTest(t)
	app := authTestApp(handler)

	profileID := uuid.New()
	token := testutil.GenerateTestToken(t, profileID, "ana@example.com")
	mockSessions.On("DeleteForProfile", mock.Anything, profileID).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	cookie := sessionCookie(t, rec)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Less(t, cookie.MaxAge, 0)

	mockSessions.AssertExpectations(t)
}

func TestAuthHandler_Logout_BrowserRedirect(t *testing.T) {
	_, _, _, handler := setupAuthTest(t)
	app := authTestApp(handler)

	req := httptest.NewRequest(http.MethodGet, "/auth/logout", nil)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, testClientURL+"/auth", rec.Header().Get("Location"))
}
