package handlers

import (
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/finkan/finkan-api/internal/logger"
	"github.com/finkan/finkan-api/internal/metrics"
	"github.com/finkan/finkan-api/internal/middleware"
	"github.com/finkan/finkan-api/internal/oauth"
	"github.com/finkan/finkan-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

const stateTTL = 10 * time.Minute

type AuthHandler struct {
	provider      oauth.Provider
	profiles      ProfileStore
	sessions      SessionStore
	tokens        TokenService
	clientURL     string
	secureCookies bool

	mu     sync.Mutex
	states map[string]time.Time
}

func NewAuthHandler(provider oauth.Provider, profiles ProfileStore, sessions SessionStore, tokens TokenService, clientURL string, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		provider:      provider,
		profiles:      profiles,
		sessions:      sessions,
		tokens:        tokens,
		clientURL:     clientURL,
		secureCookies: secureCookies,
		states:        make(map[string]time.Time),
	}
}

// MicrosoftLogin starts the consent flow by redirecting to Azure AD with a
// fresh state value.
func (h *AuthHandler) MicrosoftLogin(c *drift.Context) {
	state, err := oauth.GenerateState()
	if err != nil {
		internalError(c, "failed to generate oauth state", err)
		return
	}

	h.mu.Lock()
	now := time.Now()
	for s, expiry := range h.states {
		if now.After(expiry) {
			delete(h.states, s)
		}
	}
	h.states[state] = now.Add(stateTTL)
	h.mu.Unlock()

	metrics.RecordAuthAttempt()
	http.Redirect(c.Response, c.Request, h.provider.GetConsentURL(state), http.StatusFound)
}

func (h *AuthHandler) consumeState(state string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	expiry, ok := h.states[state]
	if !ok {
		return false
	}
	delete(h.states, state)
	return time.Now().Before(expiry)
}

// MicrosoftCallback completes the consent flow. Failures redirect back to
// the client login page with an error code instead of rendering JSON, since
// the browser is mid-redirect.
func (h *AuthHandler) MicrosoftCallback(c *drift.Context) {
	if errParam := c.QueryParam("error"); errParam != "" {
		h.redirectWithError(c, errParam)
		return
	}

	state := c.QueryParam("state")
	code := c.QueryParam("code")
	if state == "" || code == "" || !h.consumeState(state) {
		h.redirectWithError(c, "invalid_state")
		return
	}

	ctx := c.Request.Context()
	result, err := h.provider.ExchangeCode(ctx, code)
	if err != nil {
		logger.L().Warn("oauth code exchange failed", zap.Error(err))
		metrics.RecordAuthFailure()
		h.redirectWithError(c, "exchange_failed")
		return
	}

	profile, err := h.profiles.FindOrCreateFromOAuth(ctx, result.User)
	if err != nil {
		logger.L().Error("failed to resolve profile after oauth", zap.Error(err))
		metrics.RecordAuthFailure()
		h.redirectWithError(c, "profile_resolution_failed")
		return
	}

	if err := h.sessions.Replace(ctx, profile.ID, result.AccessToken, result.RefreshToken, result.Expiry); err != nil {
		logger.L().Error("failed to store provider tokens", zap.Error(err))
	}

	token, err := h.tokens.GenerateSessionToken(profile.ID, profile.Email)
	if err != nil {
		internalError(c, "failed to issue session token", err)
		return
	}

	metrics.RecordAuthSuccess()
	h.setSessionCookie(c, token, int(h.tokens.SessionExpiry().Seconds()))
	http.Redirect(c.Response, c.Request, h.clientURL, http.StatusFound)
}

// TokenLogin is the SPA flow: the client already holds a Microsoft Graph
// access token and trades it for a session.
func (h *AuthHandler) TokenLogin(c *drift.Context) {
	var req dto.TokenLoginRequest
	if err := c.BindJSON(&req); err != nil || req.AccessToken == "" {
		c.BadRequest("access_token is required")
		return
	}

	ctx := c.Request.Context()
	metrics.RecordAuthAttempt()

	info, err := h.provider.UserInfoFromToken(ctx, req.AccessToken)
	if err != nil {
		metrics.RecordAuthFailure()
		c.Unauthorized("access token rejected")
		return
	}

	profile, err := h.profiles.FindOrCreateFromOAuth(ctx, info)
	if err != nil {
		internalError(c, "failed to resolve profile after oauth", err)
		return
	}

	token, err := h.tokens.GenerateSessionToken(profile.ID, profile.Email)
	if err != nil {
		internalError(c, "failed to issue session token", err)
		return
	}

	metrics.RecordAuthSuccess()
	h.setSessionCookie(c, token, int(h.tokens.SessionExpiry().Seconds()))
	_ = c.JSON(http.StatusOK, dto.AuthResponse{
		Token:   token,
		Profile: dto.NewProfileResponse(profile),
	})
}

// Me returns the profile bound to the presented credential.
func (h *AuthHandler) Me(c *drift.Context) {
	profileID, ok := currentProfile(c)
	if !ok {
		return
	}

	profile, err := h.profiles.GetByID(c.Request.Context(), profileID)
	if err != nil {
		c.Unauthorized("profile no longer exists")
		return
	}
	_ = c.JSON(http.StatusOK, dto.NewProfileResponse(profile))
}

// UpdateMe changes the caller's display name.
func (h *AuthHandler) UpdateMe(c *drift.Context) {
	profileID, ok := currentProfile(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if req.FullName == "" {
		c.BadRequest("full_name is required")
		return
	}

	profile, err := h.profiles.Update(c.Request.Context(), profileID, req.FullName)
	if err != nil {
		internalError(c, "failed to update profile", err)
		return
	}
	_ = c.JSON(http.StatusOK, dto.NewProfileResponse(profile))
}

// Logout clears the session cookie and drops stored provider tokens when
// the request still carries a valid session. Browser GETs are sent back to
// the client login page.
func (h *AuthHandler) Logout(c *drift.Context) {
	if cookie, err := c.Request.Cookie(middleware.SessionCookie); err == nil {
		if claims, err := h.tokens.ValidateSessionToken(cookie.Value); err == nil {
			if err := h.sessions.DeleteForProfile(c.Request.Context(), claims.ProfileID); err != nil {
				logger.L().Warn("failed to delete provider tokens", zap.Error(err))
			}
		}
	}

	h.setSessionCookie(c, "", -1)

	if c.Request.Method == http.MethodGet {
		http.Redirect(c.Response, c.Request, h.clientURL+"/auth", http.StatusFound)
		return
	}
	_ = c.JSON(http.StatusOK, dto.LogoutResponse{Message: "logged out"})
}

func (h *AuthHandler) setSessionCookie(c *drift.Context, token string, maxAge int) {
	http.SetCookie(c.Response, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) redirectWithError(c *drift.Context, code string) {
	http.Redirect(c.Response, c.Request,
		h.clientURL+"/auth?error="+url.QueryEscape(code), http.StatusFound)
}
