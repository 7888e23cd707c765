package middleware

import (
	"strings"

	"github.com/finkan/finkan-api/internal/services"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

// SessionCookie is the HTTP-only cookie carrying the session token for
// browser clients.
const SessionCookie = "finkan_session"

const (
	profileIDKey    = "profile_id"
	profileEmailKey = "profile_email"
)

// TokenValidator validates a session token and returns its claims.
type TokenValidator interface {
	ValidateSessionToken(token string) (*services.Claims, error)
}

// Auth authenticates the request from either a Bearer token or the session
// cookie and stashes the profile identity in the request context. Requests
// without a valid token are rejected with 401.
func Auth(jwtService TokenValidator) drift.HandlerFunc {
	return func(c *drift.Context) {
		token := bearerToken(c)
		if token == "" {
			if cookie, err := c.Request.Cookie(SessionCookie); err == nil {
				token = cookie.Value
			}
		}
		if token == "" {
			c.Unauthorized("authentication required")
			return
		}

		claims, err := jwtService.ValidateSessionToken(token)
		if err != nil {
			c.Unauthorized("invalid or expired session")
			return
		}

		c.Set(profileIDKey, claims.ProfileID)
		c.Set(profileEmailKey, claims.Email)
		c.Next()
	}
}

func bearerToken(c *drift.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// GetProfileID returns the authenticated profile id set by Auth.
func GetProfileID(c *drift.Context) (uuid.UUID, bool) {
	v, ok := c.Get(profileIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// GetProfileEmail returns the authenticated profile email set by Auth.
func GetProfileEmail(c *drift.Context) (string, bool) {
	v, ok := c.Get(profileEmailKey)
	if !ok {
		return "", false
	}
	email, ok := v.(string)
	return email, ok
}
