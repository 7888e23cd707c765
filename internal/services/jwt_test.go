package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := NewJWTService("unit-test-secret", time.Hour)
	profileID := uuid.New()

	token, err := svc.GenerateSessionToken(profileID, "ana@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, profileID, claims.ProfileID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "finkan-api", claims.Issuer)
	assert.Equal(t, profileID.String(), claims.Subject)
}

func TestJWTService_ValidateSessionToken_WrongSecret(t *testing.T) {
	issuer := NewJWTService("secret-one", time.Hour)
	verifier := NewJWTService("secret-two", time.Hour)

	token, err := issuer.GenerateSessionToken(uuid.New(), "ana@example.com")
	require.NoError(t, err)

	_, err = verifier.ValidateSessionToken(token)
	assert.Error(t, err)
}

func TestJWTService_ValidateSessionToken_Expired(t *testing.T) {
	svc := NewJWTService("unit-test-secret", -time.Minute)

	token, err := svc.GenerateSessionToken(uuid.New(), "ana@example.com")
	require.NoError(t, err)

	_, err = svc.ValidateSessionToken(token)
	assert.Error(t, err)
}

func TestJWTService_ValidateSessionToken_Garbage(t *testing.T) {
	svc := NewJWTService("unit-test-secret", time.Hour)

	_, err := svc.ValidateSessionToken("not-a-token")
	assert.Error(t, err)
}

func TestJWTService_SessionExpiry(t *testing.T) {
	svc := NewJWTService("unit-test-secret", 168*time.Hour)
	assert.Equal(t, 168*time.Hour, svc.SessionExpiry())
}
