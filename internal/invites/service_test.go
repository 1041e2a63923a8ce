package invites

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInviteRoundTrip(t *testing.T) {
	svc := NewService("test-secret", 24)
	orgID := uuid.New().String()

	token, err := svc.Generate(orgID, "user@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, orgID, claims.OrganizationID)
	assert.Equal(t, "user@example.com", claims.Email)
}

func TestInviteWrongSecret(t *testing.T) {
	token, err := NewService("secret-a", 24).Generate(uuid.New().String(), "user@example.com")
	require.NoError(t, err)

	_, err = NewService("secret-b", 24).Verify(token)
	assert.Error(t, err)
}

func TestInviteExpired(t *testing.T) {
	svc := NewService("test-secret", 24)
	svc.ttl = -time.Minute

	token, err := svc.Generate(uuid.New().String(), "user@example.com")
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.Error(t, err)
}

func TestInviteGarbageToken(t *testing.T) {
	_, err := NewService("test-secret", 24).Verify("not-a-jwt")
	assert.Error(t, err)
}
