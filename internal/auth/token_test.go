package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/commerce-services/internal/auth"
	"github.com/spec-kit/commerce-services/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", 30)
	user := &domain.User{ID: 7, Username: "jdoe", Role: domain.RoleSeller}

	token, expiresAt, err := tm.GenerateToken(user)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), expiresAt, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "7", claims.Subject)
	assert.Equal(t, "jdoe", claims.Username)
	assert.Equal(t, domain.RoleSeller, claims.Role)
}

func TestTokenRejectedWithWrongSecret(t *testing.T) {
	issuer := auth.NewTokenManager("secret-a", 30)
	verifier := auth.NewTokenManager("secret-b", 30)

	token, _, err := issuer.GenerateToken(&domain.User{ID: 1, Username: "jdoe"})
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	assert.Error(t, err)
}

func TestTokenTTLFallback(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", 0)

	_, expiresAt, err := tm.GenerateToken(&domain.User{ID: 1, Username: "jdoe"})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)
}
