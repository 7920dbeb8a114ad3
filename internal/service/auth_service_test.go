package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveyforge/internal/config"
)

func newTestAuth() *AuthService {
	return NewAuthService(&config.Config{
		HostUsername: "admin",
		HostPassword: "secret",
		JWTSecret:    "test-signing-key",
	})
}

func TestLoginIssuesValidToken(t *testing.T) {
	auth := newTestAuth()

	resp, err := auth.Login("admin", "secret")
	require.NoError(t, err)
	assert.Equal(t, HostIDFor("admin"), resp.HostID)

	claims, err := auth.ValidateHostToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.HostID, claims.HostID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	auth := newTestAuth()

	_, err := auth.Login("admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login("root", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestHostIDIsStable(t *testing.T) {
	assert.Equal(t, HostIDFor("admin"), HostIDFor("admin"))
	assert.NotEqual(t, HostIDFor("admin"), HostIDFor("other"))
	assert.Regexp(t, `^host_[0-9a-f]{8}$`, HostIDFor("admin"))
}

func TestValidateHostTokenRejectsForeignAndExpiredTokens(t *testing.T) {
	auth := newTestAuth()
	resp, err := auth.Login("admin", "secret")
	require.NoError(t, err)

	other := NewAuthService(&config.Config{HostUsername: "admin", HostPassword: "secret", JWTSecret: "another-key"})
	_, err = other.ValidateHostToken(resp.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = auth.ValidateHostToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	auth.now = func() time.Time { return time.Now().Add(-2 * hostTokenTTL) }
	stale, err := auth.Login("admin", "secret")
	require.NoError(t, err)
	_, err = newTestAuth().ValidateHostToken(stale.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
