package auth

import (
	"testing"
	"time"

	"edumart/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessExpiry:  time.Minute,
		RefreshExpiry: time.Hour,
		Issuer:        "edumart-test",
	}
}

func TestIssueAndParsePair(t *testing.T) {
	cfg := testJWTConfig()
	pair, err := IssuePair(cfg, 42, "ADMIN")
	require.NoError(t, err)

	claims, err := ParseAccessToken(cfg, pair.Access)
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.UserID())
	assert.Equal(t, "ADMIN", claims.Role)

	refreshed, err := ParseRefreshToken(cfg, pair.Refresh)
	require.NoError(t, err)
	assert.EqualValues(t, 42, refreshed.UserID())
	assert.Empty(t, refreshed.Role, "refresh tokens carry no role")
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	cfg := testJWTConfig()
	pair, err := IssuePair(cfg, 7, "USER")
	require.NoError(t, err)

	// A refresh token must not pass as an access token, and vice versa.
	_, err = ParseAccessToken(cfg, pair.Refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = ParseRefreshToken(cfg, pair.Access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsForeignIssuer(t *testing.T) {
	cfg := testJWTConfig()
	other := testJWTConfig()
	other.Issuer = "someone-else"

	pair, err := IssuePair(other, 7, "USER")
	require.NoError(t, err)
	_, err = ParseAccessToken(cfg, pair.Access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	cfg := testJWTConfig()
	_, err := ParseAccessToken(cfg, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
