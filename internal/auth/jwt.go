package auth

import (
	"errors"
	"strconv"
	"time"

	"edumart/config"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims carried by a platform token. The subject is the user id; the role is
// embedded so the admin gate works without a user lookup per request. Refresh
// tokens carry an empty role: they can only be exchanged, never used against
// the API directly.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// UserID decodes the subject. Zero means a malformed token.
func (c *Claims) UserID() uint {
	id, err := strconv.ParseUint(c.Subject, 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}

type TokenPair struct {
	Access  string `json:"access_token"`
	Refresh string `json:"refresh_token"`
}

// IssuePair signs an access/refresh token pair for the user.
func IssuePair(cfg *config.JWTConfig, userID uint, role string) (TokenPair, error) {
	now := time.Now()
	sub := strconv.FormatUint(uint64(userID), 10)
	access, err := sign(cfg.AccessSecret, Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.AccessExpiry)),
		},
	})
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := sign(cfg.RefreshSecret, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.RefreshExpiry)),
		},
	})
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

func sign(secret string, claims Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseAccessToken validates an access token and returns its claims.
func ParseAccessToken(cfg *config.JWTConfig, raw string) (*Claims, error) {
	return parse(cfg, cfg.AccessSecret, raw)
}

// ParseRefreshToken validates a refresh token for the exchange endpoint.
func ParseRefreshToken(cfg *config.JWTConfig, raw string) (*Claims, error) {
	return parse(cfg, cfg.RefreshSecret, raw)
}

func parse(cfg *config.JWTConfig, secret, raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
	)
	if err != nil || !token.Valid || claims.UserID() == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
