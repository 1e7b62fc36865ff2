package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/models"
)

var (
	// ErrTokenInvalid indicates a token that is missing, malformed, expired,
	// or signed with the wrong secret.
	ErrTokenInvalid = errors.New("token invalid or expired")
	// ErrTokenRevoked indicates a refresh token that verified but no longer
	// matches the one stored on the user record, i.e. it was already rotated.
	ErrTokenRevoked = errors.New("refresh token revoked")
)

// TokenIssuer mints and verifies signed session credentials. Access and
// refresh tokens are HS256 JWTs carrying only the user id as subject, signed
// with distinct secrets so one can never stand in for the other.
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration

	nowFunc func() time.Time
}

// NewTokenIssuer constructs an issuer from the configured secrets and TTLs.
func NewTokenIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	if accessSecret == "" || refreshSecret == "" {
		panic("auth: token secrets must not be empty")
	}
	return &TokenIssuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// IssuePair mints a fresh access/refresh token pair for the user. Every
// refresh token carries a random jti, so consecutive rotations never produce
// the same token twice even within one clock tick.
func (i *TokenIssuer) IssuePair(userID string) (models.TokenPair, error) {
	if userID == "" {
		return models.TokenPair{}, errors.New("auth: user id must be provided")
	}

	access, accessExp, err := i.sign(i.accessSecret, userID, i.accessTTL)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}

	refresh, refreshExp, err := i.sign(i.refreshSecret, userID, i.refreshTTL)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}

	return models.TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// VerifyAccess validates an access token and returns the user id it carries.
func (i *TokenIssuer) VerifyAccess(token string) (string, error) {
	return i.verify(i.accessSecret, token)
}

// VerifyRefresh validates a refresh token and returns the user id it carries.
// A valid signature alone does not make the token usable: the caller must
// still compare it against the token stored on the user record.
func (i *TokenIssuer) VerifyRefresh(token string) (string, error) {
	return i.verify(i.refreshSecret, token)
}

func (i *TokenIssuer) sign(secret []byte, userID string, ttl time.Duration) (string, time.Time, error) {
	now := i.now()
	expiresAt := now.Add(ttl)

	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (i *TokenIssuer) verify(secret []byte, token string) (string, error) {
	if token == "" {
		return "", ErrTokenInvalid
	}

	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return secret, nil
	}, jwt.WithTimeFunc(i.now), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return "", ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrTokenInvalid
	}
	return claims.Subject, nil
}

func (i *TokenIssuer) now() time.Time {
	if i.nowFunc != nil {
		return i.nowFunc()
	}
	return time.Now().UTC()
}
