// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package session issues and validates signed, time-limited bearer tokens
// and manages their cookie transport. Tokens are stateless HS256 JWTs; a
// Valkey-backed revocation list gives logout and account deletion real
// semantics before a token's natural expiry.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// CookieName is the name of the token cookie sent to the browser.
	CookieName = "token"

	// revokedPrefix namespaces revoked token IDs in Valkey.
	revokedPrefix = "revoked:"
)

// ErrInvalidToken is returned by Validate for any token that cannot be
// accepted: bad signature, expired, malformed, or revoked.
var ErrInvalidToken = errors.New("invalid token")

// Identity is the authenticated principal carried by a valid token.
type Identity struct {
	UserID uuid.UUID
	Email  string
}

// Claims is the JWT payload for issued tokens.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Issuer signs and validates bearer tokens. The signing secret is
// process-wide configuration loaded once at startup, never request state.
type Issuer struct {
	secret  []byte
	ttl     time.Duration
	valkey  *redis.Client // may be nil: revocation degrades to cookie clearing
	secure  bool
}

// NewIssuer creates a token issuer. valkey may be nil, in which case Revoke
// is a no-op and tokens remain valid until expiry. secure controls the
// Secure flag on token cookies (true outside development).
func NewIssuer(secret string, ttl time.Duration, valkey *redis.Client, secure bool) *Issuer {
	return &Issuer{
		secret: []byte(secret),
		ttl:    ttl,
		valkey: valkey,
		secure: secure,
	}
}

// Issue creates a signed token for the given user, valid for the
// configured expiry.
func (i *Issuer) Issue(userID uuid.UUID, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies a token string, returning the identity it
// carries. Revoked tokens are rejected when Valkey is available; if the
// revocation list is unreachable the token is accepted and the error logged,
// since losing revocation is tolerable but locking out every user is not.
func (i *Issuer) Validate(ctx context.Context, tokenString string) (*Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return i.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if i.valkey != nil && claims.ID != "" {
		_, err := i.valkey.Get(ctx, revokedPrefix+claims.ID).Result()
		switch {
		case err == nil:
			return nil, ErrInvalidToken
		case err != redis.Nil:
			slog.Error("revocation list unreachable", "error", err)
		}
	}

	return &Identity{UserID: userID, Email: claims.Email}, nil
}

// Revoke records a token's ID in the revocation list until the token's
// natural expiry. Unsigned or already-expired tokens are ignored.
func (i *Issuer) Revoke(ctx context.Context, tokenString string) error {
	if i.valkey == nil {
		return nil
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid || claims.ID == "" {
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}

	if err := i.valkey.Set(ctx, revokedPrefix+claims.ID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// SetTokenCookie delivers the token as an HTTP-only, same-site-restricted
// cookie alongside the JSON response body.
func (i *Issuer) SetTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   i.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(i.ttl.Seconds()),
	})
}

// ClearTokenCookie expires the token cookie immediately.
func (i *Issuer) ClearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   i.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
