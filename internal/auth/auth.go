// Package auth issues and verifies bearer tokens carrying a user id and role.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kailas-cloud/jobmatch/internal/domain"
)

// MinSecretSize is the shortest accepted HMAC secret in bytes.
const MinSecretSize = 32

// Role is what a user may do.
type Role string

const (
	// RoleJobSeeker uploads résumés and applies to vacancies.
	RoleJobSeeker Role = "jobseeker"
	// RoleRecruiter publishes vacancies and decides on applications.
	RoleRecruiter Role = "recruiter"
)

// ParseRole validates a role string.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleJobSeeker, RoleRecruiter:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q: %w", s, domain.ErrInvalidInput)
	}
}

// Principal is the authenticated caller.
type Principal struct {
	UserID string
	Role   Role
}

// Claims are the JWT claims.
type Claims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}

// Tokens signs and verifies HS256 tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens creates a token service.
func NewTokens(secret string, ttl time.Duration) (*Tokens, error) {
	if len(secret) < MinSecretSize {
		return nil, fmt.Errorf("jwt secret must be at least %d bytes", MinSecretSize)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive")
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue signs a token for userID with role.
func (t *Tokens) Issue(userID string, role Role) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("user id is required: %w", domain.ErrInvalidInput)
	}
	if _, err := ParseRole(string(role)); err != nil {
		return "", err
	}

	now := t.now()
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return s, nil
}

// Parse verifies a token and returns its principal. Every failure wraps domain.ErrUnauthorized.
func (t *Tokens) Parse(token string) (Principal, error) {
	if token == "" {
		return Principal{}, fmt.Errorf("empty token: %w", domain.ErrUnauthorized)
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
		jwt.WithExpirationRequired(),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return Principal{}, fmt.Errorf("token expired: %w", domain.ErrUnauthorized)
	case err != nil:
		return Principal{}, fmt.Errorf("invalid token: %w", domain.ErrUnauthorized)
	}

	role, err := ParseRole(string(claims.Role))
	if err != nil || claims.Subject == "" {
		return Principal{}, fmt.Errorf("invalid claims: %w", domain.ErrUnauthorized)
	}
	return Principal{UserID: claims.Subject, Role: role}, nil
}

type principalKey struct{}

// WithPrincipal stores the caller in ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the caller stored by WithPrincipal.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
