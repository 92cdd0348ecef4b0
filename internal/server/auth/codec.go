// Package auth implements the stateless cookie session: a signed, expiring
// token (HS256 JWT) that carries the caller Identity, the cookie boundary it
// travels through, and the Resolver that turns a request into either an
// Identity or an unauthenticated result.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/backoffice/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Clock returns the current wall-clock time. Issue and Verify read time only
// through it.
type Clock func() time.Time

// Claims is the JWT payload: the registered exp/iat claims plus the identity.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func (c *Claims) identity() Identity {
	return Identity{
		ID:       c.UserID,
		Username: c.Username,
		Email:    c.Email,
		Role:     Role(c.Role),
	}
}

// Result is the outcome of verifying a token: a valid Identity or an invalid
// marker. The reason for invalidity is kept for server-side logging only.
type Result struct {
	identity Identity
	valid    bool
	reason   error
}

// Valid wraps an identity in a successful Result.
func Valid(id Identity) Result {
	return Result{identity: id, valid: true}
}

// Invalid builds a failed Result carrying the internal reason.
func Invalid(reason error) Result {
	return Result{reason: reason}
}

// Identity returns the verified identity and true, or the zero Identity and false.
func (r Result) Identity() (Identity, bool) {
	return r.identity, r.valid
}

// OK reports whether the Result holds a verified identity.
func (r Result) OK() bool { return r.valid }

// Reason explains an invalid Result. It must not be shown to clients.
func (r Result) Reason() error { return r.reason }

// TokenCodec issues and verifies session tokens with one process-wide HMAC
// secret. It holds no mutable state and is safe for concurrent use.
type TokenCodec struct {
	secret   []byte
	validity time.Duration
	now      Clock
}

// CodecOption customises a TokenCodec.
type CodecOption func(*TokenCodec)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(clock Clock) CodecOption {
	return func(c *TokenCodec) { c.now = clock }
}

// NewTokenCodec returns a codec signing with secret and issuing tokens that
// expire validity after issue.
func NewTokenCodec(secret []byte, validity time.Duration, opts ...CodecOption) *TokenCodec {
	c := &TokenCodec{
		secret:   secret,
		validity: validity,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Validity is the configured token lifetime.
func (c *TokenCodec) Validity() time.Duration { return c.validity }

// Issue signs id into a token expiring Validity() from now.
func (c *TokenCodec) Issue(id Identity) (string, error) {
	if err := id.Validate(); err != nil {
		return "", err
	}

	now := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.validity)),
		},
		UserID:   id.ID,
		Username: id.Username,
		Email:    id.Email,
		Role:     string(id.Role),
	})

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the embedded identity.
// It never panics or returns an error: malformed, tampered, foreign-key,
// expired and incomplete tokens all yield an invalid Result.
func (c *TokenCodec) Verify(tokenString string) Result {
	if tokenString == "" {
		return Invalid(common.ErrInvalidToken)
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Invalid(common.ErrTokenExpired)
		}
		return Invalid(fmt.Errorf("%w: %v", common.ErrInvalidToken, err))
	}
	if !token.Valid {
		return Invalid(common.ErrInvalidToken)
	}

	id := claims.identity()
	if err := id.Validate(); err != nil {
		return Invalid(err)
	}
	return Valid(id)
}
