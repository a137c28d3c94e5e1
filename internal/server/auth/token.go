package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"authcore/internal/common"
	"authcore/internal/logging"
	"authcore/internal/server/models"
)

// Claims is the token payload. The JSON field names are a wire contract:
// {id, email, role, exp}.
type Claims struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Codec issues and verifies signed, expiring identity tokens (HS256).
// The signing key is fixed at construction and never logged. Tokens are
// stateless: invalidation is purely time-based, there is no revocation list.
type Codec struct {
	key      []byte
	lifetime time.Duration
	logger   logging.Logger
}

// NewCodec builds a Codec. An empty signing key is a configuration fault
// and fails construction; it is never a per-request denial.
func NewCodec(signingKey string, lifetime time.Duration, logger logging.Logger) (*Codec, error) {
	if signingKey == "" {
		return nil, fmt.Errorf("token codec: signing key is required")
	}
	return &Codec{
		key:      []byte(signingKey),
		lifetime: lifetime,
		logger:   logger.With("module", "token_codec"),
	}, nil
}

// Lifetime returns the configured token validity duration.
func (c *Codec) Lifetime() time.Duration { return c.lifetime }

// Issue signs a token for the account, expiring after the configured
// lifetime.
func (c *Codec) Issue(account *models.Account) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		ID:    account.ID,
		Email: account.Email,
		Role:  account.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(c.lifetime)),
		},
	})

	signed, err := token.SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of a token string and returns its
// claims. Malformed, badly signed, and expired tokens all collapse to
// common.ErrInvalidToken for the caller; the distinction is only logged.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return c.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			c.logger.Debug(context.Background(), "token rejected", "reason", common.ErrTokenExpired.Error())
		} else {
			c.logger.Debug(context.Background(), "token rejected", "reason", "malformed or bad signature")
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// DecodeUnsafe decodes a token payload without checking the signature or
// expiry. Diagnostics only; the result must never feed an authorization
// decision.
func (c *Codec) DecodeUnsafe(tokenString string) *Claims {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil
	}
	return claims
}
