// internal/services/token_codec.go
package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nnminh-sam/watch-store-backend/internal/config"
	"github.com/nnminh-sam/watch-store-backend/internal/models"
)

// ---------------------------------------------------------------------
// TokenCodec interface
// ---------------------------------------------------------------------

// TokenCodec signs and decodes token claims against a process-wide
// shared secret. Stateless.
type TokenCodec interface {
	// Sign sets the claims' expiry to now+ttl and produces the signed
	// compact encoding. The input claims are not mutated.
	Sign(claims *models.TokenClaims, ttl time.Duration) (string, error)

	// Decode verifies the signature and returns the embedded claims.
	// It returns nil on malformed input or signature mismatch. Expiry is
	// deliberately NOT checked here: expired tokens must still decode so
	// their identity can be recorded for revocation bookkeeping.
	Decode(tokenString string) *models.TokenClaims
}

// ---------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------

type tokenCodec struct {
	secret []byte
	now    func() time.Time
}

func NewTokenCodec(cfg *config.Config) TokenCodec {
	return &tokenCodec{
		secret: cfg.JWTSecret,
		now:    time.Now,
	}
}

func (c *tokenCodec) Sign(claims *models.TokenClaims, ttl time.Duration) (string, error) {
	signed := *claims
	signed.ExpiresAt = c.now().Add(ttl).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &signed)
	return token.SignedString(c.secret)
}

func (c *tokenCodec) Decode(tokenString string) *models.TokenClaims {
	claims := &models.TokenClaims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return c.secret, nil
		},
		// Expiry is inspected by the token manager, not the codec.
		jwt.WithoutClaimsValidation(),
	)
	if err != nil || !token.Valid {
		return nil
	}
	return claims
}
