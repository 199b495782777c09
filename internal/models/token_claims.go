package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DenylistReason is the value stored against a denylisted token key.
type DenylistReason string

const (
	ReasonSignedOut       DenylistReason = "SIGNED_OUT"
	ReasonRevoked         DenylistReason = "REVOKED"
	ReasonChangedPassword DenylistReason = "CHANGED_PASSWORD"
)

// TokenClaims is the signed payload carried by every access and refresh
// token. Claims are never mutated after issuance; a new token is always
// a new claims object with a fresh TokenID.
//
// ExpiresAt is zero until the codec signs the claims; it is set from the
// configured TTL at signing time, never by the caller.
type TokenClaims struct {
	TokenID   string `json:"jti"`
	SubjectID string `json:"sub"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp,omitempty"`
}

// ----------------------------
// jwt.Claims implementation
// ----------------------------

func (c *TokenClaims) GetExpirationTime() (*jwt.NumericDate, error) {
	if c.ExpiresAt == 0 {
		return nil, nil
	}
	return jwt.NewNumericDate(time.Unix(c.ExpiresAt, 0)), nil
}

func (c *TokenClaims) GetIssuedAt() (*jwt.NumericDate, error) {
	if c.IssuedAt == 0 {
		return nil, nil
	}
	return jwt.NewNumericDate(time.Unix(c.IssuedAt, 0)), nil
}

func (c *TokenClaims) GetNotBefore() (*jwt.NumericDate, error) {
	return nil, nil
}

func (c *TokenClaims) GetIssuer() (string, error) {
	return "", nil
}

func (c *TokenClaims) GetSubject() (string, error) {
	return c.SubjectID, nil
}

func (c *TokenClaims) GetAudience() (jwt.ClaimStrings, error) {
	return nil, nil
}
