// internal/services/token_manager.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nnminh-sam/watch-store-backend/internal/config"
	"github.com/nnminh-sam/watch-store-backend/internal/models"
	"github.com/nnminh-sam/watch-store-backend/internal/utils"
)

// TokenPair is the result of one issuance: a short-lived access token
// and a long-lived refresh token sharing subject, email, role, and
// issuance time, but carrying distinct token ids.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// ---------------------------------------------------------------------
// TokenManager interface
// ---------------------------------------------------------------------

// TokenManager is the only path by which tokens are created or judged
// valid.
type TokenManager interface {
	// IssuePair signs an access and a refresh token from the same base
	// claims. The refresh token receives a fresh token id; ids are never
	// reused across the pair.
	IssuePair(ctx context.Context, claims *models.TokenClaims) (*TokenPair, error)

	// Validate runs the full predicate chain: decode, expiry present,
	// not expired, known role, not denylisted, not invalidated by a
	// later password change. Each check short-circuits; there is no
	// partial validity.
	Validate(ctx context.Context, tokenString string) (*models.TokenClaims, error)

	// Decode exposes the codec's signature-only check for flows that
	// must accept expired or revoked tokens (sign-out bookkeeping).
	Decode(tokenString string) *models.TokenClaims
}

// ---------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------

type tokenManager struct {
	codec         TokenCodec
	denylist      TokenDenylist
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	now           func() time.Time
}

func NewTokenManager(cfg *config.Config, codec TokenCodec, denylist TokenDenylist) TokenManager {
	return &tokenManager{
		codec:         codec,
		denylist:      denylist,
		accessExpiry:  cfg.AccessTokenExpiry,
		refreshExpiry: cfg.RefreshTokenExpiry,
		now:           time.Now,
	}
}

func (m *tokenManager) IssuePair(ctx context.Context, claims *models.TokenClaims) (*TokenPair, error) {
	accessToken, err := m.codec.Sign(claims, m.accessExpiry)
	if err != nil {
		return nil, fmt.Errorf("signing access token: %w", err)
	}

	refreshClaims := *claims
	refreshClaims.TokenID = uuid.NewString()
	refreshToken, err := m.codec.Sign(&refreshClaims, m.refreshExpiry)
	if err != nil {
		return nil, fmt.Errorf("signing refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (m *tokenManager) Validate(ctx context.Context, tokenString string) (*models.TokenClaims, error) {
	claims := m.codec.Decode(tokenString)
	if claims == nil {
		return nil, fmt.Errorf("%w: malformed token or bad signature", utils.ErrInvalidToken)
	}
	if claims.ExpiresAt == 0 {
		return nil, fmt.Errorf("%w: missing expiry", utils.ErrInvalidToken)
	}
	if m.now().Unix() > claims.ExpiresAt {
		return nil, fmt.Errorf("%w: expired", utils.ErrInvalidToken)
	}
	if !claims.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", utils.ErrInvalidToken, claims.Role)
	}

	denied, err := m.denylist.IsDenylisted(ctx, claims)
	if err != nil {
		return nil, fmt.Errorf("checking denylist: %w", err)
	}
	if denied {
		return nil, fmt.Errorf("%w: denylisted", utils.ErrInvalidToken)
	}

	invalidated, err := m.denylist.IsInvalidatedByPasswordChange(ctx, claims)
	if err != nil {
		return nil, fmt.Errorf("checking password-change invalidation: %w", err)
	}
	if invalidated {
		return nil, fmt.Errorf("%w: password changed after issuance", utils.ErrInvalidToken)
	}

	return claims, nil
}

func (m *tokenManager) Decode(tokenString string) *models.TokenClaims {
	return m.codec.Decode(tokenString)
}
