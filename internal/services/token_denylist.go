// internal/services/token_denylist.go
package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nnminh-sam/watch-store-backend/internal/models"
	"github.com/nnminh-sam/watch-store-backend/internal/repositories"
	"github.com/nnminh-sam/watch-store-backend/internal/utils"
)

const (
	denylistKeyPrefix = "BlackListedToken"

	// denylistTTLMargin keeps the entry alive slightly past the token's
	// own expiry to guard against clock skew between nodes.
	denylistTTLMargin = 10 * time.Second

	denylistScanPageSize = 100
)

// ---------------------------------------------------------------------
// TokenDenylist interface
// ---------------------------------------------------------------------

// TokenDenylist records and queries revocation state, backed by a
// TTL-capable key-value store. Entries self-expire with the token they
// guard; there is no explicit deletion path.
type TokenDenylist interface {
	// Denylist stores reason against the claims' identity with a TTL of
	// the token's remaining lifetime plus a small margin. Claims without
	// an expiry cannot be denylisted. Denylisting an already-expired
	// token is a no-op success: the expiry check rejects it anyway.
	Denylist(ctx context.Context, claims *models.TokenClaims, reason models.DenylistReason) error

	// IsDenylisted reports whether this exact token identity has been
	// denylisted. Claims missing subject, token id, or issuance time are
	// never considered denylisted.
	IsDenylisted(ctx context.Context, claims *models.TokenClaims) (bool, error)

	// IsInvalidatedByPasswordChange reports whether a password change
	// was recorded for the claims' subject after the claims were issued.
	// The scan is exhaustive: it pages through the store until the
	// cursor signals completion.
	IsInvalidatedByPasswordChange(ctx context.Context, claims *models.TokenClaims) (bool, error)
}

// ---------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------

type tokenDenylist struct {
	kv  repositories.KVStore
	now func() time.Time
}

func NewTokenDenylist(kv repositories.KVStore) TokenDenylist {
	return &tokenDenylist{
		kv:  kv,
		now: time.Now,
	}
}

// denylistKey builds the structured key for one token identity. Empty
// tokenID/issuedAt become "*" so the result doubles as a scan pattern.
func denylistKey(subjectID, tokenID, issuedAt string) string {
	if tokenID == "" {
		tokenID = "*"
	}
	if issuedAt == "" {
		issuedAt = "*"
	}
	return fmt.Sprintf("%s_%s_%s_%s", denylistKeyPrefix, subjectID, tokenID, issuedAt)
}

func (d *tokenDenylist) Denylist(ctx context.Context, claims *models.TokenClaims, reason models.DenylistReason) error {
	if claims.ExpiresAt == 0 {
		return fmt.Errorf("%w: claims have no expiry", utils.ErrCannotDenylist)
	}

	remaining := time.Duration(claims.ExpiresAt-d.now().Unix()) * time.Second
	if remaining <= 0 {
		// Already past expiry; the manager's expiry check rejects it.
		return nil
	}

	key := denylistKey(claims.SubjectID, claims.TokenID, strconv.FormatInt(claims.IssuedAt, 10))
	if err := d.kv.SetWithTTL(ctx, key, string(reason), remaining+denylistTTLMargin); err != nil {
		return fmt.Errorf("%w: %v", utils.ErrCannotDenylist, err)
	}
	return nil
}

func (d *tokenDenylist) IsDenylisted(ctx context.Context, claims *models.TokenClaims) (bool, error) {
	if claims.SubjectID == "" || claims.TokenID == "" || claims.IssuedAt == 0 {
		return false, nil
	}

	key := denylistKey(claims.SubjectID, claims.TokenID, strconv.FormatInt(claims.IssuedAt, 10))
	_, ok, err := d.kv.Get(ctx, key)
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (d *tokenDenylist) IsInvalidatedByPasswordChange(ctx context.Context, claims *models.TokenClaims) (bool, error) {
	if claims.SubjectID == "" {
		return false, nil
	}

	pattern := denylistKey(claims.SubjectID, "", "")

	var (
		latest int64
		cursor uint64
	)
	for {
		keys, next, err := d.kv.Scan(ctx, cursor, pattern, denylistScanPageSize)
		if err != nil {
			return false, err
		}
		for _, key := range keys {
			reason, ok, err := d.kv.Get(ctx, key)
			if err != nil {
				return false, err
			}
			if !ok || reason != string(models.ReasonChangedPassword) {
				continue
			}
			issuedAt, err := issuedAtFromKey(key)
			if err != nil {
				continue
			}
			if issuedAt > latest {
				latest = issuedAt
			}
		}
		if next == 0 {
			break
		}
		cursor = next
	}

	return latest > claims.IssuedAt, nil
}

func issuedAtFromKey(key string) (int64, error) {
	idx := strings.LastIndex(key, "_")
	if idx < 0 {
		return 0, fmt.Errorf("malformed denylist key %q", key)
	}
	return strconv.ParseInt(key[idx+1:], 10, 64)
}
