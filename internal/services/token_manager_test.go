package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nnminh-sam/watch-store-backend/internal/models"
	"github.com/nnminh-sam/watch-store-backend/internal/utils"
)

func newTestManager(t *testing.T, clock *testClock) (*tokenManager, *tokenDenylist) {
	t.Helper()
	codec := newTestCodec(t, clock)
	denylist, _ := newTestDenylist(clock)
	manager := NewTokenManager(testConfig(), codec, denylist).(*tokenManager)
	manager.now = clock.Now
	return manager, denylist
}

func TestIssuePair_DistinctTokenIDs(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock(time.Unix(1_700_000_000, 0))
	manager, _ := newTestManager(t, clock)

	pair, err := manager.IssuePair(ctx, sampleClaims(clock))
	require.NoError(t, err)

	access := manager.Decode(pair.AccessToken)
	refresh := manager.Decode(pair.RefreshToken)
	require.NotNil(t, access)
	require.NotNil(t, refresh)
	require.NotEqual(t, access.TokenID, refresh.TokenID)
	require.Equal(t, access.SubjectID, refresh.SubjectID)
	require.Equal(t, access.IssuedAt, refresh.IssuedAt)
}

func TestIssuePair_RefreshOutlivesAccess(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock(time.Unix(1_700_000_000, 0))
	manager, _ := newTestManager(t, clock)

	pair, err := manager.IssuePair(ctx, sampleClaims(clock))
	require.NoError(t, err)

	access := manager.Decode(pair.AccessToken)
	refresh := manager.Decode(pair.RefreshToken)
	require.Greater(t, refresh.ExpiresAt, access.ExpiresAt)
}

func TestValidate_AcceptsFreshToken(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock(time.Unix(1_700_000_000, 0))
	manager, _ := newTestManager(t, clock)

	pair, err := manager.IssuePair(ctx, sampleClaims(clock))
	require.NoError(t, err)

	claims, err := manager.Validate(ctx, pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "customer@example.com", claims.Email)
}

func TestValidate_RejectsMalformedToken(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock(time.Unix(1_700_000_000, 0))
	manager, _ := newTestManager(t, clock)

	_, err := manager.Validate(ctx, "not-a-token")
	require.ErrorIs(t, err, utils.ErrInvalidToken)
}

func TestValidate_RejectsExpiredToken(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock(time.Unix(1_700_000_000, 0))
	manager, _ := newTestManager(t, clock)

	pair, err := manager.IssuePair(ctx, sampleClaims(clock))
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)
	_, err = manager.Validate(ctx, pair.AccessToken)
	require.ErrorIs(t, err, utils.ErrInvalidToken)

	// The refresh token is still inside its window.
	_, err = manager.Validate(ctx, pair.RefreshToken)
	require.NoError(t, err)
}

func TestValidate_RejectsMissingExpiry(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock(time.Unix(1_700_000_000, 0))
	manager, _ := newTestManager(t, clock)

	codec := newTestCodec(t, clock)
	claims := sampleClaims(clock)
	signed, err := codec.Sign(claims, -time.Duration(clock.Now().Unix())*time.Second)
	require.NoError(t, err)
	decoded := codec.Decode(signed)
	require.NotNil(t, decoded)
	require.Zero(t, decoded.ExpiresAt)

	_, err = manager.Validate(ctx, signed)
	require.ErrorIs(t, err, utils.ErrInvalidToken)
}

func TestValidate_RejectsDenylistedToken(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock(time.Unix(1_700_000_000, 0))
	manager, denylist := newTestManager(t, clock)

	pair, err := manager.IssuePair(ctx, sampleClaims(clock))
	require.NoError(t, err)

	claims, err := manager.Validate(ctx, pair.AccessToken)
	require.NoError(t, err)
	require.NoError(t, denylist.Denylist(ctx, claims, models.ReasonSignedOut))

	_, err = manager.Validate(ctx, pair.AccessToken)
	require.ErrorIs(t, err, utils.ErrInvalidToken)
}

func TestValidate_RejectsTokenIssuedBeforePasswordChange(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock(time.Unix(1_700_000_000, 0))
	manager, denylist := newTestManager(t, clock)

	base := sampleClaims(clock)
	pair, err := manager.IssuePair(ctx, base)
	require.NoError(t, err)

	clock.Advance(time.Minute)
	boundary := claimsAt(clock, base.SubjectID, 10*24*time.Hour)
	require.NoError(t, denylist.Denylist(ctx, boundary, models.ReasonChangedPassword))

	_, err = manager.Validate(ctx, pair.AccessToken)
	require.ErrorIs(t, err, utils.ErrInvalidToken)
	_, err = manager.Validate(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, utils.ErrInvalidToken)

	// A pair issued after the change validates normally.
	clock.Advance(time.Minute)
	fresh, err := manager.IssuePair(ctx, &models.TokenClaims{
		TokenID:   base.TokenID,
		SubjectID: base.SubjectID,
		Email:     base.Email,
		Role:      base.Role,
		IssuedAt:  clock.Now().Unix(),
	})
	require.NoError(t, err)
	_, err = manager.Validate(ctx, fresh.AccessToken)
	require.NoError(t, err)
}
