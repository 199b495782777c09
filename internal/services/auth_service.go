// internal/services/auth_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/nnminh-sam/watch-store-backend/internal/config"
	"github.com/nnminh-sam/watch-store-backend/internal/dtos"
	"github.com/nnminh-sam/watch-store-backend/internal/models"
	"github.com/nnminh-sam/watch-store-backend/internal/repositories"
	"github.com/nnminh-sam/watch-store-backend/internal/utils"
)

// ---------------------------------------------------------------------
// AuthService interface
// ---------------------------------------------------------------------

// AuthService orchestrates the token lifecycle: sign-in, sign-up,
// sign-out, revocation, and password changes, including denylisting of
// superseded tokens.
type AuthService interface {
	SignIn(ctx context.Context, email, password string) (*models.User, *TokenPair, error)
	SignUp(ctx context.Context, req dtos.SignUpRequest) (*models.User, *TokenPair, error)

	// SignOut denylists the supplied access token. It deliberately uses
	// the decode path rather than full validation so that a token is
	// sign-out-able exactly once, even after other revocation events.
	SignOut(ctx context.Context, accessToken string) error

	// RevokeTokens denylists both supplied tokens and issues a fresh
	// pair for the same subject. Revoking an already-revoked token fails.
	RevokeTokens(ctx context.Context, claims *models.TokenClaims, accessToken, refreshToken string) (*TokenPair, error)

	// ChangePassword verifies the current password before mutating
	// anything, then records a password-change boundary that invalidates
	// every token issued before the change.
	ChangePassword(ctx context.Context, userID uuid.UUID, email, currentPassword, newPassword string) error

	// ForgotPassword replaces the user's password with a random one and
	// mails it. Existing sessions are left untouched.
	ForgotPassword(ctx context.Context, email string) error
}

// ---------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------

type authService struct {
	userRepo     repositories.UserRepository
	loginRepo    repositories.LoginAttemptsRepository
	cartService  CartService
	mailService  MailService
	denylist     TokenDenylist
	tokenManager TokenManager
	cfg          *config.Config
	now          func() time.Time
}

func NewAuthService(
	userRepo repositories.UserRepository,
	loginRepo repositories.LoginAttemptsRepository,
	cartService CartService,
	mailService MailService,
	denylist TokenDenylist,
	tokenManager TokenManager,
	cfg *config.Config,
) AuthService {
	return &authService{
		userRepo:     userRepo,
		loginRepo:    loginRepo,
		cartService:  cartService,
		mailService:  mailService,
		denylist:     denylist,
		tokenManager: tokenManager,
		cfg:          cfg,
		now:          time.Now,
	}
}

// baseClaims builds fresh claims for one issuance: a new token id and
// the current time. Never reused across calls.
func (s *authService) baseClaims(user *models.User) *models.TokenClaims {
	return &models.TokenClaims{
		TokenID:   uuid.NewString(),
		SubjectID: user.ID.String(),
		Email:     user.Email,
		Role:      user.Role,
		IssuedAt:  s.now().Unix(),
	}
}

// ---------------------------------------------------------------------
// SignIn
// ---------------------------------------------------------------------

func (s *authService) SignIn(ctx context.Context, email, password string) (*models.User, *TokenPair, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("looking up user: %w", err)
	}
	if user == nil {
		return nil, nil, utils.ErrInvalidCredentials
	}

	if _, err := s.loginRepo.GetOrCreate(ctx, user.ID); err != nil {
		utils.Logger.WithError(err).Error("Failed to get or create login attempt record")
		return nil, nil, fmt.Errorf("login attempt bookkeeping: %w", err)
	}

	locked, lockedUntil, err := s.loginRepo.IsLocked(ctx, user.ID)
	if err == nil && locked {
		return nil, nil, fmt.Errorf("%w: until %s", utils.ErrAccountLocked, lockedUntil.Format(time.RFC3339))
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		if incErr := s.loginRepo.Increment(ctx, user.ID, s.cfg.LockDuration, s.cfg.AttemptWindow, s.cfg.MaxLoginAttempts); incErr != nil {
			utils.Logger.WithError(incErr).Error("Failed to increment login attempts")
		}
		return nil, nil, utils.ErrInvalidCredentials
	}
	_ = s.loginRepo.Reset(ctx, user.ID)

	pair, err := s.tokenManager.IssuePair(ctx, s.baseClaims(user))
	if err != nil {
		utils.Logger.WithError(err).Error("Failed to issue token pair on sign-in")
		return nil, nil, fmt.Errorf("issuing tokens: %w", err)
	}

	return user, pair, nil
}

// ---------------------------------------------------------------------
// SignUp
// ---------------------------------------------------------------------

func (s *authService) SignUp(ctx context.Context, req dtos.SignUpRequest) (*models.User, *TokenPair, error) {
	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("checking email uniqueness: %w", err)
	}
	if existing != nil {
		return nil, nil, utils.ErrEmailExists
	}

	if req.PhoneNumber != nil && *req.PhoneNumber != "" {
		existing, err = s.userRepo.GetByPhoneNumber(ctx, *req.PhoneNumber)
		if err != nil {
			return nil, nil, fmt.Errorf("checking phone uniqueness: %w", err)
		}
		if existing != nil {
			return nil, nil, utils.ErrPhoneExists
		}
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         models.RoleCustomer,
		PasswordHash: passwordHash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("creating user: %w", err)
	}

	// Cart creation is part of the sign-up contract. If it fails the
	// user row is removed again so the two never diverge.
	if _, err := s.cartService.CreateForUser(ctx, user.ID); err != nil {
		if delErr := s.userRepo.Delete(ctx, user.ID); delErr != nil {
			utils.Logger.WithError(delErr).Errorf("Failed to remove user %s after cart creation failure", user.ID)
		}
		return nil, nil, fmt.Errorf("creating cart: %w", err)
	}

	go s.mailService.SendWelcomeEmail(context.Background(), user.Email, user.FirstName)

	pair, err := s.tokenManager.IssuePair(ctx, s.baseClaims(user))
	if err != nil {
		utils.Logger.WithError(err).Error("Failed to issue token pair on sign-up")
		return nil, nil, fmt.Errorf("issuing tokens: %w", err)
	}

	return user, pair, nil
}

// ---------------------------------------------------------------------
// SignOut
// ---------------------------------------------------------------------

func (s *authService) SignOut(ctx context.Context, accessToken string) error {
	claims := s.tokenManager.Decode(accessToken)
	if claims == nil {
		return fmt.Errorf("%w: cannot decode token", utils.ErrInvalidToken)
	}

	denied, err := s.denylist.IsDenylisted(ctx, claims)
	if err != nil {
		return fmt.Errorf("checking denylist: %w", err)
	}
	if denied {
		return fmt.Errorf("%w: already signed out", utils.ErrInvalidToken)
	}

	return s.denylist.Denylist(ctx, claims, models.ReasonSignedOut)
}

// ---------------------------------------------------------------------
// RevokeTokens
// ---------------------------------------------------------------------

func (s *authService) RevokeTokens(ctx context.Context, claims *models.TokenClaims, accessToken, refreshToken string) (*TokenPair, error) {
	accessClaims := s.tokenManager.Decode(accessToken)
	if accessClaims == nil {
		return nil, fmt.Errorf("%w: cannot decode access token", utils.ErrInvalidToken)
	}
	refreshClaims := s.tokenManager.Decode(refreshToken)
	if refreshClaims == nil {
		return nil, fmt.Errorf("%w: cannot decode refresh token", utils.ErrInvalidToken)
	}

	// Double-revoke protection: revoking an already-revoked token fails.
	for _, c := range []*models.TokenClaims{accessClaims, refreshClaims} {
		denied, err := s.denylist.IsDenylisted(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("checking denylist: %w", err)
		}
		if denied {
			return nil, fmt.Errorf("%w: token already revoked", utils.ErrInvalidToken)
		}
	}

	// Both denylist writes run concurrently; the call fails unless both
	// succeed.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.denylist.Denylist(gctx, accessClaims, models.ReasonRevoked)
	})
	g.Go(func() error {
		return s.denylist.Denylist(gctx, refreshClaims, models.ReasonRevoked)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	fresh := &models.TokenClaims{
		TokenID:   uuid.NewString(),
		SubjectID: claims.SubjectID,
		Email:     claims.Email,
		Role:      claims.Role,
		IssuedAt:  s.now().Unix(),
	}
	pair, err := s.tokenManager.IssuePair(ctx, fresh)
	if err != nil {
		utils.Logger.WithError(err).Error("Failed to issue replacement token pair on revoke")
		return nil, fmt.Errorf("issuing tokens: %w", err)
	}
	return pair, nil
}

// ---------------------------------------------------------------------
// ChangePassword
// ---------------------------------------------------------------------

func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, email, currentPassword, newPassword string) error {
	// Resolved by the authenticated subject, not the submitted email:
	// the email only confirms the caller knows whose password this is.
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("looking up user: %w", err)
	}
	if user == nil || user.Email != email || !utils.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return utils.ErrInvalidCredentials
	}

	newHash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, newHash); err != nil {
		return fmt.Errorf("updating password: %w", err)
	}

	// A synthetic denylist entry marks the password-change boundary; the
	// far-future expiry keeps it alive long past any outstanding token,
	// invalidating them all without enumerating them.
	boundary := &models.TokenClaims{
		TokenID:   uuid.NewString(),
		SubjectID: userID.String(),
		Email:     email,
		Role:      user.Role,
		IssuedAt:  s.now().Unix(),
		ExpiresAt: s.now().Add(s.cfg.PasswordChangeGuardWindow).Unix(),
	}
	return s.denylist.Denylist(ctx, boundary, models.ReasonChangedPassword)
}

// ---------------------------------------------------------------------
// ForgotPassword
// ---------------------------------------------------------------------

func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("looking up user: %w", err)
	}
	if user == nil {
		return utils.ErrUserNotFound
	}

	newPassword := utils.RandomPassword(s.cfg.TempPasswordLength)
	newHash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, newHash); err != nil {
		return fmt.Errorf("updating password: %w", err)
	}

	go s.mailService.SendNewPasswordEmail(context.Background(), user.Email, newPassword)

	return nil
}
