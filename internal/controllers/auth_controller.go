// internal/controllers/auth_controller.go
package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/nnminh-sam/watch-store-backend/internal/config"
	"github.com/nnminh-sam/watch-store-backend/internal/dtos"
	"github.com/nnminh-sam/watch-store-backend/internal/middleware"
	"github.com/nnminh-sam/watch-store-backend/internal/services"
	"github.com/nnminh-sam/watch-store-backend/internal/utils"
)

type AuthController struct {
	authService services.AuthService
	cfg         *config.Config
}

func NewAuthController(authService services.AuthService, cfg *config.Config) *AuthController {
	return &AuthController{authService: authService, cfg: cfg}
}

var validate = validator.New()

// ---------------------------------------------------------------------
// SignIn
// ---------------------------------------------------------------------

func (c *AuthController) SignIn(w http.ResponseWriter, r *http.Request) {
	var req dtos.SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid payload", nil, err,
		)
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, "Invalid email or password format", nil, err,
		)
		return
	}

	user, pair, err := c.authService.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrInvalidCredentials):
			utils.RespondErrorWithCode(
				w, http.StatusUnauthorized, utils.ErrCodeInvalidCredentials, "Invalid email or password", nil,
			)
		case errors.Is(err, utils.ErrAccountLocked):
			utils.RespondErrorWithCode(
				w, http.StatusForbidden, utils.ErrCodeLockedAccount, "Account temporarily locked", nil, err,
			)
		default:
			utils.RespondErrorWithCode(
				w, http.StatusInternalServerError, utils.ErrCodeInternal, "Sign-in failed", nil, err,
			)
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.AuthResponse{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// ---------------------------------------------------------------------
// SignUp
// ---------------------------------------------------------------------

func (c *AuthController) SignUp(w http.ResponseWriter, r *http.Request) {
	var req dtos.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid payload", nil, err,
		)
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, "Invalid registration payload", nil, err,
		)
		return
	}

	user, pair, err := c.authService.SignUp(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrEmailExists):
			utils.RespondErrorWithCode(
				w, http.StatusConflict, utils.ErrCodeConflict, "Email already registered", nil,
			)
		case errors.Is(err, utils.ErrPhoneExists):
			utils.RespondErrorWithCode(
				w, http.StatusConflict, utils.ErrCodeConflict, "Phone number already registered", nil,
			)
		default:
			utils.RespondErrorWithCode(
				w, http.StatusInternalServerError, utils.ErrCodeInternal, "Sign-up failed", nil, err,
			)
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, dtos.AuthResponse{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// ---------------------------------------------------------------------
// SignOut
// ---------------------------------------------------------------------

func (c *AuthController) SignOut(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromContext(r.Context())
	if token == "" {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Missing bearer token", nil,
		)
		return
	}

	if err := c.authService.SignOut(r.Context(), token); err != nil {
		respondAuthError(w, err, "Sign-out failed")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: "Signed out"})
}

// ---------------------------------------------------------------------
// RevokeTokens
// ---------------------------------------------------------------------

func (c *AuthController) RevokeTokens(w http.ResponseWriter, r *http.Request) {
	var req dtos.RevokeTokensRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid payload", nil, err,
		)
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, "Missing refresh token", nil, err,
		)
		return
	}

	claims := middleware.ClaimsFromContext(r.Context())
	accessToken := middleware.TokenFromContext(r.Context())

	pair, err := c.authService.RevokeTokens(r.Context(), claims, accessToken, req.RefreshToken)
	if err != nil {
		respondAuthError(w, err, "Token revocation failed")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.TokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// ---------------------------------------------------------------------
// UpdatePassword
// ---------------------------------------------------------------------

func (c *AuthController) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req dtos.UpdatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid payload", nil, err,
		)
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, "Invalid password payload", nil, err,
		)
		return
	}

	claims := middleware.ClaimsFromContext(r.Context())
	userID, err := uuid.Parse(claims.SubjectID)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid subject", nil, err,
		)
		return
	}

	if err := c.authService.ChangePassword(r.Context(), userID, req.Email, req.CurrentPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, utils.ErrInvalidCredentials):
			utils.RespondErrorWithCode(
				w, http.StatusUnauthorized, utils.ErrCodeInvalidCredentials, "Current password is incorrect", nil,
			)
		case errors.Is(err, utils.ErrCannotDenylist):
			utils.RespondErrorWithCode(
				w, http.StatusBadRequest, utils.ErrCodeCannotDenylist, "Cannot denylist token", nil, err,
			)
		default:
			utils.RespondErrorWithCode(
				w, http.StatusInternalServerError, utils.ErrCodeInternal, "Password update failed", nil, err,
			)
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: "Password updated"})
}

// ---------------------------------------------------------------------
// ForgotPassword
// ---------------------------------------------------------------------

func (c *AuthController) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req dtos.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid payload", nil, err,
		)
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, "Invalid email format", nil, err,
		)
		return
	}

	if err := c.authService.ForgotPassword(r.Context(), req.Email); err != nil {
		if errors.Is(err, utils.ErrUserNotFound) {
			utils.RespondErrorWithCode(
				w, http.StatusNotFound, utils.ErrCodeNotFound, "No account for that email", nil,
			)
			return
		}
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal, "Password reset failed", nil, err,
		)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: "A new password has been emailed"})
}

// respondAuthError maps service failures shared by the token-lifecycle
// endpoints onto HTTP responses.
func respondAuthError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, utils.ErrInvalidToken):
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeInvalidToken, "Invalid token", nil, err,
		)
	case errors.Is(err, utils.ErrCannotDenylist):
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeCannotDenylist, "Cannot denylist token", nil, err,
		)
	default:
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal, fallback, nil, err,
		)
	}
}
