// internal/utils/errors.go
package utils

import "errors"

// Domain-level errors used by the service layer to provide
// fine-grained failure reasons.
var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidToken       = errors.New("invalid_token")
	ErrEmailExists        = errors.New("email_exists")
	ErrPhoneExists        = errors.New("phone_exists")
	ErrUserNotFound       = errors.New("user_not_found")
	ErrCannotDenylist     = errors.New("cannot_denylist_token")
	ErrAccountLocked      = errors.New("locked_account")
)
