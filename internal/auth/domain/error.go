package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidUsername    = errors.New("invalid_username")
	ErrInvalidEmail       = errors.New("invalid_email")
	ErrInvalidPassword    = errors.New("invalid_password")
	ErrInvalidFullName    = errors.New("invalid_full_name")
	ErrInvalidPhone       = errors.New("invalid_phone")
	ErrUserNotFound       = errors.New("user_not_found")
	ErrUserExists         = errors.New("user_exists")
	ErrUserInactive       = errors.New("user_inactive")
	ErrSessionNotFound    = errors.New("session_not_found")
	ErrSessionExpired     = errors.New("session_expired")
	ErrSessionRevoked     = errors.New("session_revoked")
	ErrInvalidSession     = errors.New("invalid_session")
)
