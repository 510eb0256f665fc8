package user

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUsernameTaken     = errors.New("username already taken")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrInvalidUsername   = errors.New("username must be 3-32 characters of letters, digits, '_', '.' or '-'")
	ErrInvalidRoleCode   = errors.New("invalid role code")
)
