package domain

import "errors"

var (
	ErrEmailConflict      = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrInvalidInput       = errors.New("invalid input")
	ErrStorage            = errors.New("storage failure")
	ErrInvalidToken       = errors.New("invalid token")
)
