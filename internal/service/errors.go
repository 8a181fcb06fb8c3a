package service

import "errors"

var (
	ErrDuplicateUsername    = errors.New("registration failed: username already exists")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrSessionExpired       = errors.New("session is invalid or expired")
	ErrTaskNotFound         = errors.New("task not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrInternalServer       = errors.New("internal server error")
)
